package querycache

// Пространство ключей запросов. Семейства вложены: инвалидация по префиксу
// Tickets затрагивает TicketDetail, TicketStatusCount и остальные ключи тикетов.
var (
	Auth = NewKey("auth")

	Stores       = NewKey("stores")
	StoresList   = Stores.With("list")
	StoresDetail = Stores.With("detail")

	Locations           = NewKey("locations")
	LocationsList       = Locations.With("list")
	LocationsDetail     = Locations.With("detail")
	Countries           = Locations.With("countries")
	SubLocations        = Locations.With("sublocations")
	LocationHierarchies = Locations.With("hierarchies")

	Roles       = NewKey("roles")
	RolesList   = Roles.With("list")
	RolesDetail = Roles.With("detail")

	Menus       = NewKey("menus")
	MenusByRole = Menus.With("by-role")
	ActiveMenus = Menus.With("active_menus")

	Users       = NewKey("users")
	UsersList   = Users.With("list")
	UsersDetail = Users.With("detail")

	WorkCategories   = NewKey("work-categories")
	FloorAreas       = NewKey("floor-areas")
	RoomAreas        = NewKey("room-areas")
	ReasonPendings   = NewKey("reason-pendings")
	ReasonTransfers  = NewKey("reason-transfers")
	ReasonRejects    = NewKey("reason-rejects")
	TicketPriorities = NewKey("ticket-priorities")

	Tickets           = NewKey("tickets")
	TicketStatusCount = Tickets.With("status-count")
	TicketDetail      = Tickets.With("detail")
	TicketActivities  = Tickets.With("activities")
	TicketHistories   = Tickets.With("histories")

	Assignees = NewKey("assignees")

	Dashboard = NewKey("dashboard")
)

// DashboardMetric возвращает ключ семейства метрики дашборда.
func DashboardMetric(metric string) Key {
	return Dashboard.With(metric)
}
