package model

// --- Магазины ---

// Store — магазин (StoreResponse).
type Store struct {
	UUID         string `json:"uuid"`
	Code         string `json:"code"`
	StoreName    string `json:"store_name"`
	Address      string `json:"address"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	LocationName string `json:"location_name,omitempty"`
	LocationUUID string `json:"location_uuid,omitempty"`
}

// StoreRequest — тело создания и обновления магазина.
// UUID — идентификатор локации, к которой относится магазин.
type StoreRequest struct {
	Code           string `json:"code,omitempty"`
	StoreName      string `json:"store_name"`
	Address        string `json:"address,omitempty"`
	UUID           string `json:"uuid"`
	PostalCode     string `json:"postal_code,omitempty"`
	Country        string `json:"country,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	IsStoreBelongs *bool  `json:"is_store_belongs,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
	LastActionBy   string `json:"last_action_by"`
}

// --- Категории работ ---

type WorkCategory struct {
	UUID         string `json:"uuid"`
	CategoryName string `json:"category_name"`
	CategoryCode string `json:"category_code"`
}

type WorkCategoryRequest struct {
	CategoryName string `json:"category_name"`
	CategoryCode string `json:"category_code,omitempty"`
	LastActionBy string `json:"last_action_by"`
}

// --- Зоны этажей и помещений ---

type FloorArea struct {
	UUID          string `json:"uuid"`
	FloorAreaName string `json:"floor_area_name"`
}

type FloorAreaRequest struct {
	FloorAreaName string `json:"floor_area_name"`
	LastActionBy  string `json:"last_action_by"`
}

type RoomArea struct {
	UUID         string `json:"uuid"`
	RoomAreaName string `json:"room_area_name"`
}

type RoomAreaRequest struct {
	RoomAreaName string `json:"room_area_name"`
	LastActionBy string `json:"last_action_by"`
}

// --- Причины (pending / transfer / reject) ---

type ReasonPending struct {
	UUID              string `json:"uuid"`
	ReasonPendingName string `json:"reason_pending_name"`
	TimeLimit         int    `json:"time_limit"`
}

type ReasonPendingRequest struct {
	ReasonPendingName string `json:"reason_pending_name"`
	TimeLimit         int    `json:"time_limit"`
	LastActionBy      string `json:"last_action_by"`
}

type ReasonTransfer struct {
	UUID               string `json:"uuid"`
	ReasonTransferName string `json:"reason_transfer_name"`
	TimeLimit          int    `json:"time_limit"`
}

type ReasonTransferRequest struct {
	ReasonTransferName string `json:"reason_transfer_name"`
	TimeLimit          int    `json:"time_limit"`
	LastActionBy       string `json:"last_action_by"`
}

type ReasonReject struct {
	UUID             string `json:"uuid"`
	ReasonRejectName string `json:"reason_reject_name"`
}

type ReasonRejectRequest struct {
	ReasonRejectName string `json:"reason_reject_name"`
	LastActionBy     string `json:"last_action_by"`
}

// --- Приоритеты тикетов ---

// TicketPriority — приоритет в форме бэкенда: SLA может быть null.
type TicketPriority struct {
	UUID              string   `json:"uuid"`
	PriorityCode      string   `json:"priority_code"`
	PriorityName      string   `json:"priority_name"`
	PriorityLevel     int      `json:"priority_level"`
	Description       string   `json:"description,omitempty"`
	SLAResponseTime   *float64 `json:"sla_response_time"`
	SLAResolutionTime *float64 `json:"sla_resolution_time"`
	ColorCode         *string  `json:"color_code,omitempty"`
}

// TicketPriorityRequest — тело создания и обновления приоритета.
// SLAResponseTime задаётся в часах, SLAResolutionTime — в днях.
type TicketPriorityRequest struct {
	PriorityCode      string   `json:"priority_code"`
	PriorityName      string   `json:"priority_name"`
	PriorityLevel     int      `json:"priority_level"`
	SLAResponseTime   *float64 `json:"sla_response_time,omitempty"`
	SLAResolutionTime *float64 `json:"sla_resolution_time,omitempty"`
	Description       *string  `json:"description,omitempty"`
	ColorCode         *string  `json:"color_code,omitempty"`
	LastActionBy      string   `json:"last_action_by"`
}

// PriorityView — приоритет в форме для потребителей: SLA без null,
// ID дублирует UUID.
type PriorityView struct {
	ID                string  `json:"id"`
	UUID              string  `json:"uuid"`
	PriorityCode      string  `json:"priority_code"`
	PriorityName      string  `json:"priority_name"`
	PriorityLevel     int     `json:"priority_level"`
	Description       string  `json:"description"`
	SLAResponseTime   float64 `json:"sla_response_time"`
	SLAResolutionTime float64 `json:"sla_resolution_time"`
}

// View приводит приоритет бэкенда к PriorityView (null SLA → 0).
func (p TicketPriority) View() PriorityView {
	v := PriorityView{
		ID:            p.UUID,
		UUID:          p.UUID,
		PriorityCode:  p.PriorityCode,
		PriorityName:  p.PriorityName,
		PriorityLevel: p.PriorityLevel,
		Description:   p.Description,
	}
	if p.SLAResponseTime != nil {
		v.SLAResponseTime = *p.SLAResponseTime
	}
	if p.SLAResolutionTime != nil {
		v.SLAResolutionTime = *p.SLAResolutionTime
	}
	return v
}

// PriorityPage — список приоритетов в форме PriorityView.
type PriorityPage struct {
	Data       []PriorityView `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// --- Роли и меню ---

type Role struct {
	UUID     string `json:"uuid"`
	RoleName string `json:"role_name"`
	RoleCode string `json:"role_code"`
	IsActive bool   `json:"is_active"`
}

// MenuPermission — права роли на пункт меню.
type MenuPermission struct {
	MenuID    int    `json:"menu_id"`
	UUID      string `json:"uuid"`
	MenuName  string `json:"menu_name"`
	URLMenu   string `json:"url_menu"`
	CanCreate bool   `json:"can_create"`
	CanRead   bool   `json:"can_read"`
	CanUpdate bool   `json:"can_update"`
	CanDelete bool   `json:"can_delete"`
}

type RoleDetail struct {
	UUID     string           `json:"uuid"`
	RoleName string           `json:"role_name"`
	RoleCode string           `json:"role_code"`
	Menus    []MenuPermission `json:"menus"`
}

// MenuGrant — назначение прав на меню при обновлении роли.
type MenuGrant struct {
	UUID        string `json:"uuid"`
	CanView     bool   `json:"can_view"`
	CanCreate   bool   `json:"can_create"`
	CanRead     bool   `json:"can_read"`
	CanUpdate   bool   `json:"can_update"`
	CanDelete   bool   `json:"can_delete"`
	CanPending  bool   `json:"can_pending"`
	CanTransfer bool   `json:"can_transfer"`
}

type RoleRequest struct {
	RoleName     string      `json:"role_name"`
	RoleCode     string      `json:"role_code,omitempty"`
	IsActive     *bool       `json:"is_active,omitempty"`
	Menus        []MenuGrant `json:"menus,omitempty"`
	LastActionBy string      `json:"last_action_by"`
}

type Menu struct {
	UUID         string `json:"uuid"`
	MenuName     string `json:"menu_name"`
	URLMenu      string `json:"url_menu"`
	ParentMenuID *int   `json:"parent_menu_id"`
	MenuOrderID  int    `json:"menu_order_id"`
}

// MenuNode — пункт меню с вложенными подменю.
type MenuNode struct {
	UUID        string     `json:"uuid"`
	MenuName    string     `json:"menu_name"`
	URLMenu     string     `json:"url_menu"`
	MenuOrderID int        `json:"menu_order_id"`
	SubMenus    []MenuNode `json:"sub_menus,omitempty"`
}

type MenuRequest struct {
	MenuName     string `json:"menu_name"`
	URLMenu      string `json:"url_menu,omitempty"`
	ParentMenuID *int   `json:"parent_menu_id,omitempty"`
	MenuOrderID  int    `json:"menu_order_id"`
	IsActive     *bool  `json:"is_active,omitempty"`
	LastActionBy string `json:"last_action_by"`
}

// --- Локации ---

// LocationType — уровень локации.
type LocationType string

const (
	LocationCountry     LocationType = "country"
	LocationProvince    LocationType = "province"
	LocationCity        LocationType = "city"
	LocationDistrict    LocationType = "district"
	LocationSubDistrict LocationType = "sub-district"
)

type Location struct {
	UUID         string       `json:"uuid"`
	LocationName string       `json:"location_name"`
	Type         LocationType `json:"type"`
	ParentName   string       `json:"parent_name,omitempty"`
	ParentUUID   string       `json:"parent_uuid,omitempty"`
}

// LocationHierarchy — локация и цепочка её родителей.
type LocationHierarchy struct {
	Location Location   `json:"location"`
	Parents  []Location `json:"parents"`
}

type LocationRequest struct {
	LocationName string       `json:"location_name"`
	Type         LocationType `json:"type"`
	ParentUUID   *string      `json:"parent_uuid"`
	LastActionBy string       `json:"last_action_by"`
}

// --- Исполнители ---

// AssignType — тип исполнителя тикета.
type AssignType string

const (
	AssignVendor   AssignType = "vendor"
	AssignInternal AssignType = "internal"
)

// ParseAssignType разбирает строку в AssignType.
func ParseAssignType(s string) (AssignType, bool) {
	switch AssignType(s) {
	case AssignVendor, AssignInternal:
		return AssignType(s), true
	}
	return "", false
}

func (t AssignType) IsVendor() bool   { return t == AssignVendor }
func (t AssignType) IsInternal() bool { return t == AssignInternal }

// Label — отображаемое имя типа: Vendor, Internal или «-».
func (t AssignType) Label() string {
	switch t {
	case AssignVendor:
		return "Vendor"
	case AssignInternal:
		return "Internal"
	}
	return "-"
}

type Assignee struct {
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	PICName    string `json:"pic_name,omitempty"`
	PICContact string `json:"pic_contact,omitempty"`
}
