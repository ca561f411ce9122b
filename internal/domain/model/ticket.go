package model

import "strings"

// TicketListItem — строка списка тикетов.
type TicketListItem struct {
	TicketNumber     string `json:"ticket_number"`
	WorkCategoryName string `json:"work_category_name"`
	Description      string `json:"description"`
	PriorityName     string `json:"priority_name"`
	RequesterName    string `json:"requester_name"`
	CreatedAt        string `json:"created_at"`
	TicketStatus     string `json:"ticket_status"`
}

type TicketImage struct {
	UUID     string `json:"uuid"`
	ImageURL string `json:"image_url"`
}

// TicketDetail — полная карточка тикета.
type TicketDetail struct {
	TicketID            int           `json:"ticket_id"`
	UUID                string        `json:"uuid"`
	TicketNumber        string        `json:"ticket_number"`
	StoreID             int           `json:"store_id"`
	StoreName           string        `json:"store_name"`
	RequesterName       string        `json:"requester_name"`
	StorePhoneNumber    string        `json:"store_phone_number"`
	StoreAddress        string        `json:"store_address"`
	WorkCategoryID      int           `json:"work_category_id"`
	WorkCategoryName    string        `json:"work_category_name"`
	RoomAreaID          int           `json:"room_area_id"`
	RoomAreaName        string        `json:"room_area_name"`
	FloorAreaID         int           `json:"floor_area_id"`
	FloorAreaName       string        `json:"floor_area_name"`
	TicketStatus        string        `json:"ticket_status"`
	PriorityID          int           `json:"priority_id"`
	PriorityName        string        `json:"priority_name"`
	AssignedTo          *string       `json:"assigned_to"`
	AssignType          *string       `json:"assign_type"`
	AssigneeName        *string       `json:"assignee_name"`
	AssigneeDisplayName *string       `json:"assignee_display_name"`
	DueSLAResponse      string        `json:"due_sla_response"`
	DueSLAResolution    string        `json:"due_sla_resolution"`
	Description         string        `json:"description"`
	CreatedBy           string        `json:"created_by"`
	CreatedAt           string        `json:"created_at"`
	UpdatedAt           string        `json:"updated_at"`
	Images              []TicketImage `json:"images"`
}

// Flags возвращает признаки статуса и приоритета тикета.
func (t TicketDetail) Flags() TicketFlags {
	return FlagsOf(t.TicketStatus, t.PriorityName)
}

type TicketActivity struct {
	UUID            string `json:"uuid"`
	Activity        string `json:"activity"`
	Category        string `json:"category"`
	Status          string `json:"status"`
	Remarks         string `json:"remarks"`
	ActionTimestamp string `json:"action_timestamp"`
	ActionByUUID    string `json:"action_by_uuid,omitempty"`
	ActionBy        int    `json:"action_by,omitempty"`
	ActionByName    string `json:"action_by_name"`
	EndDate         string `json:"end_date,omitempty"`
}

type TicketHistory struct {
	UUID                 string `json:"uuid"`
	ActionTicket         string `json:"action_ticket"`
	ActionTimestamp      string `json:"action_timestamp"`
	ActionBy             int    `json:"action_by"`
	ActionByName         string `json:"action_by_name"`
	Remarks              string `json:"remarks,omitempty"`
	Reason               string `json:"reason,omitempty"`
	PreviousAssigneeID   int    `json:"previous_assignee_id,omitempty"`
	PreviousAssigneeName string `json:"previous_assignee_name,omitempty"`
}

// StatusCount — счётчики тикетов по статусам.
type StatusCount struct {
	All               int `json:"all"`
	Open              int `json:"open"`
	RequestToTransfer int `json:"request_to_transfer"`
	InProgress        int `json:"in_progress"`
	Pending           int `json:"pending"`
	Breach            int `json:"breach"`
	Resolved          int `json:"resolved"`
	Assigned          int `json:"assigned"`
	Reject            int `json:"reject"`
}

// ActivityCategory — этап работ по тикету.
type ActivityCategory string

const (
	ActivityPreparation ActivityCategory = "Preparation"
	ActivityFixing      ActivityCategory = "Fixing"
)

type ActivityRequest struct {
	Category ActivityCategory `json:"category"`
	Remarks  string           `json:"remarks"`
}

// AssignRequest — назначение исполнителя. Vendor-поля заполняются
// только для AssignVendor.
type AssignRequest struct {
	PriorityUUID     string     `json:"priority_uuid"`
	AssignType       AssignType `json:"assign_type"`
	AssigneeUUID     string     `json:"assignee_uuid"`
	VendorName       string     `json:"vendor_name,omitempty"`
	VendorPICName    string     `json:"vendor_pic_name,omitempty"`
	VendorPICContact string     `json:"vendor_pic_contact,omitempty"`
}

// Decision — замечание и причина для reject / pending / reject-transfer / transfer.
type Decision struct {
	Remarks  string
	ReasonID string
}

type CreateTicketResult struct {
	TicketNumber string `json:"ticket_number"`
}

// DateFilterType — поле, по которому фильтруется диапазон дат.
type DateFilterType string

const (
	DateFilterDueDate   DateFilterType = "due_date"
	DateFilterCreatedAt DateFilterType = "created_at"
)

// --- Признаки статуса и приоритета ---

// TicketFlags — булевы признаки статуса и приоритета, взаимоисключающие
// внутри своей группы.
type TicketFlags struct {
	IsOpen              bool `json:"is_open"`
	IsAssigned          bool `json:"is_assigned"`
	IsInProgress        bool `json:"is_in_progress"`
	IsPending           bool `json:"is_pending"`
	IsResolved          bool `json:"is_resolved"`
	IsRequestToTransfer bool `json:"is_request_to_transfer"`
	IsTransferred       bool `json:"is_transferred"`
	IsRejected          bool `json:"is_rejected"`
	IsClosed            bool `json:"is_closed"`

	IsHigh   bool `json:"is_high"`
	IsMedium bool `json:"is_medium"`
	IsLow    bool `json:"is_low"`
}

// FlagsOf вычисляет признаки по текстовому статусу и приоритету
// (без учёта регистра). Неизвестные значения дают нулевые признаки.
func FlagsOf(status, priority string) TicketFlags {
	var f TicketFlags
	switch strings.ToLower(status) {
	case "open":
		f.IsOpen = true
	case "assigned":
		f.IsAssigned = true
	case "inprogress", "in progress":
		f.IsInProgress = true
	case "pending":
		f.IsPending = true
	case "resolved", "completed":
		f.IsResolved = true
	case "request to transfer", "request_to_transfer":
		f.IsRequestToTransfer = true
	case "transferred":
		f.IsTransferred = true
	case "rejected", "reject":
		f.IsRejected = true
	case "closed":
		f.IsClosed = true
	}
	switch strings.ToLower(priority) {
	case "high":
		f.IsHigh = true
	case "medium":
		f.IsMedium = true
	case "low":
		f.IsLow = true
	}
	return f
}
