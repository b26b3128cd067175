package models

// Activity actions written by the core operations.
const (
	ActionCreateExpense    = "create_expense"
	ActionUpdateExpense    = "update_expense"
	ActionDeleteExpense    = "delete_expense"
	ActionRecordSettlement = "record_settlement"
	ActionJoinGroup        = "join_group"
)

// Activity is one entry in a group's append-only activity log. Every
// state-changing operation writes exactly one entry, in the same
// transaction as the rows it describes.
type Activity struct {
	ID             string `json:"id"`
	GroupID        string `json:"group_id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Action         string `json:"action"`
	EntityType     string `json:"entity_type"`
	EntityID       string `json:"entity_id"`
	Description    string `json:"description"`
	CreatedAt      int64  `json:"created_at"`
}
