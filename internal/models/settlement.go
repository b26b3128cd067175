package models

// Settlement represents a real payment between two members, recorded by
// explicit user action. Settlements are write-once facts: there is no
// update or delete path.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"from_user_id"`

	// FromUserName is joined on reads.
	FromUserName string `json:"from_user_name,omitempty"`

	// ToUserID is the user who received payment.
	ToUserID string `json:"to_user_id"`

	// ToUserName is joined on reads.
	ToUserName string `json:"to_user_name,omitempty"`

	// Amount is the payment amount, always positive.
	Amount float64 `json:"amount"`

	// Date is the payment date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Notes is an optional description.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}

// GroupBalance is one group's balance summary for a single user, used by
// the cross-group balance listing.
type GroupBalance struct {
	GroupID     string  `json:"group_id"`
	GroupName   string  `json:"group_name"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	MemberCount int     `json:"member_count"`
	TotalPaid   float64 `json:"total_paid"`
	TotalOwed   float64 `json:"total_owed"`
	Balance     float64 `json:"balance"`
}
