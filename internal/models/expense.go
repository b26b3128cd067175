package models

// Split type values accepted on expense creation.
const (
	SplitEqual      = "equal"
	SplitUnequal    = "unequal"
	SplitPercentage = "percentage"
)

// Expense represents an amount paid by one group member on behalf of the
// group. Its splits record how much of the amount each member owes.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// Description is the human-readable label (e.g. "Dinner", "Fuel").
	Description string `json:"description"`

	// Amount is the full amount the payer spent.
	Amount float64 `json:"amount"`

	// Category is an optional label, defaulting to "general".
	Category string `json:"category"`

	// PaidBy is the user ID of the member who paid.
	PaidBy string `json:"paid_by"`

	// PaidByName is the payer's display name, joined on reads.
	PaidByName string `json:"paid_by_name,omitempty"`

	// SplitType records which splitting policy produced the splits.
	SplitType string `json:"split_type"`

	// Date is the expense date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`

	// Splits is the per-member breakdown, created atomically with the
	// expense and immutable afterwards.
	Splits []Split `json:"splits,omitempty"`
}

// Split is one member's share of an expense. For a given expense the split
// amounts sum to the expense amount within the 0.01 tolerance.
type Split struct {
	ExpenseID  string  `json:"expense_id,omitempty"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name,omitempty"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// ExpenseUpdate is a partial update for an expense. Nil fields are left
// unchanged. Updating Amount does not recompute the stored splits.
type ExpenseUpdate struct {
	Description *string
	Amount      *float64
	Category    *string
	Date        *string
	Notes       *string
}
