package calculator

// MemberRef identifies a group member for balance calculations.
type MemberRef struct {
	UserID string
	Name   string
}

// ExpenseForBalance carries the minimal expense information needed for
// balance aggregation.
type ExpenseForBalance struct {
	PaidBy string
	Amount float64
	Splits []SplitForBalance
}

// SplitForBalance is one persisted split row.
type SplitForBalance struct {
	UserID string
	Amount float64
}

// MemberBalance is one member's aggregated position in a group.
// NetBalance is positive when the member is owed money.
type MemberBalance struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
	NetBalance float64 `json:"balance"`
}

// AggregateBalances computes every member's net position over a group's
// expense history: total paid is the sum of expense amounts the member paid
// for, total owed is the sum of their split amounts. Members with no
// expenses or splits still appear with zero totals, and the input member
// order is preserved.
//
// When every expense's splits sum to its amount, the net balances sum to
// zero (conservation); the settlement suggestion engine relies on that.
func AggregateBalances(members []MemberRef, expenses []ExpenseForBalance) []MemberBalance {
	balances := make([]MemberBalance, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		balances[i] = MemberBalance{UserID: m.UserID, Name: m.Name}
		index[m.UserID] = i
	}

	for _, e := range expenses {
		if i, ok := index[e.PaidBy]; ok {
			balances[i].TotalPaid += e.Amount
		}
		for _, s := range e.Splits {
			if i, ok := index[s.UserID]; ok {
				balances[i].TotalOwed += s.Amount
			}
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid - balances[i].TotalOwed
	}
	return balances
}
