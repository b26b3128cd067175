package calculator

import (
	"log/slog"
	"math"
)

// Suggestion is an ephemeral recommended payment from a debtor to a
// creditor. Suggestions are computed per request and never persisted.
type Suggestion struct {
	FromUserID   string  `json:"from_user_id"`
	FromUserName string  `json:"from_user_name"`
	ToUserID     string  `json:"to_user_id"`
	ToUserName   string  `json:"to_user_name"`
	Amount       float64 `json:"amount"`
}

type party struct {
	userID string
	name   string
	amount float64
}

// SuggestSettlements reduces a set of net balances to pairwise payments
// using a greedy two-pointer pass: debtors and creditors keep their input
// order, and the smaller of the current pair's outstanding amounts is
// transferred until one side is exhausted.
//
// The result is deterministic for a given input order but not minimal in
// the number of transactions (true minimality is a partition-style problem;
// the linear pass is the accepted trade-off). Any residual left when one
// list empties first is dropped, not reported: with conserved balances it
// can only be rounding noise.
func SuggestSettlements(balances []MemberBalance) []Suggestion {
	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.NetBalance < -Tolerance:
			debtors = append(debtors, party{b.UserID, b.Name, -b.NetBalance})
		case b.NetBalance > Tolerance:
			creditors = append(creditors, party{b.UserID, b.Name, b.NetBalance})
		}
	}

	suggestions := []Suggestion{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		transfer := math.Min(debtors[i].amount, creditors[j].amount)

		if transfer > Tolerance {
			suggestions = append(suggestions, Suggestion{
				FromUserID:   debtors[i].userID,
				FromUserName: debtors[i].name,
				ToUserID:     creditors[j].userID,
				ToUserName:   creditors[j].name,
				Amount:       round2(transfer),
			})
		}

		debtors[i].amount -= transfer
		creditors[j].amount -= transfer

		if debtors[i].amount < Tolerance {
			i++
		}
		if creditors[j].amount < Tolerance {
			j++
		}
	}

	if residual := leftover(debtors[i:]) + leftover(creditors[j:]); residual > Tolerance {
		slog.Warn("settlement suggestions left residual imbalance", "residual", round2(residual))
	}

	return suggestions
}

func leftover(parties []party) float64 {
	var sum float64
	for _, p := range parties {
		sum += p.amount
	}
	return sum
}
