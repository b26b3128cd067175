// Package calculator holds the pure ledger math: expense split computation,
// balance aggregation and settlement suggestions. Nothing here touches
// storage; callers feed it persisted data and persist what it returns.
package calculator

import (
	"math"

	"github.com/shivarya/splitcash/internal/apperr"
)

// Tolerance is the fixed rounding allowance used to treat near-equal
// monetary sums as equal.
const Tolerance = 0.01

// ShareInput is a caller-supplied share for unequal and percentage splits.
type ShareInput struct {
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Share is one member's computed portion of an expense.
type Share struct {
	UserID     string
	Amount     float64
	Percentage float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeSplits produces per-member shares of amount under the given split
// policy. It is a pure function; persisting the result alongside the
// expense is the caller's job.
//
// Equal splits accept a rounding drift of up to n*0.005 between the share
// sum and the amount; the remainder is not redistributed. Unequal and
// percentage splits fail with a validation error when the supplied shares
// deviate from the amount (resp. 100%) by more than Tolerance.
func ComputeSplits(amount float64, splitType string, memberIDs []string, requested []ShareInput) ([]Share, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	switch splitType {
	case "", "equal":
		return equalSplits(amount, memberIDs)
	case "unequal":
		return unequalSplits(amount, requested)
	case "percentage":
		return percentageSplits(amount, requested)
	default:
		return nil, apperr.Validation("unknown split type %q", splitType)
	}
}

func equalSplits(amount float64, memberIDs []string) ([]Share, error) {
	if len(memberIDs) == 0 {
		return nil, apperr.Validation("group has no members to split between")
	}

	n := float64(len(memberIDs))
	share := round2(amount / n)
	pct := round2(100 / n)

	splits := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		splits[i] = Share{UserID: id, Amount: share, Percentage: pct}
	}
	return splits, nil
}

func unequalSplits(amount float64, requested []ShareInput) ([]Share, error) {
	if len(requested) == 0 {
		return nil, apperr.Validation("splits are required for unequal split type")
	}

	var total float64
	for _, r := range requested {
		total += r.Amount
	}
	if math.Abs(total-amount) > Tolerance {
		return nil, apperr.Validation("split amounts must equal total amount")
	}

	splits := make([]Share, len(requested))
	for i, r := range requested {
		splits[i] = Share{
			UserID:     r.UserID,
			Amount:     r.Amount,
			Percentage: round2(r.Amount / amount * 100),
		}
	}
	return splits, nil
}

func percentageSplits(amount float64, requested []ShareInput) ([]Share, error) {
	if len(requested) == 0 {
		return nil, apperr.Validation("splits are required for percentage split type")
	}

	var total float64
	for _, r := range requested {
		total += r.Percentage
	}
	if math.Abs(total-100) > Tolerance {
		return nil, apperr.Validation("percentages must total 100%%")
	}

	splits := make([]Share, len(requested))
	for i, r := range requested {
		splits[i] = Share{
			UserID:     r.UserID,
			Amount:     round2(amount * r.Percentage / 100),
			Percentage: r.Percentage,
		}
	}
	return splits, nil
}
