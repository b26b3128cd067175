package calculator

import (
	"math"
	"testing"

	"github.com/shivarya/splitcash/internal/apperr"
)

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		splitType    string
		memberIDs    []string
		requested    []ShareInput
		wantErr      bool
		validateFunc func(t *testing.T, splits []Share)
	}{
		{
			name:      "equal three-way split",
			amount:    90.00,
			splitType: "equal",
			memberIDs: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, splits []Share) {
				if len(splits) != 3 {
					t.Fatalf("expected 3 splits, got %d", len(splits))
				}
				for _, s := range splits {
					if math.Abs(s.Amount-30.00) > 0.001 {
						t.Errorf("%s amount = %v, want 30.00", s.UserID, s.Amount)
					}
					if math.Abs(s.Percentage-33.33) > 0.001 {
						t.Errorf("%s percentage = %v, want 33.33", s.UserID, s.Percentage)
					}
				}
				// Sum of rounded percentages is 99.99; the drift is accepted.
				var pct float64
				for _, s := range splits {
					pct += s.Percentage
				}
				if math.Abs(pct-99.99) > 0.001 {
					t.Errorf("percentage sum = %v, want 99.99", pct)
				}
			},
		},
		{
			name:      "empty split type defaults to equal",
			amount:    50.00,
			splitType: "",
			memberIDs: []string{"A", "B"},
			validateFunc: func(t *testing.T, splits []Share) {
				if len(splits) != 2 {
					t.Fatalf("expected 2 splits, got %d", len(splits))
				}
				if splits[0].Amount != 25.00 || splits[1].Amount != 25.00 {
					t.Errorf("amounts = %v/%v, want 25.00 each", splits[0].Amount, splits[1].Amount)
				}
			},
		},
		{
			name:      "equal split preserves member order",
			amount:    30.00,
			splitType: "equal",
			memberIDs: []string{"C", "A", "B"},
			validateFunc: func(t *testing.T, splits []Share) {
				want := []string{"C", "A", "B"}
				for i, s := range splits {
					if s.UserID != want[i] {
						t.Errorf("splits[%d].UserID = %s, want %s", i, s.UserID, want[i])
					}
				}
			},
		},
		{
			name:      "unequal split with derived percentages",
			amount:    100.00,
			splitType: "unequal",
			requested: []ShareInput{{UserID: "A", Amount: 40}, {UserID: "B", Amount: 60}},
			validateFunc: func(t *testing.T, splits []Share) {
				if splits[0].Percentage != 40.00 {
					t.Errorf("A percentage = %v, want 40.00", splits[0].Percentage)
				}
				if splits[1].Percentage != 60.00 {
					t.Errorf("B percentage = %v, want 60.00", splits[1].Percentage)
				}
			},
		},
		{
			name:      "unequal split within tolerance",
			amount:    100.00,
			splitType: "unequal",
			requested: []ShareInput{{UserID: "A", Amount: 49.995}, {UserID: "B", Amount: 50.00}},
		},
		{
			name:      "unequal split deviating beyond tolerance fails",
			amount:    100.00,
			splitType: "unequal",
			requested: []ShareInput{{UserID: "A", Amount: 40}, {UserID: "B", Amount: 65}},
			wantErr:   true,
		},
		{
			name:      "unequal split without shares fails",
			amount:    100.00,
			splitType: "unequal",
			wantErr:   true,
		},
		{
			name:      "percentage split with derived amounts",
			amount:    80.00,
			splitType: "percentage",
			requested: []ShareInput{{UserID: "A", Percentage: 25}, {UserID: "B", Percentage: 75}},
			validateFunc: func(t *testing.T, splits []Share) {
				if splits[0].Amount != 20.00 {
					t.Errorf("A amount = %v, want 20.00", splits[0].Amount)
				}
				if splits[1].Amount != 60.00 {
					t.Errorf("B amount = %v, want 60.00", splits[1].Amount)
				}
			},
		},
		{
			name:      "percentages not totalling 100 fail",
			amount:    80.00,
			splitType: "percentage",
			requested: []ShareInput{{UserID: "A", Percentage: 25}, {UserID: "B", Percentage: 80}},
			wantErr:   true,
		},
		{
			name:      "percentage split without shares fails",
			amount:    80.00,
			splitType: "percentage",
			wantErr:   true,
		},
		{
			name:      "unknown split type fails",
			amount:    50.00,
			splitType: "shares",
			memberIDs: []string{"A"},
			wantErr:   true,
		},
		{
			name:      "non-positive amount fails",
			amount:    0,
			splitType: "equal",
			memberIDs: []string{"A", "B"},
			wantErr:   true,
		},
		{
			name:      "equal split with no members fails",
			amount:    10.00,
			splitType: "equal",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(tt.amount, tt.splitType, tt.memberIDs, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperr.IsValidation(err) {
					t.Errorf("expected a validation error, got %v", err)
				}
				return
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

func TestComputeSplitsSumInvariant(t *testing.T) {
	// For unequal and percentage policies the computed amounts stay within
	// tolerance of the expense amount whenever validation passes.
	cases := []struct {
		splitType string
		amount    float64
		requested []ShareInput
	}{
		{"unequal", 75.50, []ShareInput{{UserID: "A", Amount: 25.50}, {UserID: "B", Amount: 30}, {UserID: "C", Amount: 20}}},
		{"percentage", 99.99, []ShareInput{{UserID: "A", Percentage: 33.33}, {UserID: "B", Percentage: 33.33}, {UserID: "C", Percentage: 33.34}}},
	}

	for _, c := range cases {
		splits, err := ComputeSplits(c.amount, c.splitType, nil, c.requested)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.splitType, err)
		}
		var sum float64
		for _, s := range splits {
			sum += s.Amount
		}
		if math.Abs(sum-c.amount) > Tolerance+len2cents(c.requested) {
			t.Errorf("%s: split sum %v deviates from amount %v", c.splitType, sum, c.amount)
		}
	}
}

// len2cents is the per-member half-cent rounding allowance.
func len2cents(requested []ShareInput) float64 {
	return float64(len(requested)) * 0.005
}
