package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/calculator"
	"github.com/shivarya/splitcash/internal/models"
	"github.com/shivarya/splitcash/internal/storage"
)

// DefaultActivityLimit caps the activity feed when the caller does not ask
// for a specific page size.
const DefaultActivityLimit = 50

// BalanceService computes balances and settlement suggestions, records
// settlements and serves the activity feed.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// RecordSettlementInput carries the fields for a manual settlement.
type RecordSettlementInput struct {
	FromUserID string  `json:"from_user_id"`
	ToUserID   string  `json:"to_user_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Notes      string  `json:"notes"`
}

// GroupBalances returns every member's aggregated position in the group,
// sorted with the largest creditor first. Recorded settlements do not
// enter the aggregation; the history endpoint reports them separately.
func (s *BalanceService) GroupBalances(ctx context.Context, userID, groupID string) ([]calculator.MemberBalance, error) {
	balances, err := s.rawBalances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	sorted := make([]calculator.MemberBalance, len(balances))
	copy(sorted, balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NetBalance > sorted[j].NetBalance
	})
	return sorted, nil
}

// MyBalances returns the caller's position in each of their groups.
func (s *BalanceService) MyBalances(ctx context.Context, userID string) ([]models.GroupBalance, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("failed to list groups", err)
	}

	result := []models.GroupBalance{}
	for _, group := range groups {
		members, expenses, err := s.loadGroupLedger(ctx, group.ID)
		if err != nil {
			return nil, err
		}

		balances := calculator.AggregateBalances(members, expenses)
		entry := models.GroupBalance{
			GroupID:     group.ID,
			GroupName:   group.Name,
			Category:    group.Category,
			Image:       group.Image,
			MemberCount: len(members),
		}
		for _, b := range balances {
			if b.UserID == userID {
				entry.TotalPaid = b.TotalPaid
				entry.TotalOwed = b.TotalOwed
				entry.Balance = b.NetBalance
				break
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// Suggestions returns the recommended payments that would settle the
// group's current balances. Suggestions are computed per request against
// balances in member join order and never persisted.
func (s *BalanceService) Suggestions(ctx context.Context, userID, groupID string) ([]calculator.Suggestion, error) {
	balances, err := s.rawBalances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SuggestSettlements(balances), nil
}

// RecordSettlement stores a real payment between two members, with its
// activity entry, atomically. Settlements are independent facts: they do
// not change the expense-based balances.
func (s *BalanceService) RecordSettlement(ctx context.Context, userID, groupID string, input RecordSettlementInput) (*models.Settlement, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	if input.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if input.FromUserID == "" || input.ToUserID == "" {
		return nil, apperr.Validation("from_user_id and to_user_id are required")
	}
	if input.FromUserID == input.ToUserID {
		return nil, apperr.Validation("payer and recipient must differ")
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return nil, apperr.Validation("date is required")
	}

	fromMember, err := s.store.IsMember(ctx, groupID, input.FromUserID)
	if err != nil {
		return nil, apperr.Storage("failed to check membership", err)
	}
	if !fromMember {
		return nil, apperr.Authorization("payer is not a member of this group")
	}
	toMember, err := s.store.IsMember(ctx, groupID, input.ToUserID)
	if err != nil {
		return nil, apperr.Storage("failed to check membership", err)
	}
	if !toMember {
		return nil, apperr.Validation("user %s is not a member of this group", input.ToUserID)
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Amount:     input.Amount,
		Date:       date,
		Notes:      input.Notes,
	}
	activity := &models.Activity{
		GroupID:     groupID,
		UserID:      userID,
		Action:      models.ActionRecordSettlement,
		EntityType:  "settlement",
		Description: fmt.Sprintf("recorded a settlement of %.2f", input.Amount),
	}

	if err := s.store.CreateSettlement(ctx, settlement, activity); err != nil {
		return nil, apperr.Storage("failed to record settlement", err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// History returns the group's recorded settlements, newest first.
func (s *BalanceService) History(ctx context.Context, userID, groupID string) ([]*models.Settlement, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to list settlements", err)
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	return settlements, nil
}

// Activity returns the group's activity feed, newest first. A limit of 0
// means the default page size.
func (s *BalanceService) Activity(ctx context.Context, userID, groupID string, limit int) ([]*models.Activity, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	activities, err := s.store.ListActivities(ctx, groupID, limit)
	if err != nil {
		return nil, apperr.Storage("failed to list activities", err)
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	return activities, nil
}

// rawBalances aggregates the group's balances in member join order, the
// order the suggestion engine consumes.
func (s *BalanceService) rawBalances(ctx context.Context, userID, groupID string) ([]calculator.MemberBalance, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	members, expenses, err := s.loadGroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.AggregateBalances(members, expenses), nil
}

func (s *BalanceService) loadGroupLedger(ctx context.Context, groupID string) ([]calculator.MemberRef, []calculator.ExpenseForBalance, error) {
	memberRows, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, apperr.Storage("failed to list members", err)
	}
	members := make([]calculator.MemberRef, len(memberRows))
	for i, m := range memberRows {
		members[i] = calculator.MemberRef{UserID: m.UserID, Name: m.Name}
	}

	expenseRows, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, nil, apperr.Storage("failed to list expenses", err)
	}
	expenses := make([]calculator.ExpenseForBalance, len(expenseRows))
	for i, e := range expenseRows {
		splits := make([]calculator.SplitForBalance, len(e.Splits))
		for j, split := range e.Splits {
			splits[j] = calculator.SplitForBalance{UserID: split.UserID, Amount: split.Amount}
		}
		expenses[i] = calculator.ExpenseForBalance{
			PaidBy: e.PaidBy,
			Amount: e.Amount,
			Splits: splits,
		}
	}
	return members, expenses, nil
}

func (s *BalanceService) requireMembership(ctx context.Context, userID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return apperr.Storage("failed to get group", err)
	}
	if group == nil {
		return apperr.NotFound("group not found")
	}

	isMember, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return apperr.Storage("failed to check membership", err)
	}
	if !isMember {
		return apperr.Authorization("you are not a member of this group")
	}
	return nil
}
