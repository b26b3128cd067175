package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/calculator"
	"github.com/shivarya/splitcash/internal/models"
	"github.com/shivarya/splitcash/internal/storage"
)

// ExpenseService handles expense creation, listing, update and deletion.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpenseInput carries the fields for a new expense. Splits is
// required for unequal and percentage splits and ignored for equal ones.
type CreateExpenseInput struct {
	Description string                  `json:"description"`
	Amount      float64                 `json:"amount"`
	Category    string                  `json:"category"`
	PaidBy      string                  `json:"paid_by"`
	SplitType   string                  `json:"split_type"`
	Date        string                  `json:"date"`
	Notes       string                  `json:"notes"`
	Splits      []calculator.ShareInput `json:"splits"`
}

// UpdateExpenseInput is a partial expense update; nil fields are left
// unchanged. The stored splits are never recomputed.
type UpdateExpenseInput struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
	Notes       *string  `json:"notes"`
}

// Create records an expense in the group, computing the splits from the
// input's split policy and writing the activity entry atomically.
func (s *ExpenseService) Create(ctx context.Context, userID, groupID string, input CreateExpenseInput) (*models.Expense, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}

	paidBy := input.PaidBy
	if paidBy == "" {
		paidBy = userID
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to list members", err)
	}

	memberIDs := make([]string, len(members))
	memberSet := make(map[string]bool, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
		memberSet[m.UserID] = true
	}
	if !memberSet[paidBy] {
		return nil, apperr.Validation("payer is not a member of this group")
	}
	for _, share := range input.Splits {
		if !memberSet[share.UserID] {
			return nil, apperr.Validation("split user %s is not a member of this group", share.UserID)
		}
	}

	shares, err := calculator.ComputeSplits(input.Amount, input.SplitType, memberIDs, input.Splits)
	if err != nil {
		return nil, err
	}

	splits := make([]models.Split, len(shares))
	for i, share := range shares {
		splits[i] = models.Split{
			UserID:     share.UserID,
			Amount:     share.Amount,
			Percentage: share.Percentage,
		}
	}

	splitType := input.SplitType
	if splitType == "" {
		splitType = models.SplitEqual
	}
	date := input.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		PaidBy:      paidBy,
		SplitType:   splitType,
		Date:        date,
		Notes:       input.Notes,
		Splits:      splits,
	}
	activity := &models.Activity{
		GroupID:     groupID,
		UserID:      userID,
		Action:      models.ActionCreateExpense,
		EntityType:  "expense",
		Description: fmt.Sprintf("added %q (%.2f)", description, input.Amount),
	}

	if err := s.store.CreateExpense(ctx, expense, activity); err != nil {
		return nil, apperr.Storage("failed to create expense", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", groupID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)
	return s.Get(ctx, userID, expense.ID)
}

// List returns a group's expenses with their splits, newest first.
func (s *ExpenseService) List(ctx context.Context, userID, groupID string) ([]*models.Expense, error) {
	if err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to list expenses", err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}

// Get returns one expense with its splits. The caller must be a member of
// the expense's group.
func (s *ExpenseService) Get(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, apperr.Storage("failed to get expense", err)
	}
	if expense == nil {
		return nil, apperr.NotFound("expense not found")
	}
	if err := s.requireMembership(ctx, userID, expense.GroupID); err != nil {
		return nil, err
	}
	return expense, nil
}

// Update applies a partial update to an expense. Only the payer may edit,
// and the stored splits stay as they were recorded.
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID string, input UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.PaidBy != userID {
		return nil, apperr.Authorization("only the payer can edit this expense")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return nil, apperr.Validation("description cannot be empty")
	}

	update := &models.ExpenseUpdate{
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        input.Date,
		Notes:       input.Notes,
	}
	activity := &models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Action:      models.ActionUpdateExpense,
		EntityType:  "expense",
		Description: fmt.Sprintf("updated %q", expense.Description),
	}

	if err := s.store.UpdateExpense(ctx, expenseID, update, activity); err != nil {
		return nil, apperr.Storage("failed to update expense", err)
	}

	slog.Info("Expense updated", "expense_id", expenseID, "group_id", expense.GroupID)
	return s.Get(ctx, userID, expenseID)
}

// Delete removes an expense. The payer or a group admin may delete.
func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID string) error {
	expense, err := s.Get(ctx, userID, expenseID)
	if err != nil {
		return err
	}

	if expense.PaidBy != userID {
		role, err := s.store.GetMemberRole(ctx, expense.GroupID, userID)
		if err != nil {
			return apperr.Storage("failed to check role", err)
		}
		if role != models.RoleAdmin {
			return apperr.Authorization("only the payer or a group admin can delete this expense")
		}
	}

	activity := &models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Action:      models.ActionDeleteExpense,
		EntityType:  "expense",
		Description: fmt.Sprintf("deleted %q (%.2f)", expense.Description, expense.Amount),
	}
	if err := s.store.DeleteExpense(ctx, expenseID, activity); err != nil {
		return apperr.Storage("failed to delete expense", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	return nil
}

func (s *ExpenseService) requireMembership(ctx context.Context, userID, groupID string) error {
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
