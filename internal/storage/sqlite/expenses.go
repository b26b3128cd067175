package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shivarya/splitcash/internal/models"
)

// CreateExpense persists the expense, its splits and the activity entry in
// a single transaction; on any failure nothing is written.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense, activity *models.Activity) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Category == "" {
		expense.Category = "general"
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, group_id, description, amount, category, paid_by, split_type, date, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.Category, expense.PaidBy, expense.SplitType, expense.Date,
			expense.Notes, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}

		for _, split := range expense.Splits {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, user_id, amount, percentage) VALUES (?, ?, ?, ?)",
				expense.ID, split.UserID, split.Amount, split.Percentage,
			)
			if err != nil {
				return fmt.Errorf("insert split: %w", err)
			}
		}

		activity.EntityID = expense.ID
		if err := insertActivity(ctx, tx, activity); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE expense_groups SET updated_at = ? WHERE id = ?",
			expense.CreatedAt, expense.GroupID,
		)
		if err != nil {
			return fmt.Errorf("touch group: %w", err)
		}
		return nil
	})
}

// GetExpense retrieves an expense with its splits. Returns nil when not
// found.
func (s *Store) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.group_id, e.description, e.amount, e.category, e.paid_by, u.name,
		        e.split_type, e.date, e.notes, e.created_at
		 FROM expenses e
		 INNER JOIN users u ON e.paid_by = u.id
		 WHERE e.id = ?`, id,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Category, &expense.PaidBy, &expense.PaidByName,
		&expense.SplitType, &expense.Date, &expense.Notes, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}

	splits, err := s.listSplits(ctx, []string{expense.ID})
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]
	return expense, nil
}

// ListExpenses retrieves a group's expenses with their splits, newest
// first.
func (s *Store) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.group_id, e.description, e.amount, e.category, e.paid_by, u.name,
		        e.split_type, e.date, e.notes, e.created_at
		 FROM expenses e
		 INNER JOIN users u ON e.paid_by = u.id
		 WHERE e.group_id = ?
		 ORDER BY e.date DESC, e.created_at DESC`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	var ids []string
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
			&expense.Category, &expense.PaidBy, &expense.PaidByName,
			&expense.SplitType, &expense.Date, &expense.Notes, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		ids = append(ids, expense.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	splits, err := s.listSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		e.Splits = splits[e.ID]
	}
	return expenses, nil
}

// listSplits fetches the splits for the given expenses, keyed by expense
// ID. Splits come back in insertion order.
func (s *Store) listSplits(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error) {
	result := make(map[string][]models.Split, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(expenseIDs)), ", ")
	args := make([]any, len(expenseIDs))
	for i, id := range expenseIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, u.name, es.amount, es.percentage
		 FROM expense_splits es
		 INNER JOIN users u ON es.user_id = u.id
		 WHERE es.expense_id IN (`+placeholders+`)
		 ORDER BY es.rowid`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ExpenseID, &split.UserID, &split.UserName, &split.Amount, &split.Percentage); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		result[split.ExpenseID] = append(result[split.ExpenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate splits: %w", err)
	}
	return result, nil
}

// UpdateExpense applies a partial update to the expense row and writes
// the activity entry in the same transaction. The stored splits are
// deliberately left untouched, even when Amount changes.
func (s *Store) UpdateExpense(ctx context.Context, id string, update *models.ExpenseUpdate, activity *models.Activity) error {
	var sets []string
	var args []any

	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *update.Amount)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}
	if update.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *update.Date)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if len(sets) == 0 {
		return fmt.Errorf("no fields to update")
	}

	args = append(args, id)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE expenses SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
		)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("expense not found: %s", id)
		}

		activity.EntityID = id
		return insertActivity(ctx, tx, activity)
	})
}

// DeleteExpense removes an expense and writes the activity entry in the
// same transaction; the expense's splits cascade.
func (s *Store) DeleteExpense(ctx context.Context, id string, activity *models.Activity) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("expense not found: %s", id)
		}

		activity.EntityID = id
		return insertActivity(ctx, tx, activity)
	})
}
