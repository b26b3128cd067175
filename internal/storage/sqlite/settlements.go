package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shivarya/splitcash/internal/models"
)

// CreateSettlement persists the settlement and its activity entry in a
// single transaction. Settlements are write-once; there is no update or
// delete path.
func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement, activity *models.Activity) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, date, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
			settlement.Amount, settlement.Date, settlement.Notes, settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert settlement: %w", err)
		}

		activity.EntityID = settlement.ID
		return insertActivity(ctx, tx, activity)
	})
}

// ListSettlements retrieves a group's settlements joined with user names,
// newest first.
func (s *Store) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.group_id, s.from_user_id, u1.name, s.to_user_id, u2.name,
		        s.amount, s.date, s.notes, s.created_at
		 FROM settlements s
		 INNER JOIN users u1 ON s.from_user_id = u1.id
		 INNER JOIN users u2 ON s.to_user_id = u2.id
		 WHERE s.group_id = ?
		 ORDER BY s.date DESC, s.created_at DESC`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		if err := rows.Scan(&settlement.ID, &settlement.GroupID,
			&settlement.FromUserID, &settlement.FromUserName,
			&settlement.ToUserID, &settlement.ToUserName,
			&settlement.Amount, &settlement.Date, &settlement.Notes, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}
	return settlements, nil
}
