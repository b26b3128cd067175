package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shivarya/splitcash/internal/models"
)

// insertActivity appends one activity entry inside the caller's
// transaction.
func insertActivity(ctx context.Context, tx *sql.Tx, a *models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO activities (id, group_id, user_id, action, entity_type, entity_id, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GroupID, a.UserID, a.Action, a.EntityType, a.EntityID, a.Description, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivities retrieves a group's activity feed joined with user
// profiles, newest first, capped at limit.
func (s *Store) ListActivities(ctx context.Context, groupID string, limit int) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.group_id, a.user_id, u.name, u.profile_picture,
		        a.action, a.entity_type, a.entity_id, a.description, a.created_at
		 FROM activities a
		 INNER JOIN users u ON a.user_id = u.id
		 WHERE a.group_id = ?
		 ORDER BY a.created_at DESC
		 LIMIT ?`, groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.GroupID, &a.UserID, &a.UserName, &a.ProfilePicture,
			&a.Action, &a.EntityType, &a.EntityID, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}
