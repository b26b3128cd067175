package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shivarya/splitcash/internal/models"
)

// CreateGroup inserts the group and its creator's admin membership in one
// transaction.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_groups (id, name, description, category, image, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, group.Name, group.Description, group.Category, group.Image,
			group.CreatedBy, group.CreatedAt, group.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
			group.ID, group.CreatedBy, models.RoleAdmin, now,
		)
		if err != nil {
			return fmt.Errorf("insert creator membership: %w", err)
		}
		return nil
	})
}

// GetGroup retrieves a group by ID. Returns nil when not found.
func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, category, image, created_by, created_at, updated_at
		 FROM expense_groups WHERE id = ?`, id,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Category,
		&group.Image, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser retrieves the groups the user is a member of, most
// recently updated first.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.category, g.image, g.created_by, g.created_at, g.updated_at
		 FROM expense_groups g
		 INNER JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = ?
		 ORDER BY g.updated_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.Category,
			&group.Image, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// ListMembers retrieves a group's members joined with their profiles, in
// join order. Balance consumers rely on this order being stable.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.profile_picture, gm.role, gm.joined_at
		 FROM users u
		 INNER JOIN group_members gm ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY gm.joined_at, u.id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.ProfilePicture, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return true, nil
}

// GetMemberRole returns the user's role in the group, or "" when the user
// is not a member.
func (s *Store) GetMemberRole(ctx context.Context, groupID, userID string) (string, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT role FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get member role: %w", err)
	}
	return role, nil
}

// AddMember adds a user to a group. Adding an existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, userID, role string) error {
	if role == "" {
		role = models.RoleMember
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		groupID, userID, role, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// CreateInvitation inserts an invitation, generating ID and token if unset.
func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Token == "" {
		inv.Token = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invitations (id, group_id, email, token, created_at) VALUES (?, ?, ?, ?, ?)",
		inv.ID, inv.GroupID, inv.Email, inv.Token, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetInvitationByToken retrieves an invitation. Returns nil when not found.
func (s *Store) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, email, token, created_at FROM invitations WHERE token = ?",
		token,
	).Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Token, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// DeleteInvitation removes a consumed invitation.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM invitations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

// AcceptInvitation adds the user to the invitation's group, consumes the
// invitation and writes the join activity in one transaction. Accepting
// as an existing member still consumes the invitation.
func (s *Store) AcceptInvitation(ctx context.Context, inv *models.Invitation, userID string, activity *models.Activity) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
			inv.GroupID, userID, models.RoleMember, time.Now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("add member: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM invitations WHERE id = ?", inv.ID); err != nil {
			return fmt.Errorf("consume invitation: %w", err)
		}

		activity.EntityID = inv.GroupID
		return insertActivity(ctx, tx, activity)
	})
}
