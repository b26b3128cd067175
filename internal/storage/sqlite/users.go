package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shivarya/splitcash/internal/models"
)

const userColumns = "id, google_id, email, name, profile_picture, password_hash, created_at, updated_at"

// CreateUser inserts a new user, generating ID and timestamps if unset.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, google_id, email, name, profile_picture, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, googleID, user.Email, user.Name, user.ProfilePicture,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID. Returns nil when not found.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetUserByEmail retrieves a user by email. Returns nil when not found.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// GetUserByGoogle retrieves a user by Google subject or email, matching
// what an earlier sign-in may have stored. Returns nil when not found.
func (s *Store) GetUserByGoogle(ctx context.Context, googleID, email string) (*models.User, error) {
	return s.getUser(ctx,
		"SELECT "+userColumns+" FROM users WHERE google_id = ? OR email = ?",
		googleID, email,
	)
}

func (s *Store) getUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	var googleID sql.NullString

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &googleID, &user.Email, &user.Name, &user.ProfilePicture,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.GoogleID = googleID.String
	return user, nil
}

// UpdateUserProfile updates the user's display name.
func (s *Store) UpdateUserProfile(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, updated_at = ? WHERE id = ?",
		name, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateUserGoogleInfo refreshes the Google-supplied fields after sign-in.
func (s *Store) UpdateUserGoogleInfo(ctx context.Context, id, googleID, name, picture string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET google_id = ?, name = ?, profile_picture = ?, updated_at = ? WHERE id = ?",
		googleID, name, picture, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("update user google info: %w", err)
	}
	return nil
}
