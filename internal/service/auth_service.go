package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/auth"
	"github.com/shivarya/splitcash/internal/mail"
	"github.com/shivarya/splitcash/internal/models"
	"github.com/shivarya/splitcash/internal/storage"
)

// GoogleTokenVerifier validates a Google ID token and returns its claims.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.GoogleProfile, error)
}

// AuthService handles sign-in, registration and profile management.
type AuthService struct {
	store    storage.Store
	jwt      *auth.JWTManager
	password auth.Authenticator
	google   GoogleTokenVerifier
	mailer   mail.Publisher
}

// NewAuthService creates an AuthService. mailer may be nil to disable
// outbound mail.
func NewAuthService(store storage.Store, jwt *auth.JWTManager, password auth.Authenticator, google GoogleTokenVerifier, mailer mail.Publisher) *AuthService {
	return &AuthService{
		store:    store,
		jwt:      jwt,
		password: password,
		google:   google,
		mailer:   mailer,
	}
}

// GoogleSignIn verifies a Google ID token and signs the user in, creating
// the account on first sign-in. Returns the user and a session token.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*models.User, string, error) {
	if s.google == nil {
		return nil, "", apperr.Validation("google sign-in is not configured")
	}

	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		slog.Error("Google token verification failed", "error", err)
		return nil, "", err
	}

	user, err := s.store.GetUserByGoogle(ctx, profile.Subject, profile.Email)
	if err != nil {
		return nil, "", apperr.Storage("failed to look up user", err)
	}

	if user == nil {
		user = &models.User{
			GoogleID:       profile.Subject,
			Email:          profile.Email,
			Name:           profile.Name,
			ProfilePicture: profile.Picture,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return nil, "", apperr.Storage("failed to create user", err)
		}
		slog.Info("New user signed up via Google", "user_id", user.ID)
		s.sendWelcome(ctx, user)
	} else {
		// Keep the Google-supplied fields fresh on every sign-in.
		if err := s.store.UpdateUserGoogleInfo(ctx, user.ID, profile.Subject, profile.Name, profile.Picture); err != nil {
			return nil, "", apperr.Storage("failed to update user", err)
		}
		user.GoogleID = profile.Subject
		user.Name = profile.Name
		user.ProfilePicture = profile.Picture
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", apperr.Storage("failed to issue token", err)
	}

	slog.Info("User signed in via Google", "user_id", user.ID)
	return user, token, nil
}

// Register creates a password account and signs the user in.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, "", apperr.Validation("email and name are required")
	}

	user, err := s.password.Register(ctx, email, name, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", apperr.Storage("failed to issue token", err)
	}

	slog.Info("New user registered", "user_id", user.ID)
	s.sendWelcome(ctx, user)
	return user, token, nil
}

// Login authenticates a password account and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.password.Authenticate(ctx, strings.TrimSpace(strings.ToLower(email)), password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", apperr.Storage("failed to issue token", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// GetProfile returns the user's own profile.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile changes the user's display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	if err := s.store.UpdateUserProfile(ctx, userID, name); err != nil {
		return nil, apperr.Storage("failed to update profile", err)
	}
	return s.GetProfile(ctx, userID)
}

// sendWelcome enqueues a welcome mail; failures are logged, never fatal.
func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Publish(ctx, mail.NewWelcomeJob(user.Email, user.Name)); err != nil {
		slog.Error("Failed to enqueue welcome mail", "user_id", user.ID, "error", err)
	}
}
