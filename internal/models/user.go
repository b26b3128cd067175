package models

// User represents a registered account. Users sign in either with a Google
// ID token or with an email/password pair; GoogleID and PasswordHash are
// empty for whichever method the account does not use.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// GoogleID is the Google account subject, empty for password accounts.
	GoogleID string `json:"-"`

	// Email is the user's email address (unique, used for invitations).
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// ProfilePicture is an optional avatar URL.
	ProfilePicture string `json:"profile_picture"`

	// PasswordHash is the bcrypt hash, empty for Google-only accounts.
	PasswordHash string `json:"-"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"-"`
}
