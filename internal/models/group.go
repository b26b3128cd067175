package models

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Group represents a shared-expense group. The creator becomes its first
// member with the admin role; everyone else joins through an invitation.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Roommates", "Goa Trip").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description"`

	// Category is an optional label ("trip", "home", ...).
	Category string `json:"category,omitempty"`

	// Image is an optional cover image URL.
	Image string `json:"image,omitempty"`

	// CreatedBy is the user ID of the group creator.
	CreatedBy string `json:"created_by"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"-"`

	// Members is populated on detail reads, empty otherwise.
	Members []Member `json:"members,omitempty"`
}

// Member is a user's membership in a group, joined with their profile.
type Member struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Role           string `json:"role"`
	JoinedAt       int64  `json:"joined_at"`
}

// Invitation is a pending offer to join a group, keyed by a secret token
// that is emailed to the invitee. Accepting consumes the invitation.
type Invitation struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Email     string `json:"email"`
	Token     string `json:"-"`
	CreatedAt int64  `json:"created_at"`
}
