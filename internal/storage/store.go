// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shivarya/splitcash/internal/models"
)

// Store defines the persistence interface the services depend on. This
// abstraction allows swapping storage backends without changing the
// service layer.
//
// Multi-row write sequences (expense + splits + activity, settlement +
// activity) are single methods so implementations can make them atomic: a
// reader never observes an expense without its splits or a settlement
// without its activity entry.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByGoogle matches on Google subject or email, in that order.
	GetUserByGoogle(ctx context.Context, googleID, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, name string) error
	// UpdateUserGoogleInfo refreshes the Google-supplied fields on sign-in.
	UpdateUserGoogleInfo(ctx context.Context, id, googleID, name, picture string) error

	// Groups and membership.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	GetMemberRole(ctx context.Context, groupID, userID string) (string, error)
	AddMember(ctx context.Context, groupID, userID, role string) error

	// Invitations. AcceptInvitation adds the membership, consumes the
	// invitation and writes the join activity in one transaction.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
	AcceptInvitation(ctx context.Context, inv *models.Invitation, userID string, activity *models.Activity) error

	// Expenses. CreateExpense persists the expense, its splits and the
	// activity entry in one transaction; UpdateExpense and DeleteExpense
	// pair the row change with its activity entry the same way.
	// UpdateExpense never touches the stored splits, even when the amount
	// changes.
	CreateExpense(ctx context.Context, expense *models.Expense, activity *models.Activity) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, id string, update *models.ExpenseUpdate, activity *models.Activity) error
	DeleteExpense(ctx context.Context, id string, activity *models.Activity) error

	// Settlements. CreateSettlement persists the settlement and the
	// activity entry in one transaction.
	CreateSettlement(ctx context.Context, settlement *models.Settlement, activity *models.Activity) error
	ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Activity log.
	ListActivities(ctx context.Context, groupID string, limit int) ([]*models.Activity, error)

	// Close releases any resources held by the store.
	Close() error
}
