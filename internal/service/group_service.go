package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shivarya/splitcash/internal/apperr"
	"github.com/shivarya/splitcash/internal/mail"
	"github.com/shivarya/splitcash/internal/models"
	"github.com/shivarya/splitcash/internal/storage"
)

// GroupService handles groups, membership and invitations.
type GroupService struct {
	store  storage.Store
	mailer mail.Publisher
	appURL string
}

// NewGroupService creates a GroupService. mailer may be nil to disable
// invitation mail; appURL is the public base URL used in accept links.
func NewGroupService(store storage.Store, mailer mail.Publisher, appURL string) *GroupService {
	return &GroupService{
		store:  store,
		mailer: mailer,
		appURL: strings.TrimSuffix(appURL, "/"),
	}
}

// CreateGroupInput carries the fields for a new group.
type CreateGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// Create makes a new group with the caller as its admin member.
func (s *GroupService) Create(ctx context.Context, userID string, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	group := &models.Group{
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
		Image:       input.Image,
		CreatedBy:   userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, apperr.Storage("failed to create group", err)
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", userID)
	return group, nil
}

// List returns the caller's groups, most recently active first.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("failed to list groups", err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}

// Get returns a group with its members. The caller must be a member.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.requireMembership(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to list members", err)
	}
	group.Members = members
	return group, nil
}

// Members returns a group's members in join order.
func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]models.Member, error) {
	if _, err := s.requireMembership(ctx, userID, groupID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to list members", err)
	}
	return members, nil
}

// Invite creates invitations for the given emails and enqueues the
// invitation mail. Addresses already belonging to members are skipped.
func (s *GroupService) Invite(ctx context.Context, userID, groupID string, emails []string) ([]*models.Invitation, error) {
	group, err := s.requireMembership(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	inviter, err := s.store.GetUserByID(ctx, userID)
	if err != nil || inviter == nil {
		return nil, apperr.Storage("failed to get inviter", err)
	}

	invitations := []*models.Invitation{}
	for _, raw := range emails {
		email := strings.TrimSpace(strings.ToLower(raw))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperr.Validation("invalid email address: %q", raw)
		}

		// Skip addresses that already belong to a member.
		if existing, err := s.store.GetUserByEmail(ctx, email); err != nil {
			return nil, apperr.Storage("failed to look up invitee", err)
		} else if existing != nil {
			isMember, err := s.store.IsMember(ctx, groupID, existing.ID)
			if err != nil {
				return nil, apperr.Storage("failed to check membership", err)
			}
			if isMember {
				slog.Info("Skipping invitation for existing member", "group_id", groupID, "email", email)
				continue
			}
		}

		inv := &models.Invitation{GroupID: groupID, Email: email}
		if err := s.store.CreateInvitation(ctx, inv); err != nil {
			return nil, apperr.Storage("failed to create invitation", err)
		}
		invitations = append(invitations, inv)

		if s.mailer != nil {
			acceptURL := fmt.Sprintf("%s/invite/%s", s.appURL, inv.Token)
			job := mail.NewInvitationJob(email, group.Name, inviter.Name, acceptURL)
			if err := s.mailer.Publish(ctx, job); err != nil {
				slog.Error("Failed to enqueue invitation mail", "group_id", groupID, "email", email, "error", err)
			}
		}
	}

	slog.Info("Invitations created", "group_id", groupID, "count", len(invitations))
	return invitations, nil
}

// AcceptInvitation joins the caller to the invited group and consumes the
// invitation. The token is single-use; an unknown token is a 404.
func (s *GroupService) AcceptInvitation(ctx context.Context, userID, token string) (*models.Group, error) {
	inv, err := s.store.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, apperr.Storage("failed to look up invitation", err)
	}
	if inv == nil {
		return nil, apperr.NotFound("invitation not found or already used")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return nil, apperr.Storage("failed to get user", err)
	}

	activity := &models.Activity{
		GroupID:     inv.GroupID,
		UserID:      userID,
		Action:      models.ActionJoinGroup,
		EntityType:  "group",
		Description: fmt.Sprintf("%s joined the group", user.Name),
	}
	if err := s.store.AcceptInvitation(ctx, inv, userID, activity); err != nil {
		return nil, apperr.Storage("failed to accept invitation", err)
	}

	slog.Info("Invitation accepted", "group_id", inv.GroupID, "user_id", userID)

	group, err := s.store.GetGroup(ctx, inv.GroupID)
	if err != nil {
		return nil, apperr.Storage("failed to get group", err)
	}
	if group == nil {
		return nil, apperr.NotFound("group not found")
	}
	return group, nil
}

// requireMembership loads the group and checks the caller belongs to it.
func (s *GroupService) requireMembership(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage("failed to get group", err)
	}
	if group == nil {
		return nil, apperr.NotFound("group not found")
	}

	isMember, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, apperr.Storage("failed to check membership", err)
	}
	if !isMember {
		return nil, apperr.Authorization("you are not a member of this group")
	}
	return group, nil
}
