package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/service"
	"github.com/shivarya/splitcash/pkg/response"
)

// CreateGroup makes a new group with the caller as admin.
// POST /api/groups
func (h *Handler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "invalid request body")
		return
	}

	group, err := h.groups.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, group)
}

// ListGroups returns the caller's groups.
// GET /api/groups
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, groups)
}

// GetGroup returns one group with its members.
// GET /api/groups/:groupId
func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, group)
}

// ListMembers returns a group's members in join order.
// GET /api/groups/:groupId/members
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.groups.Members(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, members)
}

type inviteRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}

// InviteMembers creates invitations for the given email addresses.
// POST /api/groups/:groupId/invite
func (h *Handler) InviteMembers(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "emails is required")
		return
	}

	invitations, err := h.groups.Invite(c.Request.Context(), currentUserID(c), c.Param("groupId"), req.Emails)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, invitations, "invitations sent")
}

type acceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// AcceptInvitation consumes an invitation token and joins the caller to
// its group.
// POST /api/groups/accept-invitation
func (h *Handler) AcceptInvitation(c *gin.Context) {
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "token is required")
		return
	}

	group, err := h.groups.AcceptInvitation(c.Request.Context(), currentUserID(c), req.Token)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, group, "joined group")
}
