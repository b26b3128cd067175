package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/pkg/response"
)

type googleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleSignIn exchanges a Google ID token for a session token, creating
// the account on first sign-in.
// POST /api/auth/google
func (h *Handler) GoogleSignIn(c *gin.Context) {
	var req googleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "id_token is required")
		return
	}

	user, token, err := h.auth.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"user": user, "token": token})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a password account.
// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "email, name and password are required")
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a password account.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "email and password are required")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{"user": user, "token": token})
}

// GetProfile returns the caller's profile.
// GET /api/auth/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile changes the caller's display name.
// PUT /api/auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "name is required")
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}
