package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/service"
	"github.com/shivarya/splitcash/pkg/response"
)

// MyBalances returns the caller's position in each of their groups.
// GET /api/balances/my-balances
func (h *Handler) MyBalances(c *gin.Context) {
	balances, err := h.balances.MyBalances(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, balances)
}

// GroupBalances returns every member's position in the group.
// GET /api/balances/:groupId
func (h *Handler) GroupBalances(c *gin.Context) {
	balances, err := h.balances.GroupBalances(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, balances)
}

// SettlementSuggestions returns the recommended payments that would
// settle the group.
// GET /api/balances/:groupId/settlements/suggestions
func (h *Handler) SettlementSuggestions(c *gin.Context) {
	suggestions, err := h.balances.Suggestions(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, suggestions)
}

// RecordSettlement stores a real payment between two members.
// POST /api/balances/:groupId/settlements
func (h *Handler) RecordSettlement(c *gin.Context) {
	var req service.RecordSettlementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "invalid request body")
		return
	}

	settlement, err := h.balances.RecordSettlement(c.Request.Context(), currentUserID(c), c.Param("groupId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, settlement)
}

// SettlementHistory returns the group's recorded settlements.
// GET /api/balances/:groupId/settlements/history
func (h *Handler) SettlementHistory(c *gin.Context) {
	settlements, err := h.balances.History(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, settlements)
}

// GroupActivity returns the group's activity feed, newest first.
// GET /api/balances/:groupId/activity?limit=N
func (h *Handler) GroupActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Fail(c, 400, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	activities, err := h.balances.Activity(c.Request.Context(), currentUserID(c), c.Param("groupId"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, activities)
}
