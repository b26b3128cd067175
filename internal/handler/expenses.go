package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/service"
	"github.com/shivarya/splitcash/pkg/response"
)

// CreateExpense records an expense in the group.
// POST /api/expenses/:groupId
func (h *Handler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "invalid request body")
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), currentUserID(c), c.Param("groupId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, expense)
}

// ListExpenses returns a group's expenses with their splits.
// GET /api/expenses/:groupId
func (h *Handler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), currentUserID(c), c.Param("groupId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, expenses)
}

// UpdateExpense applies a partial update; splits stay as recorded.
// PUT /api/expenses/:expenseId
func (h *Handler) UpdateExpense(c *gin.Context) {
	var req service.UpdateExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, 400, "invalid request body")
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), currentUserID(c), c.Param("expenseId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, expense)
}

// DeleteExpense removes an expense.
// DELETE /api/expenses/:expenseId
func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), currentUserID(c), c.Param("expenseId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, nil, "expense deleted")
}
