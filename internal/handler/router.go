// Package handler wires the HTTP surface: routing, middleware and the
// request/response translation around the service layer.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shivarya/splitcash/internal/auth"
	"github.com/shivarya/splitcash/internal/metrics"
	"github.com/shivarya/splitcash/internal/service"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	balances *service.BalanceService
}

// NewHandler creates a Handler over the given services.
func NewHandler(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, balances *service.BalanceService) *Handler {
	return &Handler{
		auth:     authSvc,
		groups:   groups,
		expenses: expenses,
		balances: balances,
	}
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(h *Handler, jwt *auth.JWTManager, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/google", h.GoogleSignIn)
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)

			profile := authGroup.Group("", RequireAuth(jwt))
			{
				profile.GET("/profile", h.GetProfile)
				profile.PUT("/profile", h.UpdateProfile)
			}
		}

		protected := api.Group("", RequireAuth(jwt))
		{
			groups := protected.Group("/groups")
			{
				groups.POST("", h.CreateGroup)
				groups.GET("", h.ListGroups)
				groups.POST("/accept-invitation", h.AcceptInvitation)
				groups.GET("/:groupId", h.GetGroup)
				groups.GET("/:groupId/members", h.ListMembers)
				groups.POST("/:groupId/invite", h.InviteMembers)
			}

			// Expense create/list key on the group; update/delete key on
			// the expense. Per-method route trees keep the params apart.
			expenses := protected.Group("/expenses")
			{
				expenses.POST("/:groupId", h.CreateExpense)
				expenses.GET("/:groupId", h.ListExpenses)
				expenses.PUT("/:expenseId", h.UpdateExpense)
				expenses.DELETE("/:expenseId", h.DeleteExpense)
			}

			balances := protected.Group("/balances")
			{
				balances.GET("/my-balances", h.MyBalances)
				balances.GET("/:groupId", h.GroupBalances)
				balances.GET("/:groupId/settlements/suggestions", h.SettlementSuggestions)
				balances.GET("/:groupId/settlements/history", h.SettlementHistory)
				balances.POST("/:groupId/settlements", h.RecordSettlement)
				balances.GET("/:groupId/activity", h.GroupActivity)
			}
		}
	}

	return r
}
