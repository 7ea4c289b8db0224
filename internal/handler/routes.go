package handler

import (
	"context"
	"net/http"

	"kkp-asta/internal/middleware"
	"kkp-asta/internal/model"
	"kkp-asta/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Router holds everything needed to mount the HTTP surface.
type Router struct {
	Auth            *AuthHandler
	Category        *CategoryHandler
	Item            *ItemHandler
	Transaction     *TransactionHandler
	TransactionType *TransactionTypeHandler
	Report          *ReportHandler
	Dashboard       *DashboardHandler
	User            *UserHandler

	RequireAuth fiber.Handler
	Hub         *ws.Hub
	Metrics     http.Handler
	Ping        func(ctx context.Context) error
}

func (r *Router) Mount(app *fiber.App) {
	app.Get("/health", r.health)
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", r.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", r.RequireAuth)
	ownerOnly := middleware.RequireRole(model.RoleOwner)
	anyRole := middleware.RequireRole(model.RoleOwner, model.RoleStaff)

	protected.Get("/auth/me", r.Auth.Me)
	protected.Post("/auth/change-password", r.Auth.ChangePassword)

	protected.Get("/transaction-types", r.TransactionType.GetTransactionTypes)

	// Master data: everyone reads, the owner writes
	protected.Get("/categories", r.Category.GetCategories)
	protected.Get("/categories/:id", r.Category.GetCategory)
	protected.Post("/categories", ownerOnly, r.Category.CreateCategory)
	protected.Put("/categories/:id", ownerOnly, r.Category.UpdateCategory)
	protected.Delete("/categories/:id", ownerOnly, r.Category.DeleteCategory)

	protected.Get("/items", r.Item.GetItems)
	protected.Get("/items/:id", r.Item.GetItem)
	protected.Post("/items", ownerOnly, r.Item.CreateItem)
	protected.Put("/items/:id", ownerOnly, r.Item.UpdateItem)
	protected.Delete("/items/:id", ownerOnly, r.Item.DeleteItem)

	protected.Get("/transactions", anyRole, r.Transaction.GetTransactions)
	protected.Get("/transactions/:id", anyRole, r.Transaction.GetTransaction)
	protected.Post("/transactions", anyRole, r.Transaction.CreateTransaction)

	reports := protected.Group("/reports", ownerOnly)
	reports.Get("/laba-rugi", r.Report.ProfitAndLoss)
	reports.Get("/arus-kas", r.Report.CashFlow)
	reports.Get("/rekap", r.Report.Recap)

	protected.Get("/dashboard/stats", r.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", r.Dashboard.GetStockMovement)

	users := protected.Group("/users", ownerOnly)
	users.Get("", r.User.GetUsers)
	users.Get("/:id", r.User.GetUser)
	users.Post("", r.User.CreateUser)
	users.Put("/:id", r.User.UpdateUser)
	users.Delete("/:id", r.User.DeleteUser)

	// WebSocket Route
	if r.Hub != nil {
		app.Use("/ws", RequireUpgrade)
		app.Get("/ws", Stream(r.Hub))
	}
}

func (r *Router) health(c *fiber.Ctx) error {
	if r.Ping != nil {
		if err := r.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
