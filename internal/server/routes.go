package server

import (
	"github.com/labstack/echo/v4"

	"example.com/finance-bot/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	ledgerHandler *handlers.LedgerHandler,
	recurringHandler *handlers.RecurringHandler,
	goalHandler *handlers.GoalHandler,
	statsHandler *handlers.StatsHandler,
	backupHandler *handlers.BackupHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth", authRateLimiter)
	authGroup.POST("/unlock", authHandler.Unlock)
	authGroup.PUT("/pin", authHandler.UpdatePIN, authMiddleware)

	ledgerGroup := api.Group("/ledger", authMiddleware)
	ledgerGroup.GET("", ledgerHandler.Get)

	api.PUT("/income", ledgerHandler.SetIncome, authMiddleware)

	expenses := api.Group("/expenses", authMiddleware)
	expenses.GET("", ledgerHandler.ListExpenses)
	expenses.POST("", ledgerHandler.CreateExpense)

	api.PUT("/deposits", ledgerHandler.SetDeposit, authMiddleware)
	api.GET("/categories", ledgerHandler.Categories, authMiddleware)
	api.PUT("/settings/theme", ledgerHandler.SetTheme, authMiddleware)

	recurringGroup := api.Group("/recurring", authMiddleware)
	recurringGroup.GET("", recurringHandler.List)
	recurringGroup.POST("", recurringHandler.Create)
	recurringGroup.POST("/process", recurringHandler.Process)
	recurringGroup.DELETE("/:index", recurringHandler.Delete)

	goals := api.Group("/goals", authMiddleware)
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.PATCH("/:index/amount", goalHandler.UpdateAmount)
	goals.DELETE("/:index", goalHandler.Delete)

	stats := api.Group("/stats", authMiddleware)
	stats.GET("/summary", statsHandler.Summary)
	stats.GET("/balance", statsHandler.Balance)
	stats.GET("/today", statsHandler.Today)
	stats.GET("/warnings", statsHandler.Warnings)

	backup := api.Group("/backup", authMiddleware)
	backup.GET("/export", backupHandler.Export)
	backup.POST("/import", backupHandler.Import)

	notificationsGroup := api.Group("/notifications", authMiddleware)
	notificationsGroup.GET("/stream", notificationHandler.Stream)
}
