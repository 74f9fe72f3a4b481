// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"arena/internal/config"
	"arena/internal/handlers"
	"arena/internal/middleware"
	"arena/internal/observability"
	"arena/internal/repositories"
	"arena/internal/services/idempotency"
	"arena/internal/services/payout"
	"arena/internal/services/transaction"
	"arena/internal/services/wallet"
	"arena/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers together and
// registers all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, collector *observability.Collector) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	idempotencyRepo := repositories.NewIdempotencyRepository(db)
	txRunner := repositories.NewTxRunner(db)

	// Services
	idempotencyService := idempotency.NewService(idempotencyRepo)
	walletService := wallet.NewService(walletRepo, repositories.CacheService, collector)
	gateway := payout.NewStripeGateway(
		config.GetEnv("STRIPE_SECRET_KEY", ""),
		config.GetDurationEnv("PAYOUT_TIMEOUT", payout.DefaultTimeout),
	)
	transactionService := transaction.NewService(
		txRunner,
		transactionRepo,
		walletService,
		idempotencyService,
		collector,
	)
	withdrawalService := withdrawal.NewService(
		txRunner,
		transactionRepo,
		walletService,
		idempotencyService,
		gateway,
		collector,
	)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, walletService)
	depositHandler := handlers.NewDepositHandler(transactionService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	adminHandler := handlers.NewAdminHandler(transactionService)
	internalHandler := handlers.NewInternalHandler(transactionService, walletService)

	app.Get("/health", handlers.HealthCheck)

	authMiddleware := middleware.NewAuthMiddleware()
	api := app.Group("/api", authMiddleware.Handler)

	setupWalletRoutes(api, walletHandler, transactionHandler, depositHandler, withdrawalHandler)
	setupAdminRoutes(api, withdrawalHandler, depositHandler, adminHandler)
	setupInternalRoutes(api, internalHandler)
}

func setupWalletRoutes(
	router fiber.Router,
	walletHandler *handlers.WalletHandler,
	transactionHandler *handlers.TransactionHandler,
	depositHandler *handlers.DepositHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
) {
	walletGroup := router.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/balance", walletHandler.GetBalance)
	walletGroup.Get("/transactions", transactionHandler.GetHistory)
	walletGroup.Get("/transactions/:id", transactionHandler.GetTransaction)
	walletGroup.Post("/deposits", depositHandler.Initialize)
	walletGroup.Post("/withdrawals", withdrawalHandler.Request)
}

func setupAdminRoutes(
	router fiber.Router,
	withdrawalHandler *handlers.WithdrawalHandler,
	depositHandler *handlers.DepositHandler,
	adminHandler *handlers.AdminHandler,
) {
	admin := router.Group("/admin", middleware.RequireAdmin)
	admin.Get("/withdrawals/pending", withdrawalHandler.ListPending)
	admin.Post("/withdrawals/:id/approve", withdrawalHandler.Approve)
	admin.Post("/withdrawals/:id/reject", withdrawalHandler.Reject)
	admin.Post("/deposits/:id/confirm", depositHandler.Confirm)
	admin.Post("/deposits/:id/cancel", depositHandler.Cancel)
	admin.Post("/wallets/:userId/adjustments", adminHandler.Adjust)
	admin.Post("/transactions/:id/refund", adminHandler.Refund)
}

func setupInternalRoutes(router fiber.Router, internalHandler *handlers.InternalHandler) {
	internal := router.Group("/internal", middleware.RequireService)
	internal.Post("/wallets", internalHandler.CreateWallet)
	internal.Post("/fees", internalHandler.ChargeFee)
	internal.Post("/prizes", internalHandler.CreditPrize)
}
