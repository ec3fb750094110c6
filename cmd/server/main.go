package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/valuelife/portal/internal/admin"
	"github.com/valuelife/portal/internal/alerts"
	"github.com/valuelife/portal/internal/catalog"
	"github.com/valuelife/portal/internal/commission"
	"github.com/valuelife/portal/internal/kyc"
	"github.com/valuelife/portal/internal/metrics"
	mware "github.com/valuelife/portal/internal/middleware"
	"github.com/valuelife/portal/internal/orders"
	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
	"github.com/valuelife/portal/internal/wallet"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	alerts.Init()

	collector := metrics.NewCollector()

	directory := user.NewDirectory(st, logger)
	ledger := wallet.NewLedger(st, logger)
	withdrawals := wallet.NewWithdrawals(st, ledger, wallet.DirectoryAdapter{Directory: directory}, logger)
	products := catalog.NewService(st, logger)
	if err := products.Seed(ctx); err != nil {
		log.Fatalf("catalog seed failed: %v", err)
	}
	orderSvc := orders.NewService(st, products, logger)
	engine := commission.NewEngine(st, directory, ledger, orderSvc, logger)
	engine.SetNotifier(bonusNotifier{collector: collector, logger: logger})
	orderSvc.SetListener(engine)
	directory.SetListener(engine)
	kycSvc := kyc.NewService(st, directory, logger)

	walletH := wallet.NewHandler(ledger, withdrawals, collector)
	withdrawAdminH := wallet.NewAdminHandler(withdrawals, directory, collector)
	userH := user.NewHandler(directory)
	catalogH := catalog.NewHandler(products)
	orderH := orders.NewHandler(orderSvc)
	kycH := kyc.NewHandler(kycSvc, directory)
	statsH := commission.NewHandler(engine)
	adminH := admin.NewHandler(st, directory, ledger, withdrawals)

	e := echo.New()
	e.HideBanner = true

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(mware.HTTPMetrics(collector))

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "valuelife"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := st.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "store unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	// Member routes
	e.POST("/users", userH.Register)
	e.GET("/users/:id", userH.GetProfile)
	e.GET("/users/:id/referrals", userH.ListDirects)
	e.GET("/users/:id/stats", statsH.Stats)

	e.GET("/users/:id/wallet", walletH.Balance)
	e.GET("/users/:id/wallet/transactions", walletH.GetTransactions)
	e.POST("/wallet/withdrawals", walletH.CreateWithdrawal)
	e.GET("/users/:id/wallet/withdrawals", walletH.ListWithdrawals)

	e.GET("/products", catalogH.ListActive)
	e.POST("/orders", orderH.Create)
	e.POST("/orders/:id/payment", orderH.RecordPayment)
	e.GET("/users/:id/orders", orderH.ListForUser)

	e.POST("/kyc", kycH.Submit)
	e.GET("/users/:id/kyc", kycH.ListForUser)

	// Admin routes
	adminG := e.Group("/admin")
	adminG.GET("/withdrawals/pending", withdrawAdminH.ListPendingWithdrawals)
	adminG.GET("/withdrawals", withdrawAdminH.ListAllWithdrawals)
	adminG.POST("/withdrawals/:id/approve", withdrawAdminH.ApproveWithdrawal)
	adminG.POST("/withdrawals/:id/reject", withdrawAdminH.RejectWithdrawal)
	adminG.POST("/withdrawals/:id/pay", withdrawAdminH.MarkWithdrawalPaid)
	adminG.GET("/wallets", adminH.ListWallets)
	adminG.GET("/users", adminH.ListUsers)
	adminG.GET("/stats", adminH.Overview)
	adminG.GET("/settings/commission", adminH.GetCommissionSettings)
	adminG.PUT("/settings/commission", adminH.UpdateCommissionSettings)
	adminG.GET("/products", catalogH.ListAll)
	adminG.POST("/products", catalogH.Create)
	adminG.PUT("/products/:id", catalogH.Update)
	adminG.DELETE("/products/:id", catalogH.Delete)
	adminG.POST("/orders/:id/refund", orderH.Refund)
	adminG.GET("/kyc", kycH.List)
	adminG.POST("/kyc/:id/review", kycH.Review)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// bonusNotifier forwards commission credits to the alerts queue and the
// metrics collector.
type bonusNotifier struct {
	collector *metrics.Collector
	logger    *slog.Logger
}

func (n bonusNotifier) BonusCredited(userID, email, bonusType, amount string) {
	n.collector.RecordBonusCredited(bonusType)
	if err := alerts.EnqueueBonusCredited(userID, email, bonusType, amount); err != nil {
		n.logger.Warn("could not enqueue bonus notification",
			"user_id", userID, "type", bonusType, "error", err)
	}
}

// openStore picks the persistence backend: Postgres by default, the
// in-process store when STORE=memory (local development).
func openStore(ctx context.Context) (store.Store, error) {
	if os.Getenv("STORE") == "memory" {
		return store.NewMemory(), nil
	}
	return store.NewPostgres(ctx)
}
