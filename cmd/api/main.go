package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/adapter/handler"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/adapter/ledger"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/adapter/middleware"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/adapter/storage"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/checkout"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/config"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/security"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Shop identity. Without the key every checkout fails with a 500,
	// same as the storefront misconfiguration it is.
	shopKey, err := security.LoadShopKey(cfg.ShopPrivateKey)
	if err != nil {
		slog.Warn("⚠️ Shop private key not configured, checkouts will fail until it is set", "error", err)
	}

	usdcMint, err := solana.PublicKeyFromBase58(cfg.USDCMint)
	if err != nil {
		slog.Error("Invalid USDC_MINT", "error", err)
		os.Exit(1)
	}
	couponMint, err := solana.PublicKeyFromBase58(cfg.CouponMint)
	if err != nil {
		slog.Error("Invalid COUPON_MINT", "error", err)
		os.Exit(1)
	}

	// 4. Connect to Database
	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("❌ Database connection failed", "error", err)
		os.Exit(1)
	}
	// Closed manually on shutdown, not deferred.

	// 5. Wire the core: RPC ledger adapter into the transaction builder
	chain := ledger.NewClient(cfg.RPCURL, shopKey)
	builder := checkout.NewBuilder(chain, checkout.Config{
		ShopKey:    shopKey,
		USDCMint:   usdcMint,
		CouponMint: couponMint,
	})

	checkoutRepo := storage.NewCheckoutRepository(dbPool)

	checkoutHandler := &handler.CheckoutHandler{
		Builder:    builder,
		Repo:       checkoutRepo,
		Label:      cfg.Label,
		Icon:       cfg.Icon,
		WebhookURL: cfg.WebhookURL,
	}
	keysHandler := &handler.KeysHandler{Repo: checkoutRepo}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/v1")

	// Wallet-facing (Solana Pay transaction request)
	api.Get("/checkout", checkoutHandler.Metadata)
	api.Post("/checkout", middleware.Idempotency(dbPool), checkoutHandler.MakeTransaction)

	// Dashboard
	api.Post("/keys", keysHandler.GenerateKey)
	private := api.Use(middleware.Protected(dbPool))
	private.Get("/checkouts", checkoutHandler.ListCheckouts)
	private.Get("/checkouts/:reference", checkoutHandler.GetCheckout)

	// 8. Start Worker
	worker.StartWebhookWorker(dbPool, cfg.WebhookSecret)

	// Graceful shutdown: finish in-flight checkouts, then close the pool.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	dbPool.Close()
	slog.Info("✅ Database connection closed")

	slog.Info("👋 Server exited successfully")
}
