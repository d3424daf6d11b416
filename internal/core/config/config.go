package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	Env         string

	// Solana side
	RPCURL         string
	ShopPrivateKey string // base58 secret key; the shop identity derives from it
	USDCMint       string
	CouponMint     string

	// Storefront metadata wallets display before paying
	Label string
	Icon  string

	// Notifications
	WebhookURL    string
	WebhookSecret string
}

// LoadConfig reads .env file and returns a Config struct
func LoadConfig() *Config {
	// Try loading .env file (it might not exist in Production, which is fine)
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on System Env Variables")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Env:         getEnv("ENV", "development"),

		RPCURL:         getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
		ShopPrivateKey: getEnv("SHOP_PRIVATE_KEY", ""),
		// The USDC devnet mint is the same for everyone; the coupon mint is
		// this shop's own token.
		USDCMint:   getEnv("USDC_MINT", "Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr"),
		CouponMint: getEnv("COUPON_MINT", "7Y45tt6Z4nwEftcSsETJdmMWAFN9AyoF9PqbEUN8BG4J"),

		Label: getEnv("SHOP_LABEL", "Cookies Inc"),
		Icon:  getEnv("SHOP_ICON", "https://freesvg.org/img/1370962427.png"),

		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
