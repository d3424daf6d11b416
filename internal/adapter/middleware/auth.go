package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/security"
)

// Protected guards the dashboard endpoints with a hashed API key.
func Protected(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization") // "Bearer shop_live_..."
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API Key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Header Format"})
		}

		// Only the hash ever reaches the database
		hashedKey := security.HashKey(parts[1])

		var keyID string
		err := db.QueryRow(c.Context(), "SELECT id FROM api_keys WHERE key_hash = $1", hashedKey).Scan(&keyID)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API Key"})
		}

		c.Locals("api_key_id", keyID)
		return c.Next()
	}
}
