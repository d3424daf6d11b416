package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/security"
)

// APIKeyStore persists hashed dashboard keys.
type APIKeyStore interface {
	SaveAPIKey(ctx context.Context, keyHash string, keyPrefix string) (uuid.UUID, error)
}

type KeysHandler struct {
	Repo APIKeyStore
}

// GenerateKey mints a dashboard API key. The real key is returned exactly
// once; only its hash is stored.
func (h *KeysHandler) GenerateKey(c *fiber.Ctx) error {
	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("Crypto error generating key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Crypto error"})
	}

	id, err := h.Repo.SaveAPIKey(c.Context(), keyHash, security.KeyPrefix)
	if err != nil {
		slog.Error("Failed to save API key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save key"})
	}

	slog.Info("🔑 API Key Generated", "key_id", id)

	return c.JSON(fiber.Map{
		"api_key": realKey,
		"warning": "Save this now! We won't show it again.",
	})
}
