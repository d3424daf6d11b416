package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/checkout"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// TransactionBuilder is what the handler needs from the core. Narrow on
// purpose so tests can inject a fake.
type TransactionBuilder interface {
	Build(ctx context.Context, req checkout.Request) (*checkout.Result, error)
}

// CheckoutStore persists checkout records for the dashboard and webhooks.
type CheckoutStore interface {
	Record(ctx context.Context, co *domain.Checkout, webhookURL string) error
	GetByReference(ctx context.Context, reference string) (*domain.Checkout, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Checkout, error)
}

type CheckoutHandler struct {
	Builder    TransactionBuilder
	Repo       CheckoutStore
	Label      string
	Icon       string
	WebhookURL string
}

// CheckoutRequest carries the buyer's public key in the JSON body.
// Amount and reference travel in the query string, the way Solana Pay
// wallets send transaction requests.
type CheckoutRequest struct {
	Account string `json:"account"`
}

type CheckoutResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// Metadata serves the label and icon wallets display before paying.
func (h *CheckoutHandler) Metadata(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"label": h.Label,
		"icon":  h.Icon,
	})
}

// MakeTransaction builds the partially signed checkout transaction.
// Validation runs front to back before anything touches the chain.
func (h *CheckoutHandler) MakeTransaction(c *fiber.Ctx) error {
	// 1. The storefront computes the price and passes it in the query.
	amount, err := domain.ParseAmount(c.Query("amount"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
	}
	if amount.IsZero() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Can't checkout with charge of 0"})
	}

	// 2. The reference is used to locate the transaction later.
	refParam := c.Query("reference")
	if refParam == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No reference provided"})
	}
	reference, err := solana.PublicKeyFromBase58(refParam)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reference"})
	}

	// 3. The buyer's public key comes in the JSON body.
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil || req.Account == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No account provided"})
	}
	buyer, err := solana.PublicKeyFromBase58(req.Account)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account"})
	}

	result, err := h.Builder.Build(c.Context(), checkout.Request{
		Buyer:     buyer,
		Reference: reference,
		Amount:    amount,
	})
	if err != nil {
		return h.buildError(c, err)
	}

	// Record the checkout so the dashboard and the webhook worker see it.
	// The wallet still gets its transaction if this fails — losing the
	// record is logged, not fatal.
	if h.Repo != nil {
		co := &domain.Checkout{
			Reference:  reference.String(),
			Account:    buyer.String(),
			Amount:     result.Quote.Total,
			Discounted: result.Quote.Discounted(),
		}
		if err := h.Repo.Record(c.Context(), co, h.WebhookURL); err != nil {
			slog.Error("Failed to record checkout", "error", err, "reference", co.Reference)
		}
	}

	return c.JSON(CheckoutResponse{
		Transaction: result.Encoded,
		Message:     result.Message,
	})
}

// GetCheckout looks a recorded checkout up by its tracking reference.
func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	reference := c.Params("reference")
	co, err := h.Repo.GetByReference(c.Context(), reference)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Checkout not found"})
	}
	return c.JSON(checkoutJSON(co))
}

// ListCheckouts returns the most recent checkouts for the dashboard.
func (h *CheckoutHandler) ListCheckouts(c *fiber.Ctx) error {
	checkouts, err := h.Repo.ListRecent(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		slog.Error("Failed to list checkouts", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch checkouts"})
	}

	out := make([]fiber.Map, 0, len(checkouts))
	for i := range checkouts {
		out = append(out, checkoutJSON(&checkouts[i]))
	}
	return c.JSON(fiber.Map{"checkouts": out})
}

func checkoutJSON(co *domain.Checkout) fiber.Map {
	return fiber.Map{
		"id":         co.ID,
		"reference":  co.Reference,
		"account":    co.Account,
		"amount":     co.Amount.String(),
		"discounted": co.Discounted,
		"status":     co.Status,
		"created_at": co.CreatedAt,
	}
}

// buildError maps builder failures to HTTP. Validation and configuration
// problems get their specific reason; anything else is logged in full and
// surfaced as an opaque 500 so internal ledger state never leaks.
func (h *CheckoutHandler) buildError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrZeroAmount):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Can't checkout with charge of 0"})
	case errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
	case errors.Is(err, domain.ErrMissingReference):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No reference provided"})
	case errors.Is(err, domain.ErrMissingAccount):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No account provided"})
	case errors.Is(err, domain.ErrShopKeyMissing):
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Shop private key not available"})
	default:
		slog.Error("Failed to build checkout transaction", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "error creating transaction"})
	}
}
