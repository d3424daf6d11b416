package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/checkout"
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

type fakeBuilder struct {
	calls   int
	lastReq checkout.Request
	result  *checkout.Result
	err     error
}

func (f *fakeBuilder) Build(_ context.Context, req checkout.Request) (*checkout.Result, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeStore struct {
	recorded []*domain.Checkout
	byRef    map[string]*domain.Checkout
}

func (f *fakeStore) Record(_ context.Context, co *domain.Checkout, _ string) error {
	f.recorded = append(f.recorded, co)
	return nil
}

func (f *fakeStore) GetByReference(_ context.Context, reference string) (*domain.Checkout, error) {
	if co, ok := f.byRef[reference]; ok {
		return co, nil
	}
	return nil, fmt.Errorf("checkout not found")
}

func (f *fakeStore) ListRecent(context.Context, int) ([]domain.Checkout, error) {
	var out []domain.Checkout
	for _, co := range f.recorded {
		out = append(out, *co)
	}
	return out, nil
}

func newTestApp(h *CheckoutHandler) *fiber.App {
	app := fiber.New()
	app.Get("/v1/checkout", h.Metadata)
	app.Post("/v1/checkout", h.MakeTransaction)
	app.Get("/v1/checkouts/:reference", h.GetCheckout)
	return app
}

func testResult(t *testing.T, amount string, action domain.LoyaltyAction) *checkout.Result {
	t.Helper()
	amt, err := domain.ParseAmount(amount)
	require.NoError(t, err)
	return &checkout.Result{
		Encoded: "c2VyaWFsaXplZC10eA==",
		Message: "Thanks for your order! 🍪",
		Quote:   checkout.Quote{Total: amt, Action: action},
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func postCheckout(t *testing.T, app *fiber.App, query, jsonBody string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout"+query, strings.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMetadata(t *testing.T) {
	h := &CheckoutHandler{Label: "Cookies Inc", Icon: "https://icon.example/cookie.png"}
	app := newTestApp(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Cookies Inc", body["label"])
	assert.Equal(t, "https://icon.example/cookie.png", body["icon"])
}

func TestMakeTransactionHappyPath(t *testing.T) {
	buyer := solana.NewWallet().PublicKey()
	reference := solana.NewWallet().PublicKey()
	builder := &fakeBuilder{result: testResult(t, "10", domain.Reward)}
	store := &fakeStore{}
	h := &CheckoutHandler{Builder: builder, Repo: store}
	app := newTestApp(h)

	resp := postCheckout(t, app,
		"?amount=10&reference="+reference.String(),
		`{"account":"`+buyer.String()+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "c2VyaWFsaXplZC10eA==", body["transaction"])
	assert.Equal(t, "Thanks for your order! 🍪", body["message"])

	require.Equal(t, 1, builder.calls)
	assert.True(t, builder.lastReq.Buyer.Equals(buyer))
	assert.True(t, builder.lastReq.Reference.Equals(reference))
	assert.Equal(t, "10", builder.lastReq.Amount.String())

	require.Len(t, store.recorded, 1)
	assert.Equal(t, reference.String(), store.recorded[0].Reference)
	assert.False(t, store.recorded[0].Discounted)
}

func TestMakeTransactionValidation(t *testing.T) {
	reference := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	account := `{"account":"` + buyer.String() + `"}`

	cases := []struct {
		name    string
		query   string
		body    string
		wantErr string
	}{
		{"zero amount", "?amount=0&reference=" + reference.String(), account, "Can't checkout with charge of 0"},
		{"missing amount", "?reference=" + reference.String(), account, "Invalid amount"},
		{"bad amount", "?amount=ten&reference=" + reference.String(), account, "Invalid amount"},
		{"missing reference", "?amount=10", account, "No reference provided"},
		{"bad reference", "?amount=10&reference=not-base58!", account, "Invalid reference"},
		{"missing account", "?amount=10&reference=" + reference.String(), `{}`, "No account provided"},
		{"bad account", "?amount=10&reference=" + reference.String(), `{"account":"nope"}`, "Invalid account"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := &fakeBuilder{result: testResult(t, "10", domain.Reward)}
			h := &CheckoutHandler{Builder: builder, Repo: &fakeStore{}}
			app := newTestApp(h)

			resp := postCheckout(t, app, tc.query, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.wantErr, decodeBody(t, resp)["error"])
			assert.Zero(t, builder.calls, "validation must fail before the builder runs")
		})
	}
}

func TestMakeTransactionBuilderErrors(t *testing.T) {
	reference := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	query := "?amount=10&reference=" + reference.String()
	body := `{"account":"` + buyer.String() + `"}`

	t.Run("missing shop key", func(t *testing.T) {
		h := &CheckoutHandler{Builder: &fakeBuilder{err: domain.ErrShopKeyMissing}, Repo: &fakeStore{}}
		resp := postCheckout(t, newTestApp(h), query, body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Shop private key not available", decodeBody(t, resp)["error"])
	})

	t.Run("amount too precise for the mint", func(t *testing.T) {
		scaleErr := fmt.Errorf("%w: 0.1234567 has more precision than the token's 6 decimals", domain.ErrInvalidAmount)
		h := &CheckoutHandler{Builder: &fakeBuilder{err: scaleErr}, Repo: &fakeStore{}}
		resp := postCheckout(t, newTestApp(h), query, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid amount", decodeBody(t, resp)["error"])
	})

	t.Run("construction failure is opaque", func(t *testing.T) {
		store := &fakeStore{}
		h := &CheckoutHandler{Builder: &fakeBuilder{err: fmt.Errorf("rpc: connection refused")}, Repo: store}
		resp := postCheckout(t, newTestApp(h), query, body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		// Internal detail never leaks to the caller
		assert.Equal(t, "error creating transaction", decodeBody(t, resp)["error"])
		assert.Empty(t, store.recorded)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	h := &CheckoutHandler{Builder: &fakeBuilder{}, Repo: &fakeStore{}}
	app := newTestApp(h)

	req := httptest.NewRequest(http.MethodDelete, "/v1/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetCheckout(t *testing.T) {
	amt, err := domain.ParseAmount("5")
	require.NoError(t, err)
	reference := solana.NewWallet().PublicKey().String()

	store := &fakeStore{byRef: map[string]*domain.Checkout{
		reference: {Reference: reference, Account: "buyer", Amount: amt, Discounted: true, Status: "CREATED"},
	}}
	h := &CheckoutHandler{Repo: store}
	app := newTestApp(h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/checkouts/"+reference, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, reference, body["reference"])
	assert.Equal(t, "5", body["amount"])
	assert.Equal(t, true, body["discounted"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/v1/checkouts/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
