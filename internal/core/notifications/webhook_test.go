package notifications

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhookSignsBody(t *testing.T) {
	var gotSignature string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := map[string]string{"event": "checkout.created"}
	err := SendWebhook(srv.URL, payload, "topsecret")
	require.NoError(t, err)

	assert.Equal(t, Sign(gotBody, "topsecret"), gotSignature)
	assert.Contains(t, string(gotBody), "checkout.created")
}

func TestSendWebhookRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := SendWebhook(srv.URL, map[string]string{}, "topsecret")
	assert.Error(t, err)
}
