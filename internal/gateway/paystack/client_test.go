package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parcelpeer/config"
	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.PaystackConfig{
		SecretKey: "sk_test_123",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	}, zap.NewNop().Sugar())
}

func TestInitialize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])
		require.EqualValues(t, 160000, body["amount"])
		require.Equal(t, "NGN", body["currency"])
		require.Equal(t, "PLN_x", body["plan"])

		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout/x","access_code":"ac","reference":"ref-1"}}`))
	})

	checkout, err := client.Initialize(context.Background(), gateway.InitializeRequest{
		Email: "a@b.c", Amount: 160000, Reference: "ref-1", Plan: "PLN_x",
	})
	require.NoError(t, err)
	require.Equal(t, entities.Checkout{AuthorizationURL: "https://checkout/x", AccessCode: "ac", Reference: "ref-1"}, checkout)
}

func TestVerify(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"reference":"ref-1","status":"success","amount":160000,"paid_at":"2026-03-10T12:00:00.000Z"}}`))
	})

	tx, err := client.Verify(context.Background(), "ref-1")
	require.NoError(t, err)
	require.Equal(t, gateway.TxSuccess, tx.Status)
	require.Equal(t, int64(160000), tx.Amount)
	require.NotNil(t, tx.PaidAt)
	require.Contains(t, tx.Raw, "ref-1")
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
	}{
		{name: "not found", status: http.StatusNotFound, err: entities.ErrPaymentNotFound},
		{name: "bad request", status: http.StatusBadRequest, err: entities.ErrInvalidArgument},
		{name: "server error", status: http.StatusBadGateway, err: entities.ErrGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"status":false,"message":"nope"}`))
			})
			_, err := client.Verify(context.Background(), "ref-1")
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	client := New(config.PaystackConfig{SecretKey: "sk_test_123"}, zap.NewNop().Sugar())
	body := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_123"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	require.True(t, client.VerifySignature(body, sig))
	require.False(t, client.VerifySignature(body, "deadbeef"))
	require.False(t, client.VerifySignature(body, ""))
	require.False(t, client.VerifySignature([]byte(`{"event":"tampered"}`), sig))
}
