// Package paystack is a client for the Paystack transaction API.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parcelpeer/config"
	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway"
	"parcelpeer/internal/gateway/breaker"

	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Client calls Paystack over HTTPS with the secret key.
type Client struct {
	baseURL  string
	secret   string
	currency string
	http     *http.Client
	breaker  *breaker.Breaker
	log      *zap.SugaredLogger
}

// New creates a Paystack client.
func New(cfg config.PaystackConfig, log *zap.SugaredLogger) *Client {
	log = log.Named("paystack")
	currency := cfg.Currency
	if currency == "" {
		currency = entities.Currency
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		secret:   cfg.SecretKey,
		currency: currency,
		http:     &http.Client{Timeout: cfg.Timeout},
		breaker:  breaker.New("paystack", log),
		log:      log,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeBody struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Plan        string            `json:"plan,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
}

// Initialize creates a hosted checkout for req.
func (c *Client) Initialize(ctx context.Context, req gateway.InitializeRequest) (entities.Checkout, error) {
	body := initializeBody{
		Email:       req.Email,
		Amount:      req.Amount,
		Reference:   req.Reference,
		Currency:    c.currency,
		CallbackURL: req.CallbackURL,
		Plan:        req.Plan,
		Metadata:    req.Metadata,
	}

	var data initializeData
	if _, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		c.log.Errorw("initialize failed", "error", err, "reference", req.Reference)
		return entities.Checkout{}, err
	}

	c.log.Infow("checkout initialized", "reference", data.Reference, "amount", req.Amount)
	return entities.Checkout{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the current state of a transaction.
func (c *Client) Verify(ctx context.Context, reference string) (gateway.Transaction, error) {
	var data verifyData
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data)
	if err != nil {
		c.log.Errorw("verify failed", "error", err, "reference", reference)
		return gateway.Transaction{}, err
	}

	return gateway.Transaction{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    data.Amount,
		PaidAt:    data.PaidAt,
		Raw:       string(raw),
	}, nil
}

// VerifySignature checks the x-paystack-signature header: hex HMAC-SHA512 of the body.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	if c.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// do sends one request through the breaker and decodes envelope.data into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) ([]byte, error) {
	var raw []byte
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		var body io.Reader
		if in != nil {
			payload, err := json.Marshal(in)
			if err != nil {
				return breaker.Permanent(fmt.Errorf("encode request: %w", err))
			}
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return breaker.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.secret)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
		}
		defer func() { _ = resp.Body.Close() }()

		raw, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("%w: read response: %v", entities.ErrGatewayUnavailable, err)
		}

		var env envelope
		decodeErr := json.Unmarshal(raw, &env)

		switch {
		case resp.StatusCode >= http.StatusInternalServerError,
			resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: status %d: %s", entities.ErrGatewayUnavailable, resp.StatusCode, env.Message)
		case resp.StatusCode == http.StatusNotFound:
			return breaker.Permanent(fmt.Errorf("%w: %s", entities.ErrPaymentNotFound, env.Message))
		case resp.StatusCode >= http.StatusBadRequest:
			return breaker.Permanent(fmt.Errorf("%w: paystack rejected request: %s", entities.ErrInvalidArgument, env.Message))
		}

		if decodeErr != nil {
			return fmt.Errorf("%w: decode response: %v", entities.ErrGatewayUnavailable, decodeErr)
		}
		if !env.Status {
			return breaker.Permanent(fmt.Errorf("%w: paystack: %s", entities.ErrInvalidArgument, env.Message))
		}
		if out != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("%w: decode data: %v", entities.ErrGatewayUnavailable, err)
			}
		}
		return nil
	})
	return raw, err
}
