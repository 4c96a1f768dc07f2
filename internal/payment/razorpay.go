package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Razorpay implements the Provider interface against the Razorpay Orders API.
type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Client    *http.Client
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder mints an order with the gateway. Single attempt, bounded by the
// caller's context deadline.
func (rz Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	var zero OrderResult
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	notes := map[string]string{}
	if req.TournamentID != "" {
		notes["tournamentId"] = req.TournamentID
	}
	if req.TeamName != "" {
		notes["teamName"] = req.TeamName
	}
	if req.RegistrationID != "" {
		notes["registrationId"] = req.RegistrationID
	}
	payload, err := json.Marshal(map[string]any{
		"amount":   req.AmountPaise,
		"currency": currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	})
	if err != nil {
		return zero, fmt.Errorf("razorpay: marshal order: %w", err)
	}

	base := strings.TrimRight(strings.TrimSpace(rz.BaseURL), "/")
	if base == "" {
		base = "https://api.razorpay.com"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("razorpay: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(rz.KeyID, rz.KeySecret)

	client := rz.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("razorpay: create order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return zero, fmt.Errorf("razorpay: read response: %w", err)
	}
	var parsed razorpayOrderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return zero, fmt.Errorf("razorpay: decode response: %w", err)
	}
	if resp.StatusCode >= 400 || parsed.ID == "" {
		if parsed.Error != nil && parsed.Error.Description != "" {
			return zero, fmt.Errorf("razorpay: %s", parsed.Error.Description)
		}
		return zero, fmt.Errorf("razorpay: order creation failed with status %d", resp.StatusCode)
	}
	return OrderResult{OrderID: parsed.ID, Amount: parsed.Amount, Currency: parsed.Currency}, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID|paymentID) and compares
// it to the supplied signature in constant time.
func (rz Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if rz.KeySecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(rz.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// NewReceipt derives a receipt token unique per order. Wall-clock alone would
// collide for concurrent requests within the same second, hence the random
// fragment.
func NewReceipt(now time.Time) string {
	return fmt.Sprintf("rcpt_%d_%s", now.Unix(), uuid.NewString()[:8])
}
