package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/noah-isme/backend-arena/internal/payment"
)

func newHandler(secret string) *payment.Handler {
	rz := payment.Razorpay{KeyID: "key_id", KeySecret: secret}
	return &payment.Handler{
		Svc:            &payment.Service{Provider: rz},
		PublishableKey: "rzp_test_visible",
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestCreateOrderMissingAmount(t *testing.T) {
	handler := newHandler("s3cr3t")
	rr := postJSON(t, handler.CreateOrder, `{"tournamentId":"1","teamName":"Night Owls"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Invalid amount" {
		t.Fatalf("expected message %q got %q", "Invalid amount", body.Message)
	}
}

func TestCreateOrderRejectsNonNumericAmount(t *testing.T) {
	handler := newHandler("s3cr3t")
	for _, body := range []string{
		`{"amount":"5000"}`,
		`{"amount":null}`,
		`{"amount":true}`,
		`{"amount":-100}`,
		`{"amount":0}`,
		`{"amount":49.5}`,
		`not json`,
	} {
		rr := postJSON(t, handler.CreateOrder, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, rr.Code)
		}
	}
}

func TestCreateOrderForwardsPaise(t *testing.T) {
	var gatewayAmount int64
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount int64 `json:"amount"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gatewayAmount = req.Amount
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":500000,"currency":"INR"}`))
	}))
	defer gateway.Close()

	rz := payment.Razorpay{KeyID: "k", KeySecret: "s", BaseURL: gateway.URL}
	handler := &payment.Handler{Svc: &payment.Service{Provider: rz}}

	rr := postJSON(t, handler.CreateOrder, `{"amount":5000,"tournamentId":"1","teamName":"Night Owls"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if gatewayAmount != 500000 {
		t.Fatalf("gateway received %d, want 500000", gatewayAmount)
	}
	var body struct {
		OrderID  string `json:"orderId"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OrderID != "order_abc" || body.Amount != 500000 || body.Currency != "INR" {
		t.Fatalf("unexpected body %#v", body)
	}
}

func TestCreateOrderUpstreamFailure(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"description":"gateway unavailable"}}`))
	}))
	defer gateway.Close()

	rz := payment.Razorpay{KeyID: "k", KeySecret: "s", BaseURL: gateway.URL}
	handler := &payment.Handler{Svc: &payment.Service{Provider: rz}}

	rr := postJSON(t, handler.CreateOrder, `{"amount":100}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "gateway unavailable") {
		t.Fatalf("expected gateway message in %s", rr.Body.String())
	}
}

func TestVerifyKnownVector(t *testing.T) {
	handler := newHandler("s3cr3t")

	mac := hmac.New(sha256.New, []byte("s3cr3t"))
	mac.Write([]byte("order_abc|pay_xyz"))
	signature := hex.EncodeToString(mac.Sum(nil))

	body := `{"razorpay_order_id":"order_abc","razorpay_payment_id":"pay_xyz","razorpay_signature":"` + signature + `"}`
	rr := postJSON(t, handler.Verify, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Payment verified successfully" {
		t.Fatalf("unexpected response %#v", resp)
	}

	// Any other signature string fails closed.
	bad := `{"razorpay_order_id":"order_abc","razorpay_payment_id":"pay_xyz","razorpay_signature":"` + signature[:len(signature)-1] + `x"}`
	rr = postJSON(t, handler.Verify, bad)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Invalid signature") {
		t.Fatalf("expected invalid signature message in %s", rr.Body.String())
	}
}

func TestVerifyMissingFields(t *testing.T) {
	handler := newHandler("s3cr3t")
	for _, body := range []string{
		`{}`,
		`{"razorpay_order_id":"order_abc"}`,
		`{"razorpay_order_id":"order_abc","razorpay_payment_id":"pay_xyz"}`,
		`{"razorpay_payment_id":"pay_xyz","razorpay_signature":"sig"}`,
	} {
		rr := postJSON(t, handler.Verify, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Missing payment verification fields") {
			t.Fatalf("body %s: unexpected message %s", body, rr.Body.String())
		}
	}
}

func TestConfigExposesPublishableKeyOnly(t *testing.T) {
	handler := newHandler("s3cr3t")
	rr := httptest.NewRecorder()
	handler.Config(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rzp_test_visible") {
		t.Fatalf("publishable key missing from %s", rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "s3cr3t") {
		t.Fatalf("secret leaked to client")
	}
}
