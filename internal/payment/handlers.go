package payment

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-arena/internal/common"
)

// Handler exposes HTTP endpoints for the payment handshake.
type Handler struct {
	Svc            *Service
	PublishableKey string
}

type createOrderReq struct {
	Amount         *json.Number `json:"amount"`
	TournamentID   string       `json:"tournamentId"`
	TeamName       string       `json:"teamName"`
	RegistrationID string       `json:"registrationId"`
}

type verifyReq struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// CreateOrder mints a gateway order for the requested entry fee.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "payment handler unavailable", nil)
		return
	}
	var req createOrderReq
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "Invalid amount", nil)
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "Invalid amount", nil)
		return
	}
	result, err := h.Svc.CreateOrder(r.Context(), CreateOrderInput{
		Amount:         amount,
		TournamentID:   strings.TrimSpace(req.TournamentID),
		TeamName:       strings.TrimSpace(req.TeamName),
		RegistrationID: strings.TrimSpace(req.RegistrationID),
	})
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, result)
}

// Verify decides whether the gateway callback is genuine. Fails closed.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "payment handler unavailable", nil)
		return
	}
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "Missing payment verification fields", nil)
		return
	}
	err := h.Svc.VerifyPayment(r.Context(), VerifyInput{
		OrderID:   strings.TrimSpace(req.OrderID),
		PaymentID: strings.TrimSpace(req.PaymentID),
		Signature: strings.TrimSpace(req.Signature),
	})
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Payment verified successfully",
	})
}

// Config exposes the client-visible key id for embedding the checkout widget.
// The server-side secret never appears here.
func (h *Handler) Config(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"keyId": h.PublishableKey})
}

// parseAmount accepts positive integral JSON numbers. Strings, fractions,
// zero and negatives are all rejected.
func parseAmount(n *json.Number) (int64, bool) {
	if n == nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
