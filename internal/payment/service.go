package payment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arena/internal/common"
	"github.com/noah-isme/backend-arena/internal/events"
	"github.com/noah-isme/backend-arena/internal/obs"
)

// ErrNoRegistration is returned by RegistrationStore.MarkPaid when no
// registration is linked to the order.
var ErrNoRegistration = errors.New("payment: no registration for order")

// PaidRegistration is what the store reports back after settling a registration.
type PaidRegistration struct {
	RegistrationID string
	TournamentID   string
	TeamName       string
	CaptainPhone   string
}

// RegistrationStore links gateway orders to registrations and settles them
// after verification.
type RegistrationStore interface {
	AttachOrder(ctx context.Context, registrationID, orderID string, amountPaise int64) error
	MarkPaid(ctx context.Context, orderID string) (PaidRegistration, error)
}

// CreateOrderInput is the client's request to mint a gateway order. Amount is
// in whole currency units.
type CreateOrderInput struct {
	Amount         int64
	TournamentID   string
	TeamName       string
	RegistrationID string
}

// VerifyInput carries the gateway's callback triple.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Service coordinates order creation and signature verification.
type Service struct {
	Provider       Provider
	Registrations  RegistrationStore
	Events         *events.Bus
	GatewayTimeout time.Duration
	Logger         zerolog.Logger
}

// CreateOrder validates the amount and mints an order with the gateway. One
// attempt per request; retries are a client concern.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResult, error) {
	var zero OrderResult
	if s == nil || s.Provider == nil {
		return zero, common.UpstreamError("payment service not configured", nil)
	}
	if in.Amount <= 0 {
		countOrder("invalid")
		return zero, common.InvalidInput("Invalid amount")
	}

	timeout := s.GatewayTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.Provider.CreateOrder(ctx, OrderRequest{
		AmountPaise:    in.Amount * 100,
		Currency:       "INR",
		Receipt:        NewReceipt(time.Now()),
		TournamentID:   in.TournamentID,
		TeamName:       in.TeamName,
		RegistrationID: in.RegistrationID,
	})
	if err != nil {
		countOrder("upstream_error")
		s.Logger.Error().Err(err).
			Str("tournament_id", in.TournamentID).
			Msg("gateway order creation failed")
		return zero, common.UpstreamError(gatewayMessage(err), err)
	}
	countOrder("success")

	if in.RegistrationID != "" && s.Registrations != nil {
		if err := s.Registrations.AttachOrder(ctx, in.RegistrationID, result.OrderID, result.Amount); err != nil {
			// The order exists at the gateway either way; settling will log a
			// missing link if verification arrives for an unattached order.
			s.Logger.Warn().Err(err).
				Str("registration_id", in.RegistrationID).
				Str("order_id", result.OrderID).
				Msg("attach order to registration failed")
		}
	}
	return result, nil
}

// VerifyPayment decides the final state of a payment attempt. It is a pure
// function of its three inputs and the shared secret: replaying the same
// triple always yields the same outcome.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) error {
	if s == nil || s.Provider == nil {
		return common.UpstreamError("payment service not configured", nil)
	}
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		countVerify("missing_fields")
		return common.InvalidInput("Missing payment verification fields")
	}

	if !s.Provider.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		countVerify("rejected")
		s.Logger.Warn().
			Str("order_id", in.OrderID).
			Str("payment_id", in.PaymentID).
			Msg("payment signature rejected")
		s.emit(ctx, events.TopicPaymentRejected, in.OrderID, map[string]string{
			"orderId":   in.OrderID,
			"paymentId": in.PaymentID,
		})
		return common.SignatureInvalid("Invalid signature")
	}
	countVerify("verified")

	// Follow-on effects never flip the decision already made: the payer has
	// paid and the signature is genuine.
	payload := map[string]string{
		"orderId":   in.OrderID,
		"paymentId": in.PaymentID,
	}
	if s.Registrations != nil {
		paid, err := s.Registrations.MarkPaid(ctx, in.OrderID)
		switch {
		case err == nil:
			payload["registrationId"] = paid.RegistrationID
			payload["tournamentId"] = paid.TournamentID
			payload["teamName"] = paid.TeamName
			payload["phone"] = paid.CaptainPhone
		case errors.Is(err, ErrNoRegistration):
			s.Logger.Info().Str("order_id", in.OrderID).Msg("verified payment has no linked registration")
		default:
			s.Logger.Error().Err(err).Str("order_id", in.OrderID).Msg("mark registration paid failed")
		}
	}
	s.emit(ctx, events.TopicPaymentVerified, in.OrderID, payload)
	return nil
}

func (s *Service) emit(ctx context.Context, topic, aggregateID string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, aggregateID, payload); err != nil {
		s.Logger.Error().Err(err).Str("topic", topic).Msg("emit domain event")
	}
}

func countOrder(result string) {
	if obs.PaymentOrderTotal != nil {
		obs.PaymentOrderTotal.WithLabelValues(result).Inc()
	}
}

func countVerify(result string) {
	if obs.PaymentVerifyTotal != nil {
		obs.PaymentVerifyTotal.WithLabelValues(result).Inc()
	}
}

func gatewayMessage(err error) string {
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "Failed to create order"
	}
	return err.Error()
}
