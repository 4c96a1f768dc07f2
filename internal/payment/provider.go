package payment

import "context"

// OrderRequest captures the information forwarded to the gateway when minting
// an order. AmountPaise is the entry fee in minor currency units.
type OrderRequest struct {
	AmountPaise    int64
	Currency       string
	Receipt        string
	TournamentID   string
	TeamName       string
	RegistrationID string
}

// OrderResult is the gateway's view of a minted order. Opaque to this system
// beyond being echoed to the client.
type OrderResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Provider abstracts the operations required from the upstream payment gateway.
type Provider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	// VerifySignature reports whether signature matches the HMAC the gateway
	// would have produced for this order/payment pair. Implementations must
	// compare in constant time.
	VerifySignature(orderID, paymentID, signature string) bool
}
