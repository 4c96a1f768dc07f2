package events

// Topics emitted by the arena API.
const (
	TopicRegistrationCreated = "registration.created"
	TopicPaymentVerified     = "payment.verified"
	TopicPaymentRejected     = "payment.rejected"
)
