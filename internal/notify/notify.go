package notify

import "context"

// Invite is a WhatsApp invitation for a paid team, addressed to the captain.
type Invite struct {
	Phone          string `json:"phone"`
	TeamName       string `json:"teamName"`
	TournamentID   string `json:"tournamentId"`
	RegistrationID string `json:"registrationId"`
	OrderID        string `json:"orderId"`
}

// Sender delivers invites. Implementations must be safe for concurrent use.
type Sender interface {
	SendInvite(ctx context.Context, inv Invite) error
}
