package registration

import (
	"regexp"
	"strings"
	"time"
)

// Registration statuses.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusPaid           = "PAID"
)

// Player is one roster entry. Game id format depends on the tournament's game.
type Player struct {
	Name   string `json:"name" validate:"required,min=1,max=64"`
	GameID string `json:"gameId" validate:"required"`
}

// Registration is a team's entry into a tournament, created before payment and
// settled after signature verification.
type Registration struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	UserID       string    `json:"userId"`
	TeamName     string    `json:"teamName"`
	CaptainPhone string    `json:"captainPhone"`
	Players      []Player  `json:"players"`
	FeeAmount    int64     `json:"feeAmount"`
	Status       string    `json:"status"`
	OrderID      string    `json:"orderId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TeamFee computes the entry fee from per-person pricing.
func TeamFee(perPersonFee int64, playerCount int) int64 {
	return perPersonFee * int64(playerCount)
}

var (
	riotIDPattern      = regexp.MustCompile(`^.{3,16}#[a-zA-Z0-9]{3,5}$`)
	pubgIDPattern      = regexp.MustCompile(`^[a-zA-Z0-9_-]{5,30}$`)
	freeFireUIDPattern = regexp.MustCompile(`^\d{10,12}$`)
)

// GameIDValid checks a player's game id against the per-game format. Unknown
// games accept anything.
func GameIDValid(game, id string) bool {
	switch strings.ToLower(game) {
	case "valorant":
		return riotIDPattern.MatchString(id)
	case "pubg", "bgmi":
		return pubgIDPattern.MatchString(id)
	case "freefire", "free fire":
		return freeFireUIDPattern.MatchString(id)
	default:
		return true
	}
}

// GameIDFormat returns the expected format hint surfaced in validation errors.
func GameIDFormat(game string) string {
	switch strings.ToLower(game) {
	case "valorant":
		return "Username#Tag"
	case "pubg", "bgmi":
		return "5-30 letters, digits, - or _"
	case "freefire", "free fire":
		return "10-12 digit UID"
	default:
		return ""
	}
}
