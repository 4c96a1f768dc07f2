package tournament

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no tournament matches the requested id.
var ErrNotFound = errors.New("tournament: not found")

// Pricing tiers as displayed on the site.
const (
	TierGrassroots = "Grassroots"
	TierChallenger = "Challenger"
	TierElite      = "Elite"
)

// Lifecycle states of a tournament listing.
const (
	StatusRegistering = "Registering"
	StatusLive        = "Live"
	StatusCompleted   = "Completed"
)

// Tournament is the public listing payload.
type Tournament struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Game         string    `json:"game"`
	Tier         string    `json:"tier"`
	PerPersonFee int64     `json:"perPersonFee"`
	PrizePool    int64     `json:"prizePool"`
	MaxTeams     int       `json:"maxTeams"`
	Participants int       `json:"participants"`
	MinPlayers   int       `json:"minPlayers"`
	MaxPlayers   int       `json:"maxPlayers"`
	StartDate    time.Time `json:"startDate"`
	Status       string    `json:"status"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Game   string
	Tier   string
	Status string
}

// Store provides tournament lookups.
type Store interface {
	List(ctx context.Context, f Filter) ([]Tournament, error)
	Get(ctx context.Context, id string) (Tournament, error)
}

// Matches reports whether the tournament satisfies the filter. Comparisons are
// case-insensitive to keep query params forgiving.
func (f Filter) Matches(t Tournament) bool {
	if f.Game != "" && !strings.EqualFold(f.Game, t.Game) {
		return false
	}
	if f.Tier != "" && !strings.EqualFold(f.Tier, t.Tier) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(f.Status, t.Status) {
		return false
	}
	return true
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Game == "" && f.Tier == "" && f.Status == ""
}
