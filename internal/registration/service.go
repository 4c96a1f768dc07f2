package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arena/internal/common"
	"github.com/noah-isme/backend-arena/internal/events"
	"github.com/noah-isme/backend-arena/internal/obs"
	"github.com/noah-isme/backend-arena/internal/tournament"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Insert(ctx context.Context, reg Registration) (Registration, error)
	Get(ctx context.Context, id string) (Registration, error)
	ListByUser(ctx context.Context, userID string) ([]Registration, error)
}

// CreateInput is the client's registration request.
type CreateInput struct {
	TeamName     string   `json:"teamName" validate:"required,min=2,max=64"`
	CaptainPhone string   `json:"captainPhone" validate:"required,e164"`
	Players      []Player `json:"players" validate:"required,min=1,dive"`
}

// Service validates and stores team registrations.
type Service struct {
	Repo        Repository
	Tournaments tournament.Store
	Validate    *validator.Validate
	Events      *events.Bus
	Logger      zerolog.Logger
}

// Create registers a team for a tournament. The registration starts in
// PENDING_PAYMENT; payment verification settles it.
func (s *Service) Create(ctx context.Context, tournamentID string, in CreateInput) (Registration, error) {
	var zero Registration
	userID, ok := common.UserID(ctx)
	if !ok {
		return zero, common.NewAppError(common.CodeUnauthorized, "authentication required", http.StatusUnauthorized, nil)
	}

	tour, err := s.Tournaments.Get(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return zero, common.NotFound("tournament not found")
		}
		return zero, fmt.Errorf("registration: load tournament: %w", err)
	}
	if tour.Status != tournament.StatusRegistering {
		return zero, common.InvalidInput("registration is closed for this tournament")
	}

	if err := s.Validate.Struct(in); err != nil {
		return zero, invalidFields(err)
	}
	if len(in.Players) < tour.MinPlayers || len(in.Players) > tour.MaxPlayers {
		return zero, common.InvalidInput(fmt.Sprintf(
			"team must have between %d and %d players", tour.MinPlayers, tour.MaxPlayers))
	}
	details := map[string]string{}
	for i, p := range in.Players {
		if !GameIDValid(tour.Game, p.GameID) {
			details[fmt.Sprintf("players[%d].gameId", i)] = "Invalid format. Use: " + GameIDFormat(tour.Game)
		}
	}
	if len(details) > 0 {
		appErr := common.InvalidInput("invalid player game id")
		appErr.Details = details
		return zero, appErr
	}

	reg, err := s.Repo.Insert(ctx, Registration{
		TournamentID: tour.ID,
		UserID:       userID,
		TeamName:     in.TeamName,
		CaptainPhone: in.CaptainPhone,
		Players:      in.Players,
		FeeAmount:    TeamFee(tour.PerPersonFee, len(in.Players)),
		Status:       StatusPendingPayment,
	})
	if err != nil {
		return zero, fmt.Errorf("registration: insert: %w", err)
	}
	if obs.RegistrationTotal != nil {
		obs.RegistrationTotal.WithLabelValues("created").Inc()
	}
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicRegistrationCreated, reg.ID, map[string]any{
			"registrationId": reg.ID,
			"tournamentId":   reg.TournamentID,
			"teamName":       reg.TeamName,
			"feeAmount":      reg.FeeAmount,
		}); err != nil {
			s.Logger.Error().Err(err).Str("registration_id", reg.ID).Msg("emit registration event")
		}
	}
	return reg, nil
}

// ListMine returns the session user's registrations.
func (s *Service) ListMine(ctx context.Context) ([]Registration, error) {
	userID, ok := common.UserID(ctx)
	if !ok {
		return nil, common.NewAppError(common.CodeUnauthorized, "authentication required", http.StatusUnauthorized, nil)
	}
	return s.Repo.ListByUser(ctx, userID)
}

func invalidFields(err error) *common.AppError {
	appErr := common.InvalidInput("invalid registration payload")
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := map[string]string{}
		for _, fe := range verrs {
			details[fe.Namespace()] = fe.Tag()
		}
		appErr.Details = details
	}
	return appErr
}
