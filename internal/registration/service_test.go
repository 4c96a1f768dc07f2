package registration

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arena/internal/common"
	"github.com/noah-isme/backend-arena/internal/tournament"
)

type stubRepo struct {
	inserted []Registration
}

func (r *stubRepo) Insert(_ context.Context, reg Registration) (Registration, error) {
	reg.ID = "reg-1"
	reg.CreatedAt = time.Now()
	r.inserted = append(r.inserted, reg)
	return reg, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Registration, error) {
	for _, reg := range r.inserted {
		if reg.ID == id {
			return reg, nil
		}
	}
	return Registration{}, tournament.ErrNotFound
}

func (r *stubRepo) ListByUser(_ context.Context, userID string) ([]Registration, error) {
	out := []Registration{}
	for _, reg := range r.inserted {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

type stubTournaments struct {
	rows map[string]tournament.Tournament
}

func (s *stubTournaments) List(_ context.Context, _ tournament.Filter) ([]tournament.Tournament, error) {
	return nil, nil
}

func (s *stubTournaments) Get(_ context.Context, id string) (tournament.Tournament, error) {
	t, ok := s.rows[id]
	if !ok {
		return tournament.Tournament{}, tournament.ErrNotFound
	}
	return t, nil
}

func newService(repo *stubRepo) *Service {
	return &Service{
		Repo: repo,
		Tournaments: &stubTournaments{rows: map[string]tournament.Tournament{
			"1": {
				ID: "1", Name: "Valorant Champions League Season 5", Game: "Valorant",
				PerPersonFee: 5000, MinPlayers: 5, MaxPlayers: 5,
				Status: tournament.StatusRegistering,
			},
			"3": {
				ID: "3", Name: "BGMI Grassroots Championship", Game: "BGMI",
				PerPersonFee: 100, MinPlayers: 4, MaxPlayers: 4,
				Status: tournament.StatusCompleted,
			},
		}},
		Validate: validator.New(),
	}
}

func sessionCtx() context.Context {
	return common.WithSession(context.Background(), common.Session{UserID: "user-1", Phone: "+911234567890"})
}

func valorantRoster() []Player {
	return []Player{
		{Name: "One", GameID: "PlayerOne#NA1"},
		{Name: "Two", GameID: "PlayerTwo#NA1"},
		{Name: "Three", GameID: "PlayerThree#NA1"},
		{Name: "Four", GameID: "PlayerFour#NA1"},
		{Name: "Five", GameID: "PlayerFive#NA1"},
	}
}

func TestCreateRegistration(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	reg, err := svc.Create(sessionCtx(), "1", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      valorantRoster(),
	})
	require.NoError(t, err)
	require.Equal(t, "reg-1", reg.ID)
	require.Equal(t, StatusPendingPayment, reg.Status)
	require.Equal(t, int64(25000), reg.FeeAmount, "fee is perPersonFee times player count")
	require.Equal(t, "user-1", reg.UserID)
}

func TestCreateRequiresSession(t *testing.T) {
	svc := newService(&stubRepo{})

	_, err := svc.Create(context.Background(), "1", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      valorantRoster(),
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeUnauthorized, appErr.Code)
}

func TestCreateUnknownTournament(t *testing.T) {
	svc := newService(&stubRepo{})

	_, err := svc.Create(sessionCtx(), "missing", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      valorantRoster(),
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestCreateClosedTournament(t *testing.T) {
	svc := newService(&stubRepo{})

	_, err := svc.Create(sessionCtx(), "3", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players: []Player{
			{Name: "One", GameID: "pro_gamer_1"},
			{Name: "Two", GameID: "pro_gamer_2"},
			{Name: "Three", GameID: "pro_gamer_3"},
			{Name: "Four", GameID: "pro_gamer_4"},
		},
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeInvalidInput, appErr.Code)
}

func TestCreateRosterSizeBounds(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	_, err := svc.Create(sessionCtx(), "1", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      valorantRoster()[:4],
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeInvalidInput, appErr.Code)
	require.Empty(t, repo.inserted)
}

func TestCreateRejectsBadGameID(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	roster := valorantRoster()
	roster[2].GameID = "NoTagHere"
	_, err := svc.Create(sessionCtx(), "1", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      roster,
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeInvalidInput, appErr.Code)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "players[2].gameId")
	require.Empty(t, repo.inserted)
}

func TestCreateValidatesPayload(t *testing.T) {
	svc := newService(&stubRepo{})

	for _, in := range []CreateInput{
		{CaptainPhone: "+911234567890", Players: valorantRoster()},
		{TeamName: "Night Owls", Players: valorantRoster()},
		{TeamName: "Night Owls", CaptainPhone: "not-a-phone", Players: valorantRoster()},
		{TeamName: "Night Owls", CaptainPhone: "+911234567890"},
	} {
		_, err := svc.Create(sessionCtx(), "1", in)
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, common.CodeInvalidInput, appErr.Code)
	}
}

func TestListMine(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	_, err := svc.Create(sessionCtx(), "1", CreateInput{
		TeamName:     "Night Owls",
		CaptainPhone: "+911234567890",
		Players:      valorantRoster(),
	})
	require.NoError(t, err)

	rows, err := svc.ListMine(sessionCtx())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	other := common.WithSession(context.Background(), common.Session{UserID: "user-2"})
	rows, err = svc.ListMine(other)
	require.NoError(t, err)
	require.Empty(t, rows)
}
