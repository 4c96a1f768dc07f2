package tournament

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore reads tournaments from the tournaments table.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

const tournamentColumns = `id, name, game, tier, per_person_fee, prize_pool,
	max_teams, participants, min_players, max_players, start_date, status`

// List returns tournaments matching the filter, soonest start date first.
func (s PostgresStore) List(ctx context.Context, f Filter) ([]Tournament, error) {
	var (
		conds []string
		args  []any
	)
	if f.Game != "" {
		args = append(args, f.Game)
		conds = append(conds, fmt.Sprintf("lower(game) = lower($%d)", len(args)))
	}
	if f.Tier != "" {
		args = append(args, f.Tier)
		conds = append(conds, fmt.Sprintf("lower(tier) = lower($%d)", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("lower(status) = lower($%d)", len(args)))
	}
	q := "SELECT " + tournamentColumns + " FROM tournaments"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY start_date, id"

	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("tournament: list: %w", err)
	}
	defer rows.Close()

	out := []Tournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("tournament: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tournament: list rows: %w", err)
	}
	return out, nil
}

// Get returns a single tournament or ErrNotFound.
func (s PostgresStore) Get(ctx context.Context, id string) (Tournament, error) {
	row := s.Pool.QueryRow(ctx,
		"SELECT "+tournamentColumns+" FROM tournaments WHERE id = $1", id)
	t, err := scanTournament(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tournament{}, ErrNotFound
		}
		return Tournament{}, fmt.Errorf("tournament: get %s: %w", id, err)
	}
	return t, nil
}

func scanTournament(row pgx.Row) (Tournament, error) {
	var t Tournament
	err := row.Scan(
		&t.ID, &t.Name, &t.Game, &t.Tier, &t.PerPersonFee, &t.PrizePool,
		&t.MaxTeams, &t.Participants, &t.MinPlayers, &t.MaxPlayers,
		&t.StartDate, &t.Status,
	)
	return t, err
}
