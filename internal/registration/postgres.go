package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-arena/internal/payment"
)

// PostgresStore persists registrations and links them to gateway orders.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// Insert stores a new registration and returns it with id and timestamp filled.
func (s PostgresStore) Insert(ctx context.Context, reg Registration) (Registration, error) {
	players, err := json.Marshal(reg.Players)
	if err != nil {
		return Registration{}, fmt.Errorf("registration: encode players: %w", err)
	}
	const q = `
		INSERT INTO registrations
			(tournament_id, user_id, team_name, captain_phone, players, fee_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err = s.Pool.QueryRow(ctx, q,
		reg.TournamentID, reg.UserID, reg.TeamName, reg.CaptainPhone,
		players, reg.FeeAmount, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return Registration{}, fmt.Errorf("registration: insert: %w", err)
	}
	return reg, nil
}

// Get loads a registration by id.
func (s PostgresStore) Get(ctx context.Context, id string) (Registration, error) {
	const q = `
		SELECT id, tournament_id, user_id, team_name, captain_phone, players,
			fee_amount, status, COALESCE(order_id, ''), created_at
		FROM registrations WHERE id = $1`
	var (
		reg     Registration
		players []byte
	)
	err := s.Pool.QueryRow(ctx, q, id).Scan(
		&reg.ID, &reg.TournamentID, &reg.UserID, &reg.TeamName, &reg.CaptainPhone,
		&players, &reg.FeeAmount, &reg.Status, &reg.OrderID, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, pgx.ErrNoRows
		}
		return Registration{}, fmt.Errorf("registration: get %s: %w", id, err)
	}
	if err := json.Unmarshal(players, &reg.Players); err != nil {
		return Registration{}, fmt.Errorf("registration: decode players: %w", err)
	}
	return reg, nil
}

// ListByUser returns the session user's registrations, newest first.
func (s PostgresStore) ListByUser(ctx context.Context, userID string) ([]Registration, error) {
	const q = `
		SELECT id, tournament_id, user_id, team_name, captain_phone, players,
			fee_amount, status, COALESCE(order_id, ''), created_at
		FROM registrations WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("registration: list by user: %w", err)
	}
	defer rows.Close()

	out := []Registration{}
	for rows.Next() {
		var (
			reg     Registration
			players []byte
		)
		if err := rows.Scan(
			&reg.ID, &reg.TournamentID, &reg.UserID, &reg.TeamName, &reg.CaptainPhone,
			&players, &reg.FeeAmount, &reg.Status, &reg.OrderID, &reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("registration: scan: %w", err)
		}
		if err := json.Unmarshal(players, &reg.Players); err != nil {
			return nil, fmt.Errorf("registration: decode players: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registration: list rows: %w", err)
	}
	return out, nil
}

// AttachOrder links a freshly minted gateway order to a pending registration.
func (s PostgresStore) AttachOrder(ctx context.Context, registrationID, orderID string, amountPaise int64) error {
	const q = `
		UPDATE registrations
		SET order_id = $2, order_amount_paise = $3
		WHERE id = $1 AND status = $4`
	tag, err := s.Pool.Exec(ctx, q, registrationID, orderID, amountPaise, StatusPendingPayment)
	if err != nil {
		return fmt.Errorf("registration: attach order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration: attach order: no pending registration %s", registrationID)
	}
	return nil
}

// MarkPaid settles the registration linked to the order. Settling an already
// paid registration is a no-op that reports the same row, so verification
// replays stay idempotent.
func (s PostgresStore) MarkPaid(ctx context.Context, orderID string) (payment.PaidRegistration, error) {
	const q = `
		UPDATE registrations
		SET status = $2
		WHERE order_id = $1
		RETURNING id, tournament_id, team_name, captain_phone`
	var paid payment.PaidRegistration
	err := s.Pool.QueryRow(ctx, q, orderID, StatusPaid).Scan(
		&paid.RegistrationID, &paid.TournamentID, &paid.TeamName, &paid.CaptainPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.PaidRegistration{}, payment.ErrNoRegistration
		}
		return payment.PaidRegistration{}, fmt.Errorf("registration: mark paid: %w", err)
	}
	return paid, nil
}
