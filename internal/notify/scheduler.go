package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arena/internal/events"
)

// TaskTypeInvite is the asynq task type for invite delivery.
const TaskTypeInvite = "invite:send"

// NewInviteTask builds the asynq task carrying an invite payload.
func NewInviteTask(inv Invite) (*asynq.Task, error) {
	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("notify: encode invite: %w", err)
	}
	return asynq.NewTask(TaskTypeInvite, payload), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues invite tasks when a payment is verified. It implements
// events.Notifier so the bus can fan out to it; delivery and retries happen in
// the worker, decoupled from the HTTP response.
type Scheduler struct {
	Client   enqueuer
	Queue    string
	MaxRetry int
	Logger   zerolog.Logger
}

// NewScheduler wires a Scheduler to a real asynq client.
func NewScheduler(client *asynq.Client, queue string, maxRetry int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{Client: client, Queue: queue, MaxRetry: maxRetry, Logger: logger}
}

// Notify schedules an invite for verified payments that carry a captain phone.
func (s *Scheduler) Notify(ctx context.Context, event events.Event) error {
	if s == nil || s.Client == nil {
		return nil
	}
	if event.Topic != events.TopicPaymentVerified {
		return nil
	}
	var payload struct {
		OrderID        string `json:"orderId"`
		RegistrationID string `json:"registrationId"`
		TournamentID   string `json:"tournamentId"`
		TeamName       string `json:"teamName"`
		Phone          string `json:"phone"`
	}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("notify: decode event payload: %w", err)
		}
	}
	if strings.TrimSpace(payload.Phone) == "" {
		// Verified payments without a linked registration have nobody to invite.
		s.Logger.Info().Str("order_id", payload.OrderID).Msg("verified payment without captain phone, invite skipped")
		return nil
	}

	task, err := NewInviteTask(Invite{
		Phone:          payload.Phone,
		TeamName:       payload.TeamName,
		TournamentID:   payload.TournamentID,
		RegistrationID: payload.RegistrationID,
		OrderID:        payload.OrderID,
	})
	if err != nil {
		return err
	}
	opts := []asynq.Option{}
	if s.Queue != "" {
		opts = append(opts, asynq.Queue(s.Queue))
	}
	if s.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(s.MaxRetry))
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("notify: enqueue invite: %w", err)
	}
	s.Logger.Info().
		Str("task_id", info.ID).
		Str("order_id", payload.OrderID).
		Str("registration_id", payload.RegistrationID).
		Msg("invite scheduled")
	return nil
}
