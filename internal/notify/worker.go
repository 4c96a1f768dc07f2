package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-arena/internal/obs"
)

// InviteWorker handles queued invite tasks. Returning an error makes asynq
// retry with its backoff schedule.
type InviteWorker struct {
	Sender Sender
	Logger zerolog.Logger
}

// HandleInvite processes one invite delivery attempt.
func (w *InviteWorker) HandleInvite(ctx context.Context, task *asynq.Task) error {
	if w == nil || w.Sender == nil {
		return fmt.Errorf("notify: invite worker has no sender")
	}
	var inv Invite
	if err := json.Unmarshal(task.Payload(), &inv); err != nil {
		// A payload that never decodes will never decode; don't retry it.
		return fmt.Errorf("notify: decode invite payload: %v: %w", err, asynq.SkipRetry)
	}

	start := time.Now()
	err := w.Sender.SendInvite(ctx, inv)
	observeInviteAttempt(start, err)
	if err != nil {
		w.Logger.Warn().Err(err).
			Str("registration_id", inv.RegistrationID).
			Str("order_id", inv.OrderID).
			Msg("invite delivery failed")
		return err
	}
	w.Logger.Info().
		Str("registration_id", inv.RegistrationID).
		Str("order_id", inv.OrderID).
		Msg("invite delivered")
	return nil
}

func observeInviteAttempt(start time.Time, err error) {
	result := "delivered"
	if err != nil {
		result = "failed"
	}
	if obs.InviteDeliveriesTotal != nil {
		obs.InviteDeliveriesTotal.WithLabelValues(result).Inc()
	}
	if obs.InviteAttemptLatency != nil {
		obs.InviteAttemptLatency.WithLabelValues(result).Observe(obs.DurationMillis(time.Since(start)))
	}
}
