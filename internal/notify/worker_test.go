package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []Invite
	err  error
}

func (s *stubSender) SendInvite(_ context.Context, inv Invite) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, inv)
	return nil
}

func inviteTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := NewInviteTask(Invite{
		Phone:          "+911234567890",
		TeamName:       "Night Owls",
		RegistrationID: "reg-1",
		OrderID:        "order_abc",
	})
	require.NoError(t, err)
	return task
}

func TestInviteWorkerDelivers(t *testing.T) {
	sender := &stubSender{}
	w := &InviteWorker{Sender: sender}

	require.NoError(t, w.HandleInvite(context.Background(), inviteTask(t)))
	require.Len(t, sender.sent, 1)
	require.Equal(t, "+911234567890", sender.sent[0].Phone)
}

func TestInviteWorkerRetriesOnSendFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("api down")}
	w := &InviteWorker{Sender: sender}

	err := w.HandleInvite(context.Background(), inviteTask(t))
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry), "transient failures must stay retryable")
}

func TestInviteWorkerSkipsMalformedPayload(t *testing.T) {
	w := &InviteWorker{Sender: &stubSender{}}

	err := w.HandleInvite(context.Background(), asynq.NewTask(TaskTypeInvite, []byte("not json")))
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
