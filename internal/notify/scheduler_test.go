package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arena/internal/events"
)

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func verifiedEvent(t *testing.T, phone string) events.Event {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"orderId":        "order_abc",
		"registrationId": "reg-1",
		"tournamentId":   "1",
		"teamName":       "Night Owls",
		"phone":          phone,
	})
	require.NoError(t, err)
	return events.Event{ID: "ev-1", Topic: events.TopicPaymentVerified, AggregateID: "order_abc", Payload: payload}
}

func TestSchedulerEnqueuesInvite(t *testing.T) {
	q := &stubEnqueuer{}
	s := &Scheduler{Client: q, Queue: "invites", MaxRetry: 5}

	require.NoError(t, s.Notify(context.Background(), verifiedEvent(t, "+911234567890")))
	require.Len(t, q.tasks, 1)
	require.Equal(t, TaskTypeInvite, q.tasks[0].Type())

	var inv Invite
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &inv))
	require.Equal(t, "+911234567890", inv.Phone)
	require.Equal(t, "Night Owls", inv.TeamName)
	require.Equal(t, "order_abc", inv.OrderID)
	require.Equal(t, "reg-1", inv.RegistrationID)
}

func TestSchedulerIgnoresOtherTopics(t *testing.T) {
	q := &stubEnqueuer{}
	s := &Scheduler{Client: q}

	ev := events.Event{Topic: events.TopicPaymentRejected, Payload: []byte(`{"phone":"+911234567890"}`)}
	require.NoError(t, s.Notify(context.Background(), ev))
	require.Empty(t, q.tasks)
}

func TestSchedulerSkipsWithoutPhone(t *testing.T) {
	q := &stubEnqueuer{}
	s := &Scheduler{Client: q}

	require.NoError(t, s.Notify(context.Background(), verifiedEvent(t, "")))
	require.Empty(t, q.tasks)
}

func TestSchedulerSurfacesEnqueueFailure(t *testing.T) {
	q := &stubEnqueuer{err: asynq.ErrDuplicateTask}
	s := &Scheduler{Client: q}

	err := s.Notify(context.Background(), verifiedEvent(t, "+911234567890"))
	require.Error(t, err)
}
