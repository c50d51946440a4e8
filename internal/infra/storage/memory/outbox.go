package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "ratedesk/internal/app/outbox"
	infraoutbox "ratedesk/internal/infra/outbox"
)

// OutboxQueue buffers rule events in memory until the publishing worker
// drains them. Rule mutations are low-volume, so a slice guarded by one
// mutex is enough; events do not survive a restart, which is acceptable
// for notifications.
type OutboxQueue struct {
	mu    sync.Mutex
	items []infraoutbox.PendingEvent
}

func NewOutboxQueue() *OutboxQueue {
	return &OutboxQueue{}
}

func (q *OutboxQueue) Add(ctx context.Context, record appoutbox.EventRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, infraoutbox.PendingEvent{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		NextAttempt: time.Now().UTC(),
	})
	return nil
}

// Claim pops the first due event. The pop is the claim: a worker that
// fails to publish re-queues via MarkFailed.
func (q *OutboxQueue) Claim(ctx context.Context) (*infraoutbox.PendingEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := time.Now()
	for i := range q.items {
		if q.items[i].NextAttempt.After(now) {
			continue
		}
		ev := q.items[i]
		q.items = append(q.items[:i], q.items[i+1:]...)
		return &ev, nil
	}
	return nil, nil
}

func (q *OutboxQueue) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (q *OutboxQueue) MarkFailed(ctx context.Context, ev infraoutbox.PendingEvent, next time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	ev.Attempts++
	ev.NextAttempt = next
	q.items = append(q.items, ev)
	return nil
}

// Pending reports the queue depth, used by readiness checks and tests.
func (q *OutboxQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

var (
	_ appoutbox.Outbox  = (*OutboxQueue)(nil)
	_ infraoutbox.Queue = (*OutboxQueue)(nil)
)
