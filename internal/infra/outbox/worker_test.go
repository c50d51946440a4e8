package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	pending []PendingEvent
	sent    []string
	failed  []PendingEvent
}

func (q *fakeQueue) Claim(ctx context.Context) (*PendingEvent, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return &ev, nil
}

func (q *fakeQueue) MarkSent(ctx context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(ctx context.Context, ev PendingEvent, next time.Time) error {
	ev.NextAttempt = next
	q.failed = append(q.failed, ev)
	return nil
}

type fakeProducer struct {
	err     error
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	p.topic = topic
	p.key = key
	p.payload = payload
	p.headers = headers
	return p.err
}

func testEvent() PendingEvent {
	return PendingEvent{
		ID:         "e1",
		Name:       "rules.rule_created",
		Payload:    []byte(`{"rule_id":"r1"}`),
		OccurredAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "r1",
	}
}

func TestProcessOncePublishesCloudEventsEnvelope(t *testing.T) {
	queue := &fakeQueue{pending: []PendingEvent{testEvent()}}
	producer := &fakeProducer{}
	worker := &Worker{Queue: queue, Producer: producer}

	require.NoError(t, worker.processOnce(context.Background()))
	assert.Equal(t, []string{"e1"}, queue.sent)
	assert.Equal(t, "rules.events.v1", producer.topic)
	assert.Equal(t, "r1", producer.key)
	assert.Equal(t, "application/cloudevents+json", producer.headers["content-type"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(producer.payload, &envelope))
	assert.Equal(t, "1.0", envelope["specversion"])
	assert.Equal(t, "rules.rule_created.v1", envelope["type"])
	assert.Equal(t, "app://ratedesk", envelope["source"])
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", data["rule_id"])
}

func TestProcessOnceEmptyQueue(t *testing.T) {
	worker := &Worker{Queue: &fakeQueue{}, Producer: &fakeProducer{}}
	require.NoError(t, worker.processOnce(context.Background()))
}

func TestProcessOnceRequeuesOnPublishFailure(t *testing.T) {
	queue := &fakeQueue{pending: []PendingEvent{testEvent()}}
	producer := &fakeProducer{err: errors.New("broker down")}
	worker := &Worker{
		Queue:    queue,
		Producer: producer,
		Backoff:  []time.Duration{time.Minute},
	}

	require.NoError(t, worker.processOnce(context.Background()))
	assert.Empty(t, queue.sent)
	require.Len(t, queue.failed, 1)
	assert.WithinDuration(t, time.Now().Add(time.Minute), queue.failed[0].NextAttempt, 5*time.Second)
}

func TestTopicFor(t *testing.T) {
	worker := &Worker{}
	assert.Equal(t, "rules.events.v1", worker.topicFor("rules.rule_deleted"))
	assert.Equal(t, "notes.events.v1", worker.topicFor("notes.note_added"))
	assert.Equal(t, "audit.events.v1", worker.topicFor("audit"))

	worker.TopicPrefix = "staging."
	assert.Equal(t, "staging.rules.events.v1", worker.topicFor("rules.rule_deleted"))
}

func TestNextRetryFollowsBackoffSchedule(t *testing.T) {
	worker := &Worker{Backoff: []time.Duration{time.Second, time.Minute}}

	assert.WithinDuration(t, time.Now().Add(time.Second), worker.nextRetry(0), 100*time.Millisecond)
	assert.WithinDuration(t, time.Now().Add(time.Minute), worker.nextRetry(1), 100*time.Millisecond)
	// Past the schedule the last step repeats.
	assert.WithinDuration(t, time.Now().Add(time.Minute), worker.nextRetry(7), 100*time.Millisecond)
}

func TestRunRequiresDependencies(t *testing.T) {
	worker := &Worker{}
	assert.ErrorIs(t, worker.Run(context.Background()), ErrWorkerNotConfigured)
}
