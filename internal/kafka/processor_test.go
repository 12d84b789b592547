package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/effiwise/effimappro/events/modules/activities"
	"github.com/effiwise/effimappro/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialerSecurity(t *testing.T) {
	local := NewDialer(Config{Brokers: []string{"localhost:9092"}})
	assert.Nil(t, local.SASLMechanism)
	assert.Nil(t, local.TLS)
	assert.Nil(t, NewTransport(Config{}))

	cloud := Config{Brokers: []string{"broker:9092"}, Username: "key", Password: "secret"}
	secure := NewDialer(cloud)
	assert.NotNil(t, secure.SASLMechanism)
	assert.NotNil(t, secure.TLS)
	assert.NotNil(t, NewTransport(cloud))
}

func TestDisabledWithoutBrokers(t *testing.T) {
	cfg := Config{Topic: "effimappro-activities"}
	assert.False(t, cfg.Enabled())
	assert.Nil(t, NewProducer(cfg))
	assert.Error(t, RunActivityProcessor(context.Background(), cfg, nil, nil))

	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "effimappro-activities"})
	assert.NotNil(t, p)
	assert.NoError(t, p.Close())
}

type scriptedReader struct {
	steps  []func() (kafka.Message, error)
	cancel context.CancelFunc
	reads  int
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.reads++
	if len(r.steps) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step()
}

type countingBackOff struct {
	next, resets int
}

func (b *countingBackOff) NextBackOff() time.Duration {
	b.next++
	return time.Millisecond
}

func (b *countingBackOff) Reset() { b.resets++ }

type collectingHandler struct {
	events []activities.ActivityRecordedEvent
}

func (h *collectingHandler) HandleActivityRecorded(_ context.Context, e activities.ActivityRecordedEvent) error {
	h.events = append(h.events, e)
	return nil
}

func TestConsumeBacksOffOnReadErrors(t *testing.T) {
	payload, err := json.Marshal(activities.NewEvent(model.Activity{
		ID:         "a1",
		Type:       model.ActivityCreate,
		EntityType: model.EntityBranch,
		EntityID:   "b1",
		EntityName: "Denver",
	}))
	require.NoError(t, err)

	broken := func() (kafka.Message, error) { return kafka.Message{}, errors.New("broker unreachable") }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &scriptedReader{
		cancel: cancel,
		steps: []func() (kafka.Message, error){
			broken, broken, broken,
			func() (kafka.Message, error) { return kafka.Message{Value: payload}, nil },
			broken,
		},
	}
	bo := &countingBackOff{}
	handler := &collectingHandler{}

	consume(ctx, reader, handler, bo, zap.NewNop())

	assert.Equal(t, 6, reader.reads)
	assert.Equal(t, 4, bo.next)
	assert.Equal(t, 1, bo.resets)
	require.Len(t, handler.events, 1)
	assert.Equal(t, "b1", handler.events[0].Activity.EntityID)
}

func TestInstanceName(t *testing.T) {
	name := instanceName()
	assert.NotEmpty(t, name)
	assert.Equal(t, strings.ToLower(name), name)
}
