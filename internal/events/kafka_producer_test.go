package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"blinds-backend/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testEvent() Event {
	return NewEvent(JobUpdated, "AAB0001", &model.Job{ID: "AAB0001", Name: "Riverside Surgery", Status: model.JobStatusActive})
}

func TestProducer_Publish(t *testing.T) {
	t.Run("queues event", func(t *testing.T) {
		producer := &Producer{events: make(chan Event, 2), logger: zaptest.NewLogger(t)}

		producer.Publish(testEvent())

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{events: make(chan Event, 1), logger: zap.New(core)}

		producer.Publish(testEvent())
		producer.Publish(testEvent())

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("job_id", "AAB0001")).Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	event := testEvent()

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := &Producer{writer: mockWriter, logger: zaptest.NewLogger(t)}

		producer.sendEvent(event)

		value, err := json.Marshal(event)
		require.NoError(t, err)
		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{{
			Key:     []byte("AAB0001"),
			Value:   value,
			Headers: []kafka.Header{{Key: "event_type", Value: []byte(JobUpdated)}},
		}})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := &Producer{writer: new(MockKafkaWriter), logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		producer.sendEvent(event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t))
	for i := 0; i < 5; i++ {
		producer.Publish(testEvent())
	}
	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 5)
	mockWriter.AssertCalled(t, "Close")
}

func TestNewProducer_RequiresBroker(t *testing.T) {
	_, err := NewProducer(nil, "blinds.jobs", zaptest.NewLogger(t))
	assert.Error(t, err)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	Multi{a, Nop{}, b}.Publish(testEvent())

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestNewEvent(t *testing.T) {
	job := &model.Job{ID: "AAB0007", Name: "Library", Status: model.JobStatusCompleted, CostSummary: model.NewCostSummary("AAB0007")}
	before := time.Now().UTC()

	ev := NewEvent(CostsUpdated, job.ID, job)

	assert.Equal(t, CostsUpdated, ev.Type)
	assert.Equal(t, "AAB0007", ev.JobID)
	require.NotNil(t, ev.Job)
	assert.Equal(t, "0.00", ev.Job.Total)
	assert.False(t, ev.OccurredAt.Before(before))

	deleted := NewEvent(JobDeleted, "AAB0007", nil)
	assert.Nil(t, deleted.Job)
}
