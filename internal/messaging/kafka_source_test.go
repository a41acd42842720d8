package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	apperrors "github.com/allisson/catalog/internal/errors"
)

func newTestSource(reader *MockMessageReader, captured *kafka.ReaderConfig) *KafkaSource {
	return NewKafkaSource(
		SourceConfig{Brokers: []string{"localhost:9092"}, GroupID: "catalog-service-group"},
		func(config kafka.ReaderConfig) MessageReader {
			if captured != nil {
				*captured = config
			}
			return reader
		},
	)
}

func TestKafkaSource_Subscribe(t *testing.T) {
	t.Run("Success_BuildsGroupReader", func(t *testing.T) {
		var config kafka.ReaderConfig
		source := newTestSource(&MockMessageReader{}, &config)

		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		assert.Equal(t, []string{"localhost:9092"}, config.Brokers)
		assert.Equal(t, "catalog-service-group", config.GroupID)
		assert.Equal(t, "catalog-items", config.Topic)
		assert.Equal(t, kafka.FirstOffset, config.StartOffset)
		assert.Equal(t, time.Second, config.CommitInterval)
	})

	t.Run("Error_BlankBrokers", func(t *testing.T) {
		source := NewKafkaSource(SourceConfig{Brokers: []string{" "}}, func(kafka.ReaderConfig) MessageReader {
			t.Fatal("reader must not be created")
			return nil
		})

		err := source.Subscribe(context.Background(), "catalog-items")

		assert.ErrorIs(t, err, catalogDomain.ErrSourceUnavailable)
	})

	t.Run("Error_BlankTopic", func(t *testing.T) {
		source := newTestSource(&MockMessageReader{}, nil)

		err := source.Subscribe(context.Background(), "  ")

		assert.ErrorIs(t, err, catalogDomain.ErrSourceUnavailable)
	})

	t.Run("Error_AlreadySubscribed", func(t *testing.T) {
		source := newTestSource(&MockMessageReader{}, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		err := source.Subscribe(context.Background(), "catalog-items")

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestKafkaSource_Poll(t *testing.T) {
	t.Run("Success_ConvertsMessage", func(t *testing.T) {
		reader := &MockMessageReader{}
		source := newTestSource(reader, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		reader.On("ReadMessage", mock.Anything).Return(kafka.Message{
			Topic:     "catalog-items",
			Partition: 2,
			Offset:    41,
			Key:       []byte("key"),
			Value:     []byte(`{}`),
			Headers:   []kafka.Header{{Key: "event-type", Value: []byte("CatalogItemCreated")}},
			Time:      ts,
		}, nil).Once()

		msg, err := source.Poll(context.Background(), time.Second)

		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, "catalog-items", msg.Topic)
		assert.Equal(t, 2, msg.Partition)
		assert.Equal(t, int64(41), msg.Offset)
		assert.Equal(t, []byte("key"), msg.Key)
		assert.Equal(t, "CatalogItemCreated", msg.Headers["event-type"])
		assert.Equal(t, ts, msg.Timestamp)
		reader.AssertExpectations(t)
	})

	t.Run("Success_TimeoutReturnsNil", func(t *testing.T) {
		reader := &MockMessageReader{}
		source := newTestSource(reader, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		reader.On("ReadMessage", mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(kafka.Message{}, context.DeadlineExceeded).
			Once()

		msg, err := source.Poll(context.Background(), 10*time.Millisecond)

		assert.NoError(t, err)
		assert.Nil(t, msg)
	})

	for _, timeout := range []time.Duration{0, -time.Second} {
		t.Run("Success_NonPositiveTimeoutBlocksUntilMessage_"+timeout.String(), func(t *testing.T) {
			reader := &MockMessageReader{}
			source := newTestSource(reader, nil)
			require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

			noDeadline := mock.MatchedBy(func(ctx context.Context) bool {
				_, hasDeadline := ctx.Deadline()
				return !hasDeadline && ctx.Err() == nil
			})
			reader.On("ReadMessage", noDeadline).
				After(10*time.Millisecond).
				Return(kafka.Message{Topic: "catalog-items", Key: []byte("k"), Value: []byte("{}")}, nil).
				Once()

			msg, err := source.Poll(context.Background(), timeout)

			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, "catalog-items", msg.Topic)
			reader.AssertExpectations(t)
		})
	}

	t.Run("Error_ParentCancelled", func(t *testing.T) {
		reader := &MockMessageReader{}
		source := newTestSource(reader, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		reader.On("ReadMessage", mock.Anything).Return(kafka.Message{}, context.Canceled).Once()

		msg, err := source.Poll(ctx, time.Second)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, msg)
	})

	t.Run("Error_ReaderFailure", func(t *testing.T) {
		reader := &MockMessageReader{}
		source := newTestSource(reader, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))

		readErr := errors.New("coordinator not available")
		reader.On("ReadMessage", mock.Anything).Return(kafka.Message{}, readErr).Once()

		msg, err := source.Poll(context.Background(), time.Second)

		assert.ErrorIs(t, err, readErr)
		assert.Nil(t, msg)
	})

	t.Run("Error_NotSubscribed", func(t *testing.T) {
		source := newTestSource(&MockMessageReader{}, nil)

		_, err := source.Poll(context.Background(), time.Second)

		assert.ErrorIs(t, err, catalogDomain.ErrSourceUnavailable)
	})
}

func TestKafkaSource_Close(t *testing.T) {
	t.Run("Success_ClosesReader", func(t *testing.T) {
		reader := &MockMessageReader{}
		source := newTestSource(reader, nil)
		require.NoError(t, source.Subscribe(context.Background(), "catalog-items"))
		reader.On("Close").Return(nil).Once()

		assert.NoError(t, source.Close())
		assert.NoError(t, source.Close())
		reader.AssertExpectations(t)
	})

	t.Run("Success_NotSubscribed", func(t *testing.T) {
		assert.NoError(t, newTestSource(&MockMessageReader{}, nil).Close())
	})
}
