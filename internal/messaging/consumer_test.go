package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/mkravets/shortpool/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	messages chan *message.Message
	closed   bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{messages: make(chan *message.Message, 16)}
}

func (m *mockSubscriber) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return m.messages, nil
}

func (m *mockSubscriber) Close() error {
	m.closed = true

	return nil
}

func newMessage(t *testing.T, event any) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload)
}

func TestConsumer(t *testing.T) {
	t.Run("decodes, handles and acks", func(t *testing.T) {
		sub := newMockSubscriber()
		received := make(chan *testEvent, 1)

		consumer := messaging.NewConsumer(sub, "test.topic",
			func(_ context.Context, event *testEvent) error {
				received <- event

				return nil
			}, zap.NewNop())

		require.NoError(t, consumer.Start(context.Background()))
		defer consumer.Shutdown()

		msg := newMessage(t, &testEvent{Name: "hello", Count: 7})
		sub.messages <- msg

		select {
		case event := <-received:
			assert.Equal(t, "hello", event.Name)
			assert.Equal(t, 7, event.Count)
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}

		select {
		case <-msg.Acked():
		case <-time.After(time.Second):
			t.Fatal("message was not acked")
		}
	})

	t.Run("nacks when handler fails", func(t *testing.T) {
		sub := newMockSubscriber()

		consumer := messaging.NewConsumer(sub, "test.topic",
			func(context.Context, *testEvent) error {
				return errors.New("handler error")
			}, zap.NewNop())

		require.NoError(t, consumer.Start(context.Background()))
		defer consumer.Shutdown()

		msg := newMessage(t, &testEvent{Name: "hello"})
		sub.messages <- msg

		select {
		case <-msg.Nacked():
		case <-time.After(time.Second):
			t.Fatal("message was not nacked")
		}
	})

	t.Run("nacks undecodable payload without calling handler", func(t *testing.T) {
		sub := newMockSubscriber()
		called := false

		consumer := messaging.NewConsumer(sub, "test.topic",
			func(context.Context, *testEvent) error {
				called = true

				return nil
			}, zap.NewNop())

		require.NoError(t, consumer.Start(context.Background()))
		defer consumer.Shutdown()

		msg := message.NewMessage(uuid.NewString(), []byte("not json"))
		sub.messages <- msg

		select {
		case <-msg.Nacked():
		case <-time.After(time.Second):
			t.Fatal("message was not nacked")
		}

		assert.False(t, called)
	})

	t.Run("shutdown stops the consume loop", func(t *testing.T) {
		sub := newMockSubscriber()

		consumer := messaging.NewConsumer(sub, "test.topic",
			func(context.Context, *testEvent) error { return nil },
			zap.NewNop())

		require.NoError(t, consumer.Start(context.Background()))
		require.NoError(t, consumer.Shutdown())
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		first := &fakeRunnable{}
		second := &fakeRunnable{}
		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, first.started)
		assert.True(t, second.started)

		require.NoError(t, group.Shutdown())
		assert.True(t, first.stopped)
		assert.True(t, second.stopped)
		assert.True(t, sub.closed)
	})

	t.Run("start failure rolls back started consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		first := &fakeRunnable{}
		failing := &fakeRunnable{startErr: errors.New("start error")}
		group.Add(first)
		group.Add(failing)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.True(t, first.stopped)
	})
}

type fakeRunnable struct {
	started  bool
	stopped  bool
	startErr error
}

func (f *fakeRunnable) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	f.started = true

	return nil
}

func (f *fakeRunnable) Shutdown() error {
	f.stopped = true

	return nil
}
