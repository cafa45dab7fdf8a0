package messaging_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/mkravets/shortpool/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

type testEvent struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes json payload to the topic", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[testEvent](mock, "test.topic")

		err := publish(&testEvent{Name: "hello", Count: 3})

		require.NoError(t, err)
		assert.Equal(t, "test.topic", mock.topic)
		require.Len(t, mock.messages, 1)

		var decoded testEvent
		require.NoError(t, json.Unmarshal(mock.messages[0].Payload, &decoded))
		assert.Equal(t, "hello", decoded.Name)
		assert.Equal(t, 3, decoded.Count)
	})

	t.Run("returns error when transport fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[testEvent](mock, "test.topic")

		err := publish(&testEvent{Name: "hello"})

		assert.Error(t, err)
	})

	t.Run("messages carry unique ids", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[testEvent](mock, "test.topic")

		require.NoError(t, publish(&testEvent{Name: "a"}))
		require.NoError(t, publish(&testEvent{Name: "b"}))

		require.Len(t, mock.messages, 2)
		assert.NotEqual(t, mock.messages[0].UUID, mock.messages[1].UUID)
	})
}
