package analytics_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkravets/shortpool/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// collectingPublish captures published events behind a mutex.
type collectingPublish struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (c *collectingPublish) publish(event *analytics.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, *event)

	return nil
}

func (c *collectingPublish) all() []analytics.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]analytics.Event, len(c.events))
	copy(out, c.events)

	return out
}

func TestPublisher(t *testing.T) {
	t.Run("create event envelope", func(t *testing.T) {
		collector := &collectingPublish{}
		pub := analytics.NewPublisher(collector.publish, 8, zap.NewNop())

		pub.Created("abc1234", "https://example.com")
		require.NoError(t, pub.Shutdown())

		events := collector.all()
		require.Len(t, events, 1)
		assert.Equal(t, analytics.TypeCreate, events[0].Type)
		assert.Equal(t, "abc1234", events[0].Data.ShortID)
		assert.Equal(t, "https://example.com", events[0].Data.LongURL)
		assert.Nil(t, events[0].Data.CacheHit)
		assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)
	})

	t.Run("redirect event carries cache outcome", func(t *testing.T) {
		collector := &collectingPublish{}
		pub := analytics.NewPublisher(collector.publish, 8, zap.NewNop())

		pub.Redirected("abc1234", "https://example.com", true)
		pub.Redirected("abc1234", "https://example.com", false)
		require.NoError(t, pub.Shutdown())

		events := collector.all()
		require.Len(t, events, 2)
		require.NotNil(t, events[0].Data.CacheHit)
		assert.True(t, *events[0].Data.CacheHit)
		require.NotNil(t, events[1].Data.CacheHit)
		assert.False(t, *events[1].Data.CacheHit)
	})

	t.Run("wire format matches the published contract", func(t *testing.T) {
		collector := &collectingPublish{}
		pub := analytics.NewPublisher(collector.publish, 8, zap.NewNop())

		pub.Redirected("abc1234", "https://example.com", true)
		require.NoError(t, pub.Shutdown())

		events := collector.all()
		require.Len(t, events, 1)

		payload, err := json.Marshal(events[0])
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(payload, &decoded))

		assert.Equal(t, "redirect", decoded["type"])

		data, ok := decoded["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "abc1234", data["shortId"])
		assert.Equal(t, "https://example.com", data["longUrl"])
		assert.Equal(t, true, data["cacheHit"])

		// RFC 3339 timestamp string
		ts, ok := decoded["timestamp"].(string)
		require.True(t, ok)
		_, err = time.Parse(time.RFC3339Nano, ts)
		assert.NoError(t, err)
	})

	t.Run("create event omits cacheHit on the wire", func(t *testing.T) {
		collector := &collectingPublish{}
		pub := analytics.NewPublisher(collector.publish, 8, zap.NewNop())

		pub.Created("abc1234", "https://example.com")
		require.NoError(t, pub.Shutdown())

		payload, err := json.Marshal(collector.all()[0])
		require.NoError(t, err)
		assert.NotContains(t, string(payload), "cacheHit")
	})

	t.Run("drops on overflow instead of blocking", func(t *testing.T) {
		entered := make(chan struct{}, 1)
		release := make(chan struct{})

		var (
			mu   sync.Mutex
			sent int
		)

		blockingPublish := func(*analytics.Event) error {
			entered <- struct{}{}
			<-release

			mu.Lock()
			sent++
			mu.Unlock()

			return nil
		}

		pub := analytics.NewPublisher(blockingPublish, 1, zap.NewNop())

		// First event occupies the sender, second fills the buffer,
		// third must be dropped without blocking this goroutine.
		pub.Created("tok0001", "https://a.com")
		<-entered
		pub.Created("tok0002", "https://b.com")
		pub.Created("tok0003", "https://c.com")

		close(release)
		require.NoError(t, pub.Shutdown())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, sent)
	})

	t.Run("transport errors are swallowed", func(t *testing.T) {
		pub := analytics.NewPublisher(func(*analytics.Event) error {
			return errors.New("broker down")
		}, 8, zap.NewNop())

		pub.Created("abc1234", "https://example.com")

		assert.NoError(t, pub.Shutdown())
	})

	t.Run("shutdown is idempotent and stops intake", func(t *testing.T) {
		collector := &collectingPublish{}
		pub := analytics.NewPublisher(collector.publish, 8, zap.NewNop())

		require.NoError(t, pub.Shutdown())
		require.NoError(t, pub.Shutdown())

		// Late events are dropped, not sent and not panicking.
		pub.Created("abc1234", "https://example.com")
		assert.Empty(t, collector.all())
	})
}
