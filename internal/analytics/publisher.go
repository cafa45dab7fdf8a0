package analytics

import (
	"sync"
	"time"

	"github.com/mkravets/shortpool/internal/messaging"
	"go.uber.org/zap"
)

// DefaultBuffer is the default outbound event buffer size.
const DefaultBuffer = 1024

// Publisher emits lifecycle events without ever blocking or failing the
// caller. Events go onto a bounded buffer drained by a single sender
// goroutine; when the buffer is full the event is dropped with a log line,
// and transport errors are logged and swallowed. Delivery is at-least-once
// to subscribers bound at publish time.
type Publisher struct {
	publish messaging.Publish[Event]
	queue   chan Event
	logger  *zap.Logger
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewPublisher creates a publisher with the given buffer size and starts
// its sender goroutine.
func NewPublisher(publish messaging.Publish[Event], buffer int, logger *zap.Logger) *Publisher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	p := &Publisher{
		publish: publish,
		queue:   make(chan Event, buffer),
		logger:  logger,
		done:    make(chan struct{}),
	}

	go p.sendLoop()

	return p
}

// Created emits a create event.
func (p *Publisher) Created(token, longURL string) {
	p.enqueue(Event{
		Type:      TypeCreate,
		Data:      EventData{ShortID: token, LongURL: longURL},
		Timestamp: time.Now().UTC(),
	})
}

// Redirected emits a redirect event carrying the cache outcome.
func (p *Publisher) Redirected(token, longURL string, cacheHit bool) {
	hit := cacheHit

	p.enqueue(Event{
		Type:      TypeRedirect,
		Data:      EventData{ShortID: token, LongURL: longURL, CacheHit: &hit},
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) enqueue(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("publisher closed, dropping event",
			zap.String("type", event.Type),
			zap.String("shortId", event.Data.ShortID),
		)

		return
	}

	select {
	case p.queue <- event:
	default:
		// Dropping beats blocking the create/resolve path behind a
		// slow broker.
		p.logger.Warn("event buffer full, dropping event",
			zap.String("type", event.Type),
			zap.String("shortId", event.Data.ShortID),
		)
	}
}

func (p *Publisher) sendLoop() {
	defer close(p.done)

	for event := range p.queue {
		if err := p.publish(&event); err != nil {
			p.logger.Error("failed to publish event",
				zap.String("type", event.Type),
				zap.String("shortId", event.Data.ShortID),
				zap.Error(err),
			)
		}
	}
}

// Shutdown stops intake and waits for buffered events to drain.
func (p *Publisher) Shutdown() error {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()

		return nil
	}

	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done

	return nil
}
