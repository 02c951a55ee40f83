// Package bus fans canonical events out from platform adapters to the
// protocol engines attached to the same account. Subscribers never block
// publishers: each subscription owns a bounded queue drained by its own
// goroutine, and a full queue drops the event for that subscriber only.
package bus

import (
	"errors"
	"sync"

	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

// ErrBusClosed is returned when publishing to a closed bus.
var ErrBusClosed = errors.New("dispatch bus closed")

const defaultQueueSize = 128

// Handler consumes one canonical event for one subscriber.
type Handler func(ev *model.Event)

// Bus is the per-process dispatch bus. Topics are (platform, account)
// pairs; every engine of an account subscribes to its own topic.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]*subscription
	closed bool
	logger *zap.Logger
}

type subscription struct {
	name    string
	queue   chan *model.Event
	done    chan struct{}
	closeMu sync.Once
}

// New creates an empty dispatch bus.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		topics: map[string][]*subscription{},
		logger: logger,
	}
}

func topicKey(platform, account string) string {
	return platform + "/" + account
}

// Subscribe attaches a handler to an account topic. The returned cancel
// function detaches it and stops its drain goroutine.
func (b *Bus) Subscribe(platform, account, name string, h Handler) (cancel func()) {
	sub := &subscription{
		name:  name,
		queue: make(chan *model.Event, defaultQueueSize),
		done:  make(chan struct{}),
	}
	go func() {
		for {
			select {
			case ev, ok := <-sub.queue:
				if !ok {
					return
				}
				h(ev)
			case <-sub.done:
				return
			}
		}
	}()

	key := topicKey(platform, account)
	b.mu.Lock()
	b.topics[key] = append(b.topics[key], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		subs := b.topics[key]
		for i, s := range subs {
			if s == sub {
				b.topics[key] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		sub.close()
	}
}

func (s *subscription) close() {
	s.closeMu.Do(func() { close(s.done) })
}

// Publish offers one event to every subscriber of the event's account
// topic. Never blocks; a slow subscriber loses the event.
func (b *Bus) Publish(account string, ev *model.Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	subs := b.topics[topicKey(ev.Platform, account)]
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.queue <- ev:
		default:
			b.logger.Warn("subscriber queue full, dropping event",
				zap.String("subscriber", sub.name),
				zap.String("event_type", string(ev.Type)))
		}
	}
	return nil
}

// Close shuts down the bus and every subscription. Idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var all []*subscription
	for _, subs := range b.topics {
		all = append(all, subs...)
	}
	b.topics = map[string][]*subscription{}
	b.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}
}
