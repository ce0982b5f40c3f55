package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/wire"
)

// sinkCapacity is the bounded queue depth for each subscriber; spec.md
// requires capacity >= 10.
const sinkCapacity = 16

// Sink is a bounded queue feeding one open server-streaming response. ID
// identifies the subscription in logs; it has no wire representation.
type Sink struct {
	ID     string
	ch     chan wire.Update
	closed int32
}

func newSink() *Sink {
	return &Sink{ID: uuid.NewString(), ch: make(chan wire.Update, sinkCapacity)}
}

// Messages returns the receive end consumed by the subscribing RPC.
func (s *Sink) Messages() <-chan wire.Update {
	return s.ch
}

func (s *Sink) close() {
	if atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		close(s.ch)
	}
}

func (s *Sink) isClosed() bool {
	return atomic.LoadInt32(&s.closed) == 1
}

// Broker maps topics to their live subscriber sinks. The zero value is not
// usable; construct with New.
type Broker struct {
	mu     sync.Mutex
	topics map[string][]*Sink
}

// New returns an empty Broker.
func New() *Broker {
	return &Broker{topics: make(map[string][]*Sink)}
}

// Subscribe registers a new sink on topic and returns it along with an
// unsubscribe function the caller must invoke when its stream ends.
func (b *Broker) Subscribe(topic string) (*Sink, func()) {
	s := newSink()

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], s)
	b.mu.Unlock()

	metrics.PubSubSubscribers.Inc()
	log.WithTopic(topic).Debug().Str("subscriber", s.ID).Msg("pubsub: subscribed")
	return s, func() {
		s.close()
		metrics.PubSubSubscribers.Dec()
	}
}

// Publish snapshots topic's sink list under the lock, then tries a
// non-blocking send to each live sink outside the lock: a full sink drops
// the message for that subscriber only, and a closed sink is marked for
// removal, reaped on this call rather than immediately. Publish never
// blocks on a slow or dead subscriber.
func (b *Broker) Publish(topic string, msg wire.Update) {
	b.mu.Lock()
	sinks := b.topics[topic]
	b.mu.Unlock()

	var reap bool
	live := make([]*Sink, 0, len(sinks))
	for _, s := range sinks {
		if s.isClosed() {
			reap = true
			continue
		}
		select {
		case s.ch <- msg:
		default:
			metrics.PubSubMessagesDropped.WithLabelValues(topic).Inc()
		}
		live = append(live, s)
	}
	metrics.PubSubMessagesPublished.WithLabelValues(topic).Inc()

	if reap {
		b.mu.Lock()
		b.topics[topic] = live
		b.mu.Unlock()
	}
}
