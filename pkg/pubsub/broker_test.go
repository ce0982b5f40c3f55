package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/burrow/pkg/wire"
)

// TestFanOutToMultipleSubscribers mirrors spec.md §8.5: one publisher, two
// subscribers on the same topic, each receiving both messages in order.
func TestFanOutToMultipleSubscribers(t *testing.T) {
	b := New()

	s1, unsub1 := b.Subscribe("foo")
	defer unsub1()
	s2, unsub2 := b.Subscribe("foo")
	defer unsub2()

	b.Publish("foo", wire.Update{Topic: "foo", Payload: "fooval"})
	b.Publish("foo", wire.Update{Topic: "foo", Payload: "fooval2"})

	for _, s := range []*Sink{s1, s2} {
		first := recvWithTimeout(t, s)
		second := recvWithTimeout(t, s)
		assert.Equal(t, "fooval", first.Payload)
		assert.Equal(t, "fooval2", second.Payload)
	}
}

func TestPublishDoesNotDeliverToLateSubscribers(t *testing.T) {
	b := New()

	s1, unsub1 := b.Subscribe("t")
	defer unsub1()

	b.Publish("t", wire.Update{Topic: "t", Payload: "before"})

	s2, unsub2 := b.Subscribe("t")
	defer unsub2()

	select {
	case msg := <-s2.Messages():
		t.Fatalf("late subscriber should not receive earlier publish, got %v", msg)
	case <-time.After(20 * time.Millisecond):
	}

	msg := recvWithTimeout(t, s1)
	assert.Equal(t, "before", msg.Payload)
}

func TestPublishToFullSinkDropsRatherThanBlocks(t *testing.T) {
	b := New()
	s, unsub := b.Subscribe("t")
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < sinkCapacity+5; i++ {
			b.Publish("t", wire.Update{Topic: "t", Payload: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full sink")
	}
	_ = s
}

func recvWithTimeout(t *testing.T, s *Sink) wire.Update {
	t.Helper()
	select {
	case msg, ok := <-s.Messages():
		require.True(t, ok)
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return wire.Update{}
	}
}
