package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := New[string]()
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	b.Publish("hello")

	select {
	case got := <-ch:
		if got != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published value")
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	b := New[int]()
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	for i := 0; i < defaultSubscriberBuffer+5; i++ {
		b.Publish(i)
	}

	if len(ch) != defaultSubscriberBuffer {
		t.Fatalf("channel len = %d, want %d (excess should be dropped)", len(ch), defaultSubscriberBuffer)
	}
}

func TestSessionRegistryEvictsStaleSessions(t *testing.T) {
	var evicted []string
	reg := NewSessionRegistry(10*time.Millisecond, 1, nil, WithEvictionHandler(func(sid string) {
		evicted = append(evicted, sid)
	}))
	reg.sweepPeriod = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := reg.Register(ctx, "sess-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go reg.Run(ctx)
	<-ctx.Done()

	if len(evicted) != 1 || evicted[0] != "sess-1" {
		t.Fatalf("evicted = %v, want [sess-1]", evicted)
	}
}
