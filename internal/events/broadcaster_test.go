package events

import (
	"testing"
	"time"
)

func TestBroadcasterSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	if b.Count() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", b.Count())
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch1)
	if b.Count() != 1 {
		t.Fatalf("expected 1 subscriber after unsubscribe, got %d", b.Count())
	}
	if _, ok := <-ch1; ok {
		t.Fatal("expected unsubscribed channel to be closed")
	}

	b.Unsubscribe(ch2)
	if b.Count() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", b.Count())
	}
}

func TestBroadcasterPublish(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Change{Topic: TopicAnimals, Count: 3})

	select {
	case got := <-ch:
		if got.Topic != TopicAnimals || got.Count != 3 {
			t.Fatalf("unexpected change %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestBroadcasterPublish_CoalescesForSlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 10; i++ {
		b.Publish(Change{Topic: TopicAnimals, Count: int64(i)})
	}

	if got := <-ch; got.Count != 0 {
		t.Fatalf("expected the first pending change to be kept, got %+v", got)
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected later changes to be dropped, got %+v", extra)
	default:
	}
}
