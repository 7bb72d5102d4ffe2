package events

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan CaptureSuccessEvent, 1)

	unsub := bus.Subscribe(func(e CaptureSuccessEvent) {
		received <- e
	})
	defer unsub()

	ev := CaptureSuccessEvent{CameraID: "0", Source: "oneshot", Timestamp: "2025-01-27T10:30:00Z"}
	bus.Publish(ev)

	select {
	case got := <-received:
		if got.CameraID != ev.CameraID || got.Source != ev.Source {
			t.Errorf("expected %+v, got %+v", ev, got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan StreamStateChangedEvent, 1)
	received2 := make(chan StreamStateChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e StreamStateChangedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e StreamStateChangedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(StreamStateChangedEvent{CameraID: "0", OldState: "starting", NewState: "running"})

	for i, ch := range []chan StreamStateChangedEvent{received1, received2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive event", i+1)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	received := make(chan CaptureErrorEvent, 1)

	unsub := bus.Subscribe(func(e CaptureErrorEvent) { received <- e })
	unsub()

	bus.Publish(CaptureErrorEvent{CameraID: "0"})

	select {
	case <-received:
		t.Error("unsubscribed handler still received event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusUnknownHandlerType(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(i int) {})
	unsub() // must be a usable no-op
}
