package eventbus

import "testing"

type runDone struct{ Line string }

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[runDone]()
	ch := bus.Subscribe()
	bus.Publish(runDone{Line: "LA01"})
	v := <-ch
	if v.Line != "LA01" {
		t.Fatalf("expected LA01 got %v", v)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected closed channel from closed bus")
	}
	bus.Publish(1)
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[int]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewWithBuffer[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	if bus.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event got %d", bus.Dropped())
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected first event got %d", v)
	}
}
