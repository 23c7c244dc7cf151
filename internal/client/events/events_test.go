package events

import "testing"

func TestDispatcherHandlersRunInRegistrationOrder(t *testing.T) {
	d := New(8)
	var order []string
	d.On(UI, SubKeyPress, func(e Event) { order = append(order, "first") })
	d.On(UI, SubKeyPress, func(e Event) { order = append(order, "second") })

	d.Emit(Event{Kind: UI, SubKind: SubKeyPress, Payload: 'a'})
	d.Pump()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("got %v", order)
	}
}

func TestDispatcherDropsNewestOnOverflow(t *testing.T) {
	d := New(2)
	d.Emit(Event{Kind: SYSTEM, SubKind: SubTimer})
	d.Emit(Event{Kind: SYSTEM, SubKind: SubTimer})

	dropped := d.Emit(Event{Kind: SYSTEM, SubKind: SubTimer})
	if !dropped {
		t.Fatalf("expected third emit to be dropped at capacity 2")
	}
	if d.DroppedCount() != 1 {
		t.Fatalf("DroppedCount() = %d, want 1", d.DroppedCount())
	}
	if d.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", d.Pending())
	}
}

func TestDispatcherOnlyMatchingSubKindFires(t *testing.T) {
	d := New(8)
	fired := false
	d.On(NETWORK, SubSocketData, func(e Event) { fired = true })

	d.Emit(Event{Kind: NETWORK, SubKind: SubSocketClose})
	d.Pump()

	if fired {
		t.Fatalf("handler for socket_data should not fire for socket_close")
	}
}

func TestDispatcherPumpClearsQueue(t *testing.T) {
	d := New(4)
	d.Emit(Event{Kind: UI, SubKind: SubResize})
	d.Pump()
	if d.Pending() != 0 {
		t.Fatalf("Pending() after Pump = %d, want 0", d.Pending())
	}
}
