package events

import (
	"errors"
	"testing"

	"github.com/talgya/squad-campaign/internal/economy"
)

func TestPublishRoutesByKind(t *testing.T) {
	bus := NewBus()
	var saved []int
	var all []Kind

	On(bus, func(e GameSaved) { saved = append(saved, e.Slot) })
	bus.SubscribeAll(func(e Event) { all = append(all, e.Kind()) })

	bus.Publish(GameSaved{Slot: 3})
	bus.Publish(GameLoaded{Slot: 3})
	bus.Publish(GameSaved{Slot: -1})

	if len(saved) != 2 || saved[0] != 3 || saved[1] != -1 {
		t.Fatalf("unexpected saved slots %v", saved)
	}
	if len(all) != 3 || all[1] != KindGameLoaded {
		t.Fatalf("unexpected kinds %v", all)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	id := bus.Subscribe(KindStateChanged, func(Event) { calls++ })
	bus.Publish(StateChanged{System: SystemAll})
	bus.Unsubscribe(id)
	bus.Unsubscribe(id)
	bus.Publish(StateChanged{System: SystemAll})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestHandlerMayPublish(t *testing.T) {
	bus := NewBus()
	got := 0
	On(bus, func(e MissionCompleted) {
		bus.Publish(StateChanged{System: "missions"})
	})
	On(bus, func(e StateChanged) { got++ })
	bus.Publish(MissionCompleted{MissionID: "m1", Success: true})
	if got != 1 {
		t.Fatalf("expected nested publish to be delivered, got %d", got)
	}
}

func TestRecentIsBounded(t *testing.T) {
	bus := NewBus()
	bus.maxHistory = 3
	for i := 0; i < 5; i++ {
		bus.Publish(ResourceChanged{Resource: economy.ResourceCurrency, Old: i, New: i + 1})
	}
	recent := bus.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	if recent[0].Seq != 3 || recent[2].Seq != 5 {
		t.Fatalf("unexpected sequence %+v", recent)
	}
	if recent[2].Description != "resource changed: currency 4 -> 5" {
		t.Fatalf("unexpected description %q", recent[2].Description)
	}
	if len(bus.Recent(1)) != 1 {
		t.Fatal("expected a single record")
	}
}

func TestDescribeFailure(t *testing.T) {
	e := SaveFailed{Slot: 2, Err: errors.New("disk full")}
	if e.Describe() != "save failed: slot 2: disk full" {
		t.Fatalf("unexpected description %q", e.Describe())
	}
	if e.Kind().String() != "save_failed" {
		t.Fatalf("unexpected kind name %q", e.Kind())
	}
}
