package tech

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResearchLifecycle(t *testing.T) {
	s := NewState()
	if s.AdvanceResearch(3) {
		t.Fatal("advance while idle must fail")
	}
	if !s.StartResearch("armor") {
		t.Fatal("expected research to start")
	}
	if s.StartResearch("optics") {
		t.Fatal("second research must be rejected while one is active")
	}
	if id, p := s.Current(); id != "armor" || p != 0 {
		t.Fatalf("unexpected slot %s/%d", id, p)
	}
	if s.AdvanceResearch(3) || s.AdvanceResearch(3) {
		t.Fatal("research completed early")
	}
	if !s.AdvanceResearch(3) {
		t.Fatal("expected completion on the third tick")
	}
	if s.IsResearching() || !s.IsUnlocked("armor") {
		t.Fatal("completion must unlock and clear the slot")
	}
	if s.StartResearch("armor") {
		t.Fatal("unlocked tech must not be researched again")
	}
}

func TestCancelDiscardsProgress(t *testing.T) {
	s := NewState()
	s.StartResearch("optics")
	s.AdvanceResearch(5)
	s.CancelResearch()
	if s.IsResearching() || s.IsUnlocked("optics") {
		t.Fatal("cancel must return to idle without unlocking")
	}
	s.StartResearch("optics")
	if _, p := s.Current(); p != 0 {
		t.Fatalf("expected fresh progress, got %d", p)
	}
}

func TestPrerequisites(t *testing.T) {
	s := NewState()
	plating := Tech{ID: "plating", Prerequisites: []string{"armor", "alloys"}}
	if s.PrerequisitesMet(plating) {
		t.Fatal("prerequisites should be unmet")
	}
	for _, id := range []string{"armor", "alloys"} {
		s.StartResearch(id)
		s.CompleteCurrent()
	}
	if !s.PrerequisitesMet(plating) {
		t.Fatal("prerequisites should be met")
	}
	if !s.PrerequisitesMet(Tech{ID: "basic"}) {
		t.Fatal("tech without prerequisites is always available")
	}
}

func TestCatalogAvailable(t *testing.T) {
	c := NewCatalog()
	for _, tc := range []Tech{
		{ID: "armor", ResearchTime: 2},
		{ID: "optics"},
		{ID: "plating", Prerequisites: []string{"armor"}},
	} {
		if err := c.Register(tc); err != nil {
			t.Fatalf("register %s: %v", tc.ID, err)
		}
	}
	if err := c.Register(Tech{ID: "armor"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if optics, _ := c.Get("optics"); optics.ResearchTime != 1 {
		t.Fatalf("expected minimum research time 1, got %d", optics.ResearchTime)
	}

	s := NewState()
	s.StartResearch("armor")
	ids := func(ts []Tech) []string {
		var out []string
		for _, tc := range ts {
			out = append(out, tc.ID)
		}
		return out
	}
	if got := ids(c.Available(s)); !reflect.DeepEqual(got, []string{"optics"}) {
		t.Fatalf("unexpected available %v", got)
	}
	s.CompleteCurrent()
	if got := ids(c.Available(s)); !reflect.DeepEqual(got, []string{"optics", "plating"}) {
		t.Fatalf("unexpected available %v", got)
	}
}

func TestStateJSONAndClone(t *testing.T) {
	s := NewState()
	s.StartResearch("armor")
	s.CompleteCurrent()
	s.StartResearch("optics")
	s.AdvanceResearch(10)

	c := s.Clone()
	s.AdvanceResearch(10)
	if _, p := c.Current(); p != 1 {
		t.Fatalf("clone progress changed: %d", p)
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded := NewState()
	if err := json.Unmarshal(b, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, c) {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, c)
	}
}
