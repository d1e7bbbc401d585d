package missions

import (
	"reflect"
	"strings"
	"testing"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/economy"
	"github.com/talgya/squad-campaign/internal/entropy"
	"github.com/talgya/squad-campaign/internal/progression"
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

func ids(ms []Mission) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func mustRegister(t *testing.T, p *Pool, ms ...Mission) {
	t.Helper()
	for _, m := range ms {
		if err := p.Register(m); err != nil {
			t.Fatalf("register %s: %v", m.ID, err)
		}
	}
}

func TestFactoryDefaults(t *testing.T) {
	s := NewStoryMission("m0", "Landfall")
	if s.Type != TypeStory || s.BaseEnemyCount != 6 || s.RecommendedSquadLevel != 1 {
		t.Fatalf("unexpected story defaults %+v", s)
	}
	g := NewGenericMission("g0", "Patrol", CategoryRecon)
	if g.Type != TypeGeneric || g.Category != CategoryRecon || g.BaseEnemyCount != 6 {
		t.Fatalf("unexpected generic defaults %+v", g)
	}
}

func TestRegisterStartsLocked(t *testing.T) {
	p := NewPool()
	mustRegister(t, p, NewStoryMission("m0", "Landfall"))
	if p.Status("m0") != StatusLocked {
		t.Fatalf("expected locked, got %s", p.Status("m0"))
	}
	if err := p.Register(NewStoryMission("m0", "Again")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := p.Register(Mission{}); err == nil {
		t.Fatal("expected empty id to fail")
	}
	if p.Status("ghost") != StatusLocked {
		t.Fatal("unknown missions read as locked")
	}
	if _, ok := p.Mission("ghost"); ok {
		t.Fatal("unknown mission lookup should miss")
	}
}

func TestStatusTransitionsOnlyMoveForward(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusLocked, StatusUnlocked, true},
		{StatusLocked, StatusCompleted, true},
		{StatusUnlocked, StatusCompleted, true},
		{StatusUnlocked, StatusFailed, true},
		{StatusUnlocked, StatusLocked, false},
		{StatusUnlocked, StatusUnlocked, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusUnlocked, false},
		{StatusCompleted, StatusLocked, false},
		{StatusLocked, Status(9), false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Fatalf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSetStatusIgnoresUnknownAndBackward(t *testing.T) {
	p := NewPool()
	mustRegister(t, p, NewStoryMission("m0", "Landfall"))
	if p.SetStatus("ghost", StatusUnlocked) {
		t.Fatal("unregistered mission accepted a status")
	}
	if p.Status("ghost") != StatusLocked || p.Len() != 1 {
		t.Fatal("unregistered mission leaked into the pool")
	}
	p.SetStatus("m0", StatusCompleted)
	if p.SetStatus("m0", StatusLocked) || p.Status("m0") != StatusCompleted {
		t.Fatal("completed mission moved backwards")
	}
}

func TestFindUnlockableFollowsPrerequisites(t *testing.T) {
	p := NewPool()
	m1 := NewStoryMission("m1", "Push Inland")
	m1.Prerequisites = []string{"m0"}
	mustRegister(t, p, NewStoryMission("m0", "Landfall"), m1)
	c := campaign.NewState()

	if got := ids(FindUnlockable(p, c)); !reflect.DeepEqual(got, []string{"m0"}) {
		t.Fatalf("unexpected unlockable %v", got)
	}
	// The query is pure: running it twice yields the same answer.
	if got := ids(FindUnlockable(p, c)); !reflect.DeepEqual(got, []string{"m0"}) {
		t.Fatalf("query mutated the pool: %v", got)
	}

	p.SetStatus("m0", StatusUnlocked)
	if got := FindUnlockable(p, c); len(got) != 0 {
		t.Fatalf("m1 unlockable before m0 completed: %v", ids(got))
	}
	p.SetStatus("m0", StatusCompleted)
	if got := ids(FindUnlockable(p, c)); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Fatalf("expected m1, got %v", got)
	}
	p.SetStatus("m1", StatusUnlocked)
	if got := FindUnlockable(p, c); len(got) != 0 {
		t.Fatalf("unlocked mission offered again: %v", ids(got))
	}
}

func TestCanUnlockFlagsAndFaction(t *testing.T) {
	p := NewPool()
	m := NewStoryMission("m2", "Coup")
	m.RequiredFlags = []string{"met_informant"}
	m.RequiredFaction = campaign.FactionTechnocracy
	mustRegister(t, p, m)

	c := campaign.NewState()
	c.Begin(campaign.FactionStratocracy)
	if CanUnlock(m, p, c) {
		t.Fatal("unlocked without the story flag")
	}
	c.AddStoryFlag("met_informant")
	if CanUnlock(m, p, c) {
		t.Fatal("unlocked for the wrong faction")
	}
	c.SetFaction(campaign.FactionTechnocracy)
	if !CanUnlock(m, p, c) {
		t.Fatal("expected unlock once flag and faction match")
	}
}

func TestByTypeAndStatus(t *testing.T) {
	p := NewPool()
	mustRegister(t, p,
		NewStoryMission("s0", "A"),
		NewGenericMission("g0", "B", CategoryAssault),
		NewStoryMission("s1", "C"),
	)
	p.SetStatus("s1", StatusUnlocked)
	p.SetStatus("s0", StatusCompleted)
	if got := ids(p.ByType(TypeStory)); !reflect.DeepEqual(got, []string{"s0", "s1"}) {
		t.Fatalf("unexpected story missions %v", got)
	}
	if got := ids(p.Available()); !reflect.DeepEqual(got, []string{"s1"}) {
		t.Fatalf("unexpected available %v", got)
	}
	if got := ids(p.Completed()); !reflect.DeepEqual(got, []string{"s0"}) {
		t.Fatalf("unexpected completed %v", got)
	}
}

func TestRegisteredMissionIsIsolated(t *testing.T) {
	p := NewPool()
	m := NewStoryMission("m0", "Landfall")
	m.Prerequisites = []string{"x"}
	mustRegister(t, p, m)
	m.Prerequisites[0] = "changed"

	got, _ := p.Mission("m0")
	got.Prerequisites[0] = "also changed"
	again, _ := p.Mission("m0")
	if again.Prerequisites[0] != "x" {
		t.Fatalf("catalog entry mutated: %v", again.Prerequisites)
	}
}

func TestRestoreFromProgression(t *testing.T) {
	p := NewPool()
	mustRegister(t, p,
		NewStoryMission("m0", "A"),
		NewStoryMission("m1", "B"),
		NewStoryMission("m2", "C"),
		NewStoryMission("m3", "D"),
	)
	p.SetStatus("m3", StatusUnlocked)

	prog := progression.NewState()
	prog.UnlockMission("m0")
	prog.CompleteMainMission("m0")
	prog.UnlockMission("m1")
	prog.UnlockMission("m2")
	prog.FailMainMission("m2")

	p.Restore(prog)
	want := map[string]Status{"m0": StatusCompleted, "m1": StatusUnlocked, "m2": StatusFailed, "m3": StatusLocked}
	for id, s := range want {
		if p.Status(id) != s {
			t.Fatalf("%s: got %s, want %s", id, p.Status(id), s)
		}
	}
}

func TestContributionScore(t *testing.T) {
	perf := UnitPerformance{Kills: 2, DamageDealt: 10, DamageTaken: 5, HealingDone: 3, ObjectivesCompleted: 1}
	// 20 + 20 + 5 + 6 + 15
	if got := perf.ContributionScore(); got != 66 {
		t.Fatalf("expected 66, got %d", got)
	}
	tank := UnitPerformance{DamageTaken: 12}
	if got := tank.ContributionScore(); got != 12 {
		t.Fatalf("damage taken should score one point each, got %d", got)
	}
}

func TestShareXP(t *testing.T) {
	r := Record{Performance: []UnitPerformance{
		{UnitID: "a", Kills: 3},        // 30
		{UnitID: "b", DamageTaken: 10}, // 10
		{UnitID: "c", Kills: -4},       // negative, counts as zero
	}}
	got := r.ShareXP(100)
	want := map[string]int{"a": 75, "b": 25, "c": 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	even := Record{Performance: []UnitPerformance{{UnitID: "a"}, {UnitID: "b"}}}
	if got := even.ShareXP(50); got["a"] != 25 || got["b"] != 25 {
		t.Fatalf("expected an even split, got %v", got)
	}
}

func rotationFixture(t *testing.T, n int) *Rotation {
	t.Helper()
	r := NewRotation(entropy.NewSeeded(11))
	for i := 0; i < n; i++ {
		m := NewGenericMission(string(rune('a'+i))+"_patrol", "Patrol", CategoryRecon)
		m.BaseEnemyCount = 4 + i
		m.Rewards.Resources = map[economy.ResourceKind]int{economy.ResourceCurrency: 100}
		m.Objectives = []Objective{{ID: "o1", Description: "Sweep"}}
		if err := r.AddTemplate(m); err != nil {
			t.Fatalf("add template: %v", err)
		}
	}
	return r
}

func TestRotationRefresh(t *testing.T) {
	r := rotationFixture(t, 5)
	prog, units, techs := progression.NewState(), roster.New(), tech.NewState()

	got := r.Refresh(prog, units, techs)
	if len(got) != MaxAvailableGeneric {
		t.Fatalf("expected %d missions, got %d", MaxAvailableGeneric, len(got))
	}
	for _, m := range got {
		base, suffix, ok := strings.Cut(m.ID, "_patrol_")
		if !ok || len(suffix) != 8 || base == "" {
			t.Fatalf("unexpected instance id %q", m.ID)
		}
		if m.Rewards.Resources[economy.ResourceCurrency] != 100 || len(m.Objectives) != 1 {
			t.Fatalf("template data not carried over: %+v", m)
		}
	}
	if r.LastDifficultyRatio() <= 0 {
		t.Fatal("difficulty ratio not computed")
	}

	again := r.Refresh(prog, units, techs)
	if len(again) != MaxAvailableGeneric {
		t.Fatalf("refresh should replace, not append: %d", len(again))
	}
	for _, m := range again {
		for _, old := range got {
			if m.ID == old.ID {
				t.Fatalf("instance id reused across refreshes: %s", m.ID)
			}
		}
	}
}

func TestRotationInstanceDropsTemplateGates(t *testing.T) {
	tmpl := NewGenericMission("raid", "Supply Raid", CategorySabotage)
	tmpl.Description = "Burn the depot"
	tmpl.BaseEnemyCount = 9
	tmpl.RecommendedSquadLevel = 4
	tmpl.Prerequisites = []string{"m01"}
	tmpl.RequiredFlags = []string{"depot_found"}
	tmpl.RequiredFaction = campaign.FactionTotalitarian
	tmpl.Consequences = Consequences{FlagsOnSuccess: []string{"depot_burned"}, FlagsOnFailure: []string{"raid_failed"}}
	tmpl.Rewards.Resources = map[economy.ResourceKind]int{economy.ResourceAlloys: 30}
	tmpl.Objectives = []Objective{{ID: "burn", Description: "Burn it"}}

	r := NewRotation(entropy.NewSeeded(3))
	if err := r.AddTemplate(tmpl); err != nil {
		t.Fatalf("add template: %v", err)
	}
	got := r.Refresh(progression.NewState(), roster.New(), tech.NewState())
	if len(got) != 1 {
		t.Fatalf("expected one instance, got %d", len(got))
	}
	m := got[0]
	if m.Name != tmpl.Name || m.Description != tmpl.Description || m.Category != CategorySabotage {
		t.Fatalf("display text not carried over: %+v", m)
	}
	if m.BaseEnemyCount != 9 || m.Rewards.Resources[economy.ResourceAlloys] != 30 || len(m.Objectives) != 1 {
		t.Fatalf("combat data not carried over: %+v", m)
	}
	if m.Type != TypeGeneric || m.RecommendedSquadLevel != DefaultRecommendedSquadLevel {
		t.Fatalf("instance should use generic defaults: %+v", m)
	}
	if len(m.Prerequisites) != 0 || len(m.RequiredFlags) != 0 || m.RequiredFaction != campaign.FactionNone {
		t.Fatalf("availability gates leaked into instance: %+v", m)
	}
	if len(m.Consequences.FlagsOnSuccess) != 0 || len(m.Consequences.FlagsOnFailure) != 0 {
		t.Fatalf("consequences leaked into instance: %+v", m.Consequences)
	}

	m.Rewards.Resources[economy.ResourceAlloys] = 0
	if r.Templates()[0].Rewards.Resources[economy.ResourceAlloys] != 30 {
		t.Fatal("instance rewards alias the template")
	}
}

func TestRotationWithFewTemplates(t *testing.T) {
	r := rotationFixture(t, 1)
	if got := r.Refresh(progression.NewState(), roster.New(), tech.NewState()); len(got) != 1 {
		t.Fatalf("expected 1 mission, got %d", len(got))
	}
	empty := NewRotation(entropy.NewSeeded(1))
	if got := empty.Refresh(progression.NewState(), roster.New(), tech.NewState()); len(got) != 0 {
		t.Fatalf("expected none, got %d", len(got))
	}
}

func TestRotationScalerAndRemove(t *testing.T) {
	r := rotationFixture(t, 3)
	var seen float64
	r.SetScaler(func(m Mission, ratio float64) Mission {
		seen = ratio
		m.BaseEnemyCount *= 2
		return m
	})
	got := r.Refresh(progression.NewState(), roster.New(), tech.NewState())
	if seen != r.LastDifficultyRatio() {
		t.Fatalf("scaler saw %v, want %v", seen, r.LastDifficultyRatio())
	}
	for _, m := range got {
		if m.BaseEnemyCount < 8 {
			t.Fatalf("scaler not applied: %d", m.BaseEnemyCount)
		}
	}
	if !r.Remove(got[0].ID) || r.Remove(got[0].ID) {
		t.Fatal("remove should succeed once")
	}
	if _, ok := r.Get(got[0].ID); ok || len(r.Current()) != 1 {
		t.Fatal("removed instance still offered")
	}
}
