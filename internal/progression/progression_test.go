package progression

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestAdvanceTimeRecomputesThreat(t *testing.T) {
	s := NewState()
	s.AdvanceTime(23)
	if s.ElapsedDays() != 0 || !approx(s.WorldThreatLevel(), BaseThreatLevel) {
		t.Fatalf("threat moved before a full day: %v", s.WorldThreatLevel())
	}
	s.AdvanceTime(1)
	if s.ElapsedDays() != 1 || !approx(s.WorldThreatLevel(), 1.02) {
		t.Fatalf("expected 1.02 after one day, got %v", s.WorldThreatLevel())
	}
	s.AdvanceTime(-48)
	if s.TotalElapsedHours() != 24 {
		t.Fatalf("elapsed time went backwards: %d", s.TotalElapsedHours())
	}
	s.AdvanceTime(HoursPerWeek * 2)
	if s.ElapsedWeeks() != 2 || s.ElapsedDays() != 15 {
		t.Fatalf("unexpected calendar: %d days %d weeks", s.ElapsedDays(), s.ElapsedWeeks())
	}
	if !approx(s.WorldThreatLevel(), 1.3) {
		t.Fatalf("expected 1.3, got %v", s.WorldThreatLevel())
	}
}

func TestMainMissionLifecycle(t *testing.T) {
	s := NewState()
	if s.CompleteMainMission("m1") {
		t.Fatal("completing an unavailable mission must be a no-op")
	}
	if s.HasCompletedMission("m1") {
		t.Fatal("unknown mission recorded as completed")
	}
	if !s.UnlockMission("m1") || s.UnlockMission("m1") {
		t.Fatal("unlock should succeed exactly once")
	}
	if !s.CompleteMainMission("m1") {
		t.Fatal("expected completion")
	}
	if s.IsMissionAvailable("m1") || !s.HasCompletedMission("m1") {
		t.Fatal("mission must not be both available and completed")
	}
	if s.CompleteMainMission("m1") || s.UnlockMission("m1") {
		t.Fatal("completed mission must stay completed")
	}
	if got := s.CompletedMissions(); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Fatalf("unexpected completed list %v", got)
	}
}

func TestPlayerPowerWithEmptyRoster(t *testing.T) {
	r := roster.New()
	ts := tech.NewState()
	if got := PlayerPower(r, ts); !approx(got, 0.7) {
		t.Fatalf("expected 0.7, got %v", got)
	}
	ratio := DifficultyRatio(NewState(), r, ts)
	if !approx(ratio, 1.0/0.7) {
		t.Fatalf("expected %v, got %v", 1.0/0.7, ratio)
	}
	if Classify(ratio) != BandChallenging {
		t.Fatalf("unexpected band %s", Classify(ratio))
	}
}

func TestPlayerPowerWithSquadAndTech(t *testing.T) {
	r := roster.New()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		r.Add(roster.NewUnit(id, id))
	}
	r.AddExperience("a", 100) // level 2
	r.UpdateStatus("e", roster.StatusDead)

	ts := tech.NewState()
	for _, id := range []string{"t1", "t2", "t3"} {
		ts.StartResearch(id)
		ts.CompleteCurrent()
	}

	// 4 active units, average level 1.25.
	wantSquad := 1.0 + (4.0/4.0)*0.3 + (1.25/15.0)*0.4
	wantTech := (3.0 / 30.0) * 0.1
	if got := SquadPower(r); !approx(got, wantSquad) {
		t.Fatalf("squad power %v, want %v", got, wantSquad)
	}
	if got := PlayerPower(r, ts); !approx(got, 0.7*wantSquad+0.3*wantTech) {
		t.Fatalf("player power %v", got)
	}
}

func TestRatioGuardsNonPositivePower(t *testing.T) {
	for _, power := range []float64{0, -1} {
		if got := Ratio(2.0, power); got != DifficultyPunishing {
			t.Fatalf("Ratio(2, %v) = %v, want %v", power, got, DifficultyPunishing)
		}
	}
	if got := Ratio(1.2, 1.5); !approx(got, 0.8) {
		t.Fatalf("unexpected ratio %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Band
	}{
		{0.5, BandComfortable},
		{0.8, BandComfortable},
		{1.0, BandBalanced},
		{1.2, BandChallenging},
		{1.49, BandChallenging},
		{1.5, BandPunishing},
		{3, BandPunishing},
	}
	for _, tt := range tests {
		if got := Classify(tt.ratio); got != tt.want {
			t.Fatalf("Classify(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestNewlyAvailableMainMissions(t *testing.T) {
	all := []MainMission{
		{ID: "m0"},
		{ID: "m1", Prerequisites: []string{"m0"}},
		{ID: "m2", Prerequisites: []string{"m0", "m1"}},
	}
	s := NewState()
	if got := NewlyAvailableMainMissions(all, s); !reflect.DeepEqual(got, []string{"m0"}) {
		t.Fatalf("unexpected %v", got)
	}
	s.UnlockMission("m0")
	if got := NewlyAvailableMainMissions(all, s); len(got) != 0 {
		t.Fatalf("available mission offered again: %v", got)
	}
	s.CompleteMainMission("m0")
	if got := NewlyAvailableMainMissions(all, s); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestCanUnlockMainMission(t *testing.T) {
	s := NewState()
	m := MainMission{ID: "m1", Title: "Relay", Prerequisites: []string{"m0"}}
	if CanUnlockMainMission(m, s) {
		t.Fatal("unlockable before its prerequisite completed")
	}
	s.UnlockMission("m0")
	s.CompleteMainMission("m0")
	if !CanUnlockMainMission(m, s) {
		t.Fatal("not unlockable after its prerequisite completed")
	}
	s.UnlockMission("m1")
	s.CompleteMainMission("m1")
	if CanUnlockMainMission(m, s) {
		t.Fatal("completed mission unlockable again")
	}
}

func TestFactionThreatFollowsWorldThreat(t *testing.T) {
	s := NewState()
	s.AdvanceTime(10 * HoursPerDay)
	for _, f := range campaign.PlayableFactions() {
		if got := FactionThreatLevel(f, s); got != s.WorldThreatLevel() {
			t.Fatalf("%s threat %v, world %v", f, got, s.WorldThreatLevel())
		}
	}
}

func TestTimeEventsFireOnce(t *testing.T) {
	s := NewState()
	if got := TimeEvents(s, s); len(got) != 0 {
		t.Fatalf("no events expected at hour zero, got %v", got)
	}
	s.AdvanceTime(HoursPerDay * 30) // week 4, threat 1.6
	got := TimeEvents(s, s)
	if !reflect.DeepEqual(got, []string{"week_4_event", EventThreatPunishing}) {
		t.Fatalf("unexpected events %v", got)
	}
	s.MarkTriggered(got...)
	if again := TimeEvents(s, s); len(again) != 0 {
		t.Fatalf("events fired twice: %v", again)
	}
	s.AdvanceTime(HoursPerDay * 25) // day 55, threat 2.1
	got = TimeEvents(s, s)
	if !reflect.DeepEqual(got, []string{"week_7_event", EventThreatCritical}) {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestDifficultyWarningOrder(t *testing.T) {
	s := NewState()
	if _, ok := DifficultyWarning(1.1, s); ok {
		t.Fatal("no warning below challenging")
	}
	token, ok := DifficultyWarning(1.6, s)
	if !ok || token != WarningFallingBehind {
		t.Fatalf("expected falling-behind first, got %q", token)
	}
	s.MarkTriggered(token)
	token, ok = DifficultyWarning(1.6, s)
	if !ok || token != WarningCriticalDanger {
		t.Fatalf("expected critical danger, got %q", token)
	}
	s.MarkTriggered(token)
	if _, ok := DifficultyWarning(1.6, s); ok {
		t.Fatal("warnings must fire once")
	}
}

func TestStateJSONDerivesThreat(t *testing.T) {
	s := NewState()
	s.AdvanceTime(HoursPerDay * 10)
	s.UnlockMission("m0")
	s.CompleteMainMission("m0")
	s.UnlockMission("m1")
	s.MarkTriggered("week_1_event")

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded := NewState()
	if err := json.Unmarshal(b, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, s) {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, s)
	}

	tampered := []byte(`{"worldThreatLevel":9,"totalElapsedHours":48,"completedMainMissionIds":["a"],"availableMainMissionIds":["a","b"]}`)
	if err := json.Unmarshal(tampered, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !approx(decoded.WorldThreatLevel(), 1.04) {
		t.Fatalf("expected derived threat 1.04, got %v", decoded.WorldThreatLevel())
	}
	if decoded.IsMissionAvailable("a") || !decoded.IsMissionAvailable("b") {
		t.Fatal("completed mission must not be restored as available")
	}
}

func TestFailedMissionCannotReturn(t *testing.T) {
	s := NewState()
	if s.FailMainMission("m1") {
		t.Fatal("failing an unavailable mission must be a no-op")
	}
	s.UnlockMission("m1")
	if !s.FailMainMission("m1") {
		t.Fatal("expected failure to be recorded")
	}
	if s.IsMissionAvailable("m1") || !s.HasFailedMission("m1") {
		t.Fatal("failed mission still available")
	}
	if s.UnlockMission("m1") || s.CompleteMainMission("m1") {
		t.Fatal("failed mission must stay failed")
	}
	clone := s.Clone()
	if !reflect.DeepEqual(clone.FailedMissions(), []string{"m1"}) {
		t.Fatalf("clone lost failures: %v", clone.FailedMissions())
	}
}
