// Package progression tracks campaign time, world threat and main-mission
// progress, and estimates how the player's strength compares to the world.
package progression

import (
	"encoding/json"
	"slices"
)

// Threat growth and calendar constants.
const (
	BaseThreatLevel   = 1.0
	DailyThreatGrowth = 0.02

	HoursPerDay  = 24
	DaysPerWeek  = 7
	HoursPerWeek = HoursPerDay * DaysPerWeek
)

// State is the progression state of a campaign. The world threat level is
// derived from elapsed time and recomputed whenever time advances.
type State struct {
	worldThreat  float64
	completed    []string // Completion order
	available    []string
	failed       []string
	elapsedHours int
	triggered    []string // World event tokens already fired
}

// NewState creates a state at hour zero and base threat.
func NewState() *State {
	return &State{worldThreat: BaseThreatLevel}
}

func (s *State) WorldThreatLevel() float64 { return s.worldThreat }
func (s *State) TotalElapsedHours() int    { return s.elapsedHours }

// ElapsedDays returns whole elapsed days.
func (s *State) ElapsedDays() int { return s.elapsedHours / HoursPerDay }

// ElapsedWeeks returns whole elapsed weeks.
func (s *State) ElapsedWeeks() int { return s.ElapsedDays() / DaysPerWeek }

// AdvanceTime adds hours to the clock and recomputes the world threat.
// Non-positive values are ignored; elapsed time never decreases.
func (s *State) AdvanceTime(hours int) {
	if hours <= 0 {
		return
	}
	s.elapsedHours += hours
	s.updateWorldThreat()
}

func (s *State) updateWorldThreat() {
	s.worldThreat = BaseThreatLevel + float64(s.ElapsedDays())*DailyThreatGrowth
}

// HasCompletedMission reports whether a main mission was completed.
func (s *State) HasCompletedMission(id string) bool {
	return slices.Contains(s.completed, id)
}

// IsMissionAvailable reports whether a main mission is currently offered.
func (s *State) IsMissionAvailable(id string) bool {
	return slices.Contains(s.available, id)
}

// UnlockMission makes a main mission available. Completed or already
// available missions are ignored.
func (s *State) UnlockMission(id string) bool {
	if id == "" || s.HasCompletedMission(id) || s.HasFailedMission(id) || s.IsMissionAvailable(id) {
		return false
	}
	s.available = append(s.available, id)
	return true
}

// CompleteMainMission moves an available mission to the completed list.
// Missions that are not available, including already completed ones, are
// left untouched.
func (s *State) CompleteMainMission(id string) bool {
	if !s.IsMissionAvailable(id) || s.HasCompletedMission(id) {
		return false
	}
	s.completed = append(s.completed, id)
	s.available = without(s.available, id)
	return true
}

// FailMainMission moves an available mission to the failed list. Failed
// missions cannot be unlocked again.
func (s *State) FailMainMission(id string) bool {
	if !s.IsMissionAvailable(id) {
		return false
	}
	s.failed = append(s.failed, id)
	s.available = without(s.available, id)
	return true
}

// HasFailedMission reports whether a main mission was failed.
func (s *State) HasFailedMission(id string) bool {
	return slices.Contains(s.failed, id)
}

// FailedMissions returns the failed main missions.
func (s *State) FailedMissions() []string { return slices.Clone(s.failed) }

// CompletedMissions returns completed main missions in completion order.
func (s *State) CompletedMissions() []string { return slices.Clone(s.completed) }

// AvailableMissions returns the currently available main missions.
func (s *State) AvailableMissions() []string { return slices.Clone(s.available) }

// Triggered reports whether a world event token has already fired.
func (s *State) Triggered(token string) bool {
	return slices.Contains(s.triggered, token)
}

// MarkTriggered records world event tokens as fired.
func (s *State) MarkTriggered(tokens ...string) {
	for _, t := range tokens {
		if t != "" && !s.Triggered(t) {
			s.triggered = append(s.triggered, t)
		}
	}
}

// TriggeredEvents returns the fired world event tokens.
func (s *State) TriggeredEvents() []string { return slices.Clone(s.triggered) }

// Reset returns to hour zero with no mission progress.
func (s *State) Reset() {
	*s = State{worldThreat: BaseThreatLevel}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{
		worldThreat:  s.worldThreat,
		completed:    slices.Clone(s.completed),
		available:    slices.Clone(s.available),
		failed:       slices.Clone(s.failed),
		elapsedHours: s.elapsedHours,
		triggered:    slices.Clone(s.triggered),
	}
}

type stateJSON struct {
	WorldThreat  float64  `json:"worldThreatLevel"`
	Completed    []string `json:"completedMainMissionIds"`
	Available    []string `json:"availableMainMissionIds"`
	Failed       []string `json:"failedMainMissionIds,omitempty"`
	ElapsedHours int      `json:"totalElapsedHours"`
	Triggered    []string `json:"triggeredEvents"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	w := stateJSON{
		WorldThreat:  s.worldThreat,
		Completed:    nonNil(s.completed),
		Available:    nonNil(s.available),
		Failed:       s.failed,
		ElapsedHours: s.elapsedHours,
		Triggered:    nonNil(s.triggered),
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores the state. The stored threat level is ignored in
// favour of the value derived from elapsed hours.
func (s *State) UnmarshalJSON(b []byte) error {
	var w stateJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Reset()
	s.elapsedHours = max(0, w.ElapsedHours)
	s.updateWorldThreat()
	for _, id := range w.Completed {
		if id != "" && !s.HasCompletedMission(id) {
			s.completed = append(s.completed, id)
		}
	}
	for _, id := range w.Failed {
		if id != "" && !s.HasCompletedMission(id) && !s.HasFailedMission(id) {
			s.failed = append(s.failed, id)
		}
	}
	for _, id := range w.Available {
		s.UnlockMission(id)
	}
	s.MarkTriggered(w.Triggered...)
	return nil
}

// without removes id from list. An emptied list becomes nil so that a
// decoded state compares equal to the live one.
func without(list []string, id string) []string {
	list = slices.DeleteFunc(list, func(a string) bool { return a == id })
	if len(list) == 0 {
		return nil
	}
	return list
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
