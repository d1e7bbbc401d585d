// Package campaign holds story-level state: acts, factions, story flags and
// elapsed campaign time.
package campaign

import (
	"encoding/json"
	"slices"
)

// State is the story state of a campaign.
type State struct {
	act             Act
	elapsedTime     int
	startingFaction Faction
	currentFaction  Faction
	storyFlags      []string // Insertion order, no duplicates
}

// NewState creates a state at Act 1 with no faction.
func NewState() *State {
	return &State{}
}

func (s *State) Act() Act                 { return s.act }
func (s *State) SetAct(a Act)             { s.act = a }
func (s *State) ElapsedTime() int         { return s.elapsedTime }
func (s *State) StartingFaction() Faction { return s.startingFaction }
func (s *State) CurrentFaction() Faction  { return s.currentFaction }

// SetFaction changes the current faction.
func (s *State) SetFaction(f Faction) { s.currentFaction = f }

// Begin records the starting faction of a new game. The starting faction
// is fixed once set; later calls only change the current faction.
func (s *State) Begin(f Faction) {
	if s.startingFaction == FactionNone {
		s.startingFaction = f
	}
	s.currentFaction = f
}

// AddStoryFlag sets a flag. Existing flags are left alone.
func (s *State) AddStoryFlag(flag string) bool {
	if flag == "" || s.HasStoryFlag(flag) {
		return false
	}
	s.storyFlags = append(s.storyFlags, flag)
	return true
}

func (s *State) HasStoryFlag(flag string) bool {
	return slices.Contains(s.storyFlags, flag)
}

func (s *State) RemoveStoryFlag(flag string) {
	s.storyFlags = slices.DeleteFunc(s.storyFlags, func(f string) bool { return f == flag })
}

// StoryFlags returns the active flags in the order they were set.
func (s *State) StoryFlags() []string {
	return slices.Clone(s.storyFlags)
}

// PassTime adds duration (hours) to the campaign clock. Negative values are ignored.
func (s *State) PassTime(duration int) {
	if duration > 0 {
		s.elapsedTime += duration
	}
}

// Reset returns to a fresh Act 1 state with no faction.
func (s *State) Reset() {
	*s = State{}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	c.storyFlags = slices.Clone(s.storyFlags)
	return &c
}

type stateJSON struct {
	Act             Act      `json:"currentAct"`
	ElapsedTime     int      `json:"elapsedTime"`
	StartingFaction Faction  `json:"startingFaction"`
	CurrentFaction  Faction  `json:"currentFaction"`
	StoryFlags      []string `json:"activeStoryFlags"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	w := stateJSON{
		Act:             s.act,
		ElapsedTime:     s.elapsedTime,
		StartingFaction: s.startingFaction,
		CurrentFaction:  s.currentFaction,
		StoryFlags:      s.storyFlags,
	}
	if w.StoryFlags == nil {
		w.StoryFlags = []string{}
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(b []byte) error {
	var w stateJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Reset()
	s.act = w.Act
	s.elapsedTime = max(0, w.ElapsedTime)
	s.startingFaction = w.StartingFaction
	s.currentFaction = w.CurrentFaction
	for _, f := range w.StoryFlags {
		s.AddStoryFlag(f)
	}
	return nil
}
