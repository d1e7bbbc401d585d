// Package tech tracks researched technologies and the single in-flight
// research slot.
package tech

import (
	"encoding/json"
	"slices"
)

// State holds the unlocked set and the current research slot.
// The unlocked set only grows; Reset is the only way to shrink it.
type State struct {
	unlocked []string // Unlock order
	current  string   // Empty when idle
	progress int
}

// NewState creates an idle state with nothing unlocked.
func NewState() *State {
	return &State{}
}

// IsUnlocked reports whether techID has been researched.
func (s *State) IsUnlocked(techID string) bool {
	return slices.Contains(s.unlocked, techID)
}

// Unlocked returns the unlocked tech IDs in unlock order.
func (s *State) Unlocked() []string {
	return slices.Clone(s.unlocked)
}

// UnlockedCount returns the number of unlocked techs.
func (s *State) UnlockedCount() int { return len(s.unlocked) }

// IsResearching reports whether a research slot is active.
func (s *State) IsResearching() bool { return s.current != "" }

// Current returns the tech being researched and its progress.
func (s *State) Current() (techID string, progress int) {
	return s.current, s.progress
}

// PrerequisitesMet reports whether every prerequisite of t is unlocked.
func (s *State) PrerequisitesMet(t Tech) bool {
	for _, id := range t.Prerequisites {
		if !s.IsUnlocked(id) {
			return false
		}
	}
	return true
}

// StartResearch begins researching techID with zero progress. It is
// rejected while another research is active or if techID is unlocked.
func (s *State) StartResearch(techID string) bool {
	if techID == "" || s.IsResearching() || s.IsUnlocked(techID) {
		return false
	}
	s.current = techID
	s.progress = 0
	return true
}

// AdvanceResearch adds one tick of progress. When progress reaches
// requiredTime the tech is unlocked and the slot cleared; only then does
// AdvanceResearch return true.
func (s *State) AdvanceResearch(requiredTime int) bool {
	if !s.IsResearching() {
		return false
	}
	s.progress++
	if s.progress >= requiredTime {
		s.CompleteCurrent()
		return true
	}
	return false
}

// CompleteCurrent unlocks the current research immediately.
func (s *State) CompleteCurrent() {
	if !s.IsResearching() {
		return
	}
	if !s.IsUnlocked(s.current) {
		s.unlocked = append(s.unlocked, s.current)
	}
	s.current = ""
	s.progress = 0
}

// CancelResearch discards the current research and its progress.
func (s *State) CancelResearch() {
	s.current = ""
	s.progress = 0
}

// Reset clears everything, including the unlocked set.
func (s *State) Reset() {
	s.unlocked = nil
	s.CancelResearch()
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{
		unlocked: slices.Clone(s.unlocked),
		current:  s.current,
		progress: s.progress,
	}
}

type stateJSON struct {
	Unlocked []string `json:"unlockedTechIds"`
	Current  string   `json:"currentResearchId,omitempty"`
	Progress int      `json:"currentResearchProgress"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	w := stateJSON{Unlocked: s.unlocked, Current: s.current, Progress: s.progress}
	if w.Unlocked == nil {
		w.Unlocked = []string{}
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(b []byte) error {
	var w stateJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Reset()
	for _, id := range w.Unlocked {
		if id != "" && !s.IsUnlocked(id) {
			s.unlocked = append(s.unlocked, id)
		}
	}
	if w.Current != "" && !s.IsUnlocked(w.Current) {
		s.current = w.Current
		s.progress = max(0, w.Progress)
	}
	return nil
}
