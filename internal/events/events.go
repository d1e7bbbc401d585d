// Package events defines the closed set of campaign notifications and the
// synchronous bus that delivers them to subscribers.
package events

import (
	"fmt"

	"github.com/talgya/squad-campaign/internal/economy"
)

// Kind identifies an event variant.
type Kind uint8

const (
	KindStateChanged Kind = iota
	KindResourceChanged
	KindMaterialChanged
	KindUnitStatusChanged
	KindMissionUnlocked
	KindMissionCompleted
	KindResearchCompleted
	KindWorldEventTriggered
	KindGameSaved
	KindGameLoaded
	KindSaveFailed
	KindLoadFailed
)

var kindNames = [...]string{
	"state_changed",
	"resource_changed",
	"material_changed",
	"unit_status_changed",
	"mission_unlocked",
	"mission_completed",
	"research_completed",
	"world_event_triggered",
	"game_saved",
	"game_loaded",
	"save_failed",
	"load_failed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is implemented by every notification the core publishes.
type Event interface {
	Kind() Kind
	Describe() string
}

// SystemAll is the StateChanged target used when the whole state was replaced.
const SystemAll = "All"

// StateChanged reports that a subsystem (or SystemAll) was replaced or reset.
type StateChanged struct {
	System string
}

// ResourceChanged reports a resource balance change.
type ResourceChanged struct {
	Resource economy.ResourceKind
	Old      int
	New      int
}

// MaterialChanged reports a material balance change.
type MaterialChanged struct {
	Material economy.MaterialKind
	Old      int
	New      int
}

// UnitStatusChanged reports a unit status transition. Old and New hold the
// status names.
type UnitStatusChanged struct {
	UnitID string
	Old    string
	New    string
}

// MissionUnlocked reports a Locked -> Unlocked transition.
type MissionUnlocked struct {
	MissionID string
}

// MissionCompleted reports a resolved mission.
type MissionCompleted struct {
	MissionID string
	Success   bool
}

// ResearchCompleted reports a technology entering the unlocked set.
type ResearchCompleted struct {
	TechID string
}

// WorldEventTriggered carries a one-shot world event token.
type WorldEventTriggered struct {
	Token string
}

// GameSaved reports a successful save.
type GameSaved struct {
	Slot int
}

// GameLoaded reports a successful load.
type GameLoaded struct {
	Slot int
}

// SaveFailed reports a failed save.
type SaveFailed struct {
	Slot int
	Err  error
}

// LoadFailed reports a failed load.
type LoadFailed struct {
	Slot int
	Err  error
}

func (StateChanged) Kind() Kind        { return KindStateChanged }
func (ResourceChanged) Kind() Kind     { return KindResourceChanged }
func (MaterialChanged) Kind() Kind     { return KindMaterialChanged }
func (UnitStatusChanged) Kind() Kind   { return KindUnitStatusChanged }
func (MissionUnlocked) Kind() Kind     { return KindMissionUnlocked }
func (MissionCompleted) Kind() Kind    { return KindMissionCompleted }
func (ResearchCompleted) Kind() Kind   { return KindResearchCompleted }
func (WorldEventTriggered) Kind() Kind { return KindWorldEventTriggered }
func (GameSaved) Kind() Kind           { return KindGameSaved }
func (GameLoaded) Kind() Kind          { return KindGameLoaded }
func (SaveFailed) Kind() Kind          { return KindSaveFailed }
func (LoadFailed) Kind() Kind          { return KindLoadFailed }

func (e StateChanged) Describe() string { return fmt.Sprintf("state changed: %s", e.System) }

func (e ResourceChanged) Describe() string {
	return fmt.Sprintf("resource changed: %s %d -> %d", e.Resource, e.Old, e.New)
}

func (e MaterialChanged) Describe() string {
	return fmt.Sprintf("material changed: %s %d -> %d", e.Material, e.Old, e.New)
}

func (e UnitStatusChanged) Describe() string {
	return fmt.Sprintf("unit %s: %s -> %s", e.UnitID, e.Old, e.New)
}

func (e MissionUnlocked) Describe() string { return fmt.Sprintf("mission unlocked: %s", e.MissionID) }

func (e MissionCompleted) Describe() string {
	return fmt.Sprintf("mission completed: %s (success=%t)", e.MissionID, e.Success)
}

func (e ResearchCompleted) Describe() string { return fmt.Sprintf("research completed: %s", e.TechID) }
func (e WorldEventTriggered) Describe() string { return fmt.Sprintf("world event: %s", e.Token) }
func (e GameSaved) Describe() string           { return fmt.Sprintf("saved: slot %d", e.Slot) }
func (e GameLoaded) Describe() string          { return fmt.Sprintf("loaded: slot %d", e.Slot) }

func (e SaveFailed) Describe() string {
	return fmt.Sprintf("save failed: slot %d: %v", e.Slot, e.Err)
}

func (e LoadFailed) Describe() string {
	return fmt.Sprintf("load failed: slot %d: %v", e.Slot, e.Err)
}
