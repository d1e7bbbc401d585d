// Package savegame writes versioned snapshots of the game state to save
// slots, reads them back and upgrades older formats step by step.
package savegame

import (
	"errors"
	"fmt"

	"github.com/talgya/squad-campaign/internal/engine"
)

// Save format and slot layout.
const (
	CurrentSaveVersion = 1
	ManualSlotCount    = 10
	AutoSaveSlot       = -1

	// TimestampLayout formats SaveData.Timestamp.
	TimestampLayout = "2006-01-02 15:04:05"

	autoSaveKey = "autosave.json"
)

var (
	ErrSlotNotFound        = errors.New("save slot not found")
	ErrCorruptSave         = errors.New("corrupt save data")
	ErrMigrationIncomplete = errors.New("save migration incomplete")
	ErrInvalidSlot         = errors.New("invalid save slot")
)

// SaveData is a versioned snapshot of a game.
type SaveData struct {
	SaveVersion int               `json:"saveVersion"`
	Timestamp   string            `json:"timestamp"`
	SlotIndex   int               `json:"slotIndex"`
	GameState   *engine.GameState `json:"gameState"`
}

// SlotKey returns the storage key of a slot.
func SlotKey(slot int) string {
	if slot == AutoSaveSlot {
		return autoSaveKey
	}
	return fmt.Sprintf("slot_%d.json", slot)
}

func validSlot(slot int) error {
	if slot == AutoSaveSlot || (slot >= 0 && slot < ManualSlotCount) {
		return nil
	}
	return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
}
