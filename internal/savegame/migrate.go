package savegame

import (
	"fmt"
	"log/slog"
)

// Document is a save envelope whose game state is still generic JSON, the
// form migration steps operate on.
type Document struct {
	SaveVersion int            `json:"saveVersion"`
	Timestamp   string         `json:"timestamp"`
	SlotIndex   int            `json:"slotIndex"`
	GameState   map[string]any `json:"gameState"`
}

// Step upgrades a document from the version it is registered for to the
// next one. The migrator advances SaveVersion after a step succeeds.
type Step func(doc *Document) error

// Migrator applies registered steps one version at a time.
type Migrator struct {
	current int
	steps   map[int]Step
}

// NewMigrator creates a migrator targeting version current with no steps.
func NewMigrator(current int) *Migrator {
	return &Migrator{current: current, steps: make(map[int]Step)}
}

// DefaultMigrator returns the migrator for CurrentSaveVersion.
func DefaultMigrator() *Migrator {
	m := NewMigrator(CurrentSaveVersion)
	// Documents written before versioning carry no saveVersion and share
	// the version 1 layout.
	m.Register(0, func(doc *Document) error {
		if doc.GameState == nil {
			doc.GameState = make(map[string]any)
		}
		return nil
	})
	return m
}

// Current returns the version documents are migrated to.
func (m *Migrator) Current() int { return m.current }

// Register installs the step that upgrades version from.
func (m *Migrator) Register(from int, step Step) {
	m.steps[from] = step
}

// Migrate upgrades doc until it reaches the current version and returns
// the number of steps applied. A version without a registered step stops
// the migration, leaving doc at that version.
func (m *Migrator) Migrate(doc *Document) (int, error) {
	applied := 0
	for doc.SaveVersion < m.current {
		from := doc.SaveVersion
		step, ok := m.steps[from]
		if !ok {
			slog.Warn("no migration for save version", "version", from, "current", m.current)
			return applied, fmt.Errorf("version %d: %w", from, ErrMigrationIncomplete)
		}
		if err := step(doc); err != nil {
			return applied, fmt.Errorf("migrate from version %d: %w", from, err)
		}
		doc.SaveVersion = from + 1
		applied++
		slog.Info("save migrated", "from", from, "to", doc.SaveVersion)
	}
	return applied, nil
}
