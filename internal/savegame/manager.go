package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/squad-campaign/internal/engine"
	"github.com/talgya/squad-campaign/internal/events"
	"github.com/talgya/squad-campaign/internal/storage"
)

// Manager saves and loads games through a storage.Store. Failures are
// returned and also published as SaveFailed or LoadFailed events; the
// caller's live state is never modified.
type Manager struct {
	store    storage.Store
	notifier events.Notifier
	migrator *Migrator
	now      func() time.Time
}

// NewManager creates a manager. A nil notifier discards events and a nil
// migrator uses DefaultMigrator.
func NewManager(store storage.Store, notifier events.Notifier, migrator *Migrator) *Manager {
	if notifier == nil {
		notifier = events.Discard
	}
	if migrator == nil {
		migrator = DefaultMigrator()
	}
	return &Manager{store: store, notifier: notifier, migrator: migrator, now: time.Now}
}

// SetClock replaces the timestamp source.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// Save snapshots gs into slot.
func (m *Manager) Save(ctx context.Context, gs *engine.GameState, slot int) error {
	if err := m.save(ctx, gs, slot); err != nil {
		slog.Error("save failed", "slot", slot, "error", err)
		m.notifier.Publish(events.SaveFailed{Slot: slot, Err: err})
		return err
	}
	slog.Info("game saved", "slot", slot)
	m.notifier.Publish(events.GameSaved{Slot: slot})
	return nil
}

func (m *Manager) save(ctx context.Context, gs *engine.GameState, slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	data := SaveData{
		SaveVersion: m.migrator.Current(),
		Timestamp:   m.now().Format(TimestampLayout),
		SlotIndex:   slot,
		GameState:   gs.Clone(),
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode slot %d: %w", slot, err)
	}
	if err := m.store.WriteAll(ctx, SlotKey(slot), b); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	return nil
}

// Load reads slot, migrating older formats to the current version.
func (m *Manager) Load(ctx context.Context, slot int) (*SaveData, error) {
	data, err := m.load(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			slog.Warn("save slot empty", "slot", slot)
		} else {
			slog.Error("load failed", "slot", slot, "error", err)
		}
		m.notifier.Publish(events.LoadFailed{Slot: slot, Err: err})
		return nil, err
	}
	slog.Info("game loaded", "slot", slot, "version", data.SaveVersion)
	m.notifier.Publish(events.GameLoaded{Slot: slot})
	return data, nil
}

func (m *Manager) load(ctx context.Context, slot int) (*SaveData, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	b, err := m.store.ReadAll(ctx, SlotKey(slot))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %d: %w", slot, err)
	}
	return m.decode(b)
}

func (m *Manager) decode(b []byte) (*SaveData, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if doc.SaveVersion > m.migrator.Current() {
		slog.Warn("save is newer than this build", "version", doc.SaveVersion, "current", m.migrator.Current())
	}
	if _, err := m.migrator.Migrate(&doc); err != nil {
		return nil, err
	}

	stateJSON, err := json.Marshal(doc.GameState)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	gs := engine.NewGameState()
	if doc.GameState != nil {
		if err := json.Unmarshal(stateJSON, gs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
		}
	}
	return &SaveData{
		SaveVersion: doc.SaveVersion,
		Timestamp:   doc.Timestamp,
		SlotIndex:   doc.SlotIndex,
		GameState:   gs,
	}, nil
}

// Delete removes a slot. It reports false when the slot was empty.
func (m *Manager) Delete(ctx context.Context, slot int) (bool, error) {
	if err := validSlot(slot); err != nil {
		return false, err
	}
	err := m.store.Delete(ctx, SlotKey(slot))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		slog.Error("delete failed", "slot", slot, "error", err)
		return false, fmt.Errorf("delete slot %d: %w", slot, err)
	}
	slog.Info("save deleted", "slot", slot)
	return true, nil
}

// SlotExists reports whether slot holds a save. Contents are not checked.
func (m *Manager) SlotExists(ctx context.Context, slot int) bool {
	if validSlot(slot) != nil {
		return false
	}
	return m.store.Exists(ctx, SlotKey(slot))
}

func (m *Manager) AutoSave(ctx context.Context, gs *engine.GameState) error {
	return m.Save(ctx, gs, AutoSaveSlot)
}

func (m *Manager) LoadAutoSave(ctx context.Context) (*SaveData, error) {
	return m.Load(ctx, AutoSaveSlot)
}

func (m *Manager) AutoSaveExists(ctx context.Context) bool {
	return m.SlotExists(ctx, AutoSaveSlot)
}

// SlotInfo summarizes a save slot for listing.
type SlotInfo struct {
	Slot         int
	Empty        bool
	Timestamp    string
	CampaignInfo string
	PlayTime     int // Campaign hours
}

// Info describes one slot. Slots that cannot be read are reported empty.
func (m *Manager) Info(ctx context.Context, slot int) SlotInfo {
	info := SlotInfo{Slot: slot, Empty: true}
	if !m.SlotExists(ctx, slot) {
		return info
	}
	data, err := m.load(ctx, slot)
	if err != nil {
		slog.Warn("unreadable save slot", "slot", slot, "error", err)
		return info
	}
	c := data.GameState.Campaign
	info.Empty = false
	info.Timestamp = data.Timestamp
	info.CampaignInfo = fmt.Sprintf("%s, %s", c.StartingFaction().DisplayName(), c.Act())
	info.PlayTime = c.ElapsedTime()
	return info
}

// Slots describes every manual slot in order.
func (m *Manager) Slots(ctx context.Context) []SlotInfo {
	out := make([]SlotInfo, 0, ManualSlotCount)
	for slot := 0; slot < ManualSlotCount; slot++ {
		out = append(out, m.Info(ctx, slot))
	}
	return out
}
