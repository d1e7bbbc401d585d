// Command campaign manages squad campaign saves from the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/talgya/squad-campaign/internal/config"
	"github.com/talgya/squad-campaign/internal/content"
	"github.com/talgya/squad-campaign/internal/engine"
	"github.com/talgya/squad-campaign/internal/entropy"
	"github.com/talgya/squad-campaign/internal/events"
	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/persistence"
	"github.com/talgya/squad-campaign/internal/savegame"
	"github.com/talgya/squad-campaign/internal/storage"
	"github.com/talgya/squad-campaign/internal/tech"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "campaign",
		Short: "Squad campaign save manager",
		Long: `Starts, inspects and advances squad campaigns stored in save slots.
Storage, logging and randomness are configured through SQUAD_* variables.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newCmd(),
		slotsCmd(),
		showCmd(),
		advanceCmd(),
		researchCmd(),
		resolveCmd(),
		deleteCmd(),
		autosaveInfoCmd(),
		recordsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// app is the wiring shared by every command.
type app struct {
	cfg   config.Config
	bus   *events.Bus
	store storage.Store
	db    *persistence.DB // nil unless SQLite is used for slots or records
	saves *savegame.Manager
	coord *engine.Coordinator
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a := &app{cfg: cfg, bus: events.NewBus()}
	if cfg.Driver == storage.DriverSQLite || cfg.ArchiveRecords {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		a.db, err = persistence.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Debug("database opened", "path", cfg.SQLitePath)
	}

	if cfg.Driver == storage.DriverSQLite {
		a.store = a.db
	} else {
		a.store, err = storage.Open(ctx, cfg.StorageOptions())
		if err != nil {
			a.close()
			return nil, err
		}
	}

	pool := missions.NewPool()
	rotation := missions.NewRotation(entropy.New(cfg.Seed))
	catalog := tech.NewCatalog()
	if err := content.Install(pool, rotation, catalog); err != nil {
		a.close()
		return nil, err
	}

	opts := engine.Options{
		Notifier: a.bus,
		Pool:     pool,
		Catalog:  catalog,
		Rotation: rotation,
	}
	if cfg.ArchiveRecords {
		opts.Archive = a.db
	}
	a.coord = engine.NewCoordinator(opts)
	a.saves = savegame.NewManager(a.store, a.bus, nil)
	a.announce()
	slog.Debug("campaign tool ready", "driver", cfg.Driver, "seed", cfg.Seed)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// announce prints the notable events of a command as they happen.
func (a *app) announce() {
	notice := color.New(color.FgYellow)
	good := color.New(color.FgGreen)
	events.On(a.bus, func(e events.MissionUnlocked) {
		good.Printf("Mission unlocked: %s\n", e.MissionID)
	})
	events.On(a.bus, func(e events.ResearchCompleted) {
		good.Printf("Research completed: %s\n", e.TechID)
	})
	events.On(a.bus, func(e events.WorldEventTriggered) {
		notice.Printf("World event: %s\n", e.Token)
	})
	events.On(a.bus, func(e events.UnitStatusChanged) {
		notice.Printf("%s is now %s\n", e.UnitID, e.New)
	})
}

// load restores slot into the coordinator.
func (a *app) load(ctx context.Context, slot int) error {
	data, err := a.saves.Load(ctx, slot)
	if err != nil {
		return err
	}
	a.coord.Replace(data.GameState)
	return nil
}

// save writes the live state back to slot and refreshes the autosave.
func (a *app) save(ctx context.Context, slot int) error {
	snapshot := a.coord.StateCopy()
	if err := a.saves.Save(ctx, snapshot, slot); err != nil {
		return err
	}
	if slot != savegame.AutoSaveSlot {
		if err := a.saves.AutoSave(ctx, snapshot); err != nil {
			color.Yellow("Warning: autosave failed: %v", err)
		}
	}
	return nil
}

// withApp adapts a command body to cobra, opening and closing the app.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		return run(ctx, a, args)
	}
}
