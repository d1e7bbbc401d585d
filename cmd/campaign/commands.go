package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/savegame"
)

func newCmd() *cobra.Command {
	var faction string
	var slot int
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new campaign in a save slot",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			f, err := campaign.ParseFaction(faction)
			if err != nil || f == campaign.FactionNone {
				return fmt.Errorf("faction must be one of %s", factionChoices())
			}
			a.coord.NewGame(f)
			if err := a.save(ctx, slot); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ %s campaign started in slot %d\n", f.DisplayName(), slot)
			printOverview(a)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&faction, "faction", "f", "", "Starting faction ("+factionChoices()+")")
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot (0-9)")
	cmd.MarkFlagRequired("faction")
	return cmd
}

func factionChoices() string {
	var names []string
	for _, f := range campaign.PlayableFactions() {
		names = append(names, f.String())
	}
	return strings.Join(names, "|")
}

func slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the manual save slots",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			printSlots(a.saves.Slots(ctx))
			return nil
		}),
	}
}

func showCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the campaign stored in a slot",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := a.load(ctx, slot); err != nil {
				return err
			}
			printOverview(a)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot (-1 for the autosave)")
	return cmd
}

func advanceCmd() *cobra.Command {
	var slot, hours int
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance campaign time and save the result",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := validateHours(hours); err != nil {
				return err
			}
			if err := a.load(ctx, slot); err != nil {
				return err
			}
			tokens := a.coord.AdvanceTime(hours)
			if err := a.save(ctx, slot); err != nil {
				return err
			}
			elapsed := a.coord.State().Progression.TotalElapsedHours()
			fmt.Printf("Advanced %d hours to %s (%d world events)\n", hours, campaignClock(elapsed), len(tokens))
			printOverview(a)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot")
	cmd.Flags().IntVar(&hours, "hours", 24, fmt.Sprintf("Hours to advance (1-%d)", maxAdvanceHours))
	return cmd
}

// maxAdvanceHours bounds a single advance to one campaign year.
const maxAdvanceHours = 24 * 365

func validateHours(hours int) error {
	if hours < 1 || hours > maxAdvanceHours {
		return fmt.Errorf("hours must be between 1 and %d, got %d", maxAdvanceHours, hours)
	}
	return nil
}

func researchCmd() *cobra.Command {
	var slot int
	var techID string
	var cancel bool
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Start or cancel research",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := a.load(ctx, slot); err != nil {
				return err
			}
			switch {
			case cancel:
				a.coord.CancelResearch()
				fmt.Println("Research cancelled")
			case techID == "":
				return errors.New("--tech or --cancel is required")
			case !a.coord.StartResearch(techID):
				return fmt.Errorf("cannot research %s: unknown, unmet prerequisites, unaffordable or busy", techID)
			default:
				fmt.Printf("Researching %s\n", techID)
			}
			return a.save(ctx, slot)
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot")
	cmd.Flags().StringVarP(&techID, "tech", "t", "", "Technology ID")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel the current research")
	return cmd
}

func resolveCmd() *cobra.Command {
	var slot, turns int
	var missionID string
	var failed bool
	var injured, dead []string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Record the outcome of a mission played with the deployed squad",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := a.load(ctx, slot); err != nil {
				return err
			}
			id := resolveMissionID(a, missionID)
			rec := missions.Record{
				MissionID:      id,
				Success:        !failed,
				InjuredUnitIDs: injured,
				DeadUnitIDs:    dead,
				TurnsTaken:     turns,
			}
			for _, unitID := range a.coord.State().Roster.Deployed() {
				rec.Performance = append(rec.Performance, missions.UnitPerformance{UnitID: unitID})
			}
			if err := a.coord.ResolveMission(ctx, rec); err != nil {
				return err
			}
			if err := a.save(ctx, slot); err != nil {
				return err
			}
			outcome := color.GreenString("succeeded")
			if failed {
				outcome = color.RedString("failed")
			}
			fmt.Printf("Mission %s %s\n", id, outcome)
			printOverview(a)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot")
	cmd.Flags().StringVarP(&missionID, "mission", "m", "", "Mission ID or generic template ID")
	cmd.Flags().BoolVar(&failed, "failed", false, "Record the mission as failed")
	cmd.Flags().IntVar(&turns, "turns", 0, "Turns taken")
	cmd.Flags().StringSliceVar(&injured, "injured", nil, "Units injured during the mission")
	cmd.Flags().StringSliceVar(&dead, "dead", nil, "Units killed during the mission")
	cmd.MarkFlagRequired("mission")
	return cmd
}

// resolveMissionID maps a generic template ID onto the instance currently
// on offer, since instance IDs are redrawn on every load.
func resolveMissionID(a *app, id string) string {
	for _, m := range a.coord.Rotation().Current() {
		if strings.HasPrefix(m.ID, id+"_") {
			return m.ID
		}
	}
	return id
}

func deleteCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a save slot",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			ok, err := a.saves.Delete(ctx, slot)
			if err != nil {
				return err
			}
			if !ok {
				color.Yellow("Slot %d is already empty", slot)
				return nil
			}
			fmt.Printf("Deleted slot %d\n", slot)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&slot, "slot", "s", 0, "Save slot")
	cmd.MarkFlagRequired("slot")
	return cmd
}

func autosaveInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autosave-info",
		Short: "Describe the autosave",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if !a.saves.AutoSaveExists(ctx) {
				color.Yellow("No autosave")
				return nil
			}
			printSlots([]savegame.SlotInfo{a.saves.Info(ctx, savegame.AutoSaveSlot)})
			return nil
		}),
	}
}

func recordsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Show archived mission records",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if a.db == nil {
				return errors.New("mission records need SQUAD_ARCHIVE_RECORDS=true or the sqlite driver")
			}
			recs, err := a.db.RecentRecords(ctx, limit)
			if err != nil {
				return err
			}
			stats, err := a.db.Stats(ctx)
			if err != nil {
				return err
			}
			printRecords(recs, stats)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent records")
	return cmd
}
