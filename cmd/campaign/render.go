package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/talgya/squad-campaign/internal/economy"
	"github.com/talgya/squad-campaign/internal/engine"
	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/persistence"
	"github.com/talgya/squad-campaign/internal/progression"
	"github.com/talgya/squad-campaign/internal/savegame"
)

var headingColor = color.New(color.FgCyan, color.Bold)

func campaignClock(hours int) string {
	return engine.CampaignTime(uint64(max(0, hours)))
}

// savedAgo renders a save timestamp relative to now.
func savedAgo(ts string) string {
	t, err := time.ParseInLocation(savegame.TimestampLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func printSlots(slots []savegame.SlotInfo) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Slot", "Campaign", "Play Time", "Saved"}),
	)
	for _, s := range slots {
		label := fmt.Sprintf("%d", s.Slot)
		if s.Slot == savegame.AutoSaveSlot {
			label = "auto"
		}
		if s.Empty {
			table.Append([]string{label, "-", "-", "-"})
			continue
		}
		table.Append([]string{label, s.CampaignInfo, campaignClock(s.PlayTime), savedAgo(s.Timestamp)})
	}
	table.Render()
}

func printOverview(a *app) {
	gs := a.coord.State()
	prog := gs.Progression
	ratio := a.coord.DifficultyRatio()

	headingColor.Printf("\n%s, %s\n", gs.Campaign.StartingFaction().DisplayName(), gs.Campaign.Act())
	fmt.Printf("   Time: %s\n", campaignClock(prog.TotalElapsedHours()))
	threat := progression.FactionThreatLevel(gs.Campaign.CurrentFaction(), prog)
	fmt.Printf("   Threat: %.2f   Difficulty: %.2f (%s)\n", threat, ratio, progression.Classify(ratio))
	if flags := gs.Campaign.StoryFlags(); len(flags) > 0 {
		fmt.Printf("   Story flags: %s\n", strings.Join(flags, ", "))
	}
	if id, progress := gs.Technology.Current(); id != "" {
		fmt.Printf("   Researching: %s (day %d)\n", id, progress)
	}

	headingColor.Println("\nResources")
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader([]string{"Kind", "Amount"}))
	for _, k := range economy.AllResources() {
		table.Append([]string{k.String(), humanize.Comma(int64(gs.Resources.Get(k)))})
	}
	for _, k := range economy.AllMaterials() {
		if n := gs.Materials.Get(k); n > 0 {
			table.Append([]string{k.String(), humanize.Comma(int64(n))})
		}
	}
	table.Render()

	headingColor.Println("\nRoster")
	table = tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Name", "Level", "XP", "Status", "Deployed"}),
	)
	for _, u := range gs.Roster.Units() {
		deployed := ""
		if gs.Roster.IsDeployed(u.ID) {
			deployed = "yes"
		}
		table.Append([]string{
			u.ID,
			u.DisplayName,
			fmt.Sprintf("%d", u.Level),
			fmt.Sprintf("%d/%d", u.Experience, u.ExperienceToNextLevel),
			u.Status.String(),
			deployed,
		})
	}
	table.Render()

	headingColor.Println("\nMissions on offer")
	table = tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Name", "Type", "Category", "Enemies", "Level"}),
	)
	offered := append(a.coord.Pool().Available(), a.coord.Rotation().Current()...)
	for _, m := range offered {
		table.Append(missionRow(m))
	}
	table.Render()
}

func missionRow(m missions.Mission) []string {
	return []string{
		m.ID,
		m.Name,
		m.Type.String(),
		m.Category.String(),
		fmt.Sprintf("%d", m.BaseEnemyCount),
		fmt.Sprintf("%d", m.RecommendedSquadLevel),
	}
}

func printRecords(recs []missions.Record, stats []persistence.RecordStats) {
	headingColor.Println("\nRecent missions")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Mission", "Outcome", "Turns", "Casualties", "Contribution"}),
	)
	for _, r := range recs {
		outcome := "success"
		if !r.Success {
			outcome = "failure"
		}
		table.Append([]string{
			r.MissionID,
			outcome,
			fmt.Sprintf("%d", r.TurnsTaken),
			fmt.Sprintf("%d", len(r.DeadUnitIDs)),
			fmt.Sprintf("%d", r.TotalContribution()),
		})
	}
	table.Render()

	headingColor.Println("\nTotals")
	table = tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Mission", "Attempts", "Successes", "Rate"}),
	)
	for _, s := range stats {
		rate := 0.0
		if s.Attempts > 0 {
			rate = float64(s.Successes) / float64(s.Attempts)
		}
		table.Append([]string{
			s.MissionID,
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Successes),
			humanize.FormatFloat("#.#", rate*100) + "%",
		})
	}
	table.Render()
}
