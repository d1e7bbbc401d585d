package progression

import (
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

// Player power weights.
const (
	SquadSizeWeight          = 0.3
	AverageRosterLevelWeight = 0.4
	TechUnlocksWeight        = 0.1

	squadShare = 0.7
	techShare  = 0.3
)

// PlayerPower estimates the player's strength from the active roster and
// the unlocked technologies.
func PlayerPower(r *roster.Roster, t *tech.State) float64 {
	return squadShare*SquadPower(r) + techShare*TechPower(t)
}

// SquadPower scores the active units. With no active units it is
// BaseThreatLevel.
func SquadPower(r *roster.Roster) float64 {
	active := r.Active()
	if len(active) == 0 {
		return BaseThreatLevel
	}

	// Scored against the tier 1 capacity regardless of squad upgrades.
	sizeScore := float64(len(active)) / float64(roster.SquadSizeTier1)

	totalLevel := 0
	for _, u := range active {
		totalLevel += u.Level
	}
	avgLevel := float64(totalLevel) / float64(len(active))
	levelScore := avgLevel / float64(roster.MaxUnitLevel)

	return BaseThreatLevel + sizeScore*SquadSizeWeight + levelScore*AverageRosterLevelWeight
}

// TechPower scores the unlocked technologies against the estimated tree size.
func TechPower(t *tech.State) float64 {
	techScore := float64(t.UnlockedCount()) / float64(tech.EstimatedTotalTechs)
	return techScore * TechUnlocksWeight
}
