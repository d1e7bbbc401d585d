package progression

import "github.com/talgya/squad-campaign/internal/campaign"

// MainMission is a node of the main story graph.
type MainMission struct {
	ID            string
	Title         string
	Prerequisites []string
}

// CanUnlockMainMission reports whether every prerequisite of m is completed
// and m itself is not.
func CanUnlockMainMission(m MainMission, p *State) bool {
	for _, pre := range m.Prerequisites {
		if !p.HasCompletedMission(pre) {
			return false
		}
	}
	return !p.HasCompletedMission(m.ID)
}

// NewlyAvailableMainMissions returns the IDs of missions that can unlock and
// are not yet available, in catalog order.
func NewlyAvailableMainMissions(all []MainMission, p *State) []string {
	var out []string
	for _, m := range all {
		if CanUnlockMainMission(m, p) && !p.IsMissionAvailable(m.ID) {
			out = append(out, m.ID)
		}
	}
	return out
}

// FactionThreatLevel returns the threat a faction faces. All factions
// currently share the world threat.
func FactionThreatLevel(_ campaign.Faction, p *State) float64 {
	return p.WorldThreatLevel()
}
