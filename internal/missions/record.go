package missions

import (
	"maps"
	"slices"

	"github.com/talgya/squad-campaign/internal/economy"
)

// Contribution score weights.
const (
	pointsPerKill        = 10
	pointsPerDamageDealt = 2
	pointsPerDamageTaken = 1
	pointsPerHealing     = 2
	pointsPerObjective   = 15
)

// UnitPerformance is one unit's combat tally for a mission.
type UnitPerformance struct {
	UnitID              string `json:"unitId"`
	Kills               int    `json:"kills"`
	DamageDealt         int    `json:"damageDealt"`
	DamageTaken         int    `json:"damageTaken"`
	HealingDone         int    `json:"healingDone"`
	ObjectivesCompleted int    `json:"objectivesCompleted"`
}

// ContributionScore weighs the tally into a single number used to split
// the mission XP pool. Damage absorbed counts in the unit's favour.
func (u UnitPerformance) ContributionScore() int {
	return u.Kills*pointsPerKill +
		u.DamageDealt*pointsPerDamageDealt +
		u.DamageTaken*pointsPerDamageTaken +
		u.HealingDone*pointsPerHealing +
		u.ObjectivesCompleted*pointsPerObjective
}

// Choice is a narrative decision taken during a mission.
type Choice struct {
	MissionID      string `json:"missionId"`
	ChoiceID       string `json:"choiceId"`
	Description    string `json:"description"`
	SelectedOption string `json:"selectedOption"`
	Impact         string `json:"impact,omitempty"`
	TurnNumber     int    `json:"turnNumber"`
}

// Record is the outcome of one mission attempt. It is not modified after
// it is built.
type Record struct {
	MissionID                   string                       `json:"missionId"`
	Success                     bool                         `json:"wasSuccessful"`
	CompletedOptionalObjectives []string                     `json:"completedOptionalObjectives,omitempty"`
	Performance                 []UnitPerformance            `json:"unitPerformance,omitempty"`
	InjuredUnitIDs              []string                     `json:"injuredUnitIds,omitempty"`
	DeadUnitIDs                 []string                     `json:"deadUnitIds,omitempty"`
	Loot                        []LootDrop                   `json:"lootCollected,omitempty"`
	ResourcesGained             map[economy.ResourceKind]int `json:"resourcesGained,omitempty"`
	ResourcesSpent              map[economy.ResourceKind]int `json:"resourcesSpent,omitempty"`
	Choices                     []Choice                     `json:"choicesMade,omitempty"`
	TurnsTaken                  int                          `json:"turnsTaken"`
}

// TotalContribution sums every unit's contribution score, ignoring
// negative totals.
func (r Record) TotalContribution() int {
	total := 0
	for _, p := range r.Performance {
		total += max(0, p.ContributionScore())
	}
	return total
}

// ShareXP splits pool across units in proportion to their contribution.
// When nobody contributed the pool is split evenly. Integer remainders
// are dropped.
func (r Record) ShareXP(pool int) map[string]int {
	out := make(map[string]int, len(r.Performance))
	if pool <= 0 || len(r.Performance) == 0 {
		return out
	}
	total := r.TotalContribution()
	for _, p := range r.Performance {
		if total == 0 {
			out[p.UnitID] = pool / len(r.Performance)
			continue
		}
		out[p.UnitID] = pool * max(0, p.ContributionScore()) / total
	}
	return out
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	c := r
	c.CompletedOptionalObjectives = slices.Clone(r.CompletedOptionalObjectives)
	c.Performance = slices.Clone(r.Performance)
	c.InjuredUnitIDs = slices.Clone(r.InjuredUnitIDs)
	c.DeadUnitIDs = slices.Clone(r.DeadUnitIDs)
	c.Loot = slices.Clone(r.Loot)
	c.ResourcesGained = maps.Clone(r.ResourcesGained)
	c.ResourcesSpent = maps.Clone(r.ResourcesSpent)
	c.Choices = slices.Clone(r.Choices)
	return c
}
