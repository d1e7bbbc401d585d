// Package missions holds the mission catalog, the per-mission lifecycle
// status, the unlock rules, and the rotation of generic missions.
package missions

import (
	"fmt"
	"maps"
	"slices"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/economy"
)

// Mission defaults.
const (
	DefaultBaseEnemyCount        = 6
	DefaultRecommendedSquadLevel = 1
)

// Type separates authored story missions from repeatable generic ones.
type Type uint8

const (
	TypeStory Type = iota
	TypeGeneric
)

func (t Type) String() string {
	if t == TypeGeneric {
		return "generic"
	}
	return "story"
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	switch string(b) {
	case "story":
		*t = TypeStory
	case "generic":
		*t = TypeGeneric
	default:
		return fmt.Errorf("unknown mission type %q", b)
	}
	return nil
}

// Category is the kind of operation a mission represents.
type Category uint8

const (
	CategoryAssault Category = iota
	CategoryDefense
	CategoryRescue
	CategoryRecon
	CategorySabotage
	CategoryExtraction
)

var categoryNames = [...]string{"assault", "defense", "rescue", "recon", "sabotage", "extraction"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", c)
}

// Objective is a single mission goal.
type Objective struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Optional    bool   `json:"isOptional"`
}

// LootCategory distinguishes material drops from equipment drops.
type LootCategory uint8

const (
	LootMaterial LootCategory = iota
	LootEquipment
)

// LootDrop is a potential or collected item drop.
type LootDrop struct {
	Category    LootCategory         `json:"category"`
	Material    economy.MaterialKind `json:"materialType"`
	EquipmentID string               `json:"equipmentId,omitempty"`
	Quantity    int                  `json:"quantity"`
}

// Rewards granted for a successful mission.
type Rewards struct {
	Resources      map[economy.ResourceKind]int `json:"resources,omitempty"`
	Materials      map[economy.MaterialKind]int `json:"materials,omitempty"`
	BaseXPPool     int                          `json:"baseXpPool"`
	PotentialDrops []LootDrop                   `json:"potentialDrops,omitempty"`
}

func (r Rewards) clone() Rewards {
	return Rewards{
		Resources:      maps.Clone(r.Resources),
		Materials:      maps.Clone(r.Materials),
		BaseXPPool:     r.BaseXPPool,
		PotentialDrops: slices.Clone(r.PotentialDrops),
	}
}

// Consequences are the story flags set by a mission outcome.
type Consequences struct {
	FlagsOnSuccess []string `json:"storyFlagsOnSuccess,omitempty"`
	FlagsOnFailure []string `json:"storyFlagsOnFailure,omitempty"`
}

// Mission is a catalog entry. Registered missions are treated as immutable;
// accessors hand out clones.
type Mission struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	Type                  Type             `json:"missionType"`
	Category              Category         `json:"category"`
	Prerequisites         []string         `json:"prerequisiteMissionIds,omitempty"`
	RequiredFlags         []string         `json:"requiredStoryFlags,omitempty"`
	RequiredFaction       campaign.Faction `json:"requiredFaction"` // FactionNone is unrestricted
	Objectives            []Objective      `json:"objectives,omitempty"`
	Rewards               Rewards          `json:"rewards"`
	Consequences          Consequences     `json:"consequences"`
	BaseEnemyCount        int              `json:"baseEnemyCount"`
	RecommendedSquadLevel int              `json:"recommendedSquadLevel"`
}

// NewStoryMission creates a story mission with default difficulty settings.
func NewStoryMission(id, name string) Mission {
	return Mission{
		ID:                    id,
		Name:                  name,
		Type:                  TypeStory,
		BaseEnemyCount:        DefaultBaseEnemyCount,
		RecommendedSquadLevel: DefaultRecommendedSquadLevel,
	}
}

// NewGenericMission creates a generic mission template with default
// difficulty settings.
func NewGenericMission(id, name string, category Category) Mission {
	return Mission{
		ID:                    id,
		Name:                  name,
		Type:                  TypeGeneric,
		Category:              category,
		BaseEnemyCount:        DefaultBaseEnemyCount,
		RecommendedSquadLevel: DefaultRecommendedSquadLevel,
	}
}

// PrimaryObjectives returns the objectives that are not optional.
func (m Mission) PrimaryObjectives() []Objective {
	var out []Objective
	for _, o := range m.Objectives {
		if !o.Optional {
			out = append(out, o)
		}
	}
	return out
}

// OptionalObjectives returns the optional objectives.
func (m Mission) OptionalObjectives() []Objective {
	var out []Objective
	for _, o := range m.Objectives {
		if o.Optional {
			out = append(out, o)
		}
	}
	return out
}

// Clone returns a deep copy.
func (m Mission) Clone() Mission {
	c := m
	c.Prerequisites = slices.Clone(m.Prerequisites)
	c.RequiredFlags = slices.Clone(m.RequiredFlags)
	c.Objectives = slices.Clone(m.Objectives)
	c.Rewards = m.Rewards.clone()
	c.Consequences = Consequences{
		FlagsOnSuccess: slices.Clone(m.Consequences.FlagsOnSuccess),
		FlagsOnFailure: slices.Clone(m.Consequences.FlagsOnFailure),
	}
	return c
}
