// Package content defines the authored campaign data: the story mission
// graph, the generic mission templates and the tech tree.
package content

import (
	"fmt"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/economy"
	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/tech"
)

func story(id, name string, cat missions.Category, prereqs ...string) missions.Mission {
	m := missions.NewStoryMission(id, name)
	m.Category = cat
	m.Prerequisites = prereqs
	return m
}

// StoryMissions returns the main story missions across the three acts.
func StoryMissions() []missions.Mission {
	landfall := story("act1_landfall", "Landfall", missions.CategoryAssault)
	landfall.Description = "Secure a foothold on the coast."
	landfall.Objectives = []missions.Objective{
		{ID: "secure_beach", Description: "Clear the landing zone"},
		{ID: "recover_cache", Description: "Recover the supply cache", Optional: true},
	}
	landfall.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceCurrency: 150, economy.ResourceAlloys: 20},
		BaseXPPool: 200,
		PotentialDrops: []missions.LootDrop{
			{Category: missions.LootMaterial, Material: economy.MaterialScrap, Quantity: 10},
		},
	}
	landfall.Consequences.FlagsOnSuccess = []string{"beachhead_established"}
	landfall.Consequences.FlagsOnFailure = []string{"beachhead_lost"}

	relay := story("act1_relay", "Silent Relay", missions.CategorySabotage, "act1_landfall")
	relay.BaseEnemyCount = 8
	relay.RecommendedSquadLevel = 2
	relay.Objectives = []missions.Objective{{ID: "disable_relay", Description: "Disable the relay tower"}}
	relay.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceIntel: 15, economy.ResourceTechComponents: 10},
		Materials:  map[economy.MaterialKind]int{economy.MaterialCircuitry: 5},
		BaseXPPool: 300,
	}
	relay.Consequences.FlagsOnSuccess = []string{"relay_down"}

	informant := story("act1_informant", "The Informant", missions.CategoryRescue, "act1_landfall")
	informant.RecommendedSquadLevel = 2
	informant.Objectives = []missions.Objective{{ID: "extract_informant", Description: "Extract the informant alive"}}
	informant.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceIntel: 30},
		BaseXPPool: 250,
	}
	informant.Consequences.FlagsOnSuccess = []string{"met_informant"}

	fortress := story("act2_fortress", "Iron Fortress", missions.CategoryAssault, "act1_relay", "act1_informant")
	fortress.BaseEnemyCount = 12
	fortress.RecommendedSquadLevel = 5
	fortress.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceCurrency: 400, economy.ResourceAlloys: 60},
		BaseXPPool: 600,
	}
	fortress.Consequences.FlagsOnSuccess = []string{"act2_complete"}

	archive := story("act2_archive", "Sealed Archive", missions.CategoryRecon, "act1_informant")
	archive.RequiredFlags = []string{"met_informant"}
	archive.RequiredFaction = campaign.FactionTechnocracy
	archive.RecommendedSquadLevel = 4
	archive.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceTechComponents: 50},
		Materials:  map[economy.MaterialKind]int{economy.MaterialCrystal: 8},
		BaseXPPool: 400,
	}

	finale := story("act3_citadel", "The Citadel", missions.CategoryAssault, "act2_fortress")
	finale.RequiredFlags = []string{"act2_complete"}
	finale.BaseEnemyCount = 18
	finale.RecommendedSquadLevel = 10
	finale.Rewards.BaseXPPool = 1200

	return []missions.Mission{landfall, relay, informant, fortress, archive, finale}
}

func generic(id, name string, cat missions.Category, enemies, currency, xp int) missions.Mission {
	m := missions.NewGenericMission(id, name, cat)
	m.BaseEnemyCount = enemies
	m.Objectives = []missions.Objective{{ID: "primary", Description: name}}
	m.Rewards = missions.Rewards{
		Resources:  map[economy.ResourceKind]int{economy.ResourceCurrency: currency},
		BaseXPPool: xp,
	}
	return m
}

// GenericTemplates returns the repeatable mission templates.
func GenericTemplates() []missions.Mission {
	salvage := generic("salvage_run", "Salvage Run", missions.CategoryExtraction, 4, 80, 120)
	salvage.Rewards.Materials = map[economy.MaterialKind]int{economy.MaterialScrap: 15}
	fuel := generic("fuel_convoy", "Fuel Convoy", missions.CategoryDefense, 6, 100, 150)
	fuel.Rewards.PotentialDrops = []missions.LootDrop{
		{Category: missions.LootMaterial, Material: economy.MaterialFuel, Quantity: 6},
	}
	return []missions.Mission{
		salvage,
		fuel,
		generic("outpost_raid", "Outpost Raid", missions.CategoryAssault, 7, 140, 180),
		generic("hostage_rescue", "Hostage Rescue", missions.CategoryRescue, 5, 120, 170),
		generic("deep_patrol", "Deep Patrol", missions.CategoryRecon, 3, 60, 100),
	}
}

// Techs returns the tech tree.
func Techs() []tech.Tech {
	return []tech.Tech{
		{
			ID: "field_medicine", Name: "Field Medicine", ResearchTime: 3,
			Description:   "Injured units recover faster.",
			ResourceCosts: map[economy.ResourceKind]int{economy.ResourceCurrency: 100},
		},
		{
			ID: "composite_armor", Name: "Composite Armor", ResearchTime: 5,
			Description:   "Lighter plating for the whole squad.",
			ResourceCosts: map[economy.ResourceKind]int{economy.ResourceCurrency: 150, economy.ResourceAlloys: 20},
		},
		{
			ID: "signal_intercept", Name: "Signal Intercept", ResearchTime: 4,
			Description:   "Reveals enemy reinforcements before they arrive.",
			ResourceCosts: map[economy.ResourceKind]int{economy.ResourceTechComponents: 15},
			MaterialCosts: map[economy.MaterialKind]int{economy.MaterialCircuitry: 5},
		},
		{
			ID: "squad_doctrine", Name: "Squad Doctrine", ResearchTime: 7,
			Description:   "Expands the deployable squad.",
			Prerequisites: []string{"field_medicine", "composite_armor"},
			ResourceCosts: map[economy.ResourceKind]int{economy.ResourceCurrency: 300},
		},
		{
			ID: "crystal_optics", Name: "Crystal Optics", ResearchTime: 6,
			Description:   "Long-range targeting systems.",
			Prerequisites: []string{"signal_intercept"},
			MaterialCosts: map[economy.MaterialKind]int{economy.MaterialCrystal: 6},
		},
	}
}

// Install registers all authored content.
func Install(pool *missions.Pool, rotation *missions.Rotation, catalog *tech.Catalog) error {
	for _, m := range StoryMissions() {
		if err := pool.Register(m); err != nil {
			return fmt.Errorf("install story missions: %w", err)
		}
	}
	for _, m := range GenericTemplates() {
		if err := rotation.AddTemplate(m); err != nil {
			return fmt.Errorf("install templates: %w", err)
		}
	}
	for _, t := range Techs() {
		if err := catalog.Register(t); err != nil {
			return fmt.Errorf("install techs: %w", err)
		}
	}
	return nil
}
