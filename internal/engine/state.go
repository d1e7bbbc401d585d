package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/economy"
	"github.com/talgya/squad-campaign/internal/progression"
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

// GameState is the aggregate saved and loaded as one unit.
type GameState struct {
	Campaign    *campaign.State
	Progression *progression.State
	Resources   *economy.Ledger[economy.ResourceKind]
	Materials   *economy.Ledger[economy.MaterialKind]
	Technology  *tech.State
	Roster      *roster.Roster
}

// NewGameState creates the state of a campaign that has not started.
func NewGameState() *GameState {
	return &GameState{
		Campaign:    campaign.NewState(),
		Progression: progression.NewState(),
		Resources:   economy.NewResourceLedger(),
		Materials:   economy.NewMaterialLedger(),
		Technology:  tech.NewState(),
		Roster:      roster.New(),
	}
}

// ErrIncompleteState is returned for a GameState missing a subsystem.
var ErrIncompleteState = errors.New("incomplete game state")

// Validate reports the first missing subsystem of g.
func (g *GameState) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil", ErrIncompleteState)
	}
	missing := ""
	switch {
	case g.Campaign == nil:
		missing = "campaign"
	case g.Progression == nil:
		missing = "progression"
	case g.Resources == nil:
		missing = "resources"
	case g.Materials == nil:
		missing = "materials"
	case g.Technology == nil:
		missing = "technology"
	case g.Roster == nil:
		missing = "roster"
	default:
		return nil
	}
	return fmt.Errorf("%w: no %s", ErrIncompleteState, missing)
}

// Clone returns a deep copy sharing no mutable data with g.
func (g *GameState) Clone() *GameState {
	return &GameState{
		Campaign:    g.Campaign.Clone(),
		Progression: g.Progression.Clone(),
		Resources:   g.Resources.Clone(),
		Materials:   g.Materials.Clone(),
		Technology:  g.Technology.Clone(),
		Roster:      g.Roster.Clone(),
	}
}

// Reset returns every subsystem to its starting values.
func (g *GameState) Reset() {
	g.Campaign.Reset()
	g.Progression.Reset()
	g.Resources.Reset()
	g.Materials.Reset()
	g.Technology.Reset()
	g.Roster.Reset()
}

type gameStateJSON struct {
	Campaign    *campaign.State                       `json:"campaign"`
	Progression *progression.State                    `json:"progression"`
	Resources   *economy.Ledger[economy.ResourceKind] `json:"resources"`
	Materials   *economy.Ledger[economy.MaterialKind] `json:"materials"`
	Technology  *tech.State                           `json:"technology"`
	Roster      *roster.Roster                        `json:"roster"`
}

func (g *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameStateJSON(*g))
}

// UnmarshalJSON decodes into freshly constructed subsystems so sections
// missing from the document keep their starting values.
func (g *GameState) UnmarshalJSON(b []byte) error {
	fresh := NewGameState()
	w := gameStateJSON(*fresh)
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Campaign == nil {
		w.Campaign = fresh.Campaign
	}
	if w.Progression == nil {
		w.Progression = fresh.Progression
	}
	if w.Resources == nil {
		w.Resources = fresh.Resources
	}
	if w.Materials == nil {
		w.Materials = fresh.Materials
	}
	if w.Technology == nil {
		w.Technology = fresh.Technology
	}
	if w.Roster == nil {
		w.Roster = fresh.Roster
	}
	*g = GameState(w)
	return nil
}
