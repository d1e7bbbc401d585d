package tech

import (
	"fmt"

	"github.com/talgya/squad-campaign/internal/economy"
)

// EstimatedTotalTechs is the tech tree size assumed by power estimation.
const EstimatedTotalTechs = 30

// Tech is a researchable technology definition.
type Tech struct {
	ID            string
	Name          string
	Description   string
	ResearchTime  int // Research ticks (days) required
	Prerequisites []string
	ResourceCosts map[economy.ResourceKind]int
	MaterialCosts map[economy.MaterialKind]int
}

// Catalog is the registry of known technologies.
type Catalog struct {
	techs map[string]Tech
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{techs: make(map[string]Tech)}
}

// Register adds a technology. IDs must be unique and non-empty.
func (c *Catalog) Register(t Tech) error {
	if t.ID == "" {
		return fmt.Errorf("tech id cannot be empty")
	}
	if _, exists := c.techs[t.ID]; exists {
		return fmt.Errorf("tech %s already registered", t.ID)
	}
	if t.ResearchTime < 1 {
		t.ResearchTime = 1
	}
	c.techs[t.ID] = t
	c.order = append(c.order, t.ID)
	return nil
}

// Get looks up a technology by ID.
func (c *Catalog) Get(id string) (Tech, bool) {
	t, ok := c.techs[id]
	return t, ok
}

// All returns every technology in registration order.
func (c *Catalog) All() []Tech {
	out := make([]Tech, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.techs[id])
	}
	return out
}

// Available returns the techs that can be started given the state: not
// unlocked, not in progress, prerequisites met.
func (c *Catalog) Available(s *State) []Tech {
	current, _ := s.Current()
	var out []Tech
	for _, t := range c.All() {
		if s.IsUnlocked(t.ID) || t.ID == current {
			continue
		}
		if s.PrerequisitesMet(t) {
			out = append(out, t)
		}
	}
	return out
}
