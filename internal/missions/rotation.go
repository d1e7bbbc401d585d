package missions

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/squad-campaign/internal/entropy"
	"github.com/talgya/squad-campaign/internal/progression"
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

// MaxAvailableGeneric is the number of generic missions offered at once.
const MaxAvailableGeneric = 2

// Scaler adjusts a freshly cloned generic mission for the current
// difficulty ratio. A nil Scaler leaves missions as authored.
type Scaler func(m Mission, ratio float64) Mission

// Rotation offers a bounded random subset of generic mission templates.
// The current rotation is rebuilt from scratch on every Refresh.
type Rotation struct {
	templates []Mission
	current   []Mission
	src       entropy.Source
	scale     Scaler
	lastRatio float64
}

// NewRotation creates a rotation drawing from src.
func NewRotation(src entropy.Source) *Rotation {
	if src == nil {
		src = entropy.Crypto{}
	}
	return &Rotation{src: src}
}

// SetScaler installs the difficulty hook applied to each new instance.
func (r *Rotation) SetScaler(s Scaler) { r.scale = s }

// AddTemplate registers a generic mission template.
func (r *Rotation) AddTemplate(m Mission) error {
	if m.ID == "" {
		return fmt.Errorf("add template: empty id")
	}
	if slices.ContainsFunc(r.templates, func(t Mission) bool { return t.ID == m.ID }) {
		return fmt.Errorf("add template %s: duplicate id", m.ID)
	}
	r.templates = append(r.templates, m.Clone())
	return nil
}

// Templates returns the registered templates.
func (r *Rotation) Templates() []Mission {
	out := make([]Mission, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t.Clone())
	}
	return out
}

// Refresh discards the current rotation, shuffles the templates and
// instantiates up to MaxAvailableGeneric of them with fresh IDs.
func (r *Rotation) Refresh(p *progression.State, units *roster.Roster, t *tech.State) []Mission {
	r.current = r.current[:0]
	r.lastRatio = progression.DifficultyRatio(p, units, t)

	order := slices.Clone(r.templates)
	entropy.Shuffle(r.src, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, tmpl := range order[:min(MaxAvailableGeneric, len(order))] {
		m := instantiate(tmpl)
		if r.scale != nil {
			m = r.scale(m, r.lastRatio)
		}
		r.current = append(r.current, m)
	}
	slog.Debug("generic rotation refreshed", "offered", len(r.current), "ratio", r.lastRatio)
	return r.Current()
}

// instantiate builds an offer from tmpl. Only the display text, enemy
// count, rewards and objectives carry over; availability gates and story
// consequences stay with the template.
func instantiate(tmpl Mission) Mission {
	m := NewGenericMission(tmpl.ID+"_"+uuid.NewString()[:8], tmpl.Name, tmpl.Category)
	m.Description = tmpl.Description
	m.BaseEnemyCount = tmpl.BaseEnemyCount
	m.Rewards = tmpl.Rewards.clone()
	m.Objectives = slices.Clone(tmpl.Objectives)
	return m
}

// Current returns the missions on offer.
func (r *Rotation) Current() []Mission {
	out := make([]Mission, 0, len(r.current))
	for _, m := range r.current {
		out = append(out, m.Clone())
	}
	return out
}

// Get returns an offered mission by instance ID.
func (r *Rotation) Get(id string) (Mission, bool) {
	for _, m := range r.current {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return Mission{}, false
}

// Remove takes an instance out of the rotation, typically once it has
// been played.
func (r *Rotation) Remove(id string) bool {
	n := len(r.current)
	r.current = slices.DeleteFunc(r.current, func(m Mission) bool { return m.ID == id })
	return len(r.current) != n
}

// LastDifficultyRatio returns the ratio computed by the latest Refresh.
func (r *Rotation) LastDifficultyRatio() float64 { return r.lastRatio }
