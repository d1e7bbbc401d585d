package roster

import (
	"encoding/json"
	"slices"
)

// Roster owns the recruited units in recruitment order and the set of
// units deployed for the next mission.
type Roster struct {
	units        []Unit
	maxSquadSize int
	deployed     []string
}

// New creates an empty roster at tier 1 squad capacity.
func New() *Roster {
	return &Roster{maxSquadSize: SquadSizeTier1}
}

// Get returns a copy of the unit with the given ID.
func (r *Roster) Get(id string) (Unit, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return Unit{}, false
	}
	return r.units[i], true
}

// Units returns a copy of every unit in recruitment order.
func (r *Roster) Units() []Unit {
	return slices.Clone(r.units)
}

// Len returns the number of recruited units.
func (r *Roster) Len() int { return len(r.units) }

// WithStatus returns the units in the given status, in roster order.
func (r *Roster) WithStatus(status Status) []Unit {
	var out []Unit
	for _, u := range r.units {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out
}

func (r *Roster) Active() []Unit   { return r.WithStatus(StatusActive) }
func (r *Roster) Injured() []Unit  { return r.WithStatus(StatusInjured) }
func (r *Roster) Dead() []Unit     { return r.WithStatus(StatusDead) }
func (r *Roster) Missing() []Unit  { return r.WithStatus(StatusMissing) }
func (r *Roster) Captured() []Unit { return r.WithStatus(StatusCaptured) }

// Add appends a unit. A unit whose ID is already on the roster is ignored
// and Add returns false.
func (r *Roster) Add(u Unit) bool {
	if u.ID == "" || r.indexOf(u.ID) >= 0 {
		return false
	}
	r.units = append(r.units, u)
	return true
}

// Remove deletes a unit and clears its deployment.
func (r *Roster) Remove(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.units = slices.Delete(r.units, i, i+1)
	r.Undeploy(id)
	return true
}

// UpdateStatus sets a unit's status and returns the previous one.
// Unknown IDs are ignored.
func (r *Roster) UpdateStatus(id string, status Status) (Status, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return 0, false
	}
	old := r.units[i].Status
	r.units[i].Status = status
	return old, true
}

// AddExperience grants xp to a unit and applies any level-ups.
// It returns the levels gained; unknown IDs and non-positive xp are ignored.
func (r *Roster) AddExperience(id string, xp int) (int, bool) {
	i := r.indexOf(id)
	if i < 0 || xp <= 0 {
		return 0, false
	}
	return r.units[i].gainExperience(xp), true
}

// MaxSquadSize returns the deployment capacity.
func (r *Roster) MaxSquadSize() int { return r.maxSquadSize }

// SetMaxSquadSize changes the deployment capacity. Units deployed beyond
// the new capacity are undeployed, most recent first.
func (r *Roster) SetMaxSquadSize(n int) {
	r.maxSquadSize = max(1, n)
	if len(r.deployed) > r.maxSquadSize {
		r.deployed = r.deployed[:r.maxSquadSize]
	}
}

// CanDeploy reports whether a unit exists, is active and is not deployed.
func (r *Roster) CanDeploy(id string) bool {
	u, ok := r.Get(id)
	return ok && u.Status == StatusActive && !r.IsDeployed(id)
}

// Deploy adds a unit to the deployment set. It fails when CanDeploy is
// false or the squad is full.
func (r *Roster) Deploy(id string) bool {
	if !r.CanDeploy(id) || len(r.deployed) >= r.maxSquadSize {
		return false
	}
	r.deployed = append(r.deployed, id)
	return true
}

// IsDeployed reports whether the unit is in the deployment set.
func (r *Roster) IsDeployed(id string) bool {
	return slices.Contains(r.deployed, id)
}

// Deployed returns the deployed unit IDs in deployment order.
func (r *Roster) Deployed() []string {
	return slices.Clone(r.deployed)
}

func (r *Roster) Undeploy(id string) {
	r.deployed = slices.DeleteFunc(r.deployed, func(d string) bool { return d == id })
}

func (r *Roster) UndeployAll() {
	r.deployed = nil
}

// Reset clears the roster and restores tier 1 capacity.
func (r *Roster) Reset() {
	r.units = nil
	r.deployed = nil
	r.maxSquadSize = SquadSizeTier1
}

// Clone returns an independent copy.
func (r *Roster) Clone() *Roster {
	return &Roster{
		units:        slices.Clone(r.units),
		maxSquadSize: r.maxSquadSize,
		deployed:     slices.Clone(r.deployed),
	}
}

func (r *Roster) indexOf(id string) int {
	return slices.IndexFunc(r.units, func(u Unit) bool { return u.ID == id })
}

type rosterJSON struct {
	Units        []Unit   `json:"roster"`
	MaxSquadSize int      `json:"maxSquadSize"`
	Deployed     []string `json:"deployedUnitIds"`
}

func (r *Roster) MarshalJSON() ([]byte, error) {
	w := rosterJSON{Units: r.units, MaxSquadSize: r.maxSquadSize, Deployed: r.deployed}
	if w.Units == nil {
		w.Units = []Unit{}
	}
	if w.Deployed == nil {
		w.Deployed = []string{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores a roster, re-applying the roster invariants:
// duplicate IDs keep their first occurrence and deployments must name
// active units within capacity.
func (r *Roster) UnmarshalJSON(b []byte) error {
	var w rosterJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	r.Reset()
	if w.MaxSquadSize > 0 {
		r.maxSquadSize = w.MaxSquadSize
	}
	for _, u := range w.Units {
		r.Add(u)
	}
	for _, id := range w.Deployed {
		r.Deploy(id)
	}
	return nil
}
