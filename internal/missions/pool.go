package missions

import (
	"fmt"
	"log/slog"

	"github.com/talgya/squad-campaign/internal/progression"
)

// Status is the lifecycle position of a mission in the pool.
type Status uint8

const (
	StatusLocked Status = iota
	StatusUnlocked
	StatusCompleted
	StatusFailed
)

var statusNames = [...]string{"locked", "unlocked", "completed", "failed"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

func (s Status) rank() int {
	switch s {
	case StatusLocked:
		return 0
	case StatusUnlocked:
		return 1
	default:
		return 2
	}
}

// CanTransition reports whether moving from s to next is allowed.
// Transitions only move forward; terminal statuses are final.
func (s Status) CanTransition(next Status) bool {
	if int(next) >= len(statusNames) || s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// Pool is the mission catalog with a status per registered mission.
type Pool struct {
	missions []Mission
	index    map[string]int
	status   map[string]Status
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		index:  make(map[string]int),
		status: make(map[string]Status),
	}
}

// Register adds a mission with status Locked. Missions without an ID or
// with an ID already registered are rejected.
func (p *Pool) Register(m Mission) error {
	if m.ID == "" {
		return fmt.Errorf("register mission: empty id")
	}
	if _, ok := p.index[m.ID]; ok {
		return fmt.Errorf("register mission %s: duplicate id", m.ID)
	}
	p.index[m.ID] = len(p.missions)
	p.missions = append(p.missions, m.Clone())
	p.status[m.ID] = StatusLocked
	return nil
}

// Len returns the number of registered missions.
func (p *Pool) Len() int { return len(p.missions) }

// Mission returns a copy of the registered mission.
func (p *Pool) Mission(id string) (Mission, bool) {
	i, ok := p.index[id]
	if !ok {
		return Mission{}, false
	}
	return p.missions[i].Clone(), true
}

// Status returns the status of a mission. Unknown IDs read as Locked.
func (p *Pool) Status(id string) Status {
	return p.status[id]
}

// SetStatus moves a registered mission to a new status. Unregistered IDs
// and backward transitions are ignored.
func (p *Pool) SetStatus(id string, next Status) bool {
	cur, ok := p.status[id]
	if !ok {
		slog.Debug("status change for unknown mission", "mission", id)
		return false
	}
	if !cur.CanTransition(next) {
		return false
	}
	p.status[id] = next
	return true
}

// Missions returns every registered mission in registration order.
func (p *Pool) Missions() []Mission {
	out := make([]Mission, 0, len(p.missions))
	for _, m := range p.missions {
		out = append(out, m.Clone())
	}
	return out
}

// ByStatus returns the missions in the given status, in registration order.
func (p *Pool) ByStatus(s Status) []Mission {
	var out []Mission
	for _, m := range p.missions {
		if p.status[m.ID] == s {
			out = append(out, m.Clone())
		}
	}
	return out
}

// ByType returns the missions of the given type, in registration order.
func (p *Pool) ByType(t Type) []Mission {
	var out []Mission
	for _, m := range p.missions {
		if m.Type == t {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (p *Pool) Available() []Mission { return p.ByStatus(StatusUnlocked) }
func (p *Pool) Completed() []Mission { return p.ByStatus(StatusCompleted) }

// Restore rebuilds statuses from persisted main-mission progress after a
// load. Missions the progression does not mention return to Locked.
func (p *Pool) Restore(prog *progression.State) {
	for _, m := range p.missions {
		switch {
		case prog.HasCompletedMission(m.ID):
			p.status[m.ID] = StatusCompleted
		case prog.HasFailedMission(m.ID):
			p.status[m.ID] = StatusFailed
		case prog.IsMissionAvailable(m.ID):
			p.status[m.ID] = StatusUnlocked
		default:
			p.status[m.ID] = StatusLocked
		}
	}
}

// Reset returns every mission to Locked.
func (p *Pool) Reset() {
	for id := range p.status {
		p.status[id] = StatusLocked
	}
}
