package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// StartingSquadSize is the number of recruits a new campaign begins with.
const StartingSquadSize = 2

// Recruiter issues sequential unit IDs of the form PREFIX_NNN.
type Recruiter struct {
	prefix string
	nextID int
}

// NewRecruiter creates a recruiter for the given ID prefix.
func NewRecruiter(prefix string) *Recruiter {
	return &Recruiter{prefix: strings.ToUpper(prefix), nextID: 1}
}

// SetNextID sets the next sequence number to be issued.
func (rc *Recruiter) SetNextID(n int) {
	rc.nextID = max(1, n)
}

// SyncFrom moves the sequence past every ID on the roster that carries this
// recruiter's prefix, so restored campaigns never reissue an ID.
func (rc *Recruiter) SyncFrom(r *Roster) {
	highest := 0
	for _, u := range r.units {
		rest, ok := strings.CutPrefix(u.ID, rc.prefix+"_")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	if highest >= rc.nextID {
		rc.nextID = highest + 1
	}
}

// Recruit creates a new level 1 unit with the next ID.
func (rc *Recruiter) Recruit(name string) Unit {
	id := fmt.Sprintf("%s_%03d", rc.prefix, rc.nextID)
	rc.nextID++
	if name == "" {
		name = fmt.Sprintf("Recruit %d", rc.nextID-1)
	}
	return NewUnit(id, name)
}

// StartingSquad recruits the opening squad into r.
func (rc *Recruiter) StartingSquad(r *Roster) []Unit {
	squad := make([]Unit, 0, StartingSquadSize)
	for i := 0; i < StartingSquadSize; i++ {
		u := rc.Recruit(fmt.Sprintf("Recruit %d", i+1))
		if r.Add(u) {
			squad = append(squad, u)
		}
	}
	return squad
}
