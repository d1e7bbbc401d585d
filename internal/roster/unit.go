// Package roster provides the unit data model, experience curve and the
// squad roster with its deployment selection.
package roster

import (
	"fmt"
	"math"
	"strings"
)

// Experience curve and squad capacity.
const (
	BaseXPToLevel     = 100
	XPScalingPerLevel = 1.5
	MaxUnitLevel      = 15

	SquadSizeTier1 = 4
	SquadSizeTier2 = 6
	SquadSizeTier3 = 8
)

// Status is the lifecycle state of a unit.
type Status uint8

const (
	StatusActive Status = iota
	StatusInjured
	StatusDead
	StatusMissing
	StatusCaptured
)

var statusNames = [...]string{"active", "injured", "dead", "missing", "captured"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("unknown unit status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown unit status %q", text)
}

// Unit is a recruitable squad member.
type Unit struct {
	ID                    string `json:"id"`
	DisplayName           string `json:"displayName"`
	Level                 int    `json:"level"`      // 1..MaxUnitLevel
	Experience            int    `json:"experience"` // Retained past the cap at MaxUnitLevel
	ExperienceToNextLevel int    `json:"experienceToNextLevel"`
	Status                Status `json:"status"`
	LoadoutID             string `json:"loadoutId"`
	// VIP units have plot armor; permanent death rules live outside the roster.
	VIP bool `json:"vip"`
}

// NewUnit creates a level 1 active unit.
func NewUnit(id, name string) Unit {
	return Unit{
		ID:                    id,
		DisplayName:           name,
		Level:                 1,
		ExperienceToNextLevel: XPForLevel(1),
		Status:                StatusActive,
	}
}

// XPForLevel returns the experience needed to advance from level to level+1.
// Level 1 needs BaseXPToLevel; each level after scales by XPScalingPerLevel.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(float64(BaseXPToLevel) * math.Pow(XPScalingPerLevel, float64(level-1)))
}

// gainExperience adds xp and consumes it into level-ups while possible.
// It returns the number of levels gained.
func (u *Unit) gainExperience(xp int) int {
	u.Experience += xp
	gained := 0
	for u.Experience >= u.ExperienceToNextLevel && u.Level < MaxUnitLevel {
		u.Experience -= u.ExperienceToNextLevel
		u.Level++
		u.ExperienceToNextLevel = XPForLevel(u.Level)
		gained++
	}
	return gained
}
