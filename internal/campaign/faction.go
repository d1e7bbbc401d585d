package campaign

import (
	"fmt"
	"strings"
)

// Faction is a playable power bloc.
type Faction uint8

const (
	FactionNone Faction = iota
	FactionStratocracy
	FactionTotalitarian
	FactionTechnocracy
)

type factionInfo struct {
	key    string
	name   string
	prefix string // Unit ID prefix for the faction's recruits
}

var factions = [...]factionInfo{
	{key: "none", name: "Unaligned", prefix: "NON"},
	{key: "stratocracy", name: "The Stratocracy", prefix: "STR"},
	{key: "totalitarian", name: "The Totalitarian Bloc", prefix: "TOT"},
	{key: "technocracy", name: "The Technocracy", prefix: "TEC"},
}

// PlayableFactions lists the factions a new campaign may start with.
func PlayableFactions() []Faction {
	return []Faction{FactionStratocracy, FactionTotalitarian, FactionTechnocracy}
}

func (f Faction) valid() bool { return int(f) < len(factions) }

func (f Faction) String() string {
	if !f.valid() {
		return fmt.Sprintf("faction(%d)", uint8(f))
	}
	return factions[f].key
}

// DisplayName returns the in-world name of the faction.
func (f Faction) DisplayName() string {
	if !f.valid() {
		return f.String()
	}
	return factions[f].name
}

// Prefix returns the three-letter recruit ID prefix.
func (f Faction) Prefix() string {
	if !f.valid() {
		return factions[FactionNone].prefix
	}
	return factions[f].prefix
}

// ParseFaction resolves a faction from its key.
func ParseFaction(s string) (Faction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, info := range factions {
		if info.key == key {
			return Faction(i), nil
		}
	}
	return FactionNone, fmt.Errorf("unknown faction %q", s)
}

func (f Faction) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("unknown faction %d", uint8(f))
	}
	return []byte(factions[f].key), nil
}

func (f *Faction) UnmarshalText(text []byte) error {
	parsed, err := ParseFaction(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Act is a chapter of the main story.
type Act uint8

const (
	Act1 Act = iota
	Act2
	Act3
)

func (a Act) String() string { return fmt.Sprintf("act%d", uint8(a)+1) }

func (a Act) MarshalText() ([]byte, error) {
	if a > Act3 {
		return nil, fmt.Errorf("unknown act %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Act) UnmarshalText(text []byte) error {
	for candidate := Act1; candidate <= Act3; candidate++ {
		if candidate.String() == strings.ToLower(string(text)) {
			*a = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown act %q", text)
}
