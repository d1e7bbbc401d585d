package progression

import (
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

// Difficulty ratio thresholds.
const (
	DifficultyComfortable = 0.8
	DifficultyBalanced    = 1.0
	DifficultyChallenging = 1.2
	DifficultyPunishing   = 1.5
)

// Band classifies a difficulty ratio.
type Band uint8

const (
	BandComfortable Band = iota
	BandBalanced
	BandChallenging
	BandPunishing
)

func (b Band) String() string {
	switch b {
	case BandComfortable:
		return "comfortable"
	case BandBalanced:
		return "balanced"
	case BandChallenging:
		return "challenging"
	default:
		return "punishing"
	}
}

// DifficultyRatio divides the world threat by the player's power. A
// non-positive power yields DifficultyPunishing.
func DifficultyRatio(p *State, r *roster.Roster, t *tech.State) float64 {
	return Ratio(p.WorldThreatLevel(), PlayerPower(r, t))
}

// Ratio is DifficultyRatio over precomputed inputs.
func Ratio(worldThreat, playerPower float64) float64 {
	if playerPower <= 0 {
		return DifficultyPunishing
	}
	return worldThreat / playerPower
}

// Classify maps a ratio onto a difficulty band.
func Classify(ratio float64) Band {
	switch {
	case ratio >= DifficultyPunishing:
		return BandPunishing
	case ratio >= DifficultyChallenging:
		return BandChallenging
	case ratio <= DifficultyComfortable:
		return BandComfortable
	default:
		return BandBalanced
	}
}
