package progression

import "fmt"

// World event tokens.
const (
	EventThreatPunishing = "threat_level_punishing"
	EventThreatCritical  = "threat_level_critical"

	WarningFallingBehind  = "warning_falling_behind"
	WarningCriticalDanger = "warning_critical_danger"

	threatPunishingLevel = 1.5
	threatCriticalLevel  = 2.0
)

// WeekEvent returns the token fired when week n begins.
func WeekEvent(week int) string {
	return fmt.Sprintf("week_%d_event", week)
}

// Triggered is the set of tokens that have already fired.
type Triggered interface {
	Triggered(token string) bool
}

// TimeEvents returns the time-driven tokens that should fire now and have
// not fired before. The caller records the returned tokens.
func TimeEvents(p *State, already Triggered) []string {
	var out []string
	if weeks := p.ElapsedWeeks(); weeks > 0 {
		if token := WeekEvent(weeks); !already.Triggered(token) {
			out = append(out, token)
		}
	}
	if p.WorldThreatLevel() >= threatPunishingLevel && !already.Triggered(EventThreatPunishing) {
		out = append(out, EventThreatPunishing)
	}
	if p.WorldThreatLevel() >= threatCriticalLevel && !already.Triggered(EventThreatCritical) {
		out = append(out, EventThreatCritical)
	}
	return out
}

// DifficultyWarning returns at most one warning token for the ratio. The
// milder warning fires first; the critical one fires on a later check.
func DifficultyWarning(ratio float64, already Triggered) (string, bool) {
	if ratio >= DifficultyChallenging && !already.Triggered(WarningFallingBehind) {
		return WarningFallingBehind, true
	}
	if ratio >= DifficultyPunishing && !already.Triggered(WarningCriticalDanger) {
		return WarningCriticalDanger, true
	}
	return "", false
}
