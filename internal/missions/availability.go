package missions

import "github.com/talgya/squad-campaign/internal/campaign"

// CanUnlock reports whether a Locked mission satisfies its unlock rules:
// every prerequisite is Completed, every required story flag is set, and
// any faction restriction matches the current faction.
func CanUnlock(m Mission, pool *Pool, c *campaign.State) bool {
	if pool.Status(m.ID) != StatusLocked {
		return false
	}
	for _, pre := range m.Prerequisites {
		if pool.Status(pre) != StatusCompleted {
			return false
		}
	}
	for _, flag := range m.RequiredFlags {
		if !c.HasStoryFlag(flag) {
			return false
		}
	}
	if m.RequiredFaction != campaign.FactionNone && m.RequiredFaction != c.CurrentFaction() {
		return false
	}
	return true
}

// FindUnlockable returns the Locked missions whose unlock rules pass. It
// does not change any status.
func FindUnlockable(pool *Pool, c *campaign.State) []Mission {
	var out []Mission
	for _, m := range pool.ByStatus(StatusLocked) {
		if CanUnlock(m, pool, c) {
			out = append(out, m)
		}
	}
	return out
}
