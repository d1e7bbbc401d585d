// Package engine owns the live campaign: the game-state aggregate, the
// clock that moves campaign time, and the Coordinator through which every
// mutation is sequenced and announced.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/squad-campaign/internal/campaign"
	"github.com/talgya/squad-campaign/internal/economy"
	"github.com/talgya/squad-campaign/internal/events"
	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/progression"
	"github.com/talgya/squad-campaign/internal/roster"
	"github.com/talgya/squad-campaign/internal/tech"
)

// ErrUnknownMission is returned when a record names a mission that is
// neither an unlocked story mission nor an offered generic mission.
var ErrUnknownMission = errors.New("unknown mission")

// RecordArchive stores resolved mission records.
type RecordArchive interface {
	SaveRecord(ctx context.Context, rec missions.Record) error
}

// Options wires the collaborators of a Coordinator. Nil fields get
// empty defaults.
type Options struct {
	Notifier events.Notifier
	Pool     *missions.Pool
	Catalog  *tech.Catalog
	Rotation *missions.Rotation
	Archive  RecordArchive
}

// Coordinator is the single owner of a live GameState. It is not safe for
// concurrent use; callers serialize access. Events are published only
// after the mutation that caused them has completed.
type Coordinator struct {
	state     *GameState
	notifier  events.Notifier
	pool      *missions.Pool
	catalog   *tech.Catalog
	rotation  *missions.Rotation
	archive   RecordArchive
	recruiter *roster.Recruiter
	clock     *Clock

	pending []events.Event
}

// NewCoordinator creates a coordinator holding an unstarted campaign.
func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		state:     NewGameState(),
		notifier:  opts.Notifier,
		pool:      opts.Pool,
		catalog:   opts.Catalog,
		rotation:  opts.Rotation,
		archive:   opts.Archive,
		recruiter: roster.NewRecruiter(campaign.FactionNone.Prefix()),
	}
	if c.notifier == nil {
		c.notifier = events.Discard
	}
	if c.pool == nil {
		c.pool = missions.NewPool()
	}
	if c.catalog == nil {
		c.catalog = tech.NewCatalog()
	}
	if c.rotation == nil {
		c.rotation = missions.NewRotation(nil)
	}
	c.clock = &Clock{
		OnHour: c.onHour,
		OnDay:  c.onDay,
		OnWeek: c.onWeek,
	}
	return c
}

// State returns the live state for reading. Mutate it only through the
// Coordinator.
func (c *Coordinator) State() *GameState { return c.state }

func (c *Coordinator) Pool() *missions.Pool         { return c.pool }
func (c *Coordinator) Catalog() *tech.Catalog       { return c.catalog }
func (c *Coordinator) Rotation() *missions.Rotation { return c.rotation }

// StateCopy returns a deep copy of the live state, suitable for saving.
func (c *Coordinator) StateCopy() *GameState { return c.state.Clone() }

func (c *Coordinator) queue(e events.Event) { c.pending = append(c.pending, e) }

func (c *Coordinator) flush() {
	pending := c.pending
	c.pending = nil
	for _, e := range pending {
		c.notifier.Publish(e)
	}
}

// NewGame resets everything and starts a campaign for faction with the
// starting squad, the initial story missions and a fresh rotation.
func (c *Coordinator) NewGame(f campaign.Faction) {
	c.resetState()
	c.state.Campaign.Begin(f)
	c.recruiter = roster.NewRecruiter(f.Prefix())
	squad := c.recruiter.StartingSquad(c.state.Roster)
	for _, u := range squad {
		c.state.Roster.Deploy(u.ID)
	}
	c.unlockAvailable()
	c.rotation.Refresh(c.state.Progression, c.state.Roster, c.state.Technology)

	slog.Info("new campaign started", "faction", f, "squad", len(squad))
	c.queue(events.StateChanged{System: events.SystemAll})
	c.flush()
}

// Reset returns the campaign to its unstarted state.
func (c *Coordinator) Reset() {
	c.resetState()
	c.queue(events.StateChanged{System: events.SystemAll})
	c.flush()
}

func (c *Coordinator) resetState() {
	c.state.Reset()
	c.pool.Reset()
	c.clock.Hour = 0
	c.recruiter = roster.NewRecruiter(campaign.FactionNone.Prefix())
}

// Replace installs a loaded state. Mission statuses are rebuilt from the
// restored progression and the generic rotation is redrawn.
func (c *Coordinator) Replace(gs *GameState) {
	c.state = gs.Clone()
	c.pool.Restore(c.state.Progression)
	c.clock.Hour = uint64(c.state.Progression.TotalElapsedHours())
	c.recruiter = roster.NewRecruiter(c.state.Campaign.StartingFaction().Prefix())
	c.recruiter.SyncFrom(c.state.Roster)
	c.rotation.Refresh(c.state.Progression, c.state.Roster, c.state.Technology)

	c.queue(events.StateChanged{System: events.SystemAll})
	c.flush()
}

// AddResource changes a resource by delta, clamping at zero.
func (c *Coordinator) AddResource(kind economy.ResourceKind, delta int) {
	c.addResource(kind, delta)
	c.flush()
}

func (c *Coordinator) addResource(kind economy.ResourceKind, delta int) {
	old, updated := c.state.Resources.Add(kind, delta)
	if old != updated {
		c.queue(events.ResourceChanged{Resource: kind, Old: old, New: updated})
	}
}

// SpendResource removes amount if it is fully available.
func (c *Coordinator) SpendResource(kind economy.ResourceKind, amount int) bool {
	old := c.state.Resources.Get(kind)
	if !c.state.Resources.Spend(kind, amount) {
		return false
	}
	if amount > 0 {
		c.queue(events.ResourceChanged{Resource: kind, Old: old, New: c.state.Resources.Get(kind)})
	}
	c.flush()
	return true
}

// AddMaterial changes a material by delta, clamping at zero.
func (c *Coordinator) AddMaterial(kind economy.MaterialKind, delta int) {
	c.addMaterial(kind, delta)
	c.flush()
}

func (c *Coordinator) addMaterial(kind economy.MaterialKind, delta int) {
	old, updated := c.state.Materials.Add(kind, delta)
	if old != updated {
		c.queue(events.MaterialChanged{Material: kind, Old: old, New: updated})
	}
}

// SpendMaterial removes amount if it is fully available.
func (c *Coordinator) SpendMaterial(kind economy.MaterialKind, amount int) bool {
	old := c.state.Materials.Get(kind)
	if !c.state.Materials.Spend(kind, amount) {
		return false
	}
	if amount > 0 {
		c.queue(events.MaterialChanged{Material: kind, Old: old, New: c.state.Materials.Get(kind)})
	}
	c.flush()
	return true
}

// Recruit adds a new level 1 unit to the roster.
func (c *Coordinator) Recruit(name string) roster.Unit {
	u := c.recruiter.Recruit(name)
	c.state.Roster.Add(u)
	c.queue(events.StateChanged{System: "roster"})
	c.flush()
	return u
}

// SetUnitStatus changes a unit's status. Units that stop being active are
// withdrawn from the deployment.
func (c *Coordinator) SetUnitStatus(id string, s roster.Status) bool {
	ok := c.setUnitStatus(id, s)
	c.flush()
	return ok
}

func (c *Coordinator) setUnitStatus(id string, s roster.Status) bool {
	old, ok := c.state.Roster.UpdateStatus(id, s)
	if !ok {
		return false
	}
	if s != roster.StatusActive {
		c.state.Roster.Undeploy(id)
	}
	if old != s {
		c.queue(events.UnitStatusChanged{UnitID: id, Old: old.String(), New: s.String()})
	}
	return true
}

// AwardExperience grants xp to a unit and returns the levels gained.
func (c *Coordinator) AwardExperience(id string, xp int) int {
	levels, ok := c.state.Roster.AddExperience(id, xp)
	if ok {
		c.queue(events.StateChanged{System: "roster"})
	}
	c.flush()
	return levels
}

// Deploy assigns a unit to the next mission's squad.
func (c *Coordinator) Deploy(id string) bool {
	if !c.state.Roster.Deploy(id) {
		return false
	}
	c.queue(events.StateChanged{System: "roster"})
	c.flush()
	return true
}

// Undeploy withdraws a unit from the squad.
func (c *Coordinator) Undeploy(id string) {
	c.state.Roster.Undeploy(id)
	c.queue(events.StateChanged{System: "roster"})
	c.flush()
}

// StartResearch begins researching a catalog tech. Prerequisites must be
// unlocked and every cost affordable; costs are paid in full or not at all.
func (c *Coordinator) StartResearch(id string) bool {
	t, ok := c.catalog.Get(id)
	if !ok {
		slog.Warn("research requested for unknown tech", "tech", id)
		return false
	}
	ts := c.state.Technology
	if ts.IsResearching() || ts.IsUnlocked(id) || !ts.PrerequisitesMet(t) {
		return false
	}
	for kind, amount := range t.ResourceCosts {
		if !c.state.Resources.Has(kind, amount) {
			return false
		}
	}
	for kind, amount := range t.MaterialCosts {
		if !c.state.Materials.Has(kind, amount) {
			return false
		}
	}

	for kind, amount := range t.ResourceCosts {
		c.addResource(kind, -amount)
	}
	for kind, amount := range t.MaterialCosts {
		c.addMaterial(kind, -amount)
	}
	ts.StartResearch(id)
	slog.Info("research started", "tech", id, "days", t.ResearchTime)
	c.queue(events.StateChanged{System: "technology"})
	c.flush()
	return true
}

// CancelResearch abandons the current research. Costs are not refunded.
func (c *Coordinator) CancelResearch() {
	if !c.state.Technology.IsResearching() {
		return
	}
	c.state.Technology.CancelResearch()
	c.queue(events.StateChanged{System: "technology"})
	c.flush()
}

// UnlockAvailableMissions moves every mission whose unlock rules pass to
// Unlocked and returns their IDs.
func (c *Coordinator) UnlockAvailableMissions() []string {
	ids := c.unlockAvailable()
	c.flush()
	return ids
}

func (c *Coordinator) unlockAvailable() []string {
	var ids []string
	for _, m := range missions.FindUnlockable(c.pool, c.state.Campaign) {
		if !c.pool.SetStatus(m.ID, missions.StatusUnlocked) {
			continue
		}
		if m.Type == missions.TypeStory {
			c.state.Progression.UnlockMission(m.ID)
		}
		ids = append(ids, m.ID)
		c.queue(events.MissionUnlocked{MissionID: m.ID})
	}
	if len(ids) > 0 {
		slog.Debug("missions unlocked", "missions", ids)
	}
	return ids
}

// ResolveMission applies the outcome of a played mission: status, rewards,
// experience, casualties and story consequences. The record is archived
// when an archive is configured; archive failures are logged only.
func (c *Coordinator) ResolveMission(ctx context.Context, rec missions.Record) error {
	m, pooled, err := c.lookupPlayable(rec.MissionID)
	if err != nil {
		slog.Warn("cannot resolve mission", "mission", rec.MissionID, "error", err)
		return fmt.Errorf("resolve mission %s: %w", rec.MissionID, err)
	}

	switch {
	case !pooled:
		c.rotation.Remove(m.ID)
	case rec.Success:
		c.pool.SetStatus(m.ID, missions.StatusCompleted)
		if m.Type == missions.TypeStory {
			c.state.Progression.CompleteMainMission(m.ID)
		}
	default:
		c.pool.SetStatus(m.ID, missions.StatusFailed)
		if m.Type == missions.TypeStory {
			c.state.Progression.FailMainMission(m.ID)
		}
	}

	flags := m.Consequences.FlagsOnFailure
	if rec.Success {
		flags = m.Consequences.FlagsOnSuccess
		c.applyRewards(m.Rewards, rec)
	}
	for _, f := range flags {
		c.state.Campaign.AddStoryFlag(f)
	}

	for _, id := range rec.InjuredUnitIDs {
		c.setUnitStatus(id, roster.StatusInjured)
	}
	for _, id := range rec.DeadUnitIDs {
		c.setUnitStatus(id, roster.StatusDead)
	}
	c.state.Roster.UndeployAll()

	slog.Info("mission resolved", "mission", m.ID, "success", rec.Success, "turns", rec.TurnsTaken)
	c.queue(events.MissionCompleted{MissionID: m.ID, Success: rec.Success})
	c.unlockAvailable()
	c.flush()

	if c.archive != nil {
		if err := c.archive.SaveRecord(ctx, rec.Clone()); err != nil {
			slog.Error("archive mission record", "mission", m.ID, "error", err)
		}
	}
	return nil
}

func (c *Coordinator) lookupPlayable(id string) (missions.Mission, bool, error) {
	if m, ok := c.pool.Mission(id); ok {
		if c.pool.Status(id) != missions.StatusUnlocked {
			return missions.Mission{}, false, fmt.Errorf("mission is %s", c.pool.Status(id))
		}
		return m, true, nil
	}
	if m, ok := c.rotation.Get(id); ok {
		return m, false, nil
	}
	return missions.Mission{}, false, ErrUnknownMission
}

func (c *Coordinator) applyRewards(r missions.Rewards, rec missions.Record) {
	for kind, amount := range r.Resources {
		c.addResource(kind, amount)
	}
	for kind, amount := range r.Materials {
		c.addMaterial(kind, amount)
	}
	for _, drop := range rec.Loot {
		if drop.Category == missions.LootMaterial {
			c.addMaterial(drop.Material, drop.Quantity)
		}
	}
	for id, xp := range rec.ShareXP(r.BaseXPPool) {
		if levels, ok := c.state.Roster.AddExperience(id, xp); ok && levels > 0 {
			slog.Debug("unit leveled up", "unit", id, "levels", levels)
		}
	}
	c.queue(events.StateChanged{System: "roster"})
}

// AdvanceTime moves the campaign forward by hours, running the daily
// research tick and the weekly rotation, then checks world events.
func (c *Coordinator) AdvanceTime(hours int) []string {
	if hours <= 0 {
		return nil
	}
	c.clock.Advance(hours)
	tokens := c.checkWorldEvents()
	c.queue(events.StateChanged{System: "progression"})
	c.flush()
	return tokens
}

func (c *Coordinator) onHour(uint64) {
	c.state.Progression.AdvanceTime(1)
	c.state.Campaign.PassTime(1)
}

func (c *Coordinator) onDay(day uint64) {
	ts := c.state.Technology
	id, _ := ts.Current()
	if id == "" {
		return
	}
	required := 1
	if t, ok := c.catalog.Get(id); ok {
		required = t.ResearchTime
	}
	if ts.AdvanceResearch(required) {
		slog.Info("research completed", "tech", id, "day", day)
		c.queue(events.ResearchCompleted{TechID: id})
	}
}

func (c *Coordinator) onWeek(week uint64) {
	c.rotation.Refresh(c.state.Progression, c.state.Roster, c.state.Technology)
	slog.Debug("weekly rotation", "week", week)
}

// RefreshRotation redraws the generic missions on offer.
func (c *Coordinator) RefreshRotation() []missions.Mission {
	return c.rotation.Refresh(c.state.Progression, c.state.Roster, c.state.Technology)
}

// CheckWorldEvents fires the time and difficulty events that are due and
// have not fired before, and returns their tokens.
func (c *Coordinator) CheckWorldEvents() []string {
	tokens := c.checkWorldEvents()
	c.flush()
	return tokens
}

func (c *Coordinator) checkWorldEvents() []string {
	p := c.state.Progression
	tokens := progression.TimeEvents(p, p)
	p.MarkTriggered(tokens...)

	if token, ok := progression.DifficultyWarning(c.DifficultyRatio(), p); ok {
		p.MarkTriggered(token)
		tokens = append(tokens, token)
	}
	for _, t := range tokens {
		slog.Info("world event", "event", t, "threat", p.WorldThreatLevel())
		c.queue(events.WorldEventTriggered{Token: t})
	}
	return tokens
}

// DifficultyRatio compares the world threat with the player's power.
func (c *Coordinator) DifficultyRatio() float64 {
	return progression.DifficultyRatio(c.state.Progression, c.state.Roster, c.state.Technology)
}
