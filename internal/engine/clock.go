package engine

import (
	"fmt"

	"github.com/talgya/squad-campaign/internal/progression"
)

// Clock drives campaign time forward one hour at a time and fires the
// callbacks whose period has elapsed.
type Clock struct {
	Hour uint64 // Elapsed campaign hours (monotonic)

	// Callbacks for each layer, populated during setup.
	OnHour func(hour uint64) // Every hour
	OnDay  func(day uint64)  // Every 24 hours
	OnWeek func(week uint64) // Every 7 days
}

// Advance steps the clock forward by hours. Non-positive values do nothing.
func (c *Clock) Advance(hours int) {
	for i := 0; i < hours; i++ {
		c.step()
	}
}

func (c *Clock) step() {
	c.Hour++

	if c.OnHour != nil {
		c.OnHour(c.Hour)
	}

	// Every day: research progress.
	if c.Hour%progression.HoursPerDay == 0 && c.OnDay != nil {
		c.OnDay(c.Hour / progression.HoursPerDay)
	}

	// Every week: generic mission rotation.
	if c.Hour%progression.HoursPerWeek == 0 && c.OnWeek != nil {
		c.OnWeek(c.Hour / progression.HoursPerWeek)
	}
}

// CampaignTime renders elapsed hours as a human-readable campaign date.
func CampaignTime(hours uint64) string {
	hour := hours % progression.HoursPerDay
	totalDays := hours / progression.HoursPerDay
	day := totalDays%progression.DaysPerWeek + 1
	week := totalDays/progression.DaysPerWeek + 1
	return fmt.Sprintf("Week %d, Day %d, %02d:00", week, day, hour)
}
