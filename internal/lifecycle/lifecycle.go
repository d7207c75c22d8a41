// Package lifecycle decides when the board polls for fresh data and when
// the daily forced logout happens. It owns no timers: callers pass the
// current time in and arm a single wake-up for NextWake.
package lifecycle

import "time"

// CheckInterval is how often the forced-logout clock is consulted.
const CheckInterval = time.Minute

// Schedule fires at most once per period.
type Schedule struct {
	Period time.Duration
	next   time.Time
}

// Arm schedules the first firing one period after now.
func (s *Schedule) Arm(now time.Time) {
	s.next = now.Add(s.Period)
}

// Next returns the next firing time.
func (s *Schedule) Next() time.Time {
	return s.next
}

// Due reports whether the schedule fires at now and re-arms it relative to
// now, so any number of missed periods collapse into one firing.
func (s *Schedule) Due(now time.Time) bool {
	if s.next.IsZero() || now.Before(s.next) {
		return false
	}
	s.Arm(now)
	return true
}

// Due lists what fired on a call to Controller.Due.
type Due struct {
	Poll   bool
	Logout bool
}

// Controller owns the poll and forced-logout schedules.
type Controller struct {
	poll  Schedule
	check Schedule

	hour, minute int
	loc          *time.Location
	logoutAt     time.Time
	running      bool
}

// New returns a stopped controller polling every pollEvery and logging out
// daily at hour:minute in loc.
func New(pollEvery time.Duration, hour, minute int, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		poll:   Schedule{Period: pollEvery},
		check:  Schedule{Period: CheckInterval},
		hour:   hour,
		minute: minute,
		loc:    loc,
	}
}

// Start arms both schedules relative to now.
func (c *Controller) Start(now time.Time) {
	c.poll.Arm(now)
	c.check.Arm(now)
	c.logoutAt = c.nextLogout(now)
	c.running = true
}

// Stop disarms the controller; Due reports nothing until Start.
func (c *Controller) Stop() {
	c.running = false
}

// Running reports whether the controller is started.
func (c *Controller) Running() bool {
	return c.running
}

// Due returns what fired at now. The logout fires once when the minute
// check first sees the wall clock past the configured time of day.
func (c *Controller) Due(now time.Time) Due {
	var d Due
	if !c.running {
		return d
	}
	d.Poll = c.poll.Due(now)
	if c.check.Due(now) && !now.Before(c.logoutAt) {
		d.Logout = true
		c.logoutAt = c.nextLogout(now)
	}
	return d
}

// Polled restarts the poll period after an out-of-band refresh.
func (c *Controller) Polled(now time.Time) {
	if c.running {
		c.poll.Arm(now)
	}
}

// NextWake returns how long to sleep before calling Due again.
func (c *Controller) NextWake(now time.Time) time.Duration {
	next := c.poll.Next()
	if c.check.Next().Before(next) {
		next = c.check.Next()
	}
	if d := next.Sub(now); d > 0 {
		return d
	}
	return 0
}

// LogoutAt returns the next forced logout time.
func (c *Controller) LogoutAt() time.Time {
	return c.logoutAt
}

func (c *Controller) nextLogout(now time.Time) time.Time {
	local := now.In(c.loc)
	at := time.Date(local.Year(), local.Month(), local.Day(), c.hour, c.minute, 0, 0, c.loc)
	if !at.After(local) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
