package lifecycle

import (
	"testing"
	"time"
)

var base = time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC)

func TestScheduleDoesNotStack(t *testing.T) {
	s := Schedule{Period: 5 * time.Minute}
	if s.Due(base) {
		t.Fatal("unarmed schedule must not fire")
	}
	s.Arm(base)

	if s.Due(base.Add(4 * time.Minute)) {
		t.Error("fired before its period")
	}
	// Twenty minutes late: one firing, not four.
	late := base.Add(25 * time.Minute)
	if !s.Due(late) {
		t.Fatal("expected firing")
	}
	if s.Due(late) {
		t.Error("fired twice for the same instant")
	}
	if got := s.Next(); !got.Equal(late.Add(5 * time.Minute)) {
		t.Errorf("expected re-arm relative to now, got %s", got)
	}
}

func TestPollingFiresEveryPeriod(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	c.Start(base)

	polls := 0
	for now := base; now.Before(base.Add(30 * time.Minute)); now = now.Add(time.Minute) {
		if c.Due(now).Poll {
			polls++
		}
	}
	if polls != 5 {
		t.Errorf("expected 5 polls in 29 minutes, got %d", polls)
	}
}

func TestForcedLogoutOncePerDay(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	c.Start(base)

	var fired []time.Time
	end := base.Add(26 * time.Hour)
	for now := base; now.Before(end); now = now.Add(time.Minute) {
		if c.Due(now).Logout {
			fired = append(fired, now)
		}
	}
	if len(fired) != 2 {
		t.Fatalf("expected two logouts over 26 hours, got %v", fired)
	}
	if !fired[0].Equal(time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first logout %s", fired[0])
	}
	if !fired[1].Equal(time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected second logout %s", fired[1])
	}
}

func TestLoginAfterLogoutTimeWaitsForTomorrow(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)
	c.Start(evening)

	if c.Due(evening.Add(time.Minute)).Logout {
		t.Error("must not log out right after a late login")
	}
	if want := time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC); !c.LogoutAt().Equal(want) {
		t.Errorf("expected next logout %s, got %s", want, c.LogoutAt())
	}
}

func TestSleepingThroughLogoutFiresOnWake(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	c.Start(base)

	wake := base.Add(3 * time.Hour)
	d := c.Due(wake)
	if !d.Logout || !d.Poll {
		t.Errorf("expected both schedules to fire once on wake, got %+v", d)
	}
	if d := c.Due(wake); d.Logout || d.Poll {
		t.Errorf("expected nothing on immediate recheck, got %+v", d)
	}
}

func TestStopAndNextWake(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	c.Start(base)

	if got := c.NextWake(base); got != CheckInterval {
		t.Errorf("expected wake after %s, got %s", CheckInterval, got)
	}
	if got := c.NextWake(base.Add(time.Hour)); got != 0 {
		t.Errorf("expected immediate wake when overdue, got %s", got)
	}

	c.Stop()
	if d := c.Due(base.Add(time.Hour)); d.Poll || d.Logout {
		t.Errorf("stopped controller fired %+v", d)
	}
}

func TestPolledRestartsPeriod(t *testing.T) {
	c := New(5*time.Minute, 20, 0, time.UTC)
	c.Start(base)
	c.Polled(base.Add(4 * time.Minute))

	if c.Due(base.Add(5 * time.Minute)).Poll {
		t.Error("poll should wait a full period after a manual refresh")
	}
	if !c.Due(base.Add(9 * time.Minute)).Poll {
		t.Error("expected poll a period after the manual refresh")
	}
}
