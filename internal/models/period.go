package models

import "time"

// AcademicPeriod is a grading sub-interval (trimester, bimester) of a cycle.
// Sequence numbers start at 1 and are unique within the cycle; at most one
// period per cycle is active (partial unique index on cycle_id).
type AcademicPeriod struct {
	ID            int64          `db:"id"`
	CycleID       int64          `db:"cycle_id"`
	Sequence      int            `db:"sequence"`
	Name          string         `db:"name"`
	StartDate     time.Time      `db:"start_date"`
	EndDate       time.Time      `db:"end_date"`
	GradeLockDate time.Time      `db:"grade_lock_date"`
	LeadDays      int            `db:"lead_days"`
	State         LifecycleState `db:"state"`
}

// LockReminderDue reports whether the pre-closure reminder window has been
// reached: today is within lead_days of the grade-lock date and the period
// is still open.
func (p AcademicPeriod) LockReminderDue(now time.Time) bool {
	if p.State == StateClosed {
		return false
	}
	reminder := p.GradeLockDate.AddDate(0, 0, -p.LeadDays)
	return !now.Before(reminder)
}
