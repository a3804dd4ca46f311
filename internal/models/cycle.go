package models

import "time"

// Lifecycle states shared by cycles and periods. Transitions are linear:
// planned -> active -> closed, never backwards.
type LifecycleState string

const (
	StatePlanned LifecycleState = "planned"
	StateActive  LifecycleState = "active"
	StateClosed  LifecycleState = "closed"
)

// AcademicCycle is one school year. At most one cycle is active system-wide,
// enforced by a partial unique index on is_active.
type AcademicCycle struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	StartDate time.Time      `db:"start_date"`
	EndDate   time.Time      `db:"end_date"`
	State     LifecycleState `db:"state"`
	IsActive  bool           `db:"is_active"`
}
