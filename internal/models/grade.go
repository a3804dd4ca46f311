package models

import "time"

// GradeEntry is one scored (or still pending) assessment item. A nil Value
// means the assignment was issued but not yet graded; period closure requires
// zero nil values in the period.
type GradeEntry struct {
	ID         int64      `db:"id"`
	StudentID  int64      `db:"student_id"`
	SubjectID  int64      `db:"subject_id"`
	CategoryID int64      `db:"category_id"`
	Value      *float64   `db:"value"`
	Remarks    *string    `db:"remarks"`
	PeriodID   *int64     `db:"period_id"`
	CreatedAt  time.Time  `db:"created_at"`
	GradedAt   *time.Time `db:"graded_at"`
}

// GradingCategory is a named weight bucket ("Exámenes", "Tareas"). Weights
// are percentages; the aggregator renormalizes when the present weights do
// not sum to 100.
type GradingCategory struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	Weight   float64 `db:"weight"`
	IsActive bool    `db:"is_active"`
}

// GradeConfiguration bounds grade values and carries the passing threshold.
// A row with SubjectID nil is the single global configuration; a subject row
// overrides it for that subject's [min, max] validation. Cycle promotion
// always uses the global threshold.
type GradeConfiguration struct {
	ID               int64   `db:"id"`
	SubjectID        *int64  `db:"subject_id"`
	MinScore         float64 `db:"min_score"`
	MaxScore         float64 `db:"max_score"`
	PassingThreshold float64 `db:"passing_threshold"`
}
