package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentFinalized EnrollmentStatus = "finalized"
)

// PromotionOutcome is the end-of-cycle standing of one enrollment.
type PromotionOutcome string

const (
	OutcomeInProgress PromotionOutcome = "in_progress"
	OutcomePromoted   PromotionOutcome = "promoted"
	OutcomeRepeats    PromotionOutcome = "repeats"
	OutcomeGraduated  PromotionOutcome = "graduated"
)

// Enrollment links a student to a course within a cycle. A student has at
// most one active enrollment per cycle. Rows are never deleted; once the
// promotion engine runs they become the historical record.
type Enrollment struct {
	ID                 int64            `db:"id"`
	StudentID          int64            `db:"student_id"`
	CourseID           int64            `db:"course_id"`
	CycleID            int64            `db:"cycle_id"`
	Status             EnrollmentStatus `db:"status"`
	Outcome            PromotionOutcome `db:"outcome"`
	FinalAverage       *float64         `db:"final_average"`
	PromotedToCourseID *int64           `db:"promoted_to_course_id"`
	PromotedAt         *time.Time       `db:"promoted_at"`
	Remarks            *string          `db:"remarks"`
	StudentName        string           `db:"student_name"`
}

// EnrollmentClosure carries the promotion engine's decision for one
// enrollment; persisted in its own transaction.
type EnrollmentClosure struct {
	EnrollmentID       int64
	Outcome            PromotionOutcome
	FinalAverage       float64
	PromotedToCourseID *int64
	Remarks            string
}
