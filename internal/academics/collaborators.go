package academics

import (
	"context"

	"github.com/edusuite/colegio/internal/models"
)

// PromotionNote is handed to the notifier after each student's decision is
// committed.
type PromotionNote struct {
	StudentID      int64
	StudentName    string
	Outcome        models.PromotionOutcome
	Average        float64
	TargetCourseID *int64
}

// Notifier relays lifecycle outcomes to end users. Calls are fire-and-forget
// from the engine's point of view; implementations must not block long.
type Notifier interface {
	PromotionDecided(ctx context.Context, n PromotionNote)
	PeriodClosed(ctx context.Context, period models.AcademicPeriod)
	CycleFinished(ctx context.Context, cycle models.AcademicCycle, summary BatchSummary)
	GradeLockApproaching(ctx context.Context, period models.AcademicPeriod, daysLeft int)
}

// PeriodReportRow is one student line in a period closure report.
type PeriodReportRow struct {
	StudentName string
	Average     float64
	Graded      int
}

// OutcomeRow is one student line in a cycle closure report.
type OutcomeRow struct {
	StudentName string
	CourseName  string
	Average     *float64
	Outcome     models.PromotionOutcome
	Remarks     string
}

// ReportSink generates period/cycle reports. Failures are logged, never
// propagated into the closing transaction.
type ReportSink interface {
	PeriodReport(ctx context.Context, period models.AcademicPeriod, rows []PeriodReportRow) error
	CycleReport(ctx context.Context, cycle models.AcademicCycle, summary BatchSummary, rows []OutcomeRow) error
}

// BatchError records one student skipped by the promotion batch.
type BatchError struct {
	StudentID   int64
	StudentName string
	Message     string
}

// BatchSummary is the result of FinalizeCycle.
type BatchSummary struct {
	Total     int
	Promoted  int
	Repeats   int
	Graduated int
	Errors    []BatchError
}
