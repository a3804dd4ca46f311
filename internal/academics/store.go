package academics

import (
	"context"

	"github.com/edusuite/colegio/internal/models"
)

// Store is the persistence surface the engine runs on. internal/db
// implements it over PostgreSQL; tests substitute in-memory fakes.
type Store interface {
	CycleStore
	PeriodStore
	EnrollmentStore
	GradeStore
	CatalogStore
}

type CycleStore interface {
	CreateCycle(ctx context.Context, c models.AcademicCycle) (int64, error)
	CycleByID(ctx context.Context, id int64) (*models.AcademicCycle, error)
	// ActiveCycle returns (nil, nil) when no cycle is active.
	ActiveCycle(ctx context.Context) (*models.AcademicCycle, error)
	ListCycles(ctx context.Context) ([]models.AcademicCycle, error)
	// ActivateCycle demotes any active cycle to closed, activates this one
	// and its sequence-1 period, all in one transaction.
	ActivateCycle(ctx context.Context, id int64) error
	// CloseCycle closes every still-open period of the cycle, sets the cycle
	// to closed and clears its active flag, in one transaction.
	CloseCycle(ctx context.Context, id int64) error
}

type PeriodStore interface {
	CreatePeriod(ctx context.Context, p models.AcademicPeriod) (int64, error)
	PeriodByID(ctx context.Context, id int64) (*models.AcademicPeriod, error)
	PeriodsByCycle(ctx context.Context, cycleID int64) ([]models.AcademicPeriod, error)
	UpdatePeriod(ctx context.Context, p models.AcademicPeriod) error
	DeletePeriod(ctx context.Context, id int64) error
	// ClosePeriod closes the period and activates the next sequence in the
	// same transaction, returning the activated period or nil.
	ClosePeriod(ctx context.Context, id int64) (*models.AcademicPeriod, error)
	// PeriodReferenceCounts reports rows referencing the period: grade
	// entries and attendance records.
	PeriodReferenceCounts(ctx context.Context, id int64) (grades, attendance int, err error)
	// UngradedCount counts grade entries of the period whose value is NULL.
	UngradedCount(ctx context.Context, periodID int64) (int, error)
}

type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, e models.Enrollment) (int64, error)
	// ActiveEnrollmentsByCycle returns active enrollments with StudentName
	// populated, in stable id order.
	ActiveEnrollmentsByCycle(ctx context.Context, cycleID int64) ([]models.Enrollment, error)
	// FinalizeEnrollment persists one promotion decision in its own
	// transaction.
	FinalizeEnrollment(ctx context.Context, c models.EnrollmentClosure) error
	// StudentsWithEntriesInPeriod lists students having at least one grade
	// entry in the period.
	StudentsWithEntriesInPeriod(ctx context.Context, periodID int64) ([]models.User, error)
}

type GradeStore interface {
	CreateGradeEntry(ctx context.Context, e models.GradeEntry) (int64, error)
	GradeEntryByID(ctx context.Context, id int64) (*models.GradeEntry, error)
	SetGradeValue(ctx context.Context, id int64, value float64, remarks *string) error
	EntriesForStudentPeriod(ctx context.Context, studentID, periodID int64) ([]models.GradeEntry, error)
	// EntriesForStudentSubject filters by period when periodID is non-nil.
	EntriesForStudentSubject(ctx context.Context, studentID, subjectID int64, periodID *int64) ([]models.GradeEntry, error)
}

type CatalogStore interface {
	CourseByID(ctx context.Context, id int64) (*models.Course, error)
	CoursesBySite(ctx context.Context, siteID int64) ([]models.Course, error)
	SetNextCourse(ctx context.Context, courseID int64, nextCourseID *int64) error
	SubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	Categories(ctx context.Context) ([]models.GradingCategory, error)
	// ResolveGradeConfig returns the subject-specific configuration when one
	// exists, falling back to the global row. subjectID nil asks for the
	// global row directly.
	ResolveGradeConfig(ctx context.Context, subjectID *int64) (*models.GradeConfiguration, error)
}
