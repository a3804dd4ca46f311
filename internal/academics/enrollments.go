package academics

import (
	"context"

	"github.com/edusuite/colegio/internal/models"
)

// EnrollStudent registers a student into a course for a cycle. The database
// rejects a second active enrollment for the same student and cycle.
func (s *Service) EnrollStudent(ctx context.Context, studentID, courseID, cycleID int64) (*models.Enrollment, error) {
	cycle, err := s.store.CycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.State == models.StateClosed {
		return nil, preconditionf(0, "el ciclo %s está cerrado", cycle.Name)
	}
	if _, err := s.store.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	e := models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		CycleID:   cycleID,
		Status:    models.EnrollmentActive,
		Outcome:   models.OutcomeInProgress,
	}
	id, err := s.store.CreateEnrollment(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

func (s *Service) ActiveEnrollments(ctx context.Context, cycleID int64) ([]models.Enrollment, error) {
	return s.store.ActiveEnrollmentsByCycle(ctx, cycleID)
}

// SetNextCourse points a course at its promotion target. Both courses must
// belong to the same site; a nil target marks a terminal grade.
func (s *Service) SetNextCourse(ctx context.Context, courseID int64, nextCourseID *int64) error {
	course, err := s.store.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if nextCourseID != nil {
		if *nextCourseID == courseID {
			return validationf("un curso no puede ser su propio curso siguiente")
		}
		next, err := s.store.CourseByID(ctx, *nextCourseID)
		if err != nil {
			return err
		}
		if next.SiteID != course.SiteID {
			return validationf("el curso siguiente debe pertenecer a la misma sede")
		}
	}
	return s.store.SetNextCourse(ctx, courseID, nextCourseID)
}
