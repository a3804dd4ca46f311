package academics

import (
	"context"
	"fmt"

	"github.com/edusuite/colegio/internal/models"
)

// FinalizeCycle runs the end-of-cycle promotion batch. Every active
// enrollment is processed sequentially and best-effort: one student's
// failure lands in the summary's error list and never aborts or rolls back
// the others. Each decision commits in its own transaction. Afterwards the
// cycle and its remaining open periods are closed, the closure report is
// generated and a cycle-finished notification is emitted.
func (s *Service) FinalizeCycle(ctx context.Context, cycleID int64) (*BatchSummary, error) {
	cycle, err := s.store.CycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.State == models.StateClosed {
		return nil, preconditionf(0, "el ciclo %s ya está cerrado", cycle.Name)
	}

	cfg, err := s.store.ResolveGradeConfig(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("configuración de calificaciones: %w", err)
	}
	enrollments, err := s.store.ActiveEnrollmentsByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Total: len(enrollments)}
	rows := make([]OutcomeRow, 0, len(enrollments))
	for _, e := range enrollments {
		row, err := s.finalizeEnrollment(ctx, e, cfg.PassingThreshold)
		if err != nil {
			s.log.Warnw("promoción omitida", "student_id", e.StudentID, "err", err)
			summary.Errors = append(summary.Errors, BatchError{
				StudentID:   e.StudentID,
				StudentName: e.StudentName,
				Message:     err.Error(),
			})
			rows = append(rows, OutcomeRow{
				StudentName: e.StudentName,
				Outcome:     models.OutcomeInProgress,
				Remarks:     err.Error(),
			})
			continue
		}
		switch row.Outcome {
		case models.OutcomePromoted:
			summary.Promoted++
		case models.OutcomeRepeats:
			summary.Repeats++
		case models.OutcomeGraduated:
			summary.Graduated++
		}
		rows = append(rows, *row)
	}

	if err := s.store.CloseCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	cycle.State = models.StateClosed
	cycle.IsActive = false
	s.log.Infow("ciclo finalizado",
		"cycle_id", cycleID,
		"total", summary.Total,
		"promoted", summary.Promoted,
		"repeats", summary.Repeats,
		"graduated", summary.Graduated,
		"errors", len(summary.Errors),
	)

	if err := s.reports.CycleReport(ctx, *cycle, *summary, rows); err != nil {
		s.log.Errorw("reporte de cierre de ciclo", "cycle_id", cycleID, "err", err)
	}
	s.notifier.CycleFinished(ctx, *cycle, *summary)
	return summary, nil
}

// finalizeEnrollment decides and persists one student's outcome. The course
// pointer, not name parsing, resolves the promotion target: a course without
// next_course_id is a terminal grade and its promoted students graduate.
func (s *Service) finalizeEnrollment(ctx context.Context, e models.Enrollment, threshold float64) (*OutcomeRow, error) {
	avg, err := s.StudentCycleAverage(ctx, e.StudentID, e.CycleID)
	if err != nil {
		return nil, err
	}
	course, err := s.store.CourseByID(ctx, e.CourseID)
	if err != nil {
		return nil, err
	}

	closure := models.EnrollmentClosure{
		EnrollmentID: e.ID,
		FinalAverage: avg,
	}
	switch {
	case avg >= threshold && course.NextCourseID != nil:
		closure.Outcome = models.OutcomePromoted
		closure.PromotedToCourseID = course.NextCourseID
		closure.Remarks = fmt.Sprintf("Promovido con promedio %.2f", avg)
	case avg >= threshold:
		closure.Outcome = models.OutcomeGraduated
		closure.Remarks = fmt.Sprintf("¡Graduado! Promedio final: %.2f", avg)
	default:
		closure.Outcome = models.OutcomeRepeats
		closure.PromotedToCourseID = &course.ID
		closure.Remarks = fmt.Sprintf("Reprobado con promedio %.2f. Debe repetir el grado.", avg)
	}

	if err := s.store.FinalizeEnrollment(ctx, closure); err != nil {
		return nil, err
	}
	s.notifier.PromotionDecided(ctx, PromotionNote{
		StudentID:      e.StudentID,
		StudentName:    e.StudentName,
		Outcome:        closure.Outcome,
		Average:        avg,
		TargetCourseID: closure.PromotedToCourseID,
	})
	return &OutcomeRow{
		StudentName: e.StudentName,
		CourseName:  course.Name,
		Average:     &avg,
		Outcome:     closure.Outcome,
		Remarks:     closure.Remarks,
	}, nil
}
