package academics

import (
	"context"

	"github.com/edusuite/colegio/internal/models"
)

// CreatePeriod adds a grading period to a not-yet-closed cycle. The date
// range must sit inside the cycle's range and may not overlap a sibling
// period; sequence numbers are unique per cycle (also enforced by the
// database).
func (s *Service) CreatePeriod(ctx context.Context, p models.AcademicPeriod) (*models.AcademicPeriod, error) {
	cycle, err := s.store.CycleByID(ctx, p.CycleID)
	if err != nil {
		return nil, err
	}
	if cycle.State == models.StateClosed {
		return nil, preconditionf(0, "el ciclo %s está cerrado", cycle.Name)
	}
	siblings, err := s.store.PeriodsByCycle(ctx, p.CycleID)
	if err != nil {
		return nil, err
	}
	if err := validatePeriodDates(p, *cycle, siblings, 0); err != nil {
		return nil, err
	}

	p.State = models.StatePlanned
	id, err := s.store.CreatePeriod(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	s.log.Infow("periodo creado", "period_id", id, "cycle_id", p.CycleID, "sequence", p.Sequence)
	return &p, nil
}

// UpdatePeriod edits a period's name and dates. Closed periods are
// immutable.
func (s *Service) UpdatePeriod(ctx context.Context, p models.AcademicPeriod) error {
	current, err := s.store.PeriodByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.State == models.StateClosed {
		return preconditionf(0, "el periodo %s está cerrado y no puede editarse", current.Name)
	}
	cycle, err := s.store.CycleByID(ctx, current.CycleID)
	if err != nil {
		return err
	}
	siblings, err := s.store.PeriodsByCycle(ctx, current.CycleID)
	if err != nil {
		return err
	}
	p.CycleID = current.CycleID
	p.Sequence = current.Sequence
	p.State = current.State
	if err := validatePeriodDates(p, *cycle, siblings, p.ID); err != nil {
		return err
	}
	return s.store.UpdatePeriod(ctx, p)
}

// DeletePeriod removes a planned period with no referencing rows. Active and
// closed periods, and periods already referenced by grade entries or
// attendance records, are protected.
func (s *Service) DeletePeriod(ctx context.Context, id int64) error {
	p, err := s.store.PeriodByID(ctx, id)
	if err != nil {
		return err
	}
	if p.State != models.StatePlanned {
		return preconditionf(0, "el periodo %s está %s y no puede eliminarse", p.Name, p.State)
	}
	grades, attendance, err := s.store.PeriodReferenceCounts(ctx, id)
	if err != nil {
		return err
	}
	if grades > 0 || attendance > 0 {
		return &ReferentialError{
			Reason: "el periodo tiene registros asociados (calificaciones o asistencias)",
		}
	}
	return s.store.DeletePeriod(ctx, id)
}

// ClosePeriod closes an active period. Precondition: every grade entry
// scoped to the period carries a value; any ungraded entry blocks the close
// with the blocking count. On success the next sequence (if any) is
// activated in the same transaction, then notification and report generation
// fire best-effort.
func (s *Service) ClosePeriod(ctx context.Context, id int64) error {
	p, err := s.store.PeriodByID(ctx, id)
	if err != nil {
		return err
	}
	if p.State == models.StateClosed {
		return preconditionf(0, "el periodo %s ya está cerrado", p.Name)
	}
	missing, err := s.store.UngradedCount(ctx, id)
	if err != nil {
		return err
	}
	if missing > 0 {
		return preconditionf(missing, "no se puede cerrar el periodo %s: faltan %d calificaciones", p.Name, missing)
	}

	next, err := s.store.ClosePeriod(ctx, id)
	if err != nil {
		return err
	}
	p.State = models.StateClosed
	s.log.Infow("periodo cerrado", "period_id", id, "next_activated", next != nil)

	s.notifier.PeriodClosed(ctx, *p)
	s.emitPeriodReport(ctx, *p)
	return nil
}

func (s *Service) Periods(ctx context.Context, cycleID int64) ([]models.AcademicPeriod, error) {
	return s.store.PeriodsByCycle(ctx, cycleID)
}

// emitPeriodReport assembles per-student weighted averages for the period
// and hands them to the report sink. Report failures are logged only.
func (s *Service) emitPeriodReport(ctx context.Context, p models.AcademicPeriod) {
	students, err := s.store.StudentsWithEntriesInPeriod(ctx, p.ID)
	if err != nil {
		s.log.Errorw("reporte de periodo: listado de estudiantes", "period_id", p.ID, "err", err)
		return
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		s.log.Errorw("reporte de periodo: categorías", "period_id", p.ID, "err", err)
		return
	}
	rows := make([]PeriodReportRow, 0, len(students))
	for _, st := range students {
		entries, err := s.store.EntriesForStudentPeriod(ctx, st.ID, p.ID)
		if err != nil {
			s.log.Errorw("reporte de periodo: calificaciones", "student_id", st.ID, "err", err)
			continue
		}
		agg := WeightedAverage(entries, categories)
		rows = append(rows, PeriodReportRow{StudentName: st.Name, Average: agg.Average, Graded: agg.Count})
	}
	if err := s.reports.PeriodReport(ctx, p, rows); err != nil {
		s.log.Errorw("reporte de periodo", "period_id", p.ID, "err", err)
	}
}

// validatePeriodDates checks ordering, containment in the cycle and overlap
// against sibling periods. excludeID skips the period being edited.
func validatePeriodDates(p models.AcademicPeriod, cycle models.AcademicCycle, siblings []models.AcademicPeriod, excludeID int64) error {
	if p.Sequence < 1 {
		return validationf("la secuencia del periodo debe ser 1 o mayor")
	}
	if !p.StartDate.Before(p.EndDate) {
		return validationf("la fecha de inicio del periodo debe ser anterior a la de fin")
	}
	if p.StartDate.Before(cycle.StartDate) || p.EndDate.After(cycle.EndDate) {
		return validationf("el periodo debe estar contenido en las fechas del ciclo %s", cycle.Name)
	}
	if p.GradeLockDate.Before(p.StartDate) {
		return validationf("la fecha de cierre de calificaciones no puede ser anterior al inicio del periodo")
	}
	if p.LeadDays < 0 {
		return validationf("los días de antelación no pueden ser negativos")
	}
	for _, sib := range siblings {
		if sib.ID == excludeID {
			continue
		}
		if sib.Sequence == p.Sequence {
			return validationf("ya existe un periodo con secuencia %d en el ciclo", p.Sequence)
		}
		if p.StartDate.Before(sib.EndDate) && sib.StartDate.Before(p.EndDate) {
			return validationf("las fechas se solapan con el periodo %s", sib.Name)
		}
	}
	return nil
}
