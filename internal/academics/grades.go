package academics

import (
	"context"

	"github.com/edusuite/colegio/internal/models"
)

// CreateGradeEntry registers an assessment item. The value is optional; an
// ungraded entry blocks closure of its period until a value is set. When a
// value is present it must fall within the resolved [min, max] range for the
// subject.
func (s *Service) CreateGradeEntry(ctx context.Context, e models.GradeEntry) (*models.GradeEntry, error) {
	if e.Value != nil {
		if err := s.checkValueBounds(ctx, e.SubjectID, *e.Value); err != nil {
			return nil, err
		}
	}
	if e.PeriodID != nil {
		p, err := s.store.PeriodByID(ctx, *e.PeriodID)
		if err != nil {
			return nil, err
		}
		if p.State == models.StateClosed {
			return nil, preconditionf(0, "el periodo %s está cerrado", p.Name)
		}
	}
	id, err := s.store.CreateGradeEntry(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

// SetGradeValue enters or edits a score, validated against the subject's
// configured bounds. Entries in closed periods are immutable.
func (s *Service) SetGradeValue(ctx context.Context, entryID int64, value float64, remarks *string) error {
	e, err := s.store.GradeEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.PeriodID != nil {
		p, err := s.store.PeriodByID(ctx, *e.PeriodID)
		if err != nil {
			return err
		}
		if p.State == models.StateClosed {
			return preconditionf(0, "el periodo %s está cerrado", p.Name)
		}
	}
	if err := s.checkValueBounds(ctx, e.SubjectID, value); err != nil {
		return err
	}
	return s.store.SetGradeValue(ctx, entryID, value, remarks)
}

// SubjectAverage is the student's weighted average in one subject,
// optionally restricted to a period.
func (s *Service) SubjectAverage(ctx context.Context, studentID, subjectID int64, periodID *int64) (Aggregate, error) {
	entries, err := s.store.EntriesForStudentSubject(ctx, studentID, subjectID, periodID)
	if err != nil {
		return Aggregate{}, err
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return Aggregate{}, err
	}
	return WeightedAverage(entries, categories), nil
}

// PeriodAverage is the student's weighted average over every graded entry in
// the period.
func (s *Service) PeriodAverage(ctx context.Context, studentID, periodID int64) (Aggregate, error) {
	entries, err := s.store.EntriesForStudentPeriod(ctx, studentID, periodID)
	if err != nil {
		return Aggregate{}, err
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return Aggregate{}, err
	}
	return WeightedAverage(entries, categories), nil
}

// StudentCycleAverage feeds the promotion engine: the mean of the student's
// period averages over periods with at least one graded entry. Returns
// ErrNoGradeData when no period has entries.
func (s *Service) StudentCycleAverage(ctx context.Context, studentID, cycleID int64) (float64, error) {
	periods, err := s.store.PeriodsByCycle(ctx, cycleID)
	if err != nil {
		return 0, err
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return 0, err
	}
	aggs := make([]Aggregate, 0, len(periods))
	for _, p := range periods {
		entries, err := s.store.EntriesForStudentPeriod(ctx, studentID, p.ID)
		if err != nil {
			return 0, err
		}
		aggs = append(aggs, WeightedAverage(entries, categories))
	}
	return CycleAverage(aggs)
}

func (s *Service) checkValueBounds(ctx context.Context, subjectID int64, value float64) error {
	cfg, err := s.store.ResolveGradeConfig(ctx, &subjectID)
	if err != nil {
		return err
	}
	if value < cfg.MinScore || value > cfg.MaxScore {
		return validationf("la nota %.2f está fuera del rango permitido [%.2f, %.2f]", value, cfg.MinScore, cfg.MaxScore)
	}
	return nil
}
