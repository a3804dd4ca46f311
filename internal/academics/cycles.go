package academics

import (
	"context"
	"time"

	"github.com/edusuite/colegio/internal/models"
)

// CreateCycle registers a new school-year cycle in planned state. Creation
// is rejected while another cycle is active.
func (s *Service) CreateCycle(ctx context.Context, name string, start, end time.Time) (*models.AcademicCycle, error) {
	if name == "" {
		return nil, validationf("el nombre del ciclo es obligatorio")
	}
	if !start.Before(end) {
		return nil, validationf("la fecha de inicio debe ser anterior a la fecha de fin")
	}
	active, err := s.store.ActiveCycle(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, validationf("ya existe un ciclo activo: %s", active.Name)
	}

	c := models.AcademicCycle{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		State:     models.StatePlanned,
	}
	id, err := s.store.CreateCycle(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	s.log.Infow("ciclo creado", "cycle_id", id, "name", name)
	return &c, nil
}

// ActivateCycle makes the cycle the single active one and activates its
// sequence-1 period. Any previously active cycle is demoted to closed in the
// same transaction; the partial unique index on is_active backstops the
// invariant against concurrent activations.
func (s *Service) ActivateCycle(ctx context.Context, cycleID int64) error {
	cycle, err := s.store.CycleByID(ctx, cycleID)
	if err != nil {
		return err
	}
	if cycle.State == models.StateClosed {
		return preconditionf(0, "el ciclo %s ya está cerrado", cycle.Name)
	}
	if cycle.State == models.StateActive {
		return preconditionf(0, "el ciclo %s ya está activo", cycle.Name)
	}
	periods, err := s.store.PeriodsByCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		return preconditionf(0, "el ciclo %s no tiene periodos configurados", cycle.Name)
	}

	if err := s.store.ActivateCycle(ctx, cycleID); err != nil {
		return err
	}
	s.log.Infow("ciclo activado", "cycle_id", cycleID, "periods", len(periods))
	return nil
}

func (s *Service) Cycles(ctx context.Context) ([]models.AcademicCycle, error) {
	return s.store.ListCycles(ctx)
}

func (s *Service) Cycle(ctx context.Context, id int64) (*models.AcademicCycle, error) {
	return s.store.CycleByID(ctx, id)
}
