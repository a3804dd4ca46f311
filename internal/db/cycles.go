package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Store) CreateCycle(ctx context.Context, c models.AcademicCycle) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO academic_cycles (name, start_date, end_date, state, is_active)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`,
		c.Name, c.StartDate, c.EndDate, c.State,
	).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "ciclo", "ya existe un ciclo con ese nombre")
	}
	return id, nil
}

func (s *Store) CycleByID(ctx context.Context, id int64) (*models.AcademicCycle, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var c models.AcademicCycle
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, state, is_active
		FROM academic_cycles WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.State, &c.IsActive)
	if err != nil {
		return nil, mapErr(err, "ciclo", "")
	}
	return &c, nil
}

func (s *Store) ActiveCycle(ctx context.Context) (*models.AcademicCycle, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var c models.AcademicCycle
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, state, is_active
		FROM academic_cycles WHERE is_active LIMIT 1`,
	).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.State, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCycles(ctx context.Context) ([]models.AcademicCycle, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_date, end_date, state, is_active
		FROM academic_cycles ORDER BY start_date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AcademicCycle
	for rows.Next() {
		var c models.AcademicCycle
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.State, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ActivateCycle demotes the current active cycle (if any), promotes this one
// and activates its first period, atomically. The partial unique index on
// is_active turns a lost race into a unique violation instead of a second
// active cycle.
func (s *Store) ActivateCycle(ctx context.Context, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE academic_cycles SET is_active = FALSE, state = 'closed' WHERE is_active`); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE academic_cycles SET is_active = TRUE, state = 'active' WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return sql.ErrNoRows
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE academic_periods SET state = 'active' WHERE cycle_id = $1 AND sequence = 1`, id)
		return err
	})
	return mapErr(err, "ciclo", "otro ciclo fue activado de forma concurrente")
}

// CloseCycle closes every open period of the cycle and the cycle itself in
// one transaction; the terminal step of finalization.
func (s *Store) CloseCycle(ctx context.Context, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE academic_periods SET state = 'closed'
			WHERE cycle_id = $1 AND state <> 'closed'`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE academic_cycles SET state = 'closed', is_active = FALSE WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	return mapErr(err, "ciclo", "")
}
