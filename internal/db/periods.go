package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

const periodColumns = `id, cycle_id, sequence, name, start_date, end_date, grade_lock_date, lead_days, state`

func scanPeriod(row interface{ Scan(...any) error }) (*models.AcademicPeriod, error) {
	var p models.AcademicPeriod
	err := row.Scan(&p.ID, &p.CycleID, &p.Sequence, &p.Name, &p.StartDate, &p.EndDate,
		&p.GradeLockDate, &p.LeadDays, &p.State)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePeriod(ctx context.Context, p models.AcademicPeriod) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO academic_periods (cycle_id, sequence, name, start_date, end_date, grade_lock_date, lead_days, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.CycleID, p.Sequence, p.Name, p.StartDate, p.EndDate, p.GradeLockDate, p.LeadDays, p.State,
	).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "periodo", "ya existe un periodo con esa secuencia en el ciclo")
	}
	return id, nil
}

func (s *Store) PeriodByID(ctx context.Context, id int64) (*models.AcademicPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	p, err := scanPeriod(s.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM academic_periods WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "periodo", "")
	}
	return p, nil
}

func (s *Store) PeriodsByCycle(ctx context.Context, cycleID int64) ([]models.AcademicPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+periodColumns+` FROM academic_periods WHERE cycle_id = $1 ORDER BY sequence`, cycleID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AcademicPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePeriod(ctx context.Context, p models.AcademicPeriod) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE academic_periods
		SET name = $1, start_date = $2, end_date = $3, grade_lock_date = $4, lead_days = $5
		WHERE id = $6`,
		p.Name, p.StartDate, p.EndDate, p.GradeLockDate, p.LeadDays, p.ID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "periodo", "")
	}
	return nil
}

func (s *Store) DeletePeriod(ctx context.Context, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM academic_periods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "periodo", "")
	}
	return nil
}

// ClosePeriod closes the period and activates sequence+1 of the same cycle
// in one transaction. Returns the newly activated period, or nil when this
// was the last one.
func (s *Store) ClosePeriod(ctx context.Context, id int64) (*models.AcademicPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var next *models.AcademicPeriod
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var cycleID int64
		var sequence int
		err := tx.QueryRowContext(ctx, `
			UPDATE academic_periods SET state = 'closed'
			WHERE id = $1 AND state <> 'closed'
			RETURNING cycle_id, sequence`, id).Scan(&cycleID, &sequence)
		if err != nil {
			return err
		}
		p, err := scanPeriod(tx.QueryRowContext(ctx, `
			UPDATE academic_periods SET state = 'active'
			WHERE cycle_id = $1 AND sequence = $2 AND state = 'planned'
			RETURNING `+periodColumns, cycleID, sequence+1))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		next = p
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "periodo", "")
	}
	return next, nil
}

func (s *Store) PeriodReferenceCounts(ctx context.Context, id int64) (grades, attendance int, err error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM grade_entries WHERE period_id = $1),
			(SELECT count(*) FROM attendance WHERE period_id = $1)`,
		id).Scan(&grades, &attendance)
	return grades, attendance, err
}

func (s *Store) UngradedCount(ctx context.Context, periodID int64) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM grade_entries WHERE period_id = $1 AND value IS NULL`,
		periodID).Scan(&n)
	return n, err
}
