package db

import (
	"context"
	"database/sql"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, role, is_active) VALUES ($1, $2, TRUE) RETURNING id`,
		u.Name, u.Role).Scan(&id)
	return id, err
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, role, is_active FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.IsActive)
	if err != nil {
		return nil, mapErr(err, "usuario", "")
	}
	return &u, nil
}

func (s *Store) SetUserActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "usuario", "")
	}
	return nil
}

// RecordAttendance registers one attendance mark; duplicate marks for the
// same student, period and day are upserted.
func (s *Store) RecordAttendance(ctx context.Context, studentID, periodID int64, day string, present bool) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (student_id, period_id, day, present)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, period_id, day) DO UPDATE SET present = EXCLUDED.present`,
		studentID, periodID, day, present)
	return err
}
