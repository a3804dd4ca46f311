package db

import (
	"context"
	"database/sql"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Store) CreateEnrollment(ctx context.Context, e models.Enrollment) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO enrollments (student_id, course_id, cycle_id, status, outcome)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.StudentID, e.CourseID, e.CycleID, e.Status, e.Outcome,
	).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "matrícula", "el estudiante ya tiene una matrícula activa en este ciclo")
	}
	return id, nil
}

func (s *Store) ActiveEnrollmentsByCycle(ctx context.Context, cycleID int64) ([]models.Enrollment, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.student_id, e.course_id, e.cycle_id, e.status, e.outcome,
		       e.final_average, e.promoted_to_course_id, e.promoted_at, e.remarks,
		       u.name AS student_name
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.cycle_id = $1 AND e.status = 'active'
		ORDER BY e.id`, cycleID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.CycleID, &e.Status, &e.Outcome,
			&e.FinalAverage, &e.PromotedToCourseID, &e.PromotedAt, &e.Remarks, &e.StudentName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FinalizeEnrollment commits one promotion decision. Its own transaction: a
// failure here leaves every other student's already-committed outcome
// untouched.
func (s *Store) FinalizeEnrollment(ctx context.Context, c models.EnrollmentClosure) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE enrollments
		SET status = 'finalized', outcome = $1, final_average = $2,
		    promoted_to_course_id = $3, promoted_at = now(), remarks = $4
		WHERE id = $5 AND status = 'active'`,
		c.Outcome, c.FinalAverage, c.PromotedToCourseID, c.Remarks, c.EnrollmentID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "matrícula activa", "")
	}
	return nil
}

func (s *Store) StudentsWithEntriesInPeriod(ctx context.Context, periodID int64) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT u.id, u.name, u.role, u.is_active
		FROM users u
		JOIN grade_entries g ON g.student_id = u.id
		WHERE g.period_id = $1
		ORDER BY u.name`, periodID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
