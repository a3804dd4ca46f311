package db

import (
	"context"
	"database/sql"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

const gradeColumns = `id, student_id, subject_id, category_id, value, remarks, period_id, created_at, graded_at`

func scanGrade(row interface{ Scan(...any) error }) (*models.GradeEntry, error) {
	var g models.GradeEntry
	err := row.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.CategoryID, &g.Value,
		&g.Remarks, &g.PeriodID, &g.CreatedAt, &g.GradedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) CreateGradeEntry(ctx context.Context, e models.GradeEntry) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO grade_entries (student_id, subject_id, category_id, value, remarks, period_id, graded_at)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $4::numeric IS NULL THEN NULL ELSE now() END)
		RETURNING id`,
		e.StudentID, e.SubjectID, e.CategoryID, e.Value, e.Remarks, e.PeriodID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GradeEntryByID(ctx context.Context, id int64) (*models.GradeEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	g, err := scanGrade(s.db.QueryRowContext(ctx,
		`SELECT `+gradeColumns+` FROM grade_entries WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "calificación", "")
	}
	return g, nil
}

func (s *Store) SetGradeValue(ctx context.Context, id int64, value float64, remarks *string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE grade_entries
		SET value = $1, remarks = COALESCE($2, remarks), graded_at = now()
		WHERE id = $3`,
		value, remarks, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "calificación", "")
	}
	return nil
}

func (s *Store) EntriesForStudentPeriod(ctx context.Context, studentID, periodID int64) ([]models.GradeEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gradeColumns+` FROM grade_entries
		 WHERE student_id = $1 AND period_id = $2 ORDER BY id`,
		studentID, periodID)
	if err != nil {
		return nil, err
	}
	return collectGrades(rows)
}

func (s *Store) EntriesForStudentSubject(ctx context.Context, studentID, subjectID int64, periodID *int64) ([]models.GradeEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + gradeColumns + ` FROM grade_entries WHERE student_id = $1 AND subject_id = $2`
	args := []any{studentID, subjectID}
	if periodID != nil {
		query += ` AND period_id = $3`
		args = append(args, *periodID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectGrades(rows)
}

func collectGrades(rows *sql.Rows) ([]models.GradeEntry, error) {
	defer func() { _ = rows.Close() }()
	var out []models.GradeEntry
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
