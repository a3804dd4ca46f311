package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Store) CreateSite(ctx context.Context, name string) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sites (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "sede", "ya existe una sede con ese nombre")
	}
	return id, nil
}

func (s *Store) CreateCourse(ctx context.Context, c models.Course) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO courses (site_id, name, grade_level, next_course_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		c.SiteID, c.Name, c.GradeLevel, c.NextCourseID).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "curso", "ya existe un curso con ese nombre en la sede")
	}
	return id, nil
}

func (s *Store) CourseByID(ctx context.Context, id int64) (*models.Course, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var c models.Course
	err := s.db.QueryRowContext(ctx, `
		SELECT id, site_id, name, grade_level, next_course_id
		FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.SiteID, &c.Name, &c.GradeLevel, &c.NextCourseID)
	if err != nil {
		return nil, mapErr(err, "curso", "")
	}
	return &c, nil
}

func (s *Store) CoursesBySite(ctx context.Context, siteID int64) ([]models.Course, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, name, grade_level, next_course_id
		FROM courses WHERE site_id = $1 ORDER BY grade_level, name`, siteID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.SiteID, &c.Name, &c.GradeLevel, &c.NextCourseID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) SetNextCourse(ctx context.Context, courseID int64, nextCourseID *int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET next_course_id = $1 WHERE id = $2`, nextCourseID, courseID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return mapErr(sql.ErrNoRows, "curso", "")
	}
	return nil
}

func (s *Store) CreateSubject(ctx context.Context, sub models.Subject) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subjects (course_id, name) VALUES ($1, $2) RETURNING id`,
		sub.CourseID, sub.Name).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "materia", "ya existe una materia con ese nombre en el curso")
	}
	return id, nil
}

func (s *Store) SubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var sub models.Subject
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_id, name FROM subjects WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.CourseID, &sub.Name)
	if err != nil {
		return nil, mapErr(err, "materia", "")
	}
	return &sub, nil
}

func (s *Store) Categories(ctx context.Context) ([]models.GradingCategory, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, weight, is_active FROM grading_categories
		WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.GradingCategory
	for rows.Next() {
		var c models.GradingCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Weight, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, name string, weight float64) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO grading_categories (name, weight) VALUES ($1, $2) RETURNING id`,
		name, weight).Scan(&id)
	if err != nil {
		return 0, mapErr(err, "categoría", "ya existe una categoría con ese nombre")
	}
	return id, nil
}

// ResolveGradeConfig prefers the subject-specific row and falls back to the
// global one (subject_id IS NULL). A nil subjectID asks for the global row
// directly, which the promotion engine uses for the passing threshold.
func (s *Store) ResolveGradeConfig(ctx context.Context, subjectID *int64) (*models.GradeConfiguration, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var cfg models.GradeConfiguration
	if subjectID != nil {
		err := s.db.QueryRowContext(ctx, `
			SELECT id, subject_id, min_score, max_score, passing_threshold
			FROM grade_configurations WHERE subject_id = $1`, *subjectID,
		).Scan(&cfg.ID, &cfg.SubjectID, &cfg.MinScore, &cfg.MaxScore, &cfg.PassingThreshold)
		if err == nil {
			return &cfg, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, subject_id, min_score, max_score, passing_threshold
		FROM grade_configurations WHERE subject_id IS NULL`,
	).Scan(&cfg.ID, &cfg.SubjectID, &cfg.MinScore, &cfg.MaxScore, &cfg.PassingThreshold)
	if err != nil {
		return nil, mapErr(err, "configuración de calificaciones", "")
	}
	return &cfg, nil
}

func (s *Store) UpsertGradeConfig(ctx context.Context, cfg models.GradeConfiguration) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if cfg.SubjectID == nil {
		_, err := s.db.ExecContext(ctx, `
			UPDATE grade_configurations
			SET min_score = $1, max_score = $2, passing_threshold = $3
			WHERE subject_id IS NULL`,
			cfg.MinScore, cfg.MaxScore, cfg.PassingThreshold)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grade_configurations (subject_id, min_score, max_score, passing_threshold)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id) DO UPDATE
		SET min_score = EXCLUDED.min_score,
		    max_score = EXCLUDED.max_score,
		    passing_threshold = EXCLUDED.passing_threshold`,
		*cfg.SubjectID, cfg.MinScore, cfg.MaxScore, cfg.PassingThreshold)
	return err
}
