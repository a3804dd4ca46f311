package academics

import (
	"context"
	"fmt"
	"time"

	"github.com/edusuite/colegio/internal/models"
)

// fakeStore is an in-memory Store mirroring the SQL layer's behavior close
// enough for the engine's unit tests.
type fakeStore struct {
	nextID      int64
	cycles      map[int64]*models.AcademicCycle
	periods     map[int64]*models.AcademicPeriod
	enrollments map[int64]*models.Enrollment
	entries     map[int64]*models.GradeEntry
	categories  []models.GradingCategory
	courses     map[int64]*models.Course
	subjects    map[int64]*models.Subject
	users       map[int64]*models.User
	config      models.GradeConfiguration

	finalizeErr map[int64]error // enrollment id -> forced error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cycles:      make(map[int64]*models.AcademicCycle),
		periods:     make(map[int64]*models.AcademicPeriod),
		enrollments: make(map[int64]*models.Enrollment),
		entries:     make(map[int64]*models.GradeEntry),
		courses:     make(map[int64]*models.Course),
		subjects:    make(map[int64]*models.Subject),
		users:       make(map[int64]*models.User),
		config:      models.GradeConfiguration{MinScore: 0, MaxScore: 5, PassingThreshold: 3},
		finalizeErr: make(map[int64]error),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateCycle(_ context.Context, c models.AcademicCycle) (int64, error) {
	c.ID = f.id()
	f.cycles[c.ID] = &c
	return c.ID, nil
}

func (f *fakeStore) CycleByID(_ context.Context, id int64) (*models.AcademicCycle, error) {
	c, ok := f.cycles[id]
	if !ok {
		return nil, fmt.Errorf("ciclo: %w", ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ActiveCycle(_ context.Context) (*models.AcademicCycle, error) {
	for _, c := range f.cycles {
		if c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListCycles(_ context.Context) ([]models.AcademicCycle, error) {
	var out []models.AcademicCycle
	for _, c := range f.cycles {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) ActivateCycle(_ context.Context, id int64) error {
	c, ok := f.cycles[id]
	if !ok {
		return fmt.Errorf("ciclo: %w", ErrNotFound)
	}
	for _, other := range f.cycles {
		if other.IsActive {
			other.IsActive = false
			other.State = models.StateClosed
		}
	}
	c.IsActive = true
	c.State = models.StateActive
	for _, p := range f.periods {
		if p.CycleID == id && p.Sequence == 1 {
			p.State = models.StateActive
		}
	}
	return nil
}

func (f *fakeStore) CloseCycle(_ context.Context, id int64) error {
	c, ok := f.cycles[id]
	if !ok {
		return fmt.Errorf("ciclo: %w", ErrNotFound)
	}
	for _, p := range f.periods {
		if p.CycleID == id && p.State != models.StateClosed {
			p.State = models.StateClosed
		}
	}
	c.State = models.StateClosed
	c.IsActive = false
	return nil
}

func (f *fakeStore) CreatePeriod(_ context.Context, p models.AcademicPeriod) (int64, error) {
	p.ID = f.id()
	f.periods[p.ID] = &p
	return p.ID, nil
}

func (f *fakeStore) PeriodByID(_ context.Context, id int64) (*models.AcademicPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, fmt.Errorf("periodo: %w", ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) PeriodsByCycle(_ context.Context, cycleID int64) ([]models.AcademicPeriod, error) {
	var out []models.AcademicPeriod
	for seq := 1; seq <= len(f.periods); seq++ {
		for _, p := range f.periods {
			if p.CycleID == cycleID && p.Sequence == seq {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) UpdatePeriod(_ context.Context, p models.AcademicPeriod) error {
	cur, ok := f.periods[p.ID]
	if !ok {
		return fmt.Errorf("periodo: %w", ErrNotFound)
	}
	cur.Name, cur.StartDate, cur.EndDate = p.Name, p.StartDate, p.EndDate
	cur.GradeLockDate, cur.LeadDays = p.GradeLockDate, p.LeadDays
	return nil
}

func (f *fakeStore) DeletePeriod(_ context.Context, id int64) error {
	if _, ok := f.periods[id]; !ok {
		return fmt.Errorf("periodo: %w", ErrNotFound)
	}
	delete(f.periods, id)
	return nil
}

func (f *fakeStore) ClosePeriod(_ context.Context, id int64) (*models.AcademicPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, fmt.Errorf("periodo: %w", ErrNotFound)
	}
	p.State = models.StateClosed
	for _, next := range f.periods {
		if next.CycleID == p.CycleID && next.Sequence == p.Sequence+1 && next.State == models.StatePlanned {
			next.State = models.StateActive
			cp := *next
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) PeriodReferenceCounts(_ context.Context, id int64) (int, int, error) {
	grades := 0
	for _, e := range f.entries {
		if e.PeriodID != nil && *e.PeriodID == id {
			grades++
		}
	}
	return grades, 0, nil
}

func (f *fakeStore) UngradedCount(_ context.Context, periodID int64) (int, error) {
	n := 0
	for _, e := range f.entries {
		if e.PeriodID != nil && *e.PeriodID == periodID && e.Value == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateEnrollment(_ context.Context, e models.Enrollment) (int64, error) {
	for _, other := range f.enrollments {
		if other.StudentID == e.StudentID && other.CycleID == e.CycleID && other.Status == models.EnrollmentActive {
			return 0, &ValidationError{Reason: "el estudiante ya tiene una matrícula activa en este ciclo"}
		}
	}
	e.ID = f.id()
	if u, ok := f.users[e.StudentID]; ok {
		e.StudentName = u.Name
	}
	f.enrollments[e.ID] = &e
	return e.ID, nil
}

func (f *fakeStore) ActiveEnrollmentsByCycle(_ context.Context, cycleID int64) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for id := int64(1); id <= f.nextID; id++ {
		if e, ok := f.enrollments[id]; ok && e.CycleID == cycleID && e.Status == models.EnrollmentActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) FinalizeEnrollment(_ context.Context, c models.EnrollmentClosure) error {
	if err, ok := f.finalizeErr[c.EnrollmentID]; ok {
		return err
	}
	e, ok := f.enrollments[c.EnrollmentID]
	if !ok || e.Status != models.EnrollmentActive {
		return fmt.Errorf("matrícula activa: %w", ErrNotFound)
	}
	now := time.Now()
	e.Status = models.EnrollmentFinalized
	e.Outcome = c.Outcome
	avg := c.FinalAverage
	e.FinalAverage = &avg
	e.PromotedToCourseID = c.PromotedToCourseID
	e.PromotedAt = &now
	remarks := c.Remarks
	e.Remarks = &remarks
	return nil
}

func (f *fakeStore) StudentsWithEntriesInPeriod(_ context.Context, periodID int64) ([]models.User, error) {
	seen := make(map[int64]bool)
	var out []models.User
	for _, e := range f.entries {
		if e.PeriodID == nil || *e.PeriodID != periodID || seen[e.StudentID] {
			continue
		}
		seen[e.StudentID] = true
		if u, ok := f.users[e.StudentID]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateGradeEntry(_ context.Context, e models.GradeEntry) (int64, error) {
	e.ID = f.id()
	e.CreatedAt = time.Now()
	f.entries[e.ID] = &e
	return e.ID, nil
}

func (f *fakeStore) GradeEntryByID(_ context.Context, id int64) (*models.GradeEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, fmt.Errorf("calificación: %w", ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) SetGradeValue(_ context.Context, id int64, value float64, remarks *string) error {
	e, ok := f.entries[id]
	if !ok {
		return fmt.Errorf("calificación: %w", ErrNotFound)
	}
	e.Value = &value
	if remarks != nil {
		e.Remarks = remarks
	}
	return nil
}

func (f *fakeStore) EntriesForStudentPeriod(_ context.Context, studentID, periodID int64) ([]models.GradeEntry, error) {
	var out []models.GradeEntry
	for id := int64(1); id <= f.nextID; id++ {
		e, ok := f.entries[id]
		if ok && e.StudentID == studentID && e.PeriodID != nil && *e.PeriodID == periodID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) EntriesForStudentSubject(_ context.Context, studentID, subjectID int64, periodID *int64) ([]models.GradeEntry, error) {
	var out []models.GradeEntry
	for id := int64(1); id <= f.nextID; id++ {
		e, ok := f.entries[id]
		if !ok || e.StudentID != studentID || e.SubjectID != subjectID {
			continue
		}
		if periodID != nil && (e.PeriodID == nil || *e.PeriodID != *periodID) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) CourseByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("curso: %w", ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) CoursesBySite(_ context.Context, siteID int64) ([]models.Course, error) {
	var out []models.Course
	for _, c := range f.courses {
		if c.SiteID == siteID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) SetNextCourse(_ context.Context, courseID int64, nextCourseID *int64) error {
	c, ok := f.courses[courseID]
	if !ok {
		return fmt.Errorf("curso: %w", ErrNotFound)
	}
	c.NextCourseID = nextCourseID
	return nil
}

func (f *fakeStore) SubjectByID(_ context.Context, id int64) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, fmt.Errorf("materia: %w", ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) Categories(_ context.Context) ([]models.GradingCategory, error) {
	return f.categories, nil
}

func (f *fakeStore) ResolveGradeConfig(_ context.Context, _ *int64) (*models.GradeConfiguration, error) {
	cfg := f.config
	return &cfg, nil
}

// fakeNotifier records emitted notifications.
type fakeNotifier struct {
	promotions    []PromotionNote
	periodsClosed []int64
	cyclesDone    []int64
	lockWarnings  []int64
}

func (n *fakeNotifier) PromotionDecided(_ context.Context, note PromotionNote) {
	n.promotions = append(n.promotions, note)
}

func (n *fakeNotifier) PeriodClosed(_ context.Context, p models.AcademicPeriod) {
	n.periodsClosed = append(n.periodsClosed, p.ID)
}

func (n *fakeNotifier) CycleFinished(_ context.Context, c models.AcademicCycle, _ BatchSummary) {
	n.cyclesDone = append(n.cyclesDone, c.ID)
}

func (n *fakeNotifier) GradeLockApproaching(_ context.Context, p models.AcademicPeriod, _ int) {
	n.lockWarnings = append(n.lockWarnings, p.ID)
}

// fakeSink records report generation calls.
type fakeSink struct {
	periodReports []int64
	cycleReports  []int64
	lastRows      []OutcomeRow
}

func (s *fakeSink) PeriodReport(_ context.Context, p models.AcademicPeriod, _ []PeriodReportRow) error {
	s.periodReports = append(s.periodReports, p.ID)
	return nil
}

func (s *fakeSink) CycleReport(_ context.Context, c models.AcademicCycle, _ BatchSummary, rows []OutcomeRow) error {
	s.cycleReports = append(s.cycleReports, c.ID)
	s.lastRows = rows
	return nil
}
