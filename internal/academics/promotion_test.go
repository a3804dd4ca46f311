package academics

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/models"
)

func newTestService(store *fakeStore) (*Service, *fakeNotifier, *fakeSink) {
	notifier := &fakeNotifier{}
	sink := &fakeSink{}
	return NewService(zap.NewNop().Sugar(), store, notifier, sink), notifier, sink
}

const (
	testCycleID    = 1
	testPeriod1ID  = 2
	testPeriod2ID  = 3
	testNinthID    = 10
	testEleventhID = 11
)

// seedWorld builds an active cycle with two periods, a single 100% grading
// category and two courses: "Noveno A" promoting into "Undécimo A", which is
// terminal.
func seedWorld(f *fakeStore) {
	start := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	f.cycles[testCycleID] = &models.AcademicCycle{
		ID: testCycleID, Name: "2026", StartDate: start, EndDate: end,
		State: models.StateActive, IsActive: true,
	}
	f.periods[testPeriod1ID] = &models.AcademicPeriod{
		ID: testPeriod1ID, CycleID: testCycleID, Sequence: 1, Name: "Primer Semestre",
		StartDate: start, EndDate: start.AddDate(0, 5, 0),
		GradeLockDate: start.AddDate(0, 5, 0), LeadDays: 3,
		State: models.StateActive,
	}
	f.periods[testPeriod2ID] = &models.AcademicPeriod{
		ID: testPeriod2ID, CycleID: testCycleID, Sequence: 2, Name: "Segundo Semestre",
		StartDate: start.AddDate(0, 6, 0), EndDate: start.AddDate(0, 9, 0),
		GradeLockDate: start.AddDate(0, 9, 0), LeadDays: 3,
		State: models.StatePlanned,
	}
	f.categories = []models.GradingCategory{{ID: 1, Name: "General", Weight: 100, IsActive: true}}

	next := int64(testEleventhID)
	f.courses[testNinthID] = &models.Course{ID: testNinthID, SiteID: 1, Name: "Noveno A", GradeLevel: 9, NextCourseID: &next}
	f.courses[testEleventhID] = &models.Course{ID: testEleventhID, SiteID: 1, Name: "Undécimo A", GradeLevel: 11}
	f.nextID = 100
}

// enroll adds a student with an active enrollment and returns the enrollment
// id.
func enroll(f *fakeStore, name string, courseID int64) int64 {
	studentID := f.id()
	f.users[studentID] = &models.User{ID: studentID, Name: name, Role: models.Student, IsActive: true}
	enrollmentID := f.id()
	f.enrollments[enrollmentID] = &models.Enrollment{
		ID: enrollmentID, StudentID: studentID, CourseID: courseID, CycleID: testCycleID,
		Status: models.EnrollmentActive, Outcome: models.OutcomeInProgress,
		StudentName: name,
	}
	return enrollmentID
}

// grade records a graded entry for the enrollment's student in a period.
func grade(f *fakeStore, enrollmentID, periodID int64, value float64) {
	e := f.enrollments[enrollmentID]
	id := f.id()
	pid := periodID
	f.entries[id] = &models.GradeEntry{
		ID: id, StudentID: e.StudentID, SubjectID: 1, CategoryID: 1,
		Value: &value, PeriodID: &pid,
	}
}

func TestStudentCycleAverage(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, _, _ := newTestService(f)
	ctx := context.Background()

	enrollmentID := enroll(f, "Ana Gómez", testNinthID)
	studentID := f.enrollments[enrollmentID].StudentID
	grade(f, enrollmentID, testPeriod1ID, 4)
	grade(f, enrollmentID, testPeriod1ID, 3)
	grade(f, enrollmentID, testPeriod2ID, 3)

	avg, err := svc.StudentCycleAverage(ctx, studentID, testCycleID)
	if err != nil {
		t.Fatalf("StudentCycleAverage: %v", err)
	}
	// period 1 -> 3.5, period 2 -> 3.0, cycle -> 3.25
	if avg != 3.25 {
		t.Fatalf("avg = %v, want 3.25", avg)
	}

	t.Run("period without entries is excluded, not counted as zero", func(t *testing.T) {
		other := enroll(f, "Luis Pardo", testNinthID)
		grade(f, other, testPeriod1ID, 4)
		avg, err := svc.StudentCycleAverage(ctx, f.enrollments[other].StudentID, testCycleID)
		if err != nil {
			t.Fatalf("StudentCycleAverage: %v", err)
		}
		if avg != 4 {
			t.Fatalf("avg = %v, want 4", avg)
		}
	})
}

func TestFinalizeCyclePromotesAtThreshold(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, notifier, sink := newTestService(f)
	ctx := context.Background()

	// Exactly at the 3.00 threshold: promoted, not repeating.
	enrollmentID := enroll(f, "Ana Gómez", testNinthID)
	grade(f, enrollmentID, testPeriod1ID, 3)
	grade(f, enrollmentID, testPeriod2ID, 3)

	summary, err := svc.FinalizeCycle(ctx, testCycleID)
	if err != nil {
		t.Fatalf("FinalizeCycle: %v", err)
	}
	if summary.Total != 1 || summary.Promoted != 1 || len(summary.Errors) != 0 {
		t.Fatalf("summary = %+v, want 1 promoted", summary)
	}

	e := f.enrollments[enrollmentID]
	if e.Status != models.EnrollmentFinalized || e.Outcome != models.OutcomePromoted {
		t.Fatalf("enrollment = %+v, want finalized/promoted", e)
	}
	if e.PromotedToCourseID == nil || *e.PromotedToCourseID != testEleventhID {
		t.Fatalf("promoted_to = %v, want %d", e.PromotedToCourseID, testEleventhID)
	}
	if e.FinalAverage == nil || *e.FinalAverage != 3 {
		t.Fatalf("final average = %v, want 3", e.FinalAverage)
	}
	if e.Remarks == nil || *e.Remarks != "Promovido con promedio 3.00" {
		t.Fatalf("remarks = %v", e.Remarks)
	}

	if f.cycles[testCycleID].State != models.StateClosed || f.cycles[testCycleID].IsActive {
		t.Fatalf("cycle not closed after finalize: %+v", f.cycles[testCycleID])
	}
	if len(notifier.promotions) != 1 || notifier.promotions[0].Outcome != models.OutcomePromoted {
		t.Fatalf("promotion notifications = %+v", notifier.promotions)
	}
	if len(notifier.cyclesDone) != 1 {
		t.Fatalf("cycle-finished notifications = %v", notifier.cyclesDone)
	}
	if len(sink.cycleReports) != 1 {
		t.Fatalf("cycle reports = %v", sink.cycleReports)
	}
}

func TestFinalizeCycleBelowThresholdRepeats(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, _, _ := newTestService(f)

	enrollmentID := enroll(f, "Luis Pardo", testNinthID)
	grade(f, enrollmentID, testPeriod1ID, 2.2)
	grade(f, enrollmentID, testPeriod2ID, 2)

	summary, err := svc.FinalizeCycle(context.Background(), testCycleID)
	if err != nil {
		t.Fatalf("FinalizeCycle: %v", err)
	}
	if summary.Repeats != 1 || summary.Promoted != 0 {
		t.Fatalf("summary = %+v, want 1 repeat", summary)
	}

	e := f.enrollments[enrollmentID]
	if e.Outcome != models.OutcomeRepeats {
		t.Fatalf("outcome = %s, want repeats", e.Outcome)
	}
	if e.PromotedToCourseID == nil || *e.PromotedToCourseID != testNinthID {
		t.Fatalf("promoted_to = %v, want same course %d", e.PromotedToCourseID, testNinthID)
	}
	if e.Remarks == nil || *e.Remarks != "Reprobado con promedio 2.10. Debe repetir el grado." {
		t.Fatalf("remarks = %v", e.Remarks)
	}
}

func TestFinalizeCycleTerminalCourseGraduates(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, notifier, _ := newTestService(f)

	enrollmentID := enroll(f, "María Rincón", testEleventhID)
	grade(f, enrollmentID, testPeriod1ID, 4.4)
	grade(f, enrollmentID, testPeriod2ID, 4)

	summary, err := svc.FinalizeCycle(context.Background(), testCycleID)
	if err != nil {
		t.Fatalf("FinalizeCycle: %v", err)
	}
	if summary.Graduated != 1 {
		t.Fatalf("summary = %+v, want 1 graduated", summary)
	}

	e := f.enrollments[enrollmentID]
	if e.Outcome != models.OutcomeGraduated {
		t.Fatalf("outcome = %s, want graduated", e.Outcome)
	}
	if e.PromotedToCourseID != nil {
		t.Fatalf("promoted_to = %v, want nil for terminal course", *e.PromotedToCourseID)
	}
	if e.Remarks == nil || !strings.Contains(*e.Remarks, "Graduado") || !strings.Contains(*e.Remarks, "4.20") {
		t.Fatalf("remarks = %v", e.Remarks)
	}
	if len(notifier.promotions) != 1 || notifier.promotions[0].TargetCourseID != nil {
		t.Fatalf("promotion note = %+v", notifier.promotions)
	}
}

func TestFinalizeCyclePartialBatch(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, notifier, sink := newTestService(f)

	passing := enroll(f, "Ana Gómez", testNinthID)
	grade(f, passing, testPeriod1ID, 4)

	noData := enroll(f, "Luis Pardo", testNinthID)

	failing := enroll(f, "María Rincón", testNinthID)
	grade(f, failing, testPeriod1ID, 1.5)

	summary, err := svc.FinalizeCycle(context.Background(), testCycleID)
	if err != nil {
		t.Fatalf("FinalizeCycle: %v", err)
	}
	if summary.Total != 3 || summary.Promoted != 1 || summary.Repeats != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly one", summary.Errors)
	}
	be := summary.Errors[0]
	if be.StudentID != f.enrollments[noData].StudentID || be.StudentName != "Luis Pardo" {
		t.Fatalf("batch error = %+v", be)
	}
	if !strings.Contains(be.Message, "no tiene calificaciones") {
		t.Fatalf("batch error message = %q", be.Message)
	}

	// The skipped student stays in progress while the rest are finalized.
	if f.enrollments[noData].Status != models.EnrollmentActive {
		t.Fatalf("no-data enrollment was mutated: %+v", f.enrollments[noData])
	}
	if f.enrollments[passing].Status != models.EnrollmentFinalized {
		t.Fatalf("passing enrollment not finalized")
	}
	if f.enrollments[failing].Status != models.EnrollmentFinalized {
		t.Fatalf("failing enrollment not finalized")
	}
	if f.cycles[testCycleID].State != models.StateClosed {
		t.Fatalf("cycle must close even with per-student errors")
	}
	if len(notifier.promotions) != 2 {
		t.Fatalf("promotion notes = %d, want 2", len(notifier.promotions))
	}
	if len(sink.lastRows) != 3 {
		t.Fatalf("report rows = %d, want 3", len(sink.lastRows))
	}
	var sawInProgress bool
	for _, row := range sink.lastRows {
		if row.Outcome == models.OutcomeInProgress {
			sawInProgress = true
		}
	}
	if !sawInProgress {
		t.Fatalf("report rows missing the skipped student: %+v", sink.lastRows)
	}
}

func TestFinalizeCycleStoreFailureDoesNotAbortBatch(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	svc, _, _ := newTestService(f)

	broken := enroll(f, "Ana Gómez", testNinthID)
	grade(f, broken, testPeriod1ID, 4)
	f.finalizeErr[broken] = fmt.Errorf("deadlock detected")

	ok := enroll(f, "Luis Pardo", testNinthID)
	grade(f, ok, testPeriod1ID, 3.5)

	summary, err := svc.FinalizeCycle(context.Background(), testCycleID)
	if err != nil {
		t.Fatalf("FinalizeCycle: %v", err)
	}
	if summary.Promoted != 1 || len(summary.Errors) != 1 {
		t.Fatalf("summary = %+v, want 1 promoted and 1 error", summary)
	}
	if f.enrollments[ok].Status != models.EnrollmentFinalized {
		t.Fatalf("second student must still be finalized")
	}
}

func TestFinalizeCycleAlreadyClosed(t *testing.T) {
	f := newFakeStore()
	seedWorld(f)
	f.cycles[testCycleID].State = models.StateClosed
	f.cycles[testCycleID].IsActive = false
	svc, _, _ := newTestService(f)

	_, err := svc.FinalizeCycle(context.Background(), testCycleID)
	if !IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
}
