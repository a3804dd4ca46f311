package jobs

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
)

type reminderStore struct {
	academics.Store
	cycle   *models.AcademicCycle
	periods []models.AcademicPeriod
}

func (s *reminderStore) ActiveCycle(context.Context) (*models.AcademicCycle, error) {
	return s.cycle, nil
}

func (s *reminderStore) PeriodsByCycle(context.Context, int64) ([]models.AcademicPeriod, error) {
	return s.periods, nil
}

type reminderNotifier struct {
	academics.Notifier
	warned   []int64
	daysLeft []int
}

func (n *reminderNotifier) GradeLockApproaching(_ context.Context, p models.AcademicPeriod, days int) {
	n.warned = append(n.warned, p.ID)
	n.daysLeft = append(n.daysLeft, days)
}

func TestLockReminder(t *testing.T) {
	now := time.Date(2026, 6, 18, 9, 0, 0, 0, time.UTC)
	restore := nowFunc
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = restore }()

	store := &reminderStore{
		cycle: &models.AcademicCycle{ID: 1, Name: "2026", State: models.StateActive, IsActive: true},
		periods: []models.AcademicPeriod{
			{ID: 1, CycleID: 1, Sequence: 1, State: models.StateClosed,
				GradeLockDate: now.AddDate(0, 0, 1), LeadDays: 3},
			{ID: 2, CycleID: 1, Sequence: 2, State: models.StateActive,
				GradeLockDate: now.AddDate(0, 0, 2), LeadDays: 3},
			{ID: 3, CycleID: 1, Sequence: 3, State: models.StatePlanned,
				GradeLockDate: now.AddDate(0, 0, 30), LeadDays: 3},
		},
	}
	notifier := &reminderNotifier{}
	r := NewLockReminder(zap.NewNop().Sugar(), store, notifier)
	ctx := context.Background()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.warned) != 1 || notifier.warned[0] != 2 {
		t.Fatalf("warned = %v, want only the active due period", notifier.warned)
	}
	if notifier.daysLeft[0] != 2 {
		t.Fatalf("daysLeft = %d, want 2", notifier.daysLeft[0])
	}

	t.Run("warns once per period", func(t *testing.T) {
		if err := r.Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(notifier.warned) != 1 {
			t.Fatalf("warned = %v, want no duplicate", notifier.warned)
		}
	})

	t.Run("no active cycle is a no-op", func(t *testing.T) {
		store.cycle = nil
		if err := r.Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}
	})
}
