package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
)

// swapped in tests
var nowFunc = time.Now

// LockReminder warns once per period when the grade-lock date minus
// lead_days has been reached and the period is still open. Process-lifetime
// dedupe; a restart re-sends at most one extra reminder per period.
type LockReminder struct {
	log      *zap.SugaredLogger
	store    academics.Store
	notifier academics.Notifier

	mu       sync.Mutex
	notified map[int64]bool
}

func NewLockReminder(log *zap.SugaredLogger, store academics.Store, notifier academics.Notifier) *LockReminder {
	return &LockReminder{log: log, store: store, notifier: notifier, notified: make(map[int64]bool)}
}

func (r *LockReminder) Run(ctx context.Context) error {
	cycle, err := r.store.ActiveCycle(ctx)
	if err != nil || cycle == nil {
		return err
	}
	periods, err := r.store.PeriodsByCycle(ctx, cycle.ID)
	if err != nil {
		return err
	}
	now := nowFunc()
	for _, p := range periods {
		if p.State != models.StateActive || !p.LockReminderDue(now) {
			continue
		}
		r.mu.Lock()
		seen := r.notified[p.ID]
		r.notified[p.ID] = true
		r.mu.Unlock()
		if seen {
			continue
		}
		daysLeft := int(p.GradeLockDate.Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}
		r.log.Infow("recordatorio de cierre de calificaciones", "period_id", p.ID, "days_left", daysLeft)
		r.notifier.GradeLockApproaching(ctx, p, daysLeft)
	}
	return nil
}
