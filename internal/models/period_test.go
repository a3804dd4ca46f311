package models

import (
	"testing"
	"time"
)

func TestLockReminderDue(t *testing.T) {
	now := time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)
	base := AcademicPeriod{State: StateActive, LeadDays: 3}

	t.Run("before the window", func(t *testing.T) {
		p := base
		p.GradeLockDate = now.AddDate(0, 0, 10)
		if p.LockReminderDue(now) {
			t.Fatal("due too early")
		}
	})

	t.Run("window opens lead_days before the lock date", func(t *testing.T) {
		p := base
		p.GradeLockDate = now.AddDate(0, 0, 3)
		if !p.LockReminderDue(now) {
			t.Fatal("not due at window start")
		}
	})

	t.Run("past the lock date still due while open", func(t *testing.T) {
		p := base
		p.GradeLockDate = now.AddDate(0, 0, -1)
		if !p.LockReminderDue(now) {
			t.Fatal("not due past lock date")
		}
	})

	t.Run("closed periods never remind", func(t *testing.T) {
		p := base
		p.State = StateClosed
		p.GradeLockDate = now
		if p.LockReminderDue(now) {
			t.Fatal("closed period reminded")
		}
	})
}
