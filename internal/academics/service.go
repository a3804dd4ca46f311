package academics

import (
	"time"

	"go.uber.org/zap"
)

// Service orchestrates the cycle/period state machines, the grade
// aggregator and the promotion engine over a Store.
type Service struct {
	log      *zap.SugaredLogger
	store    Store
	notifier Notifier
	reports  ReportSink
	now      func() time.Time
}

func NewService(log *zap.SugaredLogger, store Store, notifier Notifier, reports ReportSink) *Service {
	return &Service{
		log:      log,
		store:    store,
		notifier: notifier,
		reports:  reports,
		now:      time.Now,
	}
}
