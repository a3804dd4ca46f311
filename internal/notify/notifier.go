package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
)

// LogNotifier is the default academics.Notifier: outcomes go to the
// structured log. Useful in dev and as the fallback when no Telegram token
// is configured.
type LogNotifier struct {
	log *zap.SugaredLogger
}

var _ academics.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) PromotionDecided(_ context.Context, note academics.PromotionNote) {
	n.log.Infow("notificación: promoción",
		"student_id", note.StudentID,
		"student", note.StudentName,
		"outcome", note.Outcome,
		"average", note.Average,
		"target_course_id", note.TargetCourseID,
	)
}

func (n *LogNotifier) PeriodClosed(_ context.Context, period models.AcademicPeriod) {
	n.log.Infow("notificación: periodo cerrado", "period_id", period.ID, "name", period.Name)
}

func (n *LogNotifier) CycleFinished(_ context.Context, cycle models.AcademicCycle, summary academics.BatchSummary) {
	n.log.Infow("notificación: ciclo finalizado",
		"cycle_id", cycle.ID,
		"name", cycle.Name,
		"promoted", summary.Promoted,
		"repeats", summary.Repeats,
		"graduated", summary.Graduated,
		"errors", len(summary.Errors),
	)
}

func (n *LogNotifier) GradeLockApproaching(_ context.Context, period models.AcademicPeriod, daysLeft int) {
	n.log.Infow("notificación: cierre de calificaciones próximo",
		"period_id", period.ID, "name", period.Name, "days_left", daysLeft)
}
