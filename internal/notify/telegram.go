package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
	"github.com/edusuite/colegio/internal/observability"
)

// TelegramNotifier relays promotion and lifecycle events to the configured
// admin chats. Send failures are logged; transient transport errors
// (5xx/429/timeout) also go to Sentry.
type TelegramNotifier struct {
	log      *zap.SugaredLogger
	bot      *tgbotapi.BotAPI
	chatIDs  []int64
	fallback academics.Notifier
}

var _ academics.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(log *zap.SugaredLogger, token string, chatIDs []int64, fallback academics.Notifier) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{log: log, bot: bot, chatIDs: chatIDs, fallback: fallback}, nil
}

func (n *TelegramNotifier) PromotionDecided(ctx context.Context, note academics.PromotionNote) {
	n.fallback.PromotionDecided(ctx, note)
	var text string
	switch note.Outcome {
	case models.OutcomePromoted:
		text = fmt.Sprintf("🎓 %s fue promovido con promedio %.2f.", note.StudentName, note.Average)
	case models.OutcomeGraduated:
		text = fmt.Sprintf("🎉 ¡%s se graduó! Promedio final: %.2f.", note.StudentName, note.Average)
	case models.OutcomeRepeats:
		text = fmt.Sprintf("📚 %s debe repetir el grado. Promedio: %.2f.", note.StudentName, note.Average)
	default:
		return
	}
	n.broadcast(text)
}

func (n *TelegramNotifier) PeriodClosed(ctx context.Context, period models.AcademicPeriod) {
	n.fallback.PeriodClosed(ctx, period)
	n.broadcast(fmt.Sprintf("📅 El periodo «%s» fue cerrado.", period.Name))
}

func (n *TelegramNotifier) CycleFinished(ctx context.Context, cycle models.AcademicCycle, summary academics.BatchSummary) {
	n.fallback.CycleFinished(ctx, cycle, summary)
	n.broadcast(fmt.Sprintf(
		"🏁 Ciclo «%s» finalizado.\nPromovidos: %d\nRepiten: %d\nGraduados: %d\nErrores: %d",
		cycle.Name, summary.Promoted, summary.Repeats, summary.Graduated, len(summary.Errors)))
}

func (n *TelegramNotifier) GradeLockApproaching(ctx context.Context, period models.AcademicPeriod, daysLeft int) {
	n.fallback.GradeLockApproaching(ctx, period, daysLeft)
	n.broadcast(fmt.Sprintf(
		"⏰ El cierre de calificaciones del periodo «%s» es en %d días.", period.Name, daysLeft))
}

func (n *TelegramNotifier) broadcast(text string) {
	for _, chatID := range n.chatIDs {
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Warnw("telegram send", "chat_id", chatID, "err", err)
			if isSystemErr(err) {
				observability.CaptureErr(err)
			}
		}
	}
}

// System errors worth reporting: 5xx, 429, timeouts. Telegram-side
// validation noise stays out of Sentry.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "timeout")
}
