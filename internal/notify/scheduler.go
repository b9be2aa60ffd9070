package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/report"
	"example.com/finance-bot/backend/internal/telegram"
)

const clockLayout = "15:04"

// Scheduler раз в день отправляет сводку в чат в заданное время. Одна
// попытка доставки; ошибка пишется в лог, повторов нет.
type Scheduler struct {
	store  *ledger.Store
	client *telegram.Client
	chatID int64
	at     string
	log    *slog.Logger
}

// NewScheduler создает планировщик ежедневной сводки; at в формате HH:MM.
func NewScheduler(store *ledger.Store, client *telegram.Client, chatID int64, at string, logger *slog.Logger) (*Scheduler, error) {
	if _, err := time.Parse(clockLayout, at); err != nil {
		return nil, fmt.Errorf("invalid daily summary time %q: %w", at, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{store: store, client: client, chatID: chatID, at: at, log: logger}, nil
}

// Run ждет ближайшего срабатывания и рассылает сводку до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("daily summary scheduled", slog.String("at", s.at))

	for {
		next := nextRun(time.Now(), s.at)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.send(ctx)
		}
	}
}

func (s *Scheduler) send(ctx context.Context) {
	l, err := s.store.Load()
	if err != nil {
		s.log.Error("failed to load ledger for daily summary", slog.String("error", err.Error()))
		return
	}

	summary := report.DailySummary(l, time.Now())
	if err := s.client.SendMessage(ctx, s.chatID, summary, nil); err != nil {
		s.log.Error("failed to send daily summary", slog.String("error", err.Error()))
		return
	}

	s.log.Info("daily summary sent")
}

// nextRun возвращает ближайший момент срабатывания строго позже now.
func nextRun(now time.Time, at string) time.Time {
	clock, _ := time.Parse(clockLayout, at)
	next := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
