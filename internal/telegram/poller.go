package telegram

import (
	"context"
	"log/slog"
	"time"

	"example.com/finance-bot/backend/internal/chat"
)

const errorReplyText = "Something went wrong. Please try again."

// Poller длинным опросом забирает входящие сообщения и прогоняет их через
// движок диалога. Обрабатываются только сообщения от авторизованного chat
// id; остальные молча отбрасываются.
type Poller struct {
	client       *Client
	engine       *chat.Engine
	chatID       int64
	pollTimeout  time.Duration
	pollInterval time.Duration
	retryDelay   time.Duration
	log          *slog.Logger

	offset int64
}

// NewPoller создает опросчик для одного авторизованного чата.
func NewPoller(client *Client, engine *chat.Engine, chatID int64, pollTimeout, pollInterval, retryDelay time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:       client,
		engine:       engine,
		chatID:       chatID,
		pollTimeout:  pollTimeout,
		pollInterval: pollInterval,
		retryDelay:   retryDelay,
		log:          logger,
	}
}

// Run крутит цикл опроса до отмены контекста. Ошибки опроса логируются, и
// цикл продолжается после паузы.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("chat poller started", slog.Int64("chat_id", p.chatID))

	for {
		updates, err := p.client.GetUpdates(ctx, p.offset+1, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Warn("poll failed", slog.String("error", err.Error()))
			if err := sleep(ctx, p.retryDelay); err != nil {
				return err
			}
			continue
		}

		for _, update := range updates {
			p.handleUpdate(ctx, update)
		}

		if err := sleep(ctx, p.pollInterval); err != nil {
			return err
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	if update.UpdateID > p.offset {
		p.offset = update.UpdateID
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if msg.From.ID != p.chatID {
		return
	}

	reply, err := p.engine.HandleMessage(p.chatID, msg.Text, time.Now())
	if err != nil {
		p.log.Error("message handling failed", slog.String("error", err.Error()))
		reply = chat.Reply{Text: errorReplyText}
	}
	if reply.Text == "" {
		return
	}

	// Отправка без подтверждения доставки: одна попытка, ошибка в лог.
	if err := p.client.SendMessage(ctx, p.chatID, reply.Text, reply.Keyboard); err != nil {
		p.log.Warn("send failed", slog.String("error", err.Error()))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
