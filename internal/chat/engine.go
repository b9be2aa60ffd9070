package chat

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
	"example.com/finance-bot/backend/internal/report"
)

// ChatNote помечает расходы, добавленные через чат.
const ChatNote = "[Added via Telegram]"

const (
	greetingText = "👋 Hi! I'm your Finance Bot.\n" +
		"You can:\n" +
		"• Type 'add expense' to add a new expense\n" +
		"• Type 'today' to see today's expenses\n" +
		"• Type 'balance' to see your current balance\n" +
		"• Type 'summary' for a daily summary\n" +
		"• Type 'help' for more options"

	helpText = "You can use these commands:\n" +
		"• add expense - Add a new expense\n" +
		"• today - Show today's expenses\n" +
		"• balance - Show your current balance\n" +
		"• summary - Show today's summary\n" +
		"Just type what you want to do!"

	fallbackText = "Sorry, I didn't understand that. Type 'help' for options or 'add expense' to add a new expense."

	amountPromptText   = "Let's add a new expense! How much did you spend? (Enter amount in ₹)"
	amountInvalidText  = "Please enter a valid positive amount."
	categoryPromptText = "Is this a 'Needs' or 'Wants' expense?"
	categoryInvalid    = "Please reply with 'Needs' or 'Wants'."
	descriptionEmpty   = "Description cannot be empty. Please enter a description:"
)

// Reply представляет исходящий ответ движка: текст и необязательную
// одноразовую клавиатуру быстрых ответов.
type Reply struct {
	Text     string
	Keyboard [][]string
}

// Engine ведет конечный автомат диалога, по одному состоянию на chat id.
// Вызывается синхронно на каждое входящее сообщение; "приостановка" мастера
// между шагами живет только в персистентной сессии.
type Engine struct {
	store    *ledger.Store
	sessions *ledger.SessionStore
	log      *slog.Logger
}

// NewEngine создает движок диалога поверх хранилищ леджера и сессий.
func NewEngine(store *ledger.Store, sessions *ledger.SessionStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, sessions: sessions, log: logger}
}

// HandleMessage обрабатывает одно входящее сообщение и возвращает ответ.
// Ошибка означает сбой ввода-вывода; состояние сессии при этом не уходит
// дальше шага, эффект которого не записался.
func (e *Engine) HandleMessage(chatID int64, text string, now time.Time) (Reply, error) {
	text = strings.TrimSpace(text)

	session, inProgress, err := e.sessions.Get(chatID)
	if err != nil {
		return Reply{}, err
	}
	if inProgress && session.Action == models.SessionActionAddExpense {
		return e.continueAddExpense(chatID, session, text, now)
	}

	switch strings.ToLower(text) {
	case "/start", "hi", "hello":
		return Reply{Text: greetingText}, nil
	case "add expense", "add", "expense":
		session = models.Session{Action: models.SessionActionAddExpense, Step: models.StepAwaitAmount}
		if err := e.sessions.Put(chatID, session); err != nil {
			return Reply{}, err
		}
		return Reply{Text: amountPromptText}, nil
	case "today":
		return e.todayReply(now)
	case "balance":
		return e.balanceReply(now)
	case "summary", "status":
		return e.summaryReply(now)
	case "help":
		return Reply{Text: helpText}, nil
	default:
		return Reply{Text: fallbackText}, nil
	}
}

func (e *Engine) continueAddExpense(chatID int64, session models.Session, text string, now time.Time) (Reply, error) {
	switch session.Step {
	case models.StepAwaitAmount:
		amount, err := decimal.NewFromString(text)
		if err != nil || !amount.IsPositive() {
			return Reply{Text: amountInvalidText}, nil
		}
		session.Amount = amount
		session.Step = models.StepAwaitCategory
		if err := e.sessions.Put(chatID, session); err != nil {
			return Reply{}, err
		}
		return Reply{
			Text:     categoryPromptText,
			Keyboard: [][]string{{"Needs"}, {"Wants"}},
		}, nil

	case models.StepAwaitCategory:
		category, ok := models.ParseCategory(text)
		if !ok {
			return Reply{Text: categoryInvalid}, nil
		}
		session.Category = category
		session.Step = models.StepAwaitDescription
		if err := e.sessions.Put(chatID, session); err != nil {
			return Reply{}, err
		}
		return Reply{Text: e.descriptionPrompt(category)}, nil

	case models.StepAwaitDescription:
		if text == "" {
			return Reply{Text: descriptionEmpty}, nil
		}
		return e.commitExpense(chatID, session, text, now)

	default:
		// Сессия в неизвестном шаге: сбрасываем и начинаем сначала.
		if err := e.sessions.Clear(chatID); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fallbackText}, nil
	}
}

// commitExpense записывает расход датой обработки сообщения и только после
// успешной записи снимает сессию.
func (e *Engine) commitExpense(chatID int64, session models.Session, description string, now time.Time) (Reply, error) {
	expense := models.Expense{
		Amount:      session.Amount,
		Category:    session.Category,
		Description: description,
		Note:        ChatNote,
	}

	if err := e.store.AppendExpense(models.MonthKey(now), models.DayKey(now), expense); err != nil {
		return Reply{}, err
	}

	if err := e.store.AddDescription(session.Category, description); err != nil {
		e.log.Warn("failed to record expense description",
			slog.String("description", description), slog.String("error", err.Error()))
	}

	if err := e.sessions.Clear(chatID); err != nil {
		return Reply{}, err
	}

	return Reply{Text: fmt.Sprintf("Expense added: ₹%s (%s) - %s",
		expense.Amount.StringFixed(2), expense.Category, expense.Description)}, nil
}

func (e *Engine) descriptionPrompt(category models.Category) string {
	categories, err := e.store.Categories()
	if err != nil {
		e.log.Warn("failed to load expense categories", slog.String("error", err.Error()))
		return "Enter a description for this expense:"
	}

	suggestions := categories.For(category)
	if len(suggestions) > 0 {
		return fmt.Sprintf("Enter a description for this expense (e.g. %s):", suggestions[0])
	}
	return "Enter a description for this expense:"
}

func (e *Engine) todayReply(now time.Time) (Reply, error) {
	l, err := e.store.Load()
	if err != nil {
		return Reply{}, err
	}

	expenses := report.TodayExpenses(l, now)
	if len(expenses) == 0 {
		return Reply{Text: "No expenses for today."}, nil
	}

	var b strings.Builder
	b.WriteString("Today's Expenses:\n")
	for _, expense := range expenses {
		fmt.Fprintf(&b, "₹%s - %s - %s\n",
			expense.Amount.StringFixed(2), titleCase(string(expense.Category)), expense.Description)
	}
	return Reply{Text: b.String()}, nil
}

func (e *Engine) balanceReply(now time.Time) (Reply, error) {
	l, err := e.store.Load()
	if err != nil {
		return Reply{}, err
	}
	balance := report.CurrentBalance(l, now)
	return Reply{Text: fmt.Sprintf("Current balance: ₹%s", balance.StringFixed(2))}, nil
}

func (e *Engine) summaryReply(now time.Time) (Reply, error) {
	l, err := e.store.Load()
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: report.DailySummary(l, now)}, nil
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
