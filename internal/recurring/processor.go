package recurring

import (
	"strconv"
	"time"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
)

// NoteTag помечает материализованные расходы, чтобы они были отличимы от
// введенных вручную.
const NoteTag = "Recurring expense"

// Processor материализует регулярные расходы в леджер.
type Processor struct {
	store *ledger.Store
}

// NewProcessor создает обработчик регулярных расходов.
func NewProcessor(store *ledger.Store) *Processor {
	return &Processor{store: store}
}

// Run добавляет расход за сегодня для каждого правила, у которого наступил
// срок, и штампует last_added. Повторные запуски в тот же день ничего не
// добавляют, поэтому вызов безопасен и при загрузке, и по запросу
// пользователя. Возвращает число добавленных расходов.
func (p *Processor) Run(now time.Time) (int, error) {
	added := 0
	month := models.MonthKey(now)
	day := models.DayKey(now)

	err := p.store.Update(func(l *models.Ledger) error {
		for i := range l.RecurringExpenses {
			rule := &l.RecurringExpenses[i]
			if rule.LastAdded == day {
				continue
			}
			if !due(*rule, now) {
				continue
			}

			l.AppendExpense(month, day, models.Expense{
				Amount:      rule.Amount,
				Category:    rule.Category,
				Description: rule.Description,
				Note:        NoteTag,
			})
			rule.LastAdded = day
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return added, nil
}

// due решает, наступил ли срок правила. Для monthly сравнивается номер дня
// месяца: правило на 31-е число в коротких месяцах не срабатывает. Для
// weekly сравнивается название дня недели.
func due(rule models.RecurringRule, now time.Time) bool {
	switch rule.Frequency {
	case models.FrequencyMonthly:
		day, err := strconv.Atoi(rule.Day)
		return err == nil && now.Day() == day
	case models.FrequencyWeekly:
		return now.Weekday().String() == rule.Day
	default:
		return false
	}
}
