package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

type Frequency string

type Theme string

const (
	CategoryNeeds Category = "needs"
	CategoryWants Category = "wants"

	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"

	ThemeDarkly Theme = "darkly"
	ThemeCosmo  Theme = "cosmo"

	BreakdownNeeds   = "needs"
	BreakdownWants   = "wants"
	BreakdownSavings = "savings"
)

// ParseCategory нормализует категорию расхода без учета регистра.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryNeeds:
		return CategoryNeeds, true
	case CategoryWants:
		return CategoryWants, true
	default:
		return "", false
	}
}

// ParseFrequency нормализует периодичность регулярного расхода.
func ParseFrequency(value string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case FrequencyMonthly:
		return FrequencyMonthly, true
	case FrequencyWeekly:
		return FrequencyWeekly, true
	default:
		return "", false
	}
}

// ParseTheme проверяет, что тема входит в поддерживаемый набор.
func ParseTheme(value string) (Theme, bool) {
	switch Theme(value) {
	case ThemeDarkly:
		return ThemeDarkly, true
	case ThemeCosmo:
		return ThemeCosmo, true
	default:
		return "", false
	}
}

type Expense struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Note        string          `json:"note,omitempty"`
	ImagePath   string          `json:"image_path,omitempty"`
}

// RecurringRule описывает шаблон регулярного расхода. Day хранит номер дня
// месяца для monthly и название дня недели для weekly.
type RecurringRule struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Frequency   Frequency       `json:"frequency"`
	Day         string          `json:"day"`
	LastAdded   string          `json:"last_added,omitempty"`
}

type Goal struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date"`
	CreatedDate   string          `json:"created_date"`
}

type Settings struct {
	Theme Theme  `json:"theme"`
	PIN   string `json:"pin,omitempty"`
}

// Ledger содержит все финансовые данные пользователя.
// Expenses и Deposits индексируются ключом месяца (YYYY-MM), затем ключом
// дня (YYYY-MM-DD). Депозит за день хранится одним числом: повторная запись
// за тот же день перезаписывает предыдущую.
type Ledger struct {
	MonthlyIncome     decimal.Decimal                       `json:"monthly_income"`
	Breakdown         map[string]decimal.Decimal            `json:"breakdown"`
	Expenses          map[string]map[string][]Expense       `json:"expenses"`
	Deposits          map[string]map[string]decimal.Decimal `json:"deposits"`
	RecurringExpenses []RecurringRule                       `json:"recurring_expenses"`
	SavingsGoals      []Goal                                `json:"savings_goals"`
	Settings          Settings                              `json:"settings"`
}

// AppendExpense дописывает расход в конец списка за день, создавая
// отсутствующие уровни по ключам месяца и дня.
func (l *Ledger) AppendExpense(month, day string, expense Expense) {
	if l.Expenses == nil {
		l.Expenses = make(map[string]map[string][]Expense)
	}
	if l.Expenses[month] == nil {
		l.Expenses[month] = make(map[string][]Expense)
	}
	l.Expenses[month][day] = append(l.Expenses[month][day], expense)
}

// CategoryList хранит известные описания расходов по категориям и
// пополняется только добавлением.
type CategoryList struct {
	Needs []string `json:"needs"`
	Wants []string `json:"wants"`
}

// For возвращает список описаний для категории.
func (c CategoryList) For(category Category) []string {
	if category == CategoryWants {
		return c.Wants
	}
	return c.Needs
}

const (
	SessionActionAddExpense = "add_expense"

	StepAwaitAmount      = 1
	StepAwaitCategory    = 2
	StepAwaitDescription = 3
)

// Session хранит состояние мастера добавления расхода для одного chat id.
// Персистится между сообщениями, чтобы бот переживал рестарты.
type Session struct {
	Action   string          `json:"action"`
	Step     int             `json:"step"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category,omitempty"`
}
