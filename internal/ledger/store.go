package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/models"
)

const (
	ledgerFileName     = "finance_data.json"
	categoriesFileName = "expense_categories.json"
	sessionsFileName   = "bot_state.json"
)

// Доли бюджета от месячного дохода: needs/wants/savings = 50/30/20.
var (
	needsShare   = decimal.RequireFromString("0.5")
	wantsShare   = decimal.RequireFromString("0.3")
	savingsShare = decimal.RequireFromString("0.2")
)

// Store хранит финансовые данные в файлах. Каждая мутация выполняет
// load-mutate-save целого документа под одним мьютексом; между процессами
// действует дисциплина "последняя запись побеждает".
type Store struct {
	mu             sync.Mutex
	ledgerFile     string
	categoriesFile string
}

// NewStore создает хранилище в каталоге данных и инициализирует документы,
// если их еще нет.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		ledgerFile:     filepath.Join(dir, ledgerFileName),
		categoriesFile: filepath.Join(dir, categoriesFileName),
	}

	if _, err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Load читает леджер с диска. Отсутствующий файл заменяется документом по
// умолчанию, невалидная тема чинится; поврежденный JSON считается
// фатальной ошибкой.
func (s *Store) Load() (models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Update применяет мутацию по схеме load-mutate-save. Возврат ошибки из
// mutate отменяет запись целиком.
func (s *Store) Update(mutate func(*models.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.loadLocked()
	if err != nil {
		return err
	}

	if err := mutate(&ledger); err != nil {
		return err
	}

	return writeDocument(s.ledgerFile, ledger)
}

// AppendExpense добавляет расход в указанный день. Записи неизменяемы после
// добавления; порядок внутри дня сохраняется.
func (s *Store) AppendExpense(month, day string, expense models.Expense) error {
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if _, ok := models.ParseCategory(string(expense.Category)); !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, expense.Category)
	}
	if strings.TrimSpace(expense.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}

	return s.Update(func(l *models.Ledger) error {
		l.AppendExpense(month, day, expense)
		return nil
	})
}

// SetDeposit записывает депозит за день. Повторная запись за тот же день
// перезаписывает предыдущую сумму, а не суммируется.
func (s *Store) SetDeposit(month, day string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}

	return s.Update(func(l *models.Ledger) error {
		if l.Deposits[month] == nil {
			l.Deposits[month] = make(map[string]decimal.Decimal)
		}
		l.Deposits[month][day] = amount
		return nil
	})
}

// SetIncome устанавливает месячный доход и пересчитывает разбивку 50/30/20.
func (s *Store) SetIncome(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: income cannot be negative", ErrInvalid)
	}

	return s.Update(func(l *models.Ledger) error {
		l.MonthlyIncome = amount
		l.Breakdown = map[string]decimal.Decimal{
			models.BreakdownNeeds:   amount.Mul(needsShare).Round(0),
			models.BreakdownWants:   amount.Mul(wantsShare).Round(0),
			models.BreakdownSavings: amount.Mul(savingsShare).Round(0),
		}
		return nil
	})
}

// AppendRecurringRule добавляет шаблон регулярного расхода.
func (s *Store) AppendRecurringRule(rule models.RecurringRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	return s.Update(func(l *models.Ledger) error {
		l.RecurringExpenses = append(l.RecurringExpenses, rule)
		return nil
	})
}

// DeleteRecurringRule удаляет шаблон по индексу.
func (s *Store) DeleteRecurringRule(index int) error {
	return s.Update(func(l *models.Ledger) error {
		if index < 0 || index >= len(l.RecurringExpenses) {
			return fmt.Errorf("%w: recurring rule %d", ErrNotFound, index)
		}
		l.RecurringExpenses = append(l.RecurringExpenses[:index], l.RecurringExpenses[index+1:]...)
		return nil
	})
}

// AppendGoal добавляет цель накоплений.
func (s *Store) AppendGoal(goal models.Goal) error {
	if strings.TrimSpace(goal.Name) == "" {
		return fmt.Errorf("%w: goal name is required", ErrInvalid)
	}
	if !goal.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalid)
	}
	if goal.CurrentAmount.IsNegative() || goal.CurrentAmount.GreaterThan(goal.TargetAmount) {
		return fmt.Errorf("%w: current amount out of range", ErrInvalid)
	}

	return s.Update(func(l *models.Ledger) error {
		l.SavingsGoals = append(l.SavingsGoals, goal)
		return nil
	})
}

// UpdateGoalAmount меняет накопленную сумму цели в пределах [0, target].
func (s *Store) UpdateGoalAmount(index int, amount decimal.Decimal) error {
	return s.Update(func(l *models.Ledger) error {
		if index < 0 || index >= len(l.SavingsGoals) {
			return fmt.Errorf("%w: goal %d", ErrNotFound, index)
		}
		goal := l.SavingsGoals[index]
		if amount.IsNegative() || amount.GreaterThan(goal.TargetAmount) {
			return fmt.Errorf("%w: amount must be between 0 and %s", ErrInvalid, goal.TargetAmount.String())
		}
		l.SavingsGoals[index].CurrentAmount = amount
		return nil
	})
}

// DeleteGoal удаляет цель по индексу.
func (s *Store) DeleteGoal(index int) error {
	return s.Update(func(l *models.Ledger) error {
		if index < 0 || index >= len(l.SavingsGoals) {
			return fmt.Errorf("%w: goal %d", ErrNotFound, index)
		}
		l.SavingsGoals = append(l.SavingsGoals[:index], l.SavingsGoals[index+1:]...)
		return nil
	})
}

// SetTheme сохраняет тему оформления.
func (s *Store) SetTheme(theme models.Theme) error {
	if _, ok := models.ParseTheme(string(theme)); !ok {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, theme)
	}

	return s.Update(func(l *models.Ledger) error {
		l.Settings.Theme = theme
		return nil
	})
}

// SetPINHash сохраняет bcrypt-хэш PIN-кода.
func (s *Store) SetPINHash(hash string) error {
	return s.Update(func(l *models.Ledger) error {
		l.Settings.PIN = hash
		return nil
	})
}

func (s *Store) loadLocked() (models.Ledger, error) {
	data, err := os.ReadFile(s.ledgerFile)
	if errors.Is(err, os.ErrNotExist) {
		ledger := defaultLedger()
		if err := writeDocument(s.ledgerFile, ledger); err != nil {
			return models.Ledger{}, err
		}
		return ledger, nil
	}
	if err != nil {
		return models.Ledger{}, fmt.Errorf("read ledger file: %w", err)
	}

	var ledger models.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return models.Ledger{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.ledgerFile, err)
	}

	if repaired := normalize(&ledger); repaired {
		if err := writeDocument(s.ledgerFile, ledger); err != nil {
			return models.Ledger{}, err
		}
	}

	return ledger, nil
}

func defaultLedger() models.Ledger {
	return models.Ledger{
		MonthlyIncome: decimal.Zero,
		Breakdown:     map[string]decimal.Decimal{},
		Expenses:      map[string]map[string][]models.Expense{},
		Deposits:      map[string]map[string]decimal.Decimal{},
		Settings:      models.Settings{Theme: models.ThemeDarkly},
	}
}

// normalize чинит пробелы в загруженном документе и сообщает, были ли правки.
func normalize(l *models.Ledger) bool {
	repaired := false

	if l.Breakdown == nil {
		l.Breakdown = map[string]decimal.Decimal{}
		repaired = true
	}
	if l.Expenses == nil {
		l.Expenses = map[string]map[string][]models.Expense{}
		repaired = true
	}
	if l.Deposits == nil {
		l.Deposits = map[string]map[string]decimal.Decimal{}
		repaired = true
	}
	if _, ok := models.ParseTheme(string(l.Settings.Theme)); !ok {
		l.Settings.Theme = models.ThemeDarkly
		repaired = true
	}

	return repaired
}

func validateRule(rule models.RecurringRule) error {
	if !rule.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if _, ok := models.ParseCategory(string(rule.Category)); !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, rule.Category)
	}
	if strings.TrimSpace(rule.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}

	switch rule.Frequency {
	case models.FrequencyMonthly:
		day, err := strconv.Atoi(rule.Day)
		if err != nil || day < 1 || day > 31 {
			return fmt.Errorf("%w: monthly day must be 1-31", ErrInvalid)
		}
	case models.FrequencyWeekly:
		if !validWeekday(rule.Day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalid, rule.Day)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalid, rule.Frequency)
	}

	return nil
}

func validWeekday(name string) bool {
	for d := time.Weekday(0); d <= time.Saturday; d++ {
		if d.String() == name {
			return true
		}
	}
	return false
}

// writeDocument переписывает документ целиком через временный файл и rename.
func writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
