package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected store, got %v", err)
	}
	return store
}

// TestNewStoreCreatesDefaultLedger проверяет инициализацию документа по умолчанию.
func TestNewStoreCreatesDefaultLedger(t *testing.T) {
	store := newTestStore(t)

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}

	if !l.MonthlyIncome.IsZero() {
		t.Fatalf("expected zero income, got %s", l.MonthlyIncome)
	}
	if l.Settings.Theme != models.ThemeDarkly {
		t.Fatalf("expected default theme darkly, got %q", l.Settings.Theme)
	}
	if l.Expenses == nil || l.Deposits == nil || l.Breakdown == nil {
		t.Fatal("expected initialized maps in default ledger")
	}
}

// TestSetIncomeBreakdown проверяет разбивку дохода 50/30/20.
func TestSetIncomeBreakdown(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetIncome(decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}

	if got := l.Breakdown[models.BreakdownNeeds]; !got.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected needs 5000, got %s", got)
	}
	if got := l.Breakdown[models.BreakdownWants]; !got.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected wants 3000, got %s", got)
	}
	if got := l.Breakdown[models.BreakdownSavings]; !got.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected savings 2000, got %s", got)
	}
}

// TestSetIncomeNegative проверяет отказ для отрицательного дохода.
func TestSetIncomeNegative(t *testing.T) {
	store := newTestStore(t)

	err := store.SetIncome(decimal.NewFromInt(-1))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

// TestAppendExpensePreservesOrder проверяет порядок расходов внутри дня.
func TestAppendExpensePreservesOrder(t *testing.T) {
	store := newTestStore(t)

	first := models.Expense{Amount: decimal.NewFromInt(100), Category: models.CategoryNeeds, Description: "Groceries"}
	second := models.Expense{Amount: decimal.NewFromInt(200), Category: models.CategoryWants, Description: "Cinema"}

	if err := store.AppendExpense("2026-08", "2026-08-31", first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.AppendExpense("2026-08", "2026-08-31", second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}

	day := l.Expenses["2026-08"]["2026-08-31"]
	if len(day) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(day))
	}
	if day[0].Description != "Groceries" || day[1].Description != "Cinema" {
		t.Fatalf("unexpected order: %q, %q", day[0].Description, day[1].Description)
	}
}

// TestAppendExpenseInvalid проверяет отказы валидации расхода.
func TestAppendExpenseInvalid(t *testing.T) {
	store := newTestStore(t)

	bad := []models.Expense{
		{Amount: decimal.Zero, Category: models.CategoryNeeds, Description: "Zero"},
		{Amount: decimal.NewFromInt(10), Category: "food", Description: "Unknown category"},
		{Amount: decimal.NewFromInt(10), Category: models.CategoryNeeds, Description: "  "},
	}
	for _, expense := range bad {
		if err := store.AppendExpense("2026-08", "2026-08-31", expense); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %+v, got %v", expense, err)
		}
	}
}

// TestSetDepositOverwrites проверяет перезапись депозита за тот же день.
func TestSetDepositOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetDeposit("2026-08", "2026-08-31", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.SetDeposit("2026-08", "2026-08-31", decimal.NewFromInt(800)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}

	if got := l.Deposits["2026-08"]["2026-08-31"]; !got.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected deposit 800, got %s", got)
	}
}

// TestRecurringRuleValidation проверяет границы дня месяца и дни недели.
func TestRecurringRuleValidation(t *testing.T) {
	store := newTestStore(t)

	valid := models.RecurringRule{
		Amount:      decimal.NewFromInt(1000),
		Category:    models.CategoryNeeds,
		Description: "Rent",
		Frequency:   models.FrequencyMonthly,
		Day:         "31",
	}
	if err := store.AppendRecurringRule(valid); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	invalidDay := valid
	invalidDay.Day = "32"
	if err := store.AppendRecurringRule(invalidDay); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for day 32, got %v", err)
	}

	weekly := valid
	weekly.Frequency = models.FrequencyWeekly
	weekly.Day = "Monday"
	if err := store.AppendRecurringRule(weekly); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	badWeekday := weekly
	badWeekday.Day = "Funday"
	if err := store.AppendRecurringRule(badWeekday); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown weekday, got %v", err)
	}
}

// TestDeleteRecurringRule проверяет удаление шаблона по индексу.
func TestDeleteRecurringRule(t *testing.T) {
	store := newTestStore(t)

	rule := models.RecurringRule{
		Amount:      decimal.NewFromInt(300),
		Category:    models.CategoryWants,
		Description: "Streaming",
		Frequency:   models.FrequencyMonthly,
		Day:         "5",
	}
	if err := store.AppendRecurringRule(rule); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.DeleteRecurringRule(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for index 1, got %v", err)
	}

	if err := store.DeleteRecurringRule(0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}
	if len(l.RecurringExpenses) != 0 {
		t.Fatalf("expected no rules, got %d", len(l.RecurringExpenses))
	}
}

// TestUpdateGoalAmountRange проверяет границы накопленной суммы цели.
func TestUpdateGoalAmountRange(t *testing.T) {
	store := newTestStore(t)

	goal := models.Goal{
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(50000),
		TargetDate:   "2027-06",
		CreatedDate:  "2026-08-31",
	}
	if err := store.AppendGoal(goal); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.UpdateGoalAmount(0, decimal.NewFromInt(60000)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid above target, got %v", err)
	}
	if err := store.UpdateGoalAmount(0, decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid below zero, got %v", err)
	}
	if err := store.UpdateGoalAmount(0, decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("expected no error at target, got %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}
	if got := l.SavingsGoals[0].CurrentAmount; !got.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected current 50000, got %s", got)
	}
}

// TestLoadCorruptFile проверяет, что битый JSON не затирается молча.
func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("expected store, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ledgerFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to corrupt file: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

// TestNormalizeRepairsTheme проверяет починку невалидной темы при загрузке.
func TestNormalizeRepairsTheme(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("expected store, got %v", err)
	}

	raw := `{"monthly_income":"0","settings":{"theme":"solarized"}}`
	if err := os.WriteFile(filepath.Join(dir, ledgerFileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}
	if l.Settings.Theme != models.ThemeDarkly {
		t.Fatalf("expected repaired theme darkly, got %q", l.Settings.Theme)
	}
}
