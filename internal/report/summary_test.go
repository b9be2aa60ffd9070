package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/models"
)

var testNow = time.Date(2026, time.August, 31, 21, 0, 0, 0, time.UTC)

func testLedger() models.Ledger {
	return models.Ledger{
		MonthlyIncome: decimal.NewFromInt(10000),
		Breakdown: map[string]decimal.Decimal{
			models.BreakdownNeeds:   decimal.NewFromInt(5000),
			models.BreakdownWants:   decimal.NewFromInt(3000),
			models.BreakdownSavings: decimal.NewFromInt(2000),
		},
		Expenses: map[string]map[string][]models.Expense{
			"2026-08": {
				"2026-08-30": {
					{Amount: decimal.NewFromInt(300), Category: models.CategoryNeeds, Description: "Groceries"},
				},
				"2026-08-31": {
					{Amount: decimal.NewFromInt(200), Category: models.CategoryWants, Description: "Cinema"},
				},
			},
		},
		Deposits: map[string]map[string]decimal.Decimal{
			"2026-08": {
				"2026-08-15": decimal.NewFromInt(1000),
			},
		},
	}
}

// TestCurrentBalance проверяет формулу баланса: доход + депозиты - расходы.
func TestCurrentBalance(t *testing.T) {
	got := CurrentBalance(testLedger(), testNow)
	if !got.Equal(decimal.NewFromInt(10500)) {
		t.Fatalf("expected balance 10500, got %s", got)
	}
}

// TestCategorySpendingCaseInsensitive проверяет свертку категорий без учета регистра.
func TestCategorySpendingCaseInsensitive(t *testing.T) {
	l := testLedger()
	l.Expenses["2026-08"]["2026-08-29"] = []models.Expense{
		{Amount: decimal.NewFromInt(100), Category: "Needs", Description: "Pharmacy"},
	}

	spending := CategorySpending(l, "2026-08")
	if !spending[models.CategoryNeeds].Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected needs 400, got %s", spending[models.CategoryNeeds])
	}
	if !spending[models.CategoryWants].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected wants 200, got %s", spending[models.CategoryWants])
	}
}

// TestRemainingClampsToZero проверяет обрезку отрицательных остатков.
func TestRemainingClampsToZero(t *testing.T) {
	l := testLedger()
	l.Expenses["2026-08"]["2026-08-28"] = []models.Expense{
		{Amount: decimal.NewFromInt(9000), Category: models.CategoryNeeds, Description: "Repairs"},
	}

	remaining := Remaining(l, testNow)
	if !remaining.Needs.IsZero() {
		t.Fatalf("expected needs remaining 0, got %s", remaining.Needs)
	}
	if !remaining.Wants.Equal(decimal.NewFromInt(2800)) {
		t.Fatalf("expected wants remaining 2800, got %s", remaining.Wants)
	}
	if !remaining.Savings.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected savings remaining 1000, got %s", remaining.Savings)
	}
}

// TestBudgetWarningsThreshold проверяет порог 90% для предупреждения по категории.
func TestBudgetWarningsThreshold(t *testing.T) {
	l := testLedger()

	// 300 + 4200 = 4500 = ровно 90% от 5000.
	l.Expenses["2026-08"]["2026-08-27"] = []models.Expense{
		{Amount: decimal.NewFromInt(4200), Category: models.CategoryNeeds, Description: "School fees"},
	}

	warnings := BudgetWarnings(l, testNow)
	found := false
	for _, w := range warnings {
		if w == "Warning: You've spent 90.0% of your Needs budget!" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected needs warning at 90%%, got %v", warnings)
	}
}

// TestBudgetWarningsBelowThreshold проверяет тишину ниже порога.
func TestBudgetWarningsBelowThreshold(t *testing.T) {
	l := testLedger()

	// 300 + 4150 = 4450 = 89% от 5000.
	l.Expenses["2026-08"]["2026-08-27"] = []models.Expense{
		{Amount: decimal.NewFromInt(4150), Category: models.CategoryNeeds, Description: "School fees"},
	}

	for _, w := range BudgetWarnings(l, testNow) {
		if strings.Contains(w, "Needs budget") {
			t.Fatalf("unexpected needs warning: %q", w)
		}
	}
}

// TestBudgetWarningsSavingsBehind проверяет предупреждение при депозитах <10% цели.
func TestBudgetWarningsSavingsBehind(t *testing.T) {
	l := testLedger()
	l.Deposits["2026-08"]["2026-08-15"] = decimal.NewFromInt(100)

	warnings := BudgetWarnings(l, testNow)
	found := false
	for _, w := range warnings {
		if w == "Warning: You're behind on your savings goal for this month!" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected savings warning, got %v", warnings)
	}

	// Депозиты в 1000 = 50% цели: предупреждения быть не должно.
	for _, w := range BudgetWarnings(testLedger(), testNow) {
		if strings.Contains(w, "savings goal") {
			t.Fatalf("unexpected savings warning: %q", w)
		}
	}
}

// TestDailySummaryText проверяет состав ежедневной сводки.
func TestDailySummaryText(t *testing.T) {
	text := DailySummary(testLedger(), testNow)

	wantLines := []string{
		"📅 Date: August 31, 2026",
		"💸 Today's Spend: ₹200.00",
		"💰 Balance: ₹10,500.00",
		"🧾 Needs Remaining: ₹4,700.00",
		"🎁 Wants Remaining: ₹2,800.00",
		"🏦 Savings Remaining: ₹1,000.00",
	}
	for _, line := range wantLines {
		if !strings.Contains(text, line) {
			t.Fatalf("summary missing %q:\n%s", line, text)
		}
	}
}

// TestFormatAmount проверяет группировку разрядов и знак.
func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"999.5", "₹999.50"},
		{"1234.5", "₹1,234.50"},
		{"1234567.89", "₹1,234,567.89"},
		{"-1234.5", "-₹1,234.50"},
	}
	for _, c := range cases {
		got := FormatAmount(decimal.RequireFromString(c.in))
		if got != c.want {
			t.Fatalf("FormatAmount(%s): expected %q, got %q", c.in, c.want, got)
		}
	}
}
