package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/models"
)

var (
	hundred          = decimal.NewFromInt(100)
	warnRatio        = decimal.RequireFromString("0.9")
	savingsFloor     = decimal.RequireFromString("0.1")
	summaryDateShape = "January 02, 2006"
)

// Remainders содержит остатки бюджета на текущий месяц по категориям.
type Remainders struct {
	Needs   decimal.Decimal `json:"needs"`
	Wants   decimal.Decimal `json:"wants"`
	Savings decimal.Decimal `json:"savings"`
}

// MonthExpenseTotal суммирует все расходы месяца.
func MonthExpenseTotal(l models.Ledger, month string) decimal.Decimal {
	total := decimal.Zero
	for _, dayExpenses := range l.Expenses[month] {
		for _, expense := range dayExpenses {
			total = total.Add(expense.Amount)
		}
	}
	return total
}

// MonthDepositTotal суммирует депозиты месяца.
func MonthDepositTotal(l models.Ledger, month string) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range l.Deposits[month] {
		total = total.Add(amount)
	}
	return total
}

// CategorySpending считает траты месяца по категориям; категория в записях
// сопоставляется без учета регистра.
func CategorySpending(l models.Ledger, month string) map[models.Category]decimal.Decimal {
	spending := map[models.Category]decimal.Decimal{
		models.CategoryNeeds: decimal.Zero,
		models.CategoryWants: decimal.Zero,
	}
	for _, dayExpenses := range l.Expenses[month] {
		for _, expense := range dayExpenses {
			category, ok := models.ParseCategory(string(expense.Category))
			if !ok {
				continue
			}
			spending[category] = spending[category].Add(expense.Amount)
		}
	}
	return spending
}

// CurrentBalance = доход + депозиты текущего месяца - расходы текущего месяца.
func CurrentBalance(l models.Ledger, now time.Time) decimal.Decimal {
	month := models.MonthKey(now)
	return l.MonthlyIncome.Add(MonthDepositTotal(l, month)).Sub(MonthExpenseTotal(l, month))
}

// TodayExpenses возвращает расходы за сегодняшний день в порядке добавления.
func TodayExpenses(l models.Ledger, now time.Time) []models.Expense {
	return l.Expenses[models.MonthKey(now)][models.DayKey(now)]
}

// TodayTotal суммирует расходы за сегодня.
func TodayTotal(l models.Ledger, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range TodayExpenses(l, now) {
		total = total.Add(expense.Amount)
	}
	return total
}

// Remaining считает остатки бюджета: для needs/wants против трат месяца,
// для savings против депозитов (депозиты и есть механизм накоплений).
// Отрицательные остатки обрезаются до нуля.
func Remaining(l models.Ledger, now time.Time) Remainders {
	month := models.MonthKey(now)
	spending := CategorySpending(l, month)
	deposits := MonthDepositTotal(l, month)

	return Remainders{
		Needs:   clampZero(l.Breakdown[models.BreakdownNeeds].Sub(spending[models.CategoryNeeds])),
		Wants:   clampZero(l.Breakdown[models.BreakdownWants].Sub(spending[models.CategoryWants])),
		Savings: clampZero(l.Breakdown[models.BreakdownSavings].Sub(deposits)),
	}
}

// BudgetWarnings возвращает предупреждения: needs/wants при расходе >=90%
// бюджета и отставание по накоплениям при депозитах <10% цели. Тексты
// только информируют, дальнейшие траты не блокируются.
func BudgetWarnings(l models.Ledger, now time.Time) []string {
	month := models.MonthKey(now)
	spending := CategorySpending(l, month)

	var warnings []string
	for _, category := range []models.Category{models.CategoryNeeds, models.CategoryWants} {
		budget := l.Breakdown[string(category)]
		if !budget.IsPositive() {
			continue
		}
		spent := spending[category]
		if spent.GreaterThanOrEqual(budget.Mul(warnRatio)) {
			percentage := spent.Div(budget).Mul(hundred)
			warnings = append(warnings, fmt.Sprintf(
				"Warning: You've spent %s%% of your %s budget!",
				percentage.StringFixed(1), titleCategory(category)))
		}
	}

	savingsBudget := l.Breakdown[models.BreakdownSavings]
	if savingsBudget.IsPositive() {
		deposited := MonthDepositTotal(l, month)
		if deposited.LessThan(savingsBudget.Mul(savingsFloor)) {
			warnings = append(warnings, "Warning: You're behind on your savings goal for this month!")
		}
	}

	return warnings
}

// DailySummary собирает текст ежедневной сводки для отправки в чат.
func DailySummary(l models.Ledger, now time.Time) string {
	remaining := Remaining(l, now)

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Date: %s\n", now.Format(summaryDateShape))
	fmt.Fprintf(&b, "💸 Today's Spend: %s\n", FormatAmount(TodayTotal(l, now)))
	fmt.Fprintf(&b, "💰 Balance: %s\n", FormatAmount(CurrentBalance(l, now)))
	fmt.Fprintf(&b, "🧾 Needs Remaining: %s\n", FormatAmount(remaining.Needs))
	fmt.Fprintf(&b, "🎁 Wants Remaining: %s\n", FormatAmount(remaining.Wants))
	fmt.Fprintf(&b, "🏦 Savings Remaining: %s", FormatAmount(remaining.Savings))
	return b.String()
}

// FormatAmount печатает сумму в рупиях с разделителями тысяч: ₹1,234.50.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return sign + "₹" + grouped.String() + "." + fracPart
}

func clampZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func titleCategory(category models.Category) string {
	if len(category) == 0 {
		return ""
	}
	return strings.ToUpper(string(category[:1])) + string(category[1:])
}
