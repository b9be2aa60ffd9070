package recurring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
)

func newTestStore(t *testing.T) *ledger.Store {
	t.Helper()

	store, err := ledger.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected store, got %v", err)
	}
	return store
}

func addRule(t *testing.T, store *ledger.Store, rule models.RecurringRule) {
	t.Helper()

	if err := store.AppendRecurringRule(rule); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// TestRunMonthlyOncePerDay проверяет идемпотентность в пределах дня.
func TestRunMonthlyOncePerDay(t *testing.T) {
	store := newTestStore(t)
	addRule(t, store, models.RecurringRule{
		Amount:      decimal.NewFromInt(15000),
		Category:    models.CategoryNeeds,
		Description: "Rent",
		Frequency:   models.FrequencyMonthly,
		Day:         "5",
	})

	now := time.Date(2026, time.August, 5, 9, 0, 0, 0, time.UTC)
	processor := NewProcessor(store)

	added, err := processor.Run(now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}

	added, err = processor.Run(now.Add(6 * time.Hour))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 added on second run, got %d", added)
	}

	l, err := store.Load()
	if err != nil {
		t.Fatalf("expected ledger, got %v", err)
	}

	day := l.Expenses["2026-08"]["2026-08-05"]
	if len(day) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(day))
	}
	if day[0].Note != NoteTag {
		t.Fatalf("expected note %q, got %q", NoteTag, day[0].Note)
	}
	if l.RecurringExpenses[0].LastAdded != "2026-08-05" {
		t.Fatalf("unexpected last_added: %q", l.RecurringExpenses[0].LastAdded)
	}
}

// TestRunMonthlyWrongDay проверяет, что правило молчит не в свой день.
func TestRunMonthlyWrongDay(t *testing.T) {
	store := newTestStore(t)
	addRule(t, store, models.RecurringRule{
		Amount:      decimal.NewFromInt(500),
		Category:    models.CategoryWants,
		Description: "Streaming",
		Frequency:   models.FrequencyMonthly,
		Day:         "5",
	})

	added, err := NewProcessor(store).Run(time.Date(2026, time.August, 6, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 added, got %d", added)
	}
}

// TestRunDay31ShortMonth проверяет, что правило на 31-е молчит в коротком месяце.
func TestRunDay31ShortMonth(t *testing.T) {
	store := newTestStore(t)
	addRule(t, store, models.RecurringRule{
		Amount:      decimal.NewFromInt(1000),
		Category:    models.CategoryNeeds,
		Description: "Insurance",
		Frequency:   models.FrequencyMonthly,
		Day:         "31",
	})

	processor := NewProcessor(store)

	// Апрель заканчивается 30-м числом.
	added, err := processor.Run(time.Date(2026, time.April, 30, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 added in April, got %d", added)
	}

	added, err = processor.Run(time.Date(2026, time.May, 31, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added in May, got %d", added)
	}
}

// TestRunWeekly проверяет срабатывание по названию дня недели.
func TestRunWeekly(t *testing.T) {
	store := newTestStore(t)
	addRule(t, store, models.RecurringRule{
		Amount:      decimal.NewFromInt(200),
		Category:    models.CategoryWants,
		Description: "Gym class",
		Frequency:   models.FrequencyWeekly,
		Day:         "Monday",
	})

	processor := NewProcessor(store)

	// 2026-08-31 приходится на понедельник.
	added, err := processor.Run(time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added on Monday, got %d", added)
	}

	added, err = processor.Run(time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 added on Tuesday, got %d", added)
	}
}
