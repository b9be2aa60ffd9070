package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
	"example.com/finance-bot/backend/internal/report"
)

type StatsHandler struct {
	Store *ledger.Store
}

// NewStatsHandler создает обработчик отчетов.
func NewStatsHandler(store *ledger.Store) *StatsHandler {
	return &StatsHandler{Store: store}
}

type SummaryResponse struct {
	Date       string            `json:"date"`
	Text       string            `json:"text"`
	TodaySpend decimal.Decimal   `json:"today_spend"`
	Balance    decimal.Decimal   `json:"balance"`
	Remaining  report.Remainders `json:"remaining"`
}

type TodayResponse struct {
	Expenses []models.Expense `json:"expenses"`
	Total    decimal.Decimal  `json:"total"`
}

// Summary возвращает дневную сводку: текст и числа.
func (h *StatsHandler) Summary(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	now := time.Now()
	return c.JSON(http.StatusOK, SummaryResponse{
		Date:       models.DayKey(now),
		Text:       report.DailySummary(l, now),
		TodaySpend: report.TodayTotal(l, now),
		Balance:    report.CurrentBalance(l, now),
		Remaining:  report.Remaining(l, now),
	})
}

// Balance возвращает текущий баланс месяца.
func (h *StatsHandler) Balance(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string]decimal.Decimal{
		"balance": report.CurrentBalance(l, time.Now()),
	})
}

// Today возвращает расходы за сегодня.
func (h *StatsHandler) Today(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	now := time.Now()
	expenses := report.TodayExpenses(l, now)
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return c.JSON(http.StatusOK, TodayResponse{
		Expenses: expenses,
		Total:    report.TodayTotal(l, now),
	})
}

// Warnings возвращает бюджетные предупреждения текущего месяца.
func (h *StatsHandler) Warnings(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	warnings := report.BudgetWarnings(l, time.Now())
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"warnings": warnings})
}
