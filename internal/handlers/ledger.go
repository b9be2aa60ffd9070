package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
	"example.com/finance-bot/backend/internal/notifications"
	"example.com/finance-bot/backend/internal/report"
)

type LedgerHandler struct {
	Store    *ledger.Store
	Notifier *notifications.Hub
}

// NewLedgerHandler создает обработчик операций над леджером.
func NewLedgerHandler(store *ledger.Store, notifier *notifications.Hub) *LedgerHandler {
	return &LedgerHandler{Store: store, Notifier: notifier}
}

type SetIncomeRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Note        string  `json:"note"`
	ImagePath   string  `json:"image_path"`
	Date        string  `json:"date"`
}

type SetDepositRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Date   string  `json:"date"`
}

type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=darkly cosmo"`
}

// Get возвращает весь леджер; хэш PIN-кода наружу не отдается.
func (h *LedgerHandler) Get(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	l.Settings.PIN = ""
	return c.JSON(http.StatusOK, l)
}

// SetIncome устанавливает месячный доход; разбивка 50/30/20 пересчитывается.
func (h *LedgerHandler) SetIncome(c echo.Context) error {
	var req SetIncomeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if err := h.Store.SetIncome(decimal.NewFromFloat(req.Amount)); err != nil {
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, "income cannot be negative")
		}
		return serverError(c)
	}

	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "income")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"monthly_income": l.MonthlyIncome,
		"breakdown":      l.Breakdown,
	})
}

// CreateExpense добавляет расход; по умолчанию датой обработки запроса.
func (h *LedgerHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return badRequest(c, "category must be 'needs' or 'wants'")
	}

	month, day, err := resolveDayKeys(req.Date, time.Now())
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	expense := models.Expense{
		Amount:      decimal.NewFromFloat(req.Amount),
		Category:    category,
		Description: req.Description,
		Note:        req.Note,
		ImagePath:   req.ImagePath,
	}

	if err := h.Store.AppendExpense(month, day, expense); err != nil {
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, "validation failed")
		}
		return serverError(c)
	}

	if err := h.Store.AddDescription(category, req.Description); err != nil {
		c.Logger().Warnf("failed to record expense description: %v", err)
	}

	publishLedgerUpdate(h.Notifier, "expenses")
	h.publishWarnings()
	return c.JSON(http.StatusCreated, expense)
}

// ListExpenses возвращает расходы месяца или одного дня.
func (h *LedgerHandler) ListExpenses(c echo.Context) error {
	month := c.QueryParam("month")
	if month == "" {
		month = models.MonthKey(time.Now())
	}
	if _, err := time.Parse(models.MonthKeyLayout, month); err != nil {
		return badRequest(c, "month must be YYYY-MM")
	}

	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	if day := c.QueryParam("day"); day != "" {
		if _, err := time.Parse(models.DayKeyLayout, day); err != nil {
			return badRequest(c, "day must be YYYY-MM-DD")
		}
		expenses := l.Expenses[month][day]
		if expenses == nil {
			expenses = []models.Expense{}
		}
		return c.JSON(http.StatusOK, expenses)
	}

	monthExpenses := l.Expenses[month]
	if monthExpenses == nil {
		monthExpenses = map[string][]models.Expense{}
	}
	return c.JSON(http.StatusOK, monthExpenses)
}

// SetDeposit записывает депозит за день. Повторный депозит за тот же день
// перезаписывает предыдущий: таков естественный ключ схемы.
func (h *LedgerHandler) SetDeposit(c echo.Context) error {
	var req SetDepositRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	month, day, err := resolveDayKeys(req.Date, time.Now())
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	if err := h.Store.SetDeposit(month, day, decimal.NewFromFloat(req.Amount)); err != nil {
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, "validation failed")
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "deposits")
	h.publishWarnings()
	return c.NoContent(http.StatusNoContent)
}

// SetTheme сохраняет тему оформления настольного клиента.
func (h *LedgerHandler) SetTheme(c echo.Context) error {
	var req SetThemeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	theme, _ := models.ParseTheme(req.Theme)
	if err := h.Store.SetTheme(theme); err != nil {
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Categories возвращает известные описания расходов для подсказок в формах.
func (h *LedgerHandler) Categories(c echo.Context) error {
	list, err := h.Store.Categories()
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) publishWarnings() {
	if h.Notifier == nil {
		return
	}

	l, err := h.Store.Load()
	if err != nil {
		return
	}

	warnings := report.BudgetWarnings(l, time.Now())
	if len(warnings) == 0 {
		return
	}

	h.Notifier.Publish(notifications.Event{
		Type: "budget_warning",
		Data: map[string]interface{}{"warnings": warnings},
	})
}

// resolveDayKeys превращает необязательную дату запроса в ключи месяца и дня.
func resolveDayKeys(value string, now time.Time) (string, string, error) {
	if value == "" {
		return models.MonthKey(now), models.DayKey(now), nil
	}

	parsed, err := time.Parse(models.DayKeyLayout, value)
	if err != nil {
		return "", "", err
	}

	return models.MonthKey(parsed), models.DayKey(parsed), nil
}

func publishLedgerUpdate(hub *notifications.Hub, section string) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: "ledger_updated",
		Data: map[string]interface{}{"section": section},
	})
}
