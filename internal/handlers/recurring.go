package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/models"
	"example.com/finance-bot/backend/internal/notifications"
	"example.com/finance-bot/backend/internal/recurring"
)

type RecurringHandler struct {
	Store     *ledger.Store
	Processor *recurring.Processor
	Notifier  *notifications.Hub
}

// NewRecurringHandler создает обработчик регулярных расходов.
func NewRecurringHandler(store *ledger.Store, processor *recurring.Processor, notifier *notifications.Hub) *RecurringHandler {
	return &RecurringHandler{Store: store, Processor: processor, Notifier: notifier}
}

type CreateRecurringRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Frequency   string  `json:"frequency" validate:"required,oneof=monthly weekly"`
	Day         string  `json:"day" validate:"required"`
}

// List возвращает все шаблоны регулярных расходов.
func (h *RecurringHandler) List(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	rules := l.RecurringExpenses
	if rules == nil {
		rules = []models.RecurringRule{}
	}
	return c.JSON(http.StatusOK, rules)
}

// Create добавляет шаблон регулярного расхода.
func (h *RecurringHandler) Create(c echo.Context) error {
	var req CreateRecurringRequest
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
	frequency, _ := models.ParseFrequency(req.Frequency)

	rule := models.RecurringRule{
		Amount:      decimal.NewFromFloat(req.Amount),
		Category:    category,
		Description: req.Description,
		Frequency:   frequency,
		Day:         req.Day,
	}

	if err := h.Store.AppendRecurringRule(rule); err != nil {
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "recurring")
	return c.JSON(http.StatusCreated, rule)
}

// Delete удаляет шаблон по индексу.
func (h *RecurringHandler) Delete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}

	if err := h.Store.DeleteRecurringRule(index); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "recurring rule not found")
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "recurring")
	return c.NoContent(http.StatusNoContent)
}

// Process материализует регулярные расходы, у которых наступил срок.
// Повторный вызов в тот же день ничего не добавляет.
func (h *RecurringHandler) Process(c echo.Context) error {
	added, err := h.Processor.Run(time.Now())
	if err != nil {
		return serverError(c)
	}

	if added > 0 {
		publishLedgerUpdate(h.Notifier, "expenses")
	}
	return c.JSON(http.StatusOK, map[string]int{"added": added})
}
