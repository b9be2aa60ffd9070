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
)

type GoalHandler struct {
	Store    *ledger.Store
	Notifier *notifications.Hub
}

// NewGoalHandler создает обработчик целей накоплений.
func NewGoalHandler(store *ledger.Store, notifier *notifications.Hub) *GoalHandler {
	return &GoalHandler{Store: store, Notifier: notifier}
}

type CreateGoalRequest struct {
	Name         string  `json:"name" validate:"required"`
	TargetAmount float64 `json:"target_amount" validate:"gt=0"`
	TargetDate   string  `json:"target_date" validate:"required"`
}

type UpdateGoalAmountRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

// List возвращает все цели накоплений.
func (h *GoalHandler) List(c echo.Context) error {
	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	goals := l.SavingsGoals
	if goals == nil {
		goals = []models.Goal{}
	}
	return c.JSON(http.StatusOK, goals)
}

// Create добавляет цель накоплений; target_date в формате YYYY-MM.
func (h *GoalHandler) Create(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if _, err := time.Parse(models.MonthKeyLayout, req.TargetDate); err != nil {
		return badRequest(c, "target_date must be YYYY-MM")
	}

	goal := models.Goal{
		Name:          req.Name,
		TargetAmount:  decimal.NewFromFloat(req.TargetAmount),
		CurrentAmount: decimal.Zero,
		TargetDate:    req.TargetDate,
		CreatedDate:   models.DayKey(time.Now()),
	}

	if err := h.Store.AppendGoal(goal); err != nil {
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "goals")
	return c.JSON(http.StatusCreated, goal)
}

// UpdateAmount меняет накопленную сумму цели; сумма вне [0, target]
// отклоняется.
func (h *GoalHandler) UpdateAmount(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}

	var req UpdateGoalAmountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if err := h.Store.UpdateGoalAmount(index, decimal.NewFromFloat(req.Amount)); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		if errors.Is(err, ledger.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "goals")
	return c.NoContent(http.StatusNoContent)
}

// Delete удаляет цель по индексу.
func (h *GoalHandler) Delete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}

	if err := h.Store.DeleteGoal(index); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "goals")
	return c.NoContent(http.StatusNoContent)
}
