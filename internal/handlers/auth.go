package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/finance-bot/backend/internal/auth"
	"example.com/finance-bot/backend/internal/ledger"
)

type AuthHandler struct {
	Store  *ledger.Store
	Tokens *auth.TokenManager
}

// NewAuthHandler создает обработчик разблокировки по PIN-коду.
func NewAuthHandler(store *ledger.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{Store: store, Tokens: tokens}
}

type UnlockRequest struct {
	PIN string `json:"pin"`
}

type UnlockResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UpdatePINRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin" validate:"required"`
}

// Unlock проверяет PIN и выдает access-токен. Пока PIN не установлен,
// разблокировка проходит без проверки.
func (h *AuthHandler) Unlock(c echo.Context) error {
	var req UnlockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	if l.Settings.PIN != "" {
		if err := auth.ComparePIN(l.Settings.PIN, req.PIN); err != nil {
			return unauthorized(c)
		}
	}

	token, expiresAt, err := h.Tokens.NewAccessToken()
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, UnlockResponse{AccessToken: token, ExpiresAt: expiresAt})
}

// UpdatePIN устанавливает или меняет PIN-код. Смена требует текущий PIN.
func (h *AuthHandler) UpdatePIN(c echo.Context) error {
	var req UpdatePINRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	l, err := h.Store.Load()
	if err != nil {
		return serverError(c)
	}

	if l.Settings.PIN != "" {
		if err := auth.ComparePIN(l.Settings.PIN, req.CurrentPIN); err != nil {
			return unauthorized(c)
		}
	}

	hash, err := auth.HashPIN(req.NewPIN)
	if err != nil {
		return badRequest(c, "pin must be exactly 4 digits")
	}

	if err := h.Store.SetPINHash(hash); err != nil {
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
