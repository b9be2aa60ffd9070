package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/finance-bot/backend/internal/ledger"
	"example.com/finance-bot/backend/internal/notifications"
)

type BackupHandler struct {
	Store    *ledger.Store
	Notifier *notifications.Hub
}

// NewBackupHandler создает обработчик экспорта и импорта резервной копии.
func NewBackupHandler(store *ledger.Store, notifier *notifications.Hub) *BackupHandler {
	return &BackupHandler{Store: store, Notifier: notifier}
}

// Export отдает единый снимок леджера и списка категорий.
func (h *BackupHandler) Export(c echo.Context) error {
	backup, err := h.Store.ExportBackup()
	if err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="finance_backup.json"`)
	return c.JSON(http.StatusOK, backup)
}

// Import полностью замещает документы хранилища содержимым снимка.
func (h *BackupHandler) Import(c echo.Context) error {
	var backup ledger.Backup
	if err := c.Bind(&backup); err != nil {
		return badRequest(c, "invalid backup payload")
	}

	if err := h.Store.ImportBackup(backup); err != nil {
		return serverError(c)
	}

	publishLedgerUpdate(h.Notifier, "all")
	return c.NoContent(http.StatusNoContent)
}
