package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pwarnimont/filmdb2/internal/backup"
	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/middleware"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/queue"
	"github.com/pwarnimont/filmdb2/internal/service"
)

// EventPublisher sends the audit event of a committed import.
type EventPublisher interface {
	PublishBackupImported(ctx context.Context, ev queue.BackupImportedEvent) error
}

// CachePurger drops cached export responses after an import changed the
// catalog.  It returns the number of entries removed.
type CachePurger func(ctx context.Context) (int, error)

// BackupHandler serves the export and import endpoints.
type BackupHandler struct {
	Svc       *backup.Service
	Publisher EventPublisher // optional
	Purge     CachePurger    // optional
	Timeout   time.Duration  // upper bound on one import, 0 for none
	Log       logging.Logger
}

func NewBackupHandler(svc *backup.Service, pub EventPublisher, purge CachePurger, timeout time.Duration, log logging.Logger) *BackupHandler {
	if svc == nil {
		panic("nil backup service passed to NewBackupHandler")
	}
	return &BackupHandler{Svc: svc, Publisher: pub, Purge: purge, Timeout: timeout, Log: log}
}

// principal builds the acting principal from the identity JWTAuth stored.
func principal(c echo.Context) (backup.Principal, bool) {
	id := middleware.UserID(c)
	role := model.Role(middleware.Role(c))
	if id == "anon" || !role.Valid() {
		return backup.Principal{}, false
	}
	return backup.Principal{ID: id, Role: role}, true
}

// importStatus maps an import error to the response status and message.
// Store failures get a generic message; the details are only logged.
func importStatus(err error) (int, string) {
	switch {
	case errors.Is(err, backup.ErrOwnershipViolation):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, backup.ErrOwnerMismatch),
		errors.Is(err, backup.ErrDanglingReference),
		errors.Is(err, backup.ErrInvalidFormat),
		errors.Is(err, backup.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "import failed"
	}
}

// Export: GET /v1/backup/export
func (h *BackupHandler) Export(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	snap, err := h.Svc.Export(c.Request().Context(), p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	return c.JSON(http.StatusOK, snap)
}

// Import: POST /v1/backup/import
func (h *BackupHandler) Import(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var payload backup.Payload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	sum, err := h.Svc.Import(ctx, p, &payload)
	if err != nil {
		status, msg := importStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	// the import is committed; nothing below may fail the request
	reqCtx := c.Request().Context()
	if h.Purge != nil {
		if n, err := h.Purge(reqCtx); err != nil {
			h.Log.Warn(reqCtx, "purge export cache", "err", err)
		} else if n > 0 {
			h.Log.Debug(reqCtx, "purged export cache", "keys", n)
		}
	}
	if h.Publisher != nil {
		ev := service.BackupImported(p, sum, time.Now(), logging.RequestID(reqCtx))
		if err := h.Publisher.PublishBackupImported(reqCtx, ev); err != nil {
			h.Log.Warn(reqCtx, "publish backup.imported", "err", err)
		}
	}
	return c.JSON(http.StatusOK, sum)
}
