package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/pwarnimont/filmdb2/internal/handler"
	"github.com/pwarnimont/filmdb2/internal/middleware"
	"github.com/pwarnimont/filmdb2/internal/model"
)

// BackupOptions carries the per-route middleware of the backup endpoints.
// Nil middleware is skipped.
type BackupOptions struct {
	JWTSecret   string
	BodyLimit   string              // echo size syntax, e.g. "32M"; empty for no limit
	ImportLimit echo.MiddlewareFunc // rate limit in front of import
	ExportCache echo.MiddlewareFunc // response cache in front of export
}

// RegisterBackup registers the backup endpoints under /v1/backup.  Both
// routes require a valid JWT with the USER or ADMIN role; what a caller
// sees and may write is decided by the backup engine from that role.
func RegisterBackup(e *echo.Echo, h *handler.BackupHandler, opts BackupOptions) {
	g := e.Group("/v1/backup",
		middleware.JWTAuth(opts.JWTSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)

	var exportMW []echo.MiddlewareFunc
	if opts.ExportCache != nil {
		exportMW = append(exportMW, opts.ExportCache)
	}
	g.GET("/export", h.Export, exportMW...)

	var importMW []echo.MiddlewareFunc
	if opts.ImportLimit != nil {
		importMW = append(importMW, opts.ImportLimit)
	}
	if opts.BodyLimit != "" {
		importMW = append(importMW, echomw.BodyLimit(opts.BodyLimit))
	}
	g.POST("/import", h.Import, importMW...)
}
