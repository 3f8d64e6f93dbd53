package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/pwarnimont/filmdb2/internal/backup"
	"github.com/pwarnimont/filmdb2/internal/config"
	"github.com/pwarnimont/filmdb2/internal/database"
	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/repository"
)

// engine is an open database plus the backup service bound to it.
type engine struct {
	db      *sql.DB
	dialect dbx.Dialect
	svc     *backup.Service
	log     *logging.ZapLogger
}

func openEngine(ctx context.Context) (*engine, error) {
	log, err := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	db, dialect, err := database.Open(ctx, config.LoadDB())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	svc := backup.NewService(db, repository.NewManager(dialect), backup.WithLogger(log))
	return &engine{db: db, dialect: dialect, svc: svc, log: log}, nil
}

func (e *engine) Close() {
	_ = e.db.Close()
	_ = e.log.Sync()
}

// principalFlags are the flags shared by export and import.
type principalFlags struct {
	user  string
	admin bool
}

func (p principalFlags) principal() backup.Principal {
	role := model.RoleUser
	if p.admin {
		role = model.RoleAdmin
	}
	return backup.Principal{ID: p.user, Role: role}
}
