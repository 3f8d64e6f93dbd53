// Package backup implements the catalog backup engine: a role-scoped
// snapshot export and an all-or-nothing import that reconciles a snapshot
// with the store record by record.
package backup

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/repository"
)

// Observer is notified when an import or export finishes.  The metrics
// package provides the production implementation.
type Observer interface {
	ImportFinished(s Summary, elapsed time.Duration, err error)
	ExportFinished(elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ImportFinished(Summary, time.Duration, error) {}
func (nopObserver) ExportFinished(time.Duration, error)          {}

// Service runs imports and exports against one database.
type Service struct {
	db    *sql.DB
	repos *repository.Manager
	log   logging.Logger
	obs   Observer
	now   func() time.Time
	newID func() string
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger.  The default discards everything.
func WithLogger(l logging.Logger) Option { return func(s *Service) { s.log = l } }

// WithObserver sets the import/export observer.
func WithObserver(o Observer) Option { return func(s *Service) { s.obs = o } }

// WithClock replaces time.Now as the source of updated_at values and the
// snapshot generation time.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator replaces uuid.NewString for ids the engine assigns.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// NewService returns a Service that reads and writes db through repos.
func NewService(db *sql.DB, repos *repository.Manager, opts ...Option) *Service {
	s := &Service{
		db:    db,
		repos: repos,
		log:   logging.NewNop(),
		obs:   nopObserver{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
