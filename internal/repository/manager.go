package repository

import "github.com/pwarnimont/filmdb2/internal/dbx"

// Manager vends repositories bound to a DBTX and rebinds their queries
// for the connected dialect.  Pass a *sql.DB for standalone calls or the
// transaction handle from dbx.WithTx to group writes.
type Manager struct {
	dialect dbx.Dialect
}

// NewManager constructs a Manager for dialect d.
func NewManager(d dbx.Dialect) *Manager { return &Manager{dialect: d} }

// Dialect reports the dialect the manager binds for.
func (m *Manager) Dialect() dbx.Dialect { return m.dialect }

func (m *Manager) bind(db dbx.DBTX) dbx.DBTX { return dbx.Bind(db, m.dialect) }

// Users returns a UserRepo bound to db.
func (m *Manager) Users(db dbx.DBTX) *UserRepo { return NewUserRepo(m.bind(db)) }

// Tokens returns a TokenRepo bound to db.
func (m *Manager) Tokens(db dbx.DBTX) *TokenRepo { return NewTokenRepo(m.bind(db)) }

// Cameras returns a CameraRepo bound to db.
func (m *Manager) Cameras(db dbx.DBTX) *CameraRepo { return NewCameraRepo(m.bind(db)) }

// FilmRolls returns a FilmRollRepo bound to db.
func (m *Manager) FilmRolls(db dbx.DBTX) *FilmRollRepo { return NewFilmRollRepo(m.bind(db)) }

// Developments returns a DevelopmentRepo bound to db.
func (m *Manager) Developments(db dbx.DBTX) *DevelopmentRepo {
	return NewDevelopmentRepo(m.bind(db))
}

// Prints returns a PrintRepo bound to db.
func (m *Manager) Prints(db dbx.DBTX) *PrintRepo { return NewPrintRepo(m.bind(db)) }
