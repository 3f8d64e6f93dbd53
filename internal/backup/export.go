package backup

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pwarnimont/filmdb2/internal/model"
)

// Export builds a snapshot of everything principal can see: their own
// records, or every record plus the user list for an administrator.
// Prints are attached to their rolls and also listed flat.  Export only
// reads and does not open a transaction.
func (s *Service) Export(ctx context.Context, principal Principal) (*Snapshot, error) {
	start := time.Now()
	snap, err := s.export(ctx, ScopeFor(principal))
	s.obs.ExportFinished(time.Since(start), err)
	if err != nil {
		s.log.Error(ctx, "backup export failed", "principal", principal.ID, "err", err)
		return nil, err
	}
	s.log.Info(ctx, "backup exported", "principal", principal.ID,
		"film_rolls", len(snap.FilmRolls), "cameras", len(snap.Cameras), "prints", len(snap.Prints))
	return snap, nil
}

// scoped lists collections either for one owner or for everyone.
type scoped[T any] struct {
	byOwner func(context.Context, string) ([]T, error)
	all     func(context.Context) ([]T, error)
}

func (l scoped[T]) list(ctx context.Context, scope AccessScope) ([]T, error) {
	if scope.AllAccounts() {
		return l.all(ctx)
	}
	return l.byOwner(ctx, scope.PrincipalID())
}

func (s *Service) export(ctx context.Context, scope AccessScope) (*Snapshot, error) {
	cameraRepo := s.repos.Cameras(s.db)
	rollRepo := s.repos.FilmRolls(s.db)
	devRepo := s.repos.Developments(s.db)
	printRepo := s.repos.Prints(s.db)

	cameras, err := scoped[model.Camera]{cameraRepo.ListByOwner, cameraRepo.ListAll}.list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	rolls, err := scoped[model.FilmRoll]{rollRepo.ListByOwner, rollRepo.ListAll}.list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list film rolls: %w", err)
	}
	devs, err := scoped[model.Development]{devRepo.ListByOwner, devRepo.ListAll}.list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list developments: %w", err)
	}
	prints, err := scoped[model.Print]{printRepo.ListByOwner, printRepo.ListAll}.list(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list prints: %w", err)
	}

	slices.SortStableFunc(cameras, func(a, b model.Camera) int { return byCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	slices.SortStableFunc(rolls, func(a, b model.FilmRoll) int { return byCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	slices.SortStableFunc(prints, func(a, b model.Print) int { return byCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })

	snap := &Snapshot{
		GeneratedAt: s.now().UTC(),
		FilmRolls:   make([]FilmRollBackup, 0, len(rolls)),
		Prints:      make([]PrintBackup, 0, len(prints)),
		Cameras:     make([]CameraBackup, 0, len(cameras)),
	}

	camerasByID := make(map[string]model.Camera, len(cameras))
	for _, c := range cameras {
		camerasByID[c.ID] = c
	}
	devByRoll := make(map[string]model.Development, len(devs))
	for _, d := range devs {
		devByRoll[d.FilmRollID] = d
	}
	printsByRoll := make(map[string][]PrintBackup)
	for _, p := range prints {
		pb := printToBackup(p)
		snap.Prints = append(snap.Prints, pb)
		printsByRoll[p.FilmRollID] = append(printsByRoll[p.FilmRollID], pb)
	}

	linked := make(map[string][]LinkedFilmRoll)
	for _, r := range rolls {
		rb := filmRollToBackup(r)
		if d, ok := devByRoll[r.ID]; ok {
			rb.Development = developmentToBackup(d)
		}
		if ps, ok := printsByRoll[r.ID]; ok {
			rb.Prints = ps
		}
		if r.CameraID != nil {
			if c, ok := camerasByID[*r.CameraID]; ok {
				rb.Camera = &FilmRollCamera{ID: c.ID, Manufacturer: c.Manufacturer, Model: c.Model}
			}
			linked[*r.CameraID] = append(linked[*r.CameraID], LinkedFilmRoll{
				ID: r.ID, FilmID: r.FilmID, FilmName: r.FilmName, DateShot: r.DateShot,
			})
		}
		snap.FilmRolls = append(snap.FilmRolls, rb)
	}

	for _, c := range cameras {
		cb := cameraToBackup(c)
		cb.LinkedFilmRolls = linked[c.ID]
		if cb.LinkedFilmRolls == nil {
			cb.LinkedFilmRolls = []LinkedFilmRoll{}
		}
		cb.LinkedFilmRollsCount = len(cb.LinkedFilmRolls)
		snap.Cameras = append(snap.Cameras, cb)
	}

	if scope.AllAccounts() {
		users, err := s.repos.Users(s.db).ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		slices.SortStableFunc(users, func(a, b model.User) int { return byCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
		snap.Users = make([]UserBackup, 0, len(users))
		for _, u := range users {
			snap.Users = append(snap.Users, userToBackup(u))
		}
	}
	return snap, nil
}

func byCreated(a, b time.Time, aID, bID string) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}
