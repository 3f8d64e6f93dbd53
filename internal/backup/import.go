package backup

import (
	"context"
	"time"

	"github.com/pwarnimont/filmdb2/internal/dbx"
)

// Import reconciles p with the store on behalf of principal.  Every record
// in the payload is created or updated by id; nothing missing from the
// payload is deleted except the development of a listed roll.  All writes
// happen in one transaction: on any error nothing persists and the error
// wraps one of the package sentinels or is a store failure.
//
// Records are processed in dependency order (users, cameras, film rolls,
// developments, prints), each list in payload order, and the first failure
// wins.
func (s *Service) Import(ctx context.Context, principal Principal, p *Payload) (Summary, error) {
	start := time.Now()
	sum, err := s.runImport(ctx, principal, p)
	elapsed := time.Since(start)
	s.obs.ImportFinished(sum, elapsed, err)

	log := s.log.With("principal", principal.ID, "role", string(principal.Role))
	if err != nil {
		if IsClientError(err) {
			log.Warn(ctx, "backup import rejected", "kind", Kind(err), "err", err)
		} else {
			log.Error(ctx, "backup import failed", "kind", Kind(err), "err", err)
		}
		return Summary{}, err
	}
	log.Info(ctx, "backup imported",
		"film_rolls_created", sum.FilmRollsCreated, "film_rolls_updated", sum.FilmRollsUpdated,
		"cameras_created", sum.CamerasCreated, "cameras_updated", sum.CamerasUpdated,
		"prints_created", sum.PrintsCreated, "prints_updated", sum.PrintsUpdated,
		"elapsed", elapsed)
	return sum, nil
}

func (s *Service) runImport(ctx context.Context, principal Principal, p *Payload) (Summary, error) {
	if p == nil {
		return Summary{}, invalid("empty payload")
	}
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	scope := ScopeFor(principal)
	prints := AggregatePrints(p.FilmRolls, p.Prints)

	var sum Summary
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		run := s.newRun(tx, scope)

		if scope.AllAccounts() {
			for _, u := range p.Users {
				if _, err := run.upsertUser(ctx, u); err != nil {
					return err
				}
			}
		}
		for _, c := range p.Cameras {
			created, err := run.upsertCamera(ctx, c)
			if err != nil {
				return err
			}
			count(created, &run.summary.CamerasCreated, &run.summary.CamerasUpdated)
		}
		for _, r := range p.FilmRolls {
			created, err := run.upsertFilmRoll(ctx, r)
			if err != nil {
				return err
			}
			count(created, &run.summary.FilmRollsCreated, &run.summary.FilmRollsUpdated)
		}
		for _, r := range p.FilmRolls {
			if err := run.syncDevelopment(ctx, r); err != nil {
				return err
			}
		}
		for _, pr := range prints {
			created, err := run.upsertPrint(ctx, pr)
			if err != nil {
				return err
			}
			count(created, &run.summary.PrintsCreated, &run.summary.PrintsUpdated)
		}

		s.log.Debug(ctx, "backup import developments",
			"synced", run.devsSynced, "removed", run.devsGone)
		sum = run.summary
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *Service) newRun(tx dbx.DBTX, scope AccessScope) *importRun {
	cameras := s.repos.Cameras(tx)
	filmRolls := s.repos.FilmRolls(tx)
	return &importRun{
		now:   s.now().UTC(),
		newID: s.newID,
		owners: &ownershipResolver{
			scope: scope,
			refs:  newRefCache(cameras.OwnerOf, filmRolls.OwnerOf),
		},
		users:        s.repos.Users(tx),
		cameras:      cameras,
		filmRolls:    filmRolls,
		developments: s.repos.Developments(tx),
		prints:       s.repos.Prints(tx),
		knownUsers:   map[string]bool{},
	}
}
