package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pwarnimont/filmdb2/internal/repository"
)

// importRun is the state of one Import call: repositories bound to the
// transaction, the reference cache, and the running summary.  It is never
// reused.
type importRun struct {
	now    time.Time
	newID  func() string
	owners *ownershipResolver

	users        *repository.UserRepo
	cameras      *repository.CameraRepo
	filmRolls    *repository.FilmRollRepo
	developments *repository.DevelopmentRepo
	prints       *repository.PrintRepo

	knownUsers map[string]bool
	summary    Summary
	devsSynced int
	devsGone   int
}

// existing converts an OwnerOf lookup into the optional owner the resolver
// expects.
func existing(owner string, err error) (*string, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// ensureUser fails with ErrDanglingReference when an administrator assigns
// a record to an account that does not exist.
func (r *importRun) ensureUser(ctx context.Context, kind, id, owner string) error {
	if r.knownUsers[owner] {
		return nil
	}
	ok, err := r.users.Exists(ctx, owner)
	if err != nil {
		return fmt.Errorf("look up user %s: %w", owner, err)
	}
	if !ok {
		return fmt.Errorf("%w: user %s owning %s %s does not exist", ErrDanglingReference, owner, kind, id)
	}
	r.knownUsers[owner] = true
	return nil
}

// upsertUser writes an account verbatim, password hash and lockout state
// included.  Only administrators get here.
func (r *importRun) upsertUser(ctx context.Context, b UserBackup) (created bool, err error) {
	u := userFromBackup(b)
	u.UpdatedAt = r.now

	ok, err := r.users.Exists(ctx, u.ID)
	if err != nil {
		return false, fmt.Errorf("look up user %s: %w", u.ID, err)
	}
	if ok {
		err = r.users.Update(ctx, &u)
	} else {
		err = r.users.Insert(ctx, &u)
	}
	if errors.Is(err, repository.ErrEmailExists) {
		return false, fmt.Errorf("%w: user %s: email %s belongs to another account", ErrValidation, u.ID, u.Email)
	}
	if err != nil {
		return false, fmt.Errorf("write user %s: %w", u.ID, err)
	}
	r.knownUsers[u.ID] = true
	return !ok, nil
}

func (r *importRun) upsertCamera(ctx context.Context, b CameraBackup) (created bool, err error) {
	prev, err := existing(r.cameras.OwnerOf(ctx, b.ID))
	if err != nil {
		return false, fmt.Errorf("look up camera %s: %w", b.ID, err)
	}
	owner, err := r.owners.resolveOwnerForWrite("camera", b.ID, prev, b.UserID)
	if err != nil {
		return false, err
	}
	if r.owners.scope.AllAccounts() {
		if err := r.ensureUser(ctx, "camera", b.ID, owner); err != nil {
			return false, err
		}
	}

	c := cameraFromBackup(b, owner)
	c.UpdatedAt = r.now
	if prev == nil {
		err = r.cameras.Insert(ctx, &c)
	} else {
		err = r.cameras.Update(ctx, &c)
	}
	if err != nil {
		return false, fmt.Errorf("write camera %s: %w", c.ID, err)
	}
	r.owners.refs.cameras.remember(c.ID, owner)
	return prev == nil, nil
}

func (r *importRun) upsertFilmRoll(ctx context.Context, b FilmRollBackup) (created bool, err error) {
	prev, err := existing(r.filmRolls.OwnerOf(ctx, b.ID))
	if err != nil {
		return false, fmt.Errorf("look up film roll %s: %w", b.ID, err)
	}
	owner, err := r.owners.resolveOwnerForWrite("film roll", b.ID, prev, b.UserID)
	if err != nil {
		return false, err
	}
	if r.owners.scope.AllAccounts() {
		if err := r.ensureUser(ctx, "film roll", b.ID, owner); err != nil {
			return false, err
		}
	}
	cameraID, err := r.owners.resolveCameraLinkage(ctx, b.ID, b.CameraID, owner)
	if err != nil {
		return false, err
	}

	f, err := filmRollFromBackup(b, owner, cameraID)
	if err != nil {
		return false, err
	}
	f.UpdatedAt = r.now
	if prev == nil {
		err = r.filmRolls.Insert(ctx, &f)
	} else {
		err = r.filmRolls.Update(ctx, &f)
	}
	if err != nil {
		return false, fmt.Errorf("write film roll %s: %w", f.ID, err)
	}
	r.owners.refs.filmRolls.remember(f.ID, owner)
	return prev == nil, nil
}

// syncDevelopment makes the stored development of a roll match the payload:
// upserted when present, removed when absent.
func (r *importRun) syncDevelopment(ctx context.Context, roll FilmRollBackup) error {
	if roll.Development == nil {
		gone, err := r.developments.DeleteByFilmRollID(ctx, roll.ID)
		if err != nil {
			return fmt.Errorf("delete development of film roll %s: %w", roll.ID, err)
		}
		if gone {
			r.devsGone++
		}
		return nil
	}

	d := developmentFromBackup(*roll.Development, roll.ID)
	if d.ID == "" {
		d.ID = r.newID()
	}
	if _, err := r.developments.UpsertByFilmRollID(ctx, &d); err != nil {
		return fmt.Errorf("write development of film roll %s: %w", roll.ID, err)
	}
	r.devsSynced++
	return nil
}

func (r *importRun) upsertPrint(ctx context.Context, b PrintBackup) (created bool, err error) {
	if _, err := r.owners.resolveFilmRollOwner(ctx, b.ID, b.FilmRollID); err != nil {
		return false, err
	}
	prev, err := existing(r.prints.OwnerOf(ctx, b.ID))
	if err != nil {
		return false, fmt.Errorf("look up print %s: %w", b.ID, err)
	}
	if prev != nil && !r.owners.scope.Owns(*prev) {
		return false, violation("print %s belongs to another account", b.ID)
	}

	p := printFromBackup(b)
	p.UpdatedAt = r.now
	if prev == nil {
		err = r.prints.Insert(ctx, &p)
	} else {
		err = r.prints.Update(ctx, &p)
	}
	if err != nil {
		return false, fmt.Errorf("write print %s: %w", p.ID, err)
	}
	return prev == nil, nil
}

// count adds one write to the summary.
func count(created bool, c, u *int) {
	if created {
		*c++
	} else {
		*u++
	}
}

