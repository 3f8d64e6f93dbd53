package backup

import (
	"context"
	"fmt"
	"strings"
)

// ownershipResolver decides who owns what an import writes, and whether
// the principal may write it at all.
type ownershipResolver struct {
	scope AccessScope
	refs  *refCache
}

// resolveOwnerForWrite returns the effective owner of a record being
// written.  existingOwner is nil when the record is new.  An administrator's
// requested owner is authoritative (an empty one falls back to the
// administrator); anyone else always writes into their own account and may
// not update a record owned by another account.
func (r *ownershipResolver) resolveOwnerForWrite(kind, id string, existingOwner *string, requestedOwner string) (string, error) {
	if r.scope.AllAccounts() {
		if requestedOwner = strings.TrimSpace(requestedOwner); requestedOwner != "" {
			return requestedOwner, nil
		}
		return r.scope.PrincipalID(), nil
	}
	if existingOwner != nil && *existingOwner != r.scope.PrincipalID() {
		return "", violation("%s %s belongs to another account", kind, id)
	}
	return r.scope.PrincipalID(), nil
}

// resolveCameraLinkage validates the camera a film roll points at.  The
// camera must exist and belong to targetOwner.
func (r *ownershipResolver) resolveCameraLinkage(ctx context.Context, rollID string, cameraID *string, targetOwner string) (*string, error) {
	if cameraID == nil || strings.TrimSpace(*cameraID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*cameraID)
	owner, found, err := r.refs.cameras.resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up camera %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: camera %s referenced by film roll %s does not exist", ErrDanglingReference, id, rollID)
	}
	if owner != targetOwner {
		if r.scope.AllAccounts() {
			return nil, fmt.Errorf("%w: camera %s belongs to %s but film roll %s belongs to %s",
				ErrOwnerMismatch, id, owner, rollID, targetOwner)
		}
		return nil, violation("camera %s linked from film roll %s belongs to another account", id, rollID)
	}
	return &id, nil
}

// resolveFilmRollOwner returns the owner of the roll a print hangs off and
// checks that the principal may attach prints to it.
func (r *ownershipResolver) resolveFilmRollOwner(ctx context.Context, printID, filmRollID string) (string, error) {
	owner, found, err := r.refs.filmRolls.resolve(ctx, filmRollID)
	if err != nil {
		return "", fmt.Errorf("look up film roll %s: %w", filmRollID, err)
	}
	if !found {
		return "", fmt.Errorf("%w: film roll %s referenced by print %s does not exist", ErrDanglingReference, filmRollID, printID)
	}
	if !r.scope.Owns(owner) {
		return "", violation("film roll %s referenced by print %s belongs to another account", filmRollID, printID)
	}
	return owner, nil
}
