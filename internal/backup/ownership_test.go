package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/repository"
)

// stubOwners serves owner lookups from a map and counts store calls.
type stubOwners struct {
	owners map[string]string
	calls  int
	err    error
}

func (s *stubOwners) fetch(_ context.Context, id string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if o, ok := s.owners[id]; ok {
		return o, nil
	}
	return "", repository.ErrNotFound
}

func newResolver(p Principal, cameras, rolls *stubOwners) *ownershipResolver {
	return &ownershipResolver{scope: ScopeFor(p), refs: newRefCache(cameras.fetch, rolls.fetch)}
}

func TestScopeFor(t *testing.T) {
	user := ScopeFor(Principal{ID: "u1", Role: model.RoleUser})
	assert.False(t, user.AllAccounts())
	assert.True(t, user.Owns("u1"))
	assert.False(t, user.Owns("u2"))

	adm := ScopeFor(Principal{ID: "a", Role: model.RoleAdmin})
	assert.True(t, adm.AllAccounts())
	assert.True(t, adm.Owns("u2"))
	assert.Equal(t, "a", adm.PrincipalID())
}

func TestResolveOwnerForWrite(t *testing.T) {
	other := "u2"
	mine := "u1"
	tests := []struct {
		name      string
		p         Principal
		existing  *string
		requested string
		want      string
		wantErr   error
	}{
		{"user new record ignores payload owner", u1, nil, "u2", "u1", nil},
		{"user updates own record", u1, &mine, "", "u1", nil},
		{"user updates foreign record", u1, &other, "u1", "", ErrOwnershipViolation},
		{"admin payload owner wins", admin, &other, "u1", "u1", nil},
		{"admin blank owner falls back", admin, nil, "  ", "admin", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(tt.p, &stubOwners{}, &stubOwners{})
			got, err := r.resolveOwnerForWrite("film roll", "r1", tt.existing, tt.requested)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "r1")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCameraLinkage(t *testing.T) {
	ctx := context.Background()
	cams := &stubOwners{owners: map[string]string{"c1": "u1", "c2": "u2"}}

	r := newResolver(u1, cams, &stubOwners{})

	got, err := r.resolveCameraLinkage(ctx, "r1", nil, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.resolveCameraLinkage(ctx, "r1", strp(" "), "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.resolveCameraLinkage(ctx, "r1", strp(" c1 "), "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", *got)

	_, err = r.resolveCameraLinkage(ctx, "r1", strp("c2"), "u1")
	require.ErrorIs(t, err, ErrOwnershipViolation)

	_, err = r.resolveCameraLinkage(ctx, "r1", strp("nope"), "u1")
	require.ErrorIs(t, err, ErrDanglingReference)
	assert.Contains(t, err.Error(), "nope")

	ra := newResolver(admin, cams, &stubOwners{})
	_, err = ra.resolveCameraLinkage(ctx, "r1", strp("c2"), "u1")
	require.ErrorIs(t, err, ErrOwnerMismatch)
}

func TestResolveCameraLinkage_StoreErrorIsNotClassified(t *testing.T) {
	boom := errors.New("connection reset")
	r := newResolver(u1, &stubOwners{err: boom}, &stubOwners{})

	_, err := r.resolveCameraLinkage(context.Background(), "r1", strp("c1"), "u1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "store_failure", Kind(err))
	assert.False(t, IsClientError(err))
}

func TestResolveFilmRollOwner(t *testing.T) {
	ctx := context.Background()
	rolls := &stubOwners{owners: map[string]string{"r1": "u1", "r2": "u2"}}

	r := newResolver(u1, &stubOwners{}, rolls)
	owner, err := r.resolveFilmRollOwner(ctx, "p1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = r.resolveFilmRollOwner(ctx, "p1", "r2")
	require.ErrorIs(t, err, ErrOwnershipViolation)

	_, err = r.resolveFilmRollOwner(ctx, "p1", "r9")
	require.ErrorIs(t, err, ErrDanglingReference)

	owner, err = newResolver(admin, &stubOwners{}, rolls).resolveFilmRollOwner(ctx, "p1", "r2")
	require.NoError(t, err)
	assert.Equal(t, "u2", owner)
}

func TestRefCache_FetchesOncePerID(t *testing.T) {
	ctx := context.Background()
	cams := &stubOwners{owners: map[string]string{"c1": "u1"}}
	refs := newRefCache(cams.fetch, (&stubOwners{}).fetch)

	for i := 0; i < 3; i++ {
		owner, found, err := refs.cameras.resolve(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "u1", owner)
	}
	assert.Equal(t, 1, cams.calls)

	refs.cameras.remember("c5", "u3")
	owner, found, err := refs.cameras.resolve(ctx, "c5")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u3", owner)
	assert.Equal(t, 1, cams.calls)

	_, found, err = refs.cameras.resolve(ctx, "c9")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "ownership_violation", Kind(violation("x")))
	assert.Equal(t, "validation", Kind(invalid("x")))
	assert.True(t, IsClientError(invalid("x")))
	assert.False(t, IsClientError(nil))
}
