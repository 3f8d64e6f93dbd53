package backup

import (
	"context"
	"errors"

	"github.com/pwarnimont/filmdb2/internal/repository"
)

// ownerFetcher looks up the owner of one record in the store.  It returns
// repository.ErrNotFound for unknown ids.
type ownerFetcher func(ctx context.Context, id string) (string, error)

// ownerMap is one id -> owner id table of the reference cache.
type ownerMap struct {
	owners map[string]string
	fetch  ownerFetcher
}

func newOwnerMap(fetch ownerFetcher) *ownerMap {
	return &ownerMap{owners: map[string]string{}, fetch: fetch}
}

// remember records the owner of a record written during this import.
func (m *ownerMap) remember(id, owner string) { m.owners[id] = owner }

// resolve returns the owner of id, asking the store on a miss and caching
// the answer.  found is false when the id exists nowhere.
func (m *ownerMap) resolve(ctx context.Context, id string) (owner string, found bool, err error) {
	if o, ok := m.owners[id]; ok {
		return o, true, nil
	}
	o, err := m.fetch(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	m.owners[id] = o
	return o, true, nil
}

// refCache maps camera and film roll ids to owner ids for the duration of
// a single import.  It is built per call and dropped afterwards.
type refCache struct {
	cameras   *ownerMap
	filmRolls *ownerMap
}

func newRefCache(cameras, filmRolls ownerFetcher) *refCache {
	return &refCache{cameras: newOwnerMap(cameras), filmRolls: newOwnerMap(filmRolls)}
}
