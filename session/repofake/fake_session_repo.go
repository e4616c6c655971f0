package sessionrepofake

import (
	"sync"

	"github.com/jrsteele09/go-booking-client/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session.Repo. Writes counts every Set and
// Remove so tests can assert write-through behaviour.
type FakeSessionRepo struct {
	values  map[string]string
	setErrs map[string]error
	writes  int
	lock    sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values:  make(map[string]string),
		setErrs: make(map[string]error),
	}
}

// FailSet makes every later Set of key return err.
func (r *FakeSessionRepo) FailSet(key string, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.setErrs[key] = err
}

func (r *FakeSessionRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (r *FakeSessionRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.setErrs[key]; err != nil {
		return err
	}
	r.values[key] = value
	r.writes++
	return nil
}

func (r *FakeSessionRepo) Remove(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.values[key]; !ok {
		return session.ErrNotFound
	}
	delete(r.values, key)
	r.writes++
	return nil
}

func (r *FakeSessionRepo) Writes() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.writes
}
