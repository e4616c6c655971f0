package session

import (
	"errors"
)

// Storage keys of the two persisted credentials.
const (
	AccessTokenKey  = "token"
	RefreshTokenKey = "refreshToken"
)

// ErrNotFound is returned by a Repo when a key has never been set or was removed.
var ErrNotFound = errors.New("not found")

// Repo is the durable key-value storage the session is persisted to.
// Implementations must be safe for concurrent use.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
