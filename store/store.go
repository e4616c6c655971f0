// Package store holds the client application state: the signed-in user and
// the cached API collections. Operations call the API and then apply a
// synchronous mutation; every mutation is atomic.
package store

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/booking"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/rs/zerolog"
)

// API is the subset of *apiclient.Client the store uses.
type API interface {
	Send(ctx context.Context, method, path string, body any, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	Refresh(ctx context.Context) (string, error)
}

// Credentials is the session the store signs in and out. *session.Manager
// satisfies it.
type Credentials interface {
	AccessToken() string
	SetTokens(access, refresh string) error
	Clear() error
}

// State is a snapshot of the store.
type State struct {
	User            *booking.User
	Properties      []booking.Property
	PropertyDetails *booking.Property
	Recommendations []booking.Recommendation
	Rooms           []booking.Room
	Reservations    []booking.Reservation
	Reviews         []booking.Review
	Favorites       []booking.Favorite
	Loading         bool
	Error           string
}

type Store struct {
	api     API
	session Credentials
	logger  zerolog.Logger

	lock     sync.RWMutex
	state    State
	inFlight int
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger operation failures are reported to
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store. The caller owns it and passes it to whatever
// needs application state.
func New(api API, session Credentials, opts ...StoreOption) (*Store, error) {
	if api == nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "api client is required")
	}
	if session == nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "session is required")
	}
	s := &Store{
		api:     api,
		session: session,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// run wraps an operation: it marks the store loading and clears the error,
// records a failure message, and always drops its loading claim on return.
func (s *Store) run(ctx context.Context, op, defaultMessage string, fn func(ctx context.Context) error) error {
	s.begin()
	defer s.end()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	// A failed refresh has already dropped the tokens; sign the user out too.
	if errors.Is(err, bookerrors.ErrSessionExpired) {
		s.ClearSession()
	}

	// Nested operations have already recorded their own message.
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}

	msg := apiclient.ServerMessage(err)
	if msg == "" {
		msg = defaultMessage
	}
	s.SetError(msg)
	s.logger.Warn().Err(err).Str("operation", op).Msg(msg)
	return &OperationError{Op: op, Message: msg, Err: err}
}

func (s *Store) begin() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.inFlight++
	s.state.Error = ""
}

func (s *Store) end() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.inFlight > 0 {
		s.inFlight--
	}
}

// send issues a request and decodes the response into out, which may be nil.
func (s *Store) send(ctx context.Context, method, path string, body, out any, opts ...apiclient.RequestOption) error {
	resp, err := s.api.Send(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (s *Store) get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error {
	return s.send(ctx, http.MethodGet, path, nil, out, opts...)
}

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.inFlight > 0
}

// Error returns the message of the last failed operation, or "".
func (s *Store) Error() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.Error
}

// IsAuthenticated reports whether the session holds an access token.
func (s *Store) IsAuthenticated() bool {
	return s.session.AccessToken() != ""
}

// UserRole returns the role of the current user, or "" when none is loaded.
func (s *Store) UserRole() booking.RoleType {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Role
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *booking.User {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// UserProperties returns the cached properties owned by the current user.
func (s *Store) UserProperties() []booking.Property {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state.User == nil {
		return []booking.Property{}
	}
	return booking.OwnedBy(s.state.Properties, s.state.User.ID)
}

func (s *Store) Properties() []booking.Property {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Properties)
}

func (s *Store) PropertyDetails() *booking.Property {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state.PropertyDetails == nil {
		return nil
	}
	p := *s.state.PropertyDetails
	return &p
}

func (s *Store) Recommendations() []booking.Recommendation {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Recommendations)
}

func (s *Store) Rooms() []booking.Room {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Rooms)
}

func (s *Store) Reservations() []booking.Reservation {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Reservations)
}

func (s *Store) Reviews() []booking.Review {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Reviews)
}

func (s *Store) Favorites() []booking.Favorite {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return slices.Clone(s.state.Favorites)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	st := State{
		Properties:      slices.Clone(s.state.Properties),
		Recommendations: slices.Clone(s.state.Recommendations),
		Rooms:           slices.Clone(s.state.Rooms),
		Reservations:    slices.Clone(s.state.Reservations),
		Reviews:         slices.Clone(s.state.Reviews),
		Favorites:       slices.Clone(s.state.Favorites),
		Loading:         s.inFlight > 0,
		Error:           s.state.Error,
	}
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	if s.state.PropertyDetails != nil {
		p := *s.state.PropertyDetails
		st.PropertyDetails = &p
	}
	return st
}
