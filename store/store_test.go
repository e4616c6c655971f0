package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/booking"
	"github.com/jrsteele09/go-booking-client/internal/config"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/jrsteele09/go-booking-client/session"
	sessionrepofake "github.com/jrsteele09/go-booking-client/session/repofake"
	"github.com/jrsteele09/go-booking-client/store"
	"github.com/stretchr/testify/require"
)

const (
	testAccessToken  = "access-1"
	testRefreshToken = "refresh-1"
)

// testFixture holds a fake API server and a store wired to it through a real client
type testFixture struct {
	server  *httptest.Server
	mux     *http.ServeMux
	repo    *sessionrepofake.FakeSessionRepo
	session *session.Manager
	store   *store.Store

	lock  sync.Mutex
	calls map[string]int
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{mux: http.NewServeMux(), calls: make(map[string]int)}
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.repo = sessionrepofake.NewFakeSessionRepo()
	sess, err := session.Load(f.repo)
	require.NoError(t, err)
	f.session = sess

	client, err := apiclient.New(config.Client{BaseURL: f.server.URL, HTTPTimeout: 5 * time.Second}, sess)
	require.NoError(t, err)

	s, err := store.New(client, sess)
	require.NoError(t, err)
	f.store = s
	return f
}

// signIn puts tokens in the session as if a login had happened
func (f *testFixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.SetTokens(testAccessToken, testRefreshToken))
}

// handle registers pattern answering status with body encoded as JSON
func (f *testFixture) handle(pattern string, status int, body any) {
	f.handleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (f *testFixture) handleFunc(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.lock.Lock()
		f.calls[pattern]++
		f.lock.Unlock()
		h(w, r)
	})
}

func (f *testFixture) count(pattern string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[pattern]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func requireOperationError(t *testing.T, err error, message string) {
	t.Helper()
	var opErr *store.OperationError
	require.True(t, errors.As(err, &opErr), "expected OperationError, got %v", err)
	require.Equal(t, message, opErr.Message)
}

func TestNew_MissingDependencies(t *testing.T) {
	sess, err := session.Load(sessionrepofake.NewFakeSessionRepo())
	require.NoError(t, err)

	_, err = store.New(nil, sess)
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)

	client, err := apiclient.New(config.Client{BaseURL: "http://localhost"}, sess)
	require.NoError(t, err)
	_, err = store.New(client, nil)
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t)
	f.handleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds booking.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "owner@example.com", creds.Email)
		writeJSON(w, http.StatusOK, booking.TokenPair{AccessToken: testAccessToken, RefreshToken: testRefreshToken})
	})
	f.handleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+testAccessToken, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, booking.User{ID: 4, Name: "Ana", Role: booking.RoleOwner})
	})

	err := f.store.Login(context.Background(), booking.Credentials{Email: "owner@example.com", Password: "pw"})
	require.NoError(t, err)

	require.True(t, f.store.IsAuthenticated())
	require.Equal(t, booking.RoleOwner, f.store.UserRole())
	require.Equal(t, "Ana", f.store.User().Name)
	require.Equal(t, testRefreshToken, f.session.RefreshToken())
	require.False(t, f.store.Loading())
	require.Empty(t, f.store.Error())

	stored, err := f.repo.Get(session.AccessTokenKey)
	require.NoError(t, err)
	require.Equal(t, testAccessToken, stored)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := setupTestFixture(t)
	f.handle("POST /auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	f.handle("POST /auth/refresh", http.StatusOK, map[string]string{"access_token": "x"})

	err := f.store.Login(context.Background(), booking.Credentials{Email: "a@b.c", Password: "bad"})
	requireOperationError(t, err, "Invalid credentials")
	require.Equal(t, "Invalid credentials", f.store.Error())
	require.False(t, f.store.IsAuthenticated())
	require.Zero(t, f.count("POST /auth/refresh"))
	require.False(t, f.store.Loading())
}

func TestLogin_FallbackMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.handle("POST /auth/login", http.StatusInternalServerError, nil)

	err := f.store.Login(context.Background(), booking.Credentials{})
	requireOperationError(t, err, "Failed to login")
	require.Equal(t, "Failed to login", f.store.Error())
}

func TestLogin_UserFetchFailureKeepsItsMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.handle("POST /auth/login", http.StatusOK, booking.TokenPair{AccessToken: testAccessToken, RefreshToken: testRefreshToken})
	f.handle("GET /user", http.StatusInternalServerError, nil)

	err := f.store.Login(context.Background(), booking.Credentials{})
	requireOperationError(t, err, "Failed to fetch user")
	require.Equal(t, "Failed to fetch user", f.store.Error())
	require.True(t, f.store.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)
	f.handle("POST /auth/register", http.StatusBadRequest, map[string]string{"message": "Email already registered"})

	err := f.store.Register(context.Background(), booking.Registration{Name: "A", Email: "a@b.c", Password: "pw"})
	requireOperationError(t, err, "Email already registered")
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.store.SetUser(&booking.User{ID: 1, Role: booking.RoleUser})
	f.handle("POST /auth/logout", http.StatusInternalServerError, nil)

	err := f.store.Logout(context.Background())
	requireOperationError(t, err, "Failed to logout")
	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.User())
	require.Empty(t, f.session.RefreshToken())

	reloaded, err := session.Load(f.repo)
	require.NoError(t, err)
	require.Empty(t, reloaded.AccessToken())
}

func TestLogout_Success(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.handle("POST /auth/logout", http.StatusOK, map[string]string{"message": "ok"})

	require.NoError(t, f.store.Logout(context.Background()))
	require.False(t, f.store.IsAuthenticated())
	require.Empty(t, f.store.Error())
}

func TestForgotPassword_PropagatesFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.handle("POST /auth/forgot_password", http.StatusBadGateway, nil)

	err := f.store.ForgotPassword(context.Background(), "a@b.c")
	requireOperationError(t, err, "Failed to send reset link")
}

func TestResetPassword(t *testing.T) {
	f := setupTestFixture(t)
	var gotPassword string
	f.handleFunc("POST /auth/reset_password/{token}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "abc.def", r.PathValue("token"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPassword = body["password"]
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	})

	require.NoError(t, f.store.ResetPassword(context.Background(), "abc.def", "N3wPassword"))
	require.Equal(t, "N3wPassword", gotPassword)
}

func TestRefreshToken(t *testing.T) {
	t.Run("success stores the new token", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.handle("POST /auth/refresh", http.StatusOK, map[string]string{"access_token": "access-2"})

		require.NoError(t, f.store.RefreshToken(context.Background()))
		require.Equal(t, "access-2", f.session.AccessToken())
	})

	t.Run("failure signs out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.store.SetUser(&booking.User{ID: 1})
		f.handle("POST /auth/refresh", http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})

		err := f.store.RefreshToken(context.Background())
		require.ErrorIs(t, err, bookerrors.ErrSessionExpired)
		require.False(t, f.store.IsAuthenticated())
		require.Nil(t, f.store.User())
	})
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.handle("POST /auth/refresh", http.StatusOK, map[string]string{"access_token": "access-2"})
	f.handleFunc("GET /favorites", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
			return
		}
		writeJSON(w, http.StatusOK, []booking.Favorite{{ID: 1, PropertyID: 2}})
	})

	favs, err := f.store.FetchFavorites(context.Background())
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, 1, f.count("POST /auth/refresh"))
	require.Equal(t, 2, f.count("GET /favorites"))
}

func TestFailedRefreshSignsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.store.SetUser(&booking.User{ID: 1, Role: booking.RoleSuperAdmin})
	f.store.SetProperties([]booking.Property{{ID: 3, OwnerID: 1}})
	f.handle("GET /favorites", http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
	f.handle("POST /auth/refresh", http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})

	_, err := f.store.FetchFavorites(context.Background())
	require.ErrorIs(t, err, bookerrors.ErrSessionExpired)
	requireOperationError(t, err, "Token has expired")

	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.User())
	require.Empty(t, f.store.UserRole())
	require.Empty(t, f.store.UserProperties())
	require.Len(t, f.store.Properties(), 1)
	require.Equal(t, 1, f.count("POST /auth/refresh"))
}

func TestFetchUser_UpdateUser_DeleteUser(t *testing.T) {
	t.Run("update with acknowledgement fetches the profile again", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.handle("PUT /user", http.StatusOK, map[string]string{"message": "User updated successfully"})
		f.handle("GET /user", http.StatusOK, booking.User{ID: 2, Name: "New Name", Role: booking.RoleUser})

		u, err := f.store.UpdateUser(context.Background(), booking.UserUpdate{Name: "New Name"})
		require.NoError(t, err)
		require.Equal(t, "New Name", u.Name)
		require.Equal(t, "New Name", f.store.User().Name)
		require.Equal(t, 1, f.count("GET /user"))
	})

	t.Run("update returning the record does not fetch", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.handle("PUT /user", http.StatusOK, booking.User{ID: 2, Name: "Echo"})
		f.handle("GET /user", http.StatusOK, booking.User{ID: 2})

		u, err := f.store.UpdateUser(context.Background(), booking.UserUpdate{Name: "Echo"})
		require.NoError(t, err)
		require.Equal(t, "Echo", u.Name)
		require.Zero(t, f.count("GET /user"))
	})

	t.Run("delete signs out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.store.SetUser(&booking.User{ID: 2})
		f.handle("DELETE /user", http.StatusOK, map[string]string{"message": "User deleted successfully"})

		require.NoError(t, f.store.DeleteUser(context.Background()))
		require.False(t, f.store.IsAuthenticated())
		require.Nil(t, f.store.User())
	})

	t.Run("fetch failure records message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.signIn(t)
		f.handle("GET /user", http.StatusNotFound, map[string]string{"message": "User not found"})

		_, err := f.store.FetchUser(context.Background())
		require.ErrorIs(t, err, bookerrors.ErrNotFound)
		require.Equal(t, "User not found", f.store.Error())
	})
}

func TestUpdateUserRole(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	var gotRole string
	f.handleFunc("PUT /admin/users/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "12", r.PathValue("id"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotRole = body["role"]
		writeJSON(w, http.StatusOK, map[string]string{"message": "User role updated successfully"})
	})

	require.NoError(t, f.store.UpdateUserRole(context.Background(), 12, booking.RoleOwner))
	require.Equal(t, "owner", gotRole)

	err := f.store.UpdateUserRole(context.Background(), 12, booking.RoleType("admin"))
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)
	require.Equal(t, "Failed to update user role", f.store.Error())
	require.Equal(t, 1, f.count("PUT /admin/users/{id}/role"))
}

func TestLoading_TrueOnlyWhileInFlight(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.handleFunc("GET /reservations", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeJSON(w, http.StatusOK, []booking.Reservation{})
	})

	require.False(t, f.store.Loading())

	done := make(chan error, 1)
	go func() {
		_, err := f.store.FetchReservations(context.Background())
		done <- err
	}()

	<-entered
	require.True(t, f.store.Loading())
	require.True(t, f.store.Snapshot().Loading)
	close(release)

	require.NoError(t, <-done)
	require.False(t, f.store.Loading())
}

func TestLoading_OverlappingOperations(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	slowEntered := make(chan struct{})
	releaseSlow := make(chan struct{})
	f.handleFunc("GET /rooms", func(w http.ResponseWriter, r *http.Request) {
		close(slowEntered)
		<-releaseSlow
		writeJSON(w, http.StatusOK, []booking.Room{})
	})
	f.handle("GET /favorites", http.StatusOK, []booking.Favorite{})

	slowDone := make(chan error, 1)
	go func() {
		_, err := f.store.FetchRooms(context.Background(), booking.RoomFilter{})
		slowDone <- err
	}()
	<-slowEntered

	// The fast operation finishing must not clear loading for the slow one.
	_, err := f.store.FetchFavorites(context.Background())
	require.NoError(t, err)
	require.True(t, f.store.Loading())

	close(releaseSlow)
	require.NoError(t, <-slowDone)
	require.False(t, f.store.Loading())
}

func TestOperation_ClearsPreviousError(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.store.SetError("old failure")
	f.handle("GET /favorites", http.StatusOK, []booking.Favorite{})

	_, err := f.store.FetchFavorites(context.Background())
	require.NoError(t, err)
	require.Empty(t, f.store.Error())
}
