package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/jrsteele09/go-booking-client/session"
	sessionrepofake "github.com/jrsteele09/go-booking-client/session/repofake"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyRepoIsAnonymous(t *testing.T) {
	m, err := session.Load(sessionrepofake.NewFakeSessionRepo())
	require.NoError(t, err)
	require.False(t, m.IsAuthenticated())
	require.True(t, m.Snapshot().Anonymous())
	require.Nil(t, m.OAuth2Token())
}

func TestLoad_NilRepo(t *testing.T) {
	_, err := session.Load(nil)
	require.Error(t, err)
}

func TestSetTokens_RoundTripThroughRepo(t *testing.T) {
	repo := sessionrepofake.NewFakeSessionRepo()
	m, err := session.Load(repo)
	require.NoError(t, err)

	require.NoError(t, m.SetTokens("access-1", "refresh-1"))
	require.Equal(t, 2, repo.Writes())

	reloaded, err := session.Load(repo)
	require.NoError(t, err)
	require.Equal(t, "access-1", reloaded.AccessToken())
	require.Equal(t, "refresh-1", reloaded.RefreshToken())
	require.True(t, reloaded.IsAuthenticated())
}

func TestSetTokens_PartialFailureLeavesSessionEmpty(t *testing.T) {
	repo := sessionrepofake.NewFakeSessionRepo()
	m, err := session.Load(repo)
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	repo.FailSet(session.RefreshTokenKey, diskFull)

	err = m.SetTokens("access-1", "refresh-1")
	require.ErrorIs(t, err, diskFull)
	require.Empty(t, m.AccessToken())
	require.Empty(t, m.RefreshToken())

	reloaded, err := session.Load(repo)
	require.NoError(t, err)
	require.True(t, reloaded.Snapshot().Anonymous())
	require.Empty(t, reloaded.RefreshToken())
}

func TestSetAccessToken_PersistsEveryAssignment(t *testing.T) {
	repo := sessionrepofake.NewFakeSessionRepo()
	m, err := session.Load(repo)
	require.NoError(t, err)

	require.NoError(t, m.SetAccessToken("a"))
	require.NoError(t, m.SetAccessToken("b"))
	require.Equal(t, 2, repo.Writes())

	v, err := repo.Get(session.AccessTokenKey)
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestClear_ReloadIsAnonymous(t *testing.T) {
	repo := sessionrepofake.NewFakeSessionRepo()
	m, err := session.Load(repo)
	require.NoError(t, err)
	require.NoError(t, m.SetTokens("access-1", "refresh-1"))

	require.NoError(t, m.Clear())
	require.Empty(t, m.AccessToken())
	require.Empty(t, m.RefreshToken())

	reloaded, err := session.Load(repo)
	require.NoError(t, err)
	require.Empty(t, reloaded.AccessToken())
	require.Empty(t, reloaded.RefreshToken())
}

func TestClear_AlreadyAnonymous(t *testing.T) {
	m, err := session.Load(sessionrepofake.NewFakeSessionRepo())
	require.NoError(t, err)
	require.NoError(t, m.Clear())
}

func TestOAuth2Token(t *testing.T) {
	m, err := session.Load(sessionrepofake.NewFakeSessionRepo())
	require.NoError(t, err)
	require.NoError(t, m.SetTokens("access-1", "refresh-1"))

	tok := m.OAuth2Token()
	require.NotNil(t, tok)
	require.Equal(t, "access-1", tok.AccessToken)
	require.Equal(t, "refresh-1", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.Type())
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	t.Run("numeric subject and role", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": 42, "role": "owner", "exp": exp.Unix()})
		c, err := session.ParseClaims(tok)
		require.NoError(t, err)
		require.Equal(t, "42", c.Subject)
		require.Equal(t, "owner", c.Role)
		require.True(t, c.ExpiresAt.Equal(exp))
		require.False(t, c.Expired(time.Now()))
		require.True(t, c.Expired(exp.Add(time.Minute)))
	})

	t.Run("string subject without expiry", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "7"})
		c, err := session.ParseClaims(tok)
		require.NoError(t, err)
		require.Equal(t, "7", c.Subject)
		require.True(t, c.ExpiresAt.IsZero())
		require.False(t, c.Expired(time.Now()))
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := session.ParseClaims("")
		require.ErrorIs(t, err, bookerrors.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := session.ParseClaims("not-a-jwt")
		require.ErrorIs(t, err, bookerrors.ErrInvalidToken)
	})
}

func TestManager_Claims(t *testing.T) {
	m, err := session.Load(sessionrepofake.NewFakeSessionRepo())
	require.NoError(t, err)
	require.NoError(t, m.SetTokens(signedToken(t, jwt.MapClaims{"sub": "3", "role": "superadmin"}), "r"))

	c, err := m.Claims()
	require.NoError(t, err)
	require.Equal(t, "superadmin", c.Role)
}
