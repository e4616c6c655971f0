package store

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/booking"
)

// Login exchanges credentials for tokens, stores them and loads the user profile.
func (s *Store) Login(ctx context.Context, creds booking.Credentials) error {
	return s.run(ctx, "login", "Failed to login", func(ctx context.Context) error {
		var pair booking.TokenPair
		if err := s.send(ctx, http.MethodPost, "/auth/login", creds, &pair, apiclient.WithoutRefresh()); err != nil {
			return err
		}
		if err := s.session.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
			return err
		}
		_, err := s.FetchUser(ctx)
		return err
	})
}

func (s *Store) Register(ctx context.Context, reg booking.Registration) error {
	return s.run(ctx, "register", "Failed to register", func(ctx context.Context) error {
		return s.send(ctx, http.MethodPost, "/auth/register", reg, nil, apiclient.WithoutRefresh())
	})
}

// Logout tells the API the session has ended and clears it locally, whether
// or not the API call succeeded.
func (s *Store) Logout(ctx context.Context) error {
	return s.run(ctx, "logout", "Failed to logout", func(ctx context.Context) error {
		defer s.ClearSession()
		return s.send(ctx, http.MethodPost, "/auth/logout", nil, nil, apiclient.WithoutRefresh())
	})
}

func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	return s.run(ctx, "forgot password", "Failed to send reset link", func(ctx context.Context) error {
		body := map[string]string{"email": email}
		return s.send(ctx, http.MethodPost, "/auth/forgot_password", body, nil, apiclient.WithoutRefresh())
	})
}

// ResetPassword sets a new password using the token from a reset link.
func (s *Store) ResetPassword(ctx context.Context, token, password string) error {
	return s.run(ctx, "reset password", "Failed to reset password", func(ctx context.Context) error {
		body := map[string]string{"password": password}
		return s.send(ctx, http.MethodPost, "/auth/reset_password/"+url.PathEscape(token), body, nil, apiclient.WithoutRefresh())
	})
}

// RefreshToken obtains a new access token. The client clears the session when
// the refresh fails; the store also drops the current user.
func (s *Store) RefreshToken(ctx context.Context) error {
	if _, err := s.api.Refresh(ctx); err != nil {
		s.ClearSession()
		return err
	}
	return nil
}
