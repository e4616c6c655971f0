package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-booking-client/booking"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
)

func (s *Store) FetchUser(ctx context.Context) (*booking.User, error) {
	var user booking.User
	err := s.run(ctx, "fetch user", "Failed to fetch user", func(ctx context.Context) error {
		if err := s.get(ctx, "/user", &user); err != nil {
			return err
		}
		s.SetUser(&user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves profile changes. When the API answers with an
// acknowledgement instead of the user record, the profile is fetched again.
func (s *Store) UpdateUser(ctx context.Context, update booking.UserUpdate) (*booking.User, error) {
	var user booking.User
	err := s.run(ctx, "update user", "Failed to update user", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPut, "/user", update, &user); err != nil {
			return err
		}
		if user.ID != 0 {
			s.SetUser(&user)
			return nil
		}
		fetched, err := s.FetchUser(ctx)
		if err != nil {
			return err
		}
		user = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the account and signs out.
func (s *Store) DeleteUser(ctx context.Context) error {
	return s.run(ctx, "delete user", "Failed to delete user", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodDelete, "/user", nil, nil); err != nil {
			return err
		}
		s.ClearSession()
		return nil
	})
}

// UpdateUserRole changes another user's role. Only superadmins may call it.
func (s *Store) UpdateUserRole(ctx context.Context, userID int, role booking.RoleType) error {
	return s.run(ctx, "update user role", "Failed to update user role", func(ctx context.Context) error {
		if !role.Valid() {
			return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "role %q", role)
		}
		body := map[string]booking.RoleType{"role": role}
		return s.send(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/role", userID), body, nil)
	})
}
