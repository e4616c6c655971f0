package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-booking-client/booking"
)

func (s *Store) FetchReservations(ctx context.Context) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.run(ctx, "fetch reservations", "Failed to fetch reservations", func(ctx context.Context) error {
		if err := s.get(ctx, "/reservations", &reservations); err != nil {
			return err
		}
		s.SetReservations(reservations)
		return nil
	})
	return reservations, err
}

// ViewReservation loads a single reservation without touching the cache.
func (s *Store) ViewReservation(ctx context.Context, id int) (*booking.Reservation, error) {
	var reservation booking.Reservation
	err := s.run(ctx, "view reservation", "Failed to fetch reservation details", func(ctx context.Context) error {
		return s.get(ctx, fmt.Sprintf("/reservations/%d", id), &reservation)
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CreateReservation books a room. The API usually answers with a pending
// payment rather than a stored reservation; in that case the list is fetched
// again instead of caching a record without an id. Fields the response leaves
// out are taken from the request.
func (s *Store) CreateReservation(ctx context.Context, req booking.ReservationRequest) (*booking.Reservation, error) {
	var created booking.Reservation
	err := s.run(ctx, "create reservation", "Failed to add reservation", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPost, "/reservations", req, &created); err != nil {
			return err
		}
		if created.RoomID == 0 {
			created.RoomID = req.RoomID
		}
		if created.CheckInDate == "" {
			created.CheckInDate = req.CheckInDate
		}
		if created.CheckOutDate == "" {
			created.CheckOutDate = req.CheckOutDate
		}
		if created.Status == "" {
			created.Status = booking.ReservationPending
		}
		if created.ID != 0 {
			s.AddReservation(created)
			return nil
		}
		_, err := s.FetchReservations(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CancelReservation cancels on the server, then marks the cached reservation
// cancelled without fetching the list again.
func (s *Store) CancelReservation(ctx context.Context, id int) error {
	return s.run(ctx, "cancel reservation", "Failed to cancel reservation", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPost, fmt.Sprintf("/cancel_reservation/%d", id), nil, nil); err != nil {
			return err
		}
		s.SetReservationStatus(id, booking.ReservationCancelled)
		return nil
	})
}
