package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/booking"
)

func (s *Store) FetchRooms(ctx context.Context, filter booking.RoomFilter) ([]booking.Room, error) {
	var rooms []booking.Room
	err := s.run(ctx, "fetch rooms", "Failed to fetch rooms", func(ctx context.Context) error {
		if err := s.get(ctx, "/rooms", &rooms, apiclient.WithQuery(filter.Query())); err != nil {
			return err
		}
		s.SetRooms(rooms)
		return nil
	})
	return rooms, err
}

func (s *Store) CreateRoom(ctx context.Context, room booking.Room) (*booking.Room, error) {
	var created booking.Room
	err := s.run(ctx, "create room", "Failed to add room", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPost, "/rooms", room, &created); err != nil {
			return err
		}
		s.AddRoom(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) UpdateRoom(ctx context.Context, room booking.Room) (*booking.Room, error) {
	var updated booking.Room
	err := s.run(ctx, "update room", "Failed to update room", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPut, fmt.Sprintf("/rooms/%d", room.ID), room, &updated); err != nil {
			return err
		}
		s.ReplaceRoom(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteRoom(ctx context.Context, id int) error {
	return s.run(ctx, "delete room", "Failed to delete room", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", id), nil, nil); err != nil {
			return err
		}
		s.RemoveRoom(id)
		return nil
	})
}
