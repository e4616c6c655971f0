package store

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/jrsteele09/go-booking-client/booking"
)

func (s *Store) FetchFavorites(ctx context.Context) ([]booking.Favorite, error) {
	var favorites []booking.Favorite
	err := s.run(ctx, "fetch favorites", "Failed to fetch favorites", func(ctx context.Context) error {
		if err := s.get(ctx, "/favorites", &favorites); err != nil {
			return err
		}
		s.SetFavorites(favorites)
		return nil
	})
	return favorites, err
}

// CreateFavorite marks a property as a favorite and appends the created
// record. If the API does not echo the record the list is fetched again and
// the entry for propertyID is returned.
func (s *Store) CreateFavorite(ctx context.Context, propertyID int) (*booking.Favorite, error) {
	var created booking.Favorite
	err := s.run(ctx, "create favorite", "Failed to add favorite", func(ctx context.Context) error {
		body := map[string]int{"property_id": propertyID}
		if err := s.send(ctx, http.MethodPost, "/favorites", body, &created); err != nil {
			return err
		}
		if created.ID != 0 {
			s.AddFavorite(created)
			return nil
		}
		favorites, err := s.FetchFavorites(ctx)
		if err != nil {
			return err
		}
		if i := slices.IndexFunc(favorites, func(f booking.Favorite) bool { return f.PropertyID == propertyID }); i >= 0 {
			created = favorites[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) DeleteFavorite(ctx context.Context, id int) error {
	return s.run(ctx, "delete favorite", "Failed to delete favorite", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodDelete, fmt.Sprintf("/favorites/%d", id), nil, nil); err != nil {
			return err
		}
		s.RemoveFavorite(id)
		return nil
	})
}
