package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-booking-client/booking"
)

func (s *Store) FetchReviews(ctx context.Context, propertyID int) ([]booking.Review, error) {
	var reviews []booking.Review
	err := s.run(ctx, "fetch reviews", "Failed to fetch reviews", func(ctx context.Context) error {
		if err := s.get(ctx, fmt.Sprintf("/properties/%d/reviews", propertyID), &reviews); err != nil {
			return err
		}
		s.SetReviews(reviews)
		return nil
	})
	return reviews, err
}

// Review mutations always re-fetch the property's reviews afterwards.

func (s *Store) CreateReview(ctx context.Context, review booking.Review) error {
	return s.run(ctx, "create review", "Failed to add review", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPost, "/reviews", review, nil); err != nil {
			return err
		}
		_, err := s.FetchReviews(ctx, review.PropertyID)
		return err
	})
}

func (s *Store) UpdateReview(ctx context.Context, review booking.Review) error {
	return s.run(ctx, "update review", "Failed to update review", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d", review.ID), review, nil); err != nil {
			return err
		}
		_, err := s.FetchReviews(ctx, review.PropertyID)
		return err
	})
}

func (s *Store) DeleteReview(ctx context.Context, review booking.Review) error {
	return s.run(ctx, "delete review", "Failed to delete review", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", review.ID), nil, nil); err != nil {
			return err
		}
		_, err := s.FetchReviews(ctx, review.PropertyID)
		return err
	})
}
