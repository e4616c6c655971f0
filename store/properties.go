package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-booking-client/apiclient"
	"github.com/jrsteele09/go-booking-client/booking"
)

// FetchProperties runs a filtered search and caches both the available
// properties and the recommendations of the same response.
func (s *Store) FetchProperties(ctx context.Context, filter booking.PropertyFilter) (*booking.FilterResult, error) {
	var result booking.FilterResult
	err := s.run(ctx, "fetch properties", "Failed to fetch properties", func(ctx context.Context) error {
		if err := s.get(ctx, "/filter_properties", &result, apiclient.WithQuery(filter.Query())); err != nil {
			return err
		}
		s.SetProperties(result.AvailableProperties)
		s.SetRecommendations(result.Recommendations)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Store) FetchOwnerProperties(ctx context.Context) ([]booking.Property, error) {
	var properties []booking.Property
	err := s.run(ctx, "fetch owner properties", "Failed to fetch owner properties", func(ctx context.Context) error {
		if err := s.get(ctx, "/properties/owner", &properties); err != nil {
			return err
		}
		s.SetProperties(properties)
		return nil
	})
	return properties, err
}

func (s *Store) FetchPropertyDetails(ctx context.Context, id int) (*booking.Property, error) {
	var property booking.Property
	err := s.run(ctx, "fetch property details", "Failed to fetch property details", func(ctx context.Context) error {
		if err := s.get(ctx, fmt.Sprintf("/properties/%d", id), &property); err != nil {
			return err
		}
		s.SetPropertyDetails(&property)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// propertyForm builds the multipart body of a property. availability, when
// set, overrides the property's own flag.
func propertyForm(in booking.PropertyInput, availability *bool) *apiclient.Multipart {
	form := &apiclient.Multipart{}
	for _, f := range in.FormFields() {
		if f.Name == "availability" && availability != nil {
			continue
		}
		form.Add(f.Name, f.Value)
	}
	if availability != nil {
		form.Add("availability", fmt.Sprint(*availability))
	}
	for _, img := range in.Images {
		form.AddFile("images", img.Filename, img.Data)
	}
	return form
}

// CreateProperty uploads a new, available property. The cache only grows
// when the API echoes the created record.
func (s *Store) CreateProperty(ctx context.Context, in booking.PropertyInput) (*booking.Property, error) {
	var created booking.Property
	err := s.run(ctx, "create property", "Failed to add property", func(ctx context.Context) error {
		available := true
		if err := s.send(ctx, http.MethodPost, "/properties", propertyForm(in, &available), &created); err != nil {
			return err
		}
		if created.ID != 0 {
			s.AddProperty(created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProperty uploads changes to an existing property and splices the
// result into the cache.
func (s *Store) UpdateProperty(ctx context.Context, in booking.PropertyInput) (*booking.Property, error) {
	var updated booking.Property
	err := s.run(ctx, "update property", "Failed to update property", func(ctx context.Context) error {
		path := fmt.Sprintf("/properties/%d", in.ID)
		if err := s.send(ctx, http.MethodPut, path, propertyForm(in, nil), &updated); err != nil {
			return err
		}
		if updated.ID == 0 {
			updated = in.Property
		}
		s.ReplaceProperty(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id int) error {
	return s.run(ctx, "delete property", "Failed to delete property", func(ctx context.Context) error {
		if err := s.send(ctx, http.MethodDelete, fmt.Sprintf("/properties/%d", id), nil, nil); err != nil {
			return err
		}
		s.RemoveProperty(id)
		return nil
	})
}
