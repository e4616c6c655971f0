package booking

import (
	"net/url"
	"strconv"
)

type Property struct {
	ID           int     `json:"id"`
	OwnerID      int     `json:"owner_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	PostalCode   string  `json:"postal_code,omitempty"`
	Country      string  `json:"country,omitempty"`
	Region       string  `json:"region,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	CheckIn      string  `json:"check_in,omitempty"`
	CheckOut     string  `json:"check_out,omitempty"`
	Price        float64 `json:"price,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	NumReviews   int     `json:"num_reviews,omitempty"`
	Availability bool    `json:"availability"`
	Stars        int     `json:"stars,omitempty"`
	Type         string  `json:"type,omitempty"`
	Description  string  `json:"description,omitempty"`
	Images       string  `json:"images,omitempty"`
	Cluster      int     `json:"cluster,omitempty"`
}

// Recommendation is a property suggested by the API's recommender.
type Recommendation struct {
	ID      int     `json:"id"`
	Name    string  `json:"name,omitempty"`
	Region  string  `json:"region,omitempty"`
	Price   float64 `json:"price,omitempty"`
	Cluster int     `json:"cluster,omitempty"`
}

// FilterResult is the GET /filter_properties response.
type FilterResult struct {
	AvailableProperties []Property       `json:"available_properties"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// Image is a file uploaded alongside a property.
type Image struct {
	Filename string
	Data     []byte
}

// PropertyInput is the multipart payload for creating or updating a property.
type PropertyInput struct {
	Property
	Images []Image
}

// Field is a single multipart form value.
type Field struct {
	Name  string
	Value string
}

// FormFields returns every scalar field of the property as form values,
// in a stable order. Zero identifiers are omitted.
func (p PropertyInput) FormFields() []Field {
	fields := make([]Field, 0, 20)
	if p.ID != 0 {
		fields = append(fields, Field{"id", strconv.Itoa(p.ID)})
	}
	if p.OwnerID != 0 {
		fields = append(fields, Field{"owner_id", strconv.Itoa(p.OwnerID)})
	}
	fields = append(fields,
		Field{"name", p.Name},
		Field{"address", p.Address},
		Field{"postal_code", p.PostalCode},
		Field{"country", p.Country},
		Field{"region", p.Region},
		Field{"latitude", formatFloat(p.Latitude)},
		Field{"longitude", formatFloat(p.Longitude)},
		Field{"check_in", p.CheckIn},
		Field{"check_out", p.CheckOut},
		Field{"price", formatFloat(p.Price)},
		Field{"currency", p.Currency},
		Field{"stars", strconv.Itoa(p.Stars)},
		Field{"type", p.Type},
		Field{"description", p.Description},
		Field{"availability", strconv.FormatBool(p.Availability)},
	)
	return fields
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// PropertyFilter holds the query parameters of GET /filter_properties.
// Dates use the dd-mm-yyyy layout the API expects.
type PropertyFilter struct {
	CheckIn    string
	CheckOut   string
	Region     string
	PriceMax   float64
	NumPersons int
	Facilities []int
}

// DateLayout is the reservation and filter date format of the API.
const DateLayout = "02-01-2006"

// Query encodes the filter, skipping zero values.
func (f PropertyFilter) Query() url.Values {
	q := url.Values{}
	if f.CheckIn != "" {
		q.Set("check_in", f.CheckIn)
	}
	if f.CheckOut != "" {
		q.Set("check_out", f.CheckOut)
	}
	if f.Region != "" {
		q.Set("region", f.Region)
	}
	if f.PriceMax > 0 {
		q.Set("price_max", formatFloat(f.PriceMax))
	}
	if f.NumPersons > 0 {
		q.Set("num_persons", strconv.Itoa(f.NumPersons))
	}
	for _, id := range f.Facilities {
		q.Add("facilities", strconv.Itoa(id))
	}
	return q
}

// OwnedBy returns the properties whose owner is userID.
func OwnedBy(properties []Property, userID int) []Property {
	owned := make([]Property, 0)
	for _, p := range properties {
		if p.OwnerID == userID {
			owned = append(owned, p)
		}
	}
	return owned
}
