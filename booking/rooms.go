package booking

import (
	"net/url"
	"strconv"
)

type Room struct {
	ID         int     `json:"id"`
	PropertyID int     `json:"property_id"`
	RoomType   string  `json:"room_type,omitempty"`
	Persons    int     `json:"persons,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Currency   string  `json:"currency,omitempty"`
}

// RoomFilter narrows GET /rooms. A zero filter lists every room.
type RoomFilter struct {
	PropertyID int
}

func (f RoomFilter) Query() url.Values {
	q := url.Values{}
	if f.PropertyID != 0 {
		q.Set("property_id", strconv.Itoa(f.PropertyID))
	}
	return q
}
