package store

import (
	"slices"

	"github.com/jrsteele09/go-booking-client/booking"
)

// Mutations replace or edit state synchronously and never perform I/O.

func (s *Store) SetUser(user *booking.User) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.User = user
}

func (s *Store) SetProperties(properties []booking.Property) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Properties = slices.Clone(properties)
}

func (s *Store) SetPropertyDetails(property *booking.Property) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.PropertyDetails = property
}

func (s *Store) SetRecommendations(recommendations []booking.Recommendation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Recommendations = slices.Clone(recommendations)
}

func (s *Store) SetRooms(rooms []booking.Room) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Rooms = slices.Clone(rooms)
}

func (s *Store) SetReservations(reservations []booking.Reservation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Reservations = slices.Clone(reservations)
}

func (s *Store) SetReviews(reviews []booking.Review) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Reviews = slices.Clone(reviews)
}

func (s *Store) SetFavorites(favorites []booking.Favorite) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Favorites = slices.Clone(favorites)
}

func (s *Store) SetError(msg string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Error = msg
}

func (s *Store) AddProperty(property booking.Property) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Properties = append(s.state.Properties, property)
}

// ReplaceProperty replaces the cached property with the same id, if any.
func (s *Store) ReplaceProperty(property booking.Property) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i := slices.IndexFunc(s.state.Properties, func(p booking.Property) bool { return p.ID == property.ID }); i >= 0 {
		s.state.Properties[i] = property
	}
}

func (s *Store) RemoveProperty(id int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Properties = slices.DeleteFunc(s.state.Properties, func(p booking.Property) bool { return p.ID == id })
}

func (s *Store) AddRoom(room booking.Room) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Rooms = append(s.state.Rooms, room)
}

func (s *Store) ReplaceRoom(room booking.Room) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if i := slices.IndexFunc(s.state.Rooms, func(r booking.Room) bool { return r.ID == room.ID }); i >= 0 {
		s.state.Rooms[i] = room
	}
}

func (s *Store) RemoveRoom(id int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Rooms = slices.DeleteFunc(s.state.Rooms, func(r booking.Room) bool { return r.ID == id })
}

func (s *Store) AddReservation(reservation booking.Reservation) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Reservations = append(s.state.Reservations, reservation)
}

// SetReservationStatus rewrites the status of the cached reservation with id.
func (s *Store) SetReservationStatus(id int, status booking.ReservationStatus) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Reservations = booking.WithStatus(s.state.Reservations, id, status)
}

func (s *Store) AddFavorite(favorite booking.Favorite) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Favorites = append(s.state.Favorites, favorite)
}

func (s *Store) RemoveFavorite(id int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Favorites = slices.DeleteFunc(s.state.Favorites, func(f booking.Favorite) bool { return f.ID == id })
}

// ClearSession clears the session credentials and the current user. Cached
// collections are kept.
func (s *Store) ClearSession() {
	if err := s.session.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear session storage")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.User = nil
}
