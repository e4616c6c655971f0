package booking

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID           int               `json:"id"`
	UserID       int               `json:"user_id,omitempty"`
	RoomID       int               `json:"room_id"`
	CheckInDate  string            `json:"check_in_date"`
	CheckOutDate string            `json:"check_out_date"`
	Status       ReservationStatus `json:"status,omitempty"`

	// Set by POST /reservations while payment is pending
	ClientSecret string `json:"client_secret,omitempty"`
	PaymentID    string `json:"payment_id,omitempty"`
}

// ReservationRequest is the body of POST /reservations. Dates use DateLayout.
type ReservationRequest struct {
	RoomID       int    `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

// WithStatus returns reservations with the record matching id rewritten to
// status. Other records are returned unchanged; the input is not modified.
func WithStatus(reservations []Reservation, id int, status ReservationStatus) []Reservation {
	out := make([]Reservation, len(reservations))
	for i, r := range reservations {
		if r.ID == id {
			r.Status = status
		}
		out[i] = r
	}
	return out
}

type Favorite struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user_id,omitempty"`
	PropertyID int    `json:"property_id"`
	AddedDate  string `json:"added_date,omitempty"`
}
