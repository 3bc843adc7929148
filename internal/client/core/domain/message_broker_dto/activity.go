package messagebrokerdto

import "time"

const (
	ActivityLogin          = "session.login"
	ActivityLogout         = "session.logout"
	ActivityRideCreated    = "ride.created"
	ActivityBookingCreated = "booking.created"
)

// Activity is what the client relays about its own actions.
type Activity struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	RideID     string    `json:"ride_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	Seats      int       `json:"seats,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
