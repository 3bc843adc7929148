package model

import (
	"fmt"

	"afrikar/internal/client/core/myerrors"
)

// Booking is a reservation of seats on a ride.
type Booking struct {
	ID           string `json:"id"`
	TrajetID     string `json:"trajet_id"`
	Trajet       *Ride  `json:"trajet,omitempty"`
	NombrePlaces int    `json:"nombre_places"`
	Statut       string `json:"statut"`
}

func (b Booking) Validate() error {
	if b.NombrePlaces < 1 {
		return fmt.Errorf("%w: booking %s has %d seats", myerrors.ErrInvalidRecord, b.ID, b.NombrePlaces)
	}
	if b.Trajet != nil {
		if err := b.Trajet.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPrice is derived for display only; the backend's figure is authoritative.
func (b Booking) TotalPrice() float64 {
	if b.Trajet == nil {
		return 0
	}
	return b.Trajet.PrixParPlace * float64(b.NombrePlaces)
}

func ValidateBookings(bookings []Booking) error {
	for i := range bookings {
		if err := bookings[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
