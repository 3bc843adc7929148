package dto

import (
	"fmt"
	"net/url"
	"strings"

	"afrikar/internal/client/core/myerrors"
)

const (
	MinSeats = 1
	MaxSeats = 7
)

type CitiesResponse struct {
	Cities []string `json:"cities"`
}

// SearchQuery filters GET /trajets. Empty fields are left out.
type SearchQuery struct {
	VilleDepart  string
	VilleArrivee string
	DateDepart   string
}

// Encode keeps the form's field order, which url.Values would sort away.
func (q SearchQuery) Encode() string {
	pairs := []struct{ key, value string }{
		{"ville_depart", q.VilleDepart},
		{"ville_arrivee", q.VilleArrivee},
		{"date_depart", q.DateDepart},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

func (q SearchQuery) Path() string {
	if enc := q.Encode(); enc != "" {
		return "/trajets?" + enc
	}
	return "/trajets"
}

type CreateRideRequest struct {
	VilleDepart       string  `json:"ville_depart"`
	VilleArrivee      string  `json:"ville_arrivee"`
	DateDepart        string  `json:"date_depart"`
	HeureDepart       string  `json:"heure_depart"`
	PlacesDisponibles int     `json:"places_disponibles"`
	PrixParPlace      float64 `json:"prix_par_place"`
	Description       string  `json:"description"`
	VehiculeInfo      string  `json:"vehicule_info"`
}

// NewCreateRideRequest is the blank form: one seat, everything else empty.
func NewCreateRideRequest() CreateRideRequest {
	return CreateRideRequest{PlacesDisponibles: MinSeats}
}

func (r CreateRideRequest) Validate() error {
	if err := required(map[string]string{
		"ville_depart":  r.VilleDepart,
		"ville_arrivee": r.VilleArrivee,
		"date_depart":   r.DateDepart,
		"heure_depart":  r.HeureDepart,
	}); err != nil {
		return err
	}
	if r.PlacesDisponibles < MinSeats || r.PlacesDisponibles > MaxSeats {
		return fmt.Errorf("%w: must be in range [%d, %d], got %d",
			myerrors.ErrInvalidSeatCount, MinSeats, MaxSeats, r.PlacesDisponibles)
	}
	if r.PrixParPlace < 0 {
		return fmt.Errorf("%w: %v", myerrors.ErrInvalidPrice, r.PrixParPlace)
	}
	return nil
}
