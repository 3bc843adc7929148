package model

import (
	"fmt"

	"afrikar/internal/client/core/myerrors"
)

// Ride is a published carpool offer (trajet). The client never mutates it.
type Ride struct {
	ID                  string  `json:"id"`
	VilleDepart         string  `json:"ville_depart"`
	VilleArrivee        string  `json:"ville_arrivee"`
	DateDepart          string  `json:"date_depart"`
	HeureDepart         string  `json:"heure_depart"`
	PlacesDisponibles   int     `json:"places_disponibles"`
	PrixParPlace        float64 `json:"prix_par_place"`
	ConducteurNom       string  `json:"conducteur_nom"`
	ConducteurTelephone string  `json:"conducteur_telephone,omitempty"`
	VehiculeInfo        string  `json:"vehicule_info,omitempty"`
	Description         string  `json:"description,omitempty"`
}

func (r Ride) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: ride without id", myerrors.ErrInvalidRecord)
	}
	if r.VilleDepart == "" || r.VilleArrivee == "" {
		return fmt.Errorf("%w: ride %s has no route", myerrors.ErrInvalidRecord, r.ID)
	}
	if r.PlacesDisponibles < 0 {
		return fmt.Errorf("%w: ride %s has %d seats", myerrors.ErrInvalidRecord, r.ID, r.PlacesDisponibles)
	}
	if r.PrixParPlace < 0 {
		return fmt.Errorf("%w: ride %s has negative price", myerrors.ErrInvalidRecord, r.ID)
	}
	return nil
}

func ValidateRides(rides []Ride) error {
	for i := range rides {
		if err := rides[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
