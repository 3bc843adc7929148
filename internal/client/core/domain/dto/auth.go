package dto

import (
	"fmt"

	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
)

type LoginRequest struct {
	Email      string `json:"email"`
	MotDePasse string `json:"mot_de_passe"`
}

type RegisterRequest struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	MotDePasse string `json:"mot_de_passe"`
}

type AuthResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

func (r LoginRequest) Validate() error {
	return required(map[string]string{
		"email":        r.Email,
		"mot_de_passe": r.MotDePasse,
	})
}

func (r RegisterRequest) Validate() error {
	return required(map[string]string{
		"nom":          r.Nom,
		"prenom":       r.Prenom,
		"email":        r.Email,
		"telephone":    r.Telephone,
		"mot_de_passe": r.MotDePasse,
	})
}

func (r AuthResponse) Validate() error {
	if r.User == nil {
		return fmt.Errorf("%w: auth response without user", myerrors.ErrInvalidRecord)
	}
	if r.AccessToken == "" {
		return fmt.Errorf("%w: auth response without access_token", myerrors.ErrInvalidRecord)
	}
	return r.User.Validate()
}
