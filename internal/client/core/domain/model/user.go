package model

import (
	"fmt"

	"afrikar/internal/client/core/myerrors"
)

type User struct {
	ID        string `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone,omitempty"`
}

func (u User) Validate() error {
	if u.ID == "" && u.Email == "" {
		return fmt.Errorf("%w: user has neither id nor email", myerrors.ErrInvalidRecord)
	}
	return nil
}

// DisplayName is what the header greets the user with.
func (u User) DisplayName() string {
	if u.Prenom != "" {
		return u.Prenom
	}
	if u.Nom != "" {
		return u.Nom
	}
	return u.Email
}
