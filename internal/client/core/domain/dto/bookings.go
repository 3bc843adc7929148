package dto

import (
	"fmt"
	"strconv"
	"strings"

	"afrikar/internal/client/core/myerrors"
)

type BookingRequest struct {
	TrajetID     string `json:"trajet_id"`
	NombrePlaces int    `json:"nombre_places"`
}

// ParseSeatCount turns free-form user input into a positive seat count.
func ParseSeatCount(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: %w", myerrors.ErrInvalidSeatCount, myerrors.ErrFieldIsEmpty)
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", myerrors.ErrInvalidSeatCount, input)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", myerrors.ErrInvalidSeatCount, n)
	}
	return n, nil
}
