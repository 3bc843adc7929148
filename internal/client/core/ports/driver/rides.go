package driver

import (
	"context"

	"afrikar/internal/client/core/domain/dto"
	"afrikar/internal/client/core/domain/model"
)

type IRidesService interface {
	Cities(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q dto.SearchQuery) ([]model.Ride, error)
	Recent(ctx context.Context, limit int) ([]model.Ride, error)
	Create(ctx context.Context, req dto.CreateRideRequest) (model.Ride, error)
	Mine(ctx context.Context) ([]model.Ride, error)
}

type IBookingsService interface {
	Book(ctx context.Context, rideID string, seats int) (model.Booking, error)
	Mine(ctx context.Context) ([]model.Booking, error)
}
