package services

import (
	"context"
	"fmt"

	"afrikar/internal/client/core/domain/dto"
	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

const (
	CitiesPath  = "/cities"
	RidesPath   = "/trajets"
	MyRidesPath = "/mes-trajets"
)

type RidesService struct {
	mylog   mylogger.Logger
	api     driven.IAPI
	session driver.ISessionService
	broker  driven.IActivityBroker
}

func NewRidesService(
	mylog mylogger.Logger,
	api driven.IAPI,
	session driver.ISessionService,
	broker driven.IActivityBroker,
) *RidesService {
	return &RidesService{
		mylog:   mylog,
		api:     api,
		session: session,
		broker:  broker,
	}
}

func (rs *RidesService) Cities(ctx context.Context) ([]string, error) {
	var resp dto.CitiesResponse
	if err := rs.api.Get(ctx, CitiesPath, &resp); err != nil {
		rs.mylog.Action("Cities").Warn("cannot load cities", "error", err)
		return nil, err
	}
	return resp.Cities, nil
}

func (rs *RidesService) Search(ctx context.Context, q dto.SearchQuery) ([]model.Ride, error) {
	return rs.fetchRides(ctx, "Search", q.Path())
}

// Recent returns at most limit rides from the unfiltered listing.
func (rs *RidesService) Recent(ctx context.Context, limit int) ([]model.Ride, error) {
	rides, err := rs.fetchRides(ctx, "Recent", RidesPath)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rides) > limit {
		rides = rides[:limit]
	}
	return rides, nil
}

func (rs *RidesService) Create(ctx context.Context, req dto.CreateRideRequest) (model.Ride, error) {
	mylog := rs.mylog.Action("CreateRide")

	if err := requireSession(rs.session); err != nil {
		return model.Ride{}, err
	}
	if err := req.Validate(); err != nil {
		return model.Ride{}, err
	}

	var ride model.Ride
	if err := rs.api.Post(ctx, RidesPath, req, &ride); err != nil {
		mylog.Warn("ride creation rejected", "error", err)
		return model.Ride{}, err
	}
	if err := ride.Validate(); err != nil {
		mylog.Error("malformed ride in response", err)
		return model.Ride{}, fmt.Errorf("decoding created ride: %w", err)
	}

	publish(ctx, rs.mylog, rs.broker, brokerdto.Activity{
		Type:   brokerdto.ActivityRideCreated,
		UserID: userID(rs.session),
		RideID: ride.ID,
		Seats:  ride.PlacesDisponibles,
	})
	mylog.Info("ride created", "ride_id", ride.ID)
	return ride, nil
}

func (rs *RidesService) Mine(ctx context.Context) ([]model.Ride, error) {
	if err := requireSession(rs.session); err != nil {
		return nil, err
	}
	return rs.fetchRides(ctx, "MyRides", MyRidesPath)
}

func (rs *RidesService) fetchRides(ctx context.Context, action, path string) ([]model.Ride, error) {
	mylog := rs.mylog.Action(action)

	var rides []model.Ride
	if err := rs.api.Get(ctx, path, &rides); err != nil {
		mylog.Warn("cannot load rides", "path", path, "error", err)
		return nil, err
	}
	if err := model.ValidateRides(rides); err != nil {
		mylog.Error("malformed ride listing", err, "path", path)
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if rides == nil {
		rides = []model.Ride{}
	}
	return rides, nil
}
