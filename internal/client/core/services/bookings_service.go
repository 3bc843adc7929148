package services

import (
	"context"
	"fmt"

	"afrikar/internal/client/core/domain/dto"
	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

const (
	BookingsPath   = "/reservations"
	MyBookingsPath = "/mes-reservations"
)

type BookingsService struct {
	mylog   mylogger.Logger
	api     driven.IAPI
	session driver.ISessionService
	broker  driven.IActivityBroker
}

func NewBookingsService(
	mylog mylogger.Logger,
	api driven.IAPI,
	session driver.ISessionService,
	broker driven.IActivityBroker,
) *BookingsService {
	return &BookingsService{
		mylog:   mylog,
		api:     api,
		session: session,
		broker:  broker,
	}
}

// Book reserves seats on a ride. Invalid input never reaches the network.
func (bs *BookingsService) Book(ctx context.Context, rideID string, seats int) (model.Booking, error) {
	mylog := bs.mylog.Action("Book")

	if seats < 1 {
		return model.Booking{}, fmt.Errorf("%w: %d", myerrors.ErrInvalidSeatCount, seats)
	}
	if rideID == "" {
		return model.Booking{}, fmt.Errorf("trajet_id: %w", myerrors.ErrFieldIsEmpty)
	}
	if err := requireSession(bs.session); err != nil {
		return model.Booking{}, err
	}

	req := dto.BookingRequest{TrajetID: rideID, NombrePlaces: seats}
	var booking model.Booking
	if err := bs.api.Post(ctx, BookingsPath, req, &booking); err != nil {
		mylog.Warn("booking rejected", "ride_id", rideID, "error", err)
		return model.Booking{}, err
	}
	if err := booking.Validate(); err != nil {
		mylog.Error("malformed booking in response", err)
		return model.Booking{}, fmt.Errorf("decoding booking: %w", err)
	}

	publish(ctx, bs.mylog, bs.broker, brokerdto.Activity{
		Type:      brokerdto.ActivityBookingCreated,
		UserID:    userID(bs.session),
		RideID:    rideID,
		BookingID: booking.ID,
		Seats:     seats,
	})
	mylog.Info("ride booked", "ride_id", rideID, "booking_id", booking.ID, "seats", seats)
	return booking, nil
}

func (bs *BookingsService) Mine(ctx context.Context) ([]model.Booking, error) {
	mylog := bs.mylog.Action("MyBookings")

	if err := requireSession(bs.session); err != nil {
		return nil, err
	}

	var bookings []model.Booking
	if err := bs.api.Get(ctx, MyBookingsPath, &bookings); err != nil {
		mylog.Warn("cannot load bookings", "error", err)
		return nil, err
	}
	if err := model.ValidateBookings(bookings); err != nil {
		mylog.Error("malformed booking listing", err)
		return nil, fmt.Errorf("decoding %s: %w", MyBookingsPath, err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}
