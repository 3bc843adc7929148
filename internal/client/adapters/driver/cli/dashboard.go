package cli

import (
	"context"
	"fmt"
	"io"

	"afrikar/internal/client/core/domain/dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

const (
	TabSearch   = "search"
	TabCreate   = "create"
	TabMyRides  = "my-rides"
	TabBookings = "bookings"
)

type Tab struct {
	ID    string
	Title string
}

var Tabs = []Tab{
	{ID: TabSearch, Title: "Rechercher"},
	{ID: TabCreate, Title: "Créer un trajet"},
	{ID: TabMyRides, Title: "Mes trajets"},
	{ID: TabBookings, Title: "Mes réservations"},
}

func validTab(id string) bool {
	for _, t := range Tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

type Dashboard struct {
	mylog    mylogger.Logger
	rides    driver.IRidesService
	bookings driver.IBookingsService

	ActiveTab  string
	Cities     []string
	Rides      []model.Ride
	MyRides    []model.Ride
	MyBookings []model.Booking
	SearchForm dto.SearchQuery
	RideForm   dto.CreateRideRequest

	LastBooking *model.Booking
	LastCreated *model.Ride

	loading
	booking loading
}

func NewDashboard(mylog mylogger.Logger, rides driver.IRidesService, bookings driver.IBookingsService) *Dashboard {
	return &Dashboard{
		mylog:     mylog,
		rides:     rides,
		bookings:  bookings,
		ActiveTab: TabSearch,
		RideForm:  dto.NewCreateRideRequest(),
	}
}

// SetTab switches tab and reloads what the tab shows: cities and rides
// always, plus the user's rides or bookings on their tabs.
func (d *Dashboard) SetTab(ctx context.Context, tab string) error {
	if !validTab(tab) {
		return fmt.Errorf("%w: %q", myerrors.ErrUnknownTab, tab)
	}
	d.ActiveTab = tab

	d.loadCities(ctx)
	d.loadRides(ctx)
	switch tab {
	case TabMyRides:
		return d.loadMyRides(ctx)
	case TabBookings:
		return d.loadMyBookings(ctx)
	}
	return nil
}

func (d *Dashboard) Search(ctx context.Context) error {
	return d.run(func() error {
		rides, err := d.rides.Search(ctx, d.SearchForm)
		if err != nil {
			return err
		}
		d.Rides = rides
		return nil
	})
}

// CreateRide submits RideForm; on success the form is reset and the
// dashboard moves to the user's rides. Once the ride exists, a failed
// reload of the list is only logged.
func (d *Dashboard) CreateRide(ctx context.Context) error {
	return d.run(func() error {
		ride, err := d.rides.Create(ctx, d.RideForm)
		if err != nil {
			return err
		}
		d.LastCreated = &ride
		d.RideForm = dto.NewCreateRideRequest()
		d.ActiveTab = TabMyRides
		if err := d.loadMyRides(ctx); err != nil {
			d.mylog.Action("dashboard_my_rides").Warn("cannot reload my rides", "error", err)
		}
		return nil
	})
}

// BookRide books seatsInput seats on rideID. Input that is not a positive
// integer aborts before any request is made.
func (d *Dashboard) BookRide(ctx context.Context, rideID, seatsInput string) error {
	seats, err := dto.ParseSeatCount(seatsInput)
	if err != nil {
		return err
	}
	return d.booking.run(func() error {
		booking, err := d.bookings.Book(ctx, rideID, seats)
		if err != nil {
			return err
		}
		d.LastBooking = &booking
		d.loadRides(ctx)
		return nil
	})
}

func (d *Dashboard) Render(w io.Writer) {
	renderTabs(w, d.ActiveTab)
	fmt.Fprintln(w)

	switch d.ActiveTab {
	case TabSearch:
		renderRides(w, "Trajets disponibles", d.Rides, "Aucun trajet ne correspond à votre recherche.")
	case TabCreate:
		if d.LastCreated != nil {
			fmt.Fprintln(w, "Trajet créé avec succès!")
			fmt.Fprintln(w, renderRideCard(*d.LastCreated))
			return
		}
		renderCities(w, d.Cities)
	case TabMyRides:
		if d.LastCreated != nil {
			fmt.Fprintln(w, "Trajet créé avec succès!")
		}
		renderRides(w, "Mes Trajets", d.MyRides, "Vous n'avez pas encore créé de trajets.")
	case TabBookings:
		renderBookings(w, d.MyBookings)
	}
}

// RenderBooking confirms the last successful booking.
func (d *Dashboard) RenderBooking(w io.Writer) {
	if d.LastBooking == nil {
		return
	}
	fmt.Fprintln(w, "Réservation effectuée avec succès!")
	fmt.Fprintln(w, renderBookingCard(*d.LastBooking))
}

func (d *Dashboard) loadCities(ctx context.Context) {
	cities, err := d.rides.Cities(ctx)
	if err != nil {
		d.mylog.Action("dashboard_cities").Warn("cannot load cities", "error", err)
		return
	}
	d.Cities = cities
}

func (d *Dashboard) loadRides(ctx context.Context) {
	rides, err := d.rides.Search(ctx, dto.SearchQuery{})
	if err != nil {
		d.mylog.Action("dashboard_rides").Warn("cannot load rides", "error", err)
		return
	}
	d.Rides = rides
}

func (d *Dashboard) loadMyRides(ctx context.Context) error {
	rides, err := d.rides.Mine(ctx)
	if err != nil {
		return err
	}
	d.MyRides = rides
	return nil
}

func (d *Dashboard) loadMyBookings(ctx context.Context) error {
	bookings, err := d.bookings.Mine(ctx)
	if err != nil {
		return err
	}
	d.MyBookings = bookings
	return nil
}
