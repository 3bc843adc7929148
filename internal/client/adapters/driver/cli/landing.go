package cli

import (
	"context"
	"io"

	"afrikar/internal/client/core/domain/dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

// RecentRidesLimit is how many rides the landing page shows before a search.
const RecentRidesLimit = 6

type Landing struct {
	mylog    mylogger.Logger
	rides    driver.IRidesService
	navigate func(view string)

	Form   dto.SearchQuery
	Cities []string
	Rides  []model.Ride
	loading
}

func NewLanding(mylog mylogger.Logger, rides driver.IRidesService, navigate func(string)) *Landing {
	return &Landing{
		mylog:    mylog,
		rides:    rides,
		navigate: navigate,
	}
}

// Open loads the city list and the most recent rides. Failures here are
// diagnostics only: the page still renders with what it has.
func (l *Landing) Open(ctx context.Context) {
	mylog := l.mylog.Action("landing_open")

	if err := l.LoadCities(ctx); err != nil {
		mylog.Warn("cannot load cities", "error", err)
	}

	rides, err := l.rides.Recent(ctx, RecentRidesLimit)
	if err != nil {
		mylog.Warn("cannot load rides", "error", err)
	} else {
		l.Rides = rides
	}
}

func (l *Landing) LoadCities(ctx context.Context) error {
	cities, err := l.rides.Cities(ctx)
	if err != nil {
		return err
	}
	l.Cities = cities
	return nil
}

// Search replaces the displayed rides with the backend's answer for Form.
func (l *Landing) Search(ctx context.Context) error {
	return l.run(func() error {
		rides, err := l.rides.Search(ctx, l.Form)
		if err != nil {
			return err
		}
		l.Rides = rides
		return nil
	})
}

// Start sends a visitor to the authentication view, as both call-to-action
// buttons and every "book" button on the landing page do.
func (l *Landing) Start() {
	l.navigate(ViewAuth)
}

func (l *Landing) Render(w io.Writer) {
	renderRides(w, "Trajets Récents", l.Rides, "Aucun trajet disponible pour le moment.")
}

func (l *Landing) RenderCities(w io.Writer) {
	renderCities(w, l.Cities)
}
