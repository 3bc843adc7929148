package cli

import (
	"context"
	"fmt"
	"io"

	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driver"
	"afrikar/internal/mylogger"
)

const (
	ViewLanding   = "landing"
	ViewAuth      = "auth"
	ViewDashboard = "dashboard"
)

// App is the root of the view tree. It owns the session handle and hands
// each view what it needs at construction.
type App struct {
	mylog   mylogger.Logger
	session driver.ISessionService
	auth    driver.IAuthService

	current string

	Landing   *Landing
	Auth      *Auth
	Dashboard *Dashboard
}

func NewApp(
	mylog mylogger.Logger,
	session driver.ISessionService,
	auth driver.IAuthService,
	rides driver.IRidesService,
	bookings driver.IBookingsService,
) *App {
	a := &App{
		mylog:   mylog,
		session: session,
		auth:    auth,
		current: ViewLanding,
	}
	a.Landing = NewLanding(mylog, rides, a.SetView)
	a.Auth = NewAuth(mylog, auth, a.SetView)
	a.Dashboard = NewDashboard(mylog, rides, bookings)
	return a
}

func (a *App) SetView(view string) {
	a.mylog.Action("navigate").Debug("view changed", "from", a.current, "to", view)
	a.current = view
}

func (a *App) Session() driver.ISessionService {
	return a.session
}

func (a *App) Current() string {
	return a.current
}

// OpenDashboard switches to the dashboard on tab. Anonymous users are sent
// to the authentication view instead.
func (a *App) OpenDashboard(ctx context.Context, tab string) error {
	if !a.session.IsAuthenticated() {
		a.SetView(ViewAuth)
		return myerrors.ErrNotAuthenticated
	}
	a.SetView(ViewDashboard)
	return a.Dashboard.SetTab(ctx, tab)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.SetView(ViewLanding)
	return nil
}

// Render draws the header and the current view.
func (a *App) Render(w io.Writer) {
	renderHeader(w, a.session.User())
	fmt.Fprintln(w)

	switch a.current {
	case ViewLanding:
		a.Landing.Render(w)
	case ViewAuth:
		a.Auth.Render(w)
	case ViewDashboard:
		a.Dashboard.Render(w)
	}
}
