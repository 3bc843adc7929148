package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"afrikar/internal/client/adapters/driver/cli"
	"afrikar/internal/client/core/myerrors"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// ErrUsage is returned for an unknown command or bad flags.
var ErrUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, app *cli.App, args []string, out io.Writer) error
}

var commands = []command{
	{"landing", "show the landing page with recent rides", runLanding},
	{"cities", "list the cities served", runCities},
	{"search", "search rides (--from, --to, --date)", runSearch},
	{"login", "log in (--email, --password)", runLogin},
	{"register", "create an account", runRegister},
	{"logout", "forget the stored session", runLogout},
	{"whoami", "show the logged in user", runWhoami},
	{"dashboard", "open the dashboard (--tab)", runDashboard},
	{"create-ride", "publish a ride", runCreateRide},
	{"my-rides", "list the rides you published", tabCommand(cli.TabMyRides)},
	{"book", "book seats on a ride (--ride, --seats)", runBook},
	{"bookings", "list your bookings", tabCommand(cli.TabBookings)},
}

// Run dispatches args[0] to its command.
func Run(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		Usage(out)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, app, args[1:], out)
		}
	}
	Usage(out)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: afrikar <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
}

func newFlagSet(name string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func runLanding(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	if err := parse(newFlagSet("landing", out), args); err != nil {
		return err
	}
	app.SetView(cli.ViewLanding)
	app.Landing.Open(ctx)
	app.Render(out)
	return nil
}

func runCities(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	if err := parse(newFlagSet("cities", out), args); err != nil {
		return err
	}
	if err := app.Landing.LoadCities(ctx); err != nil {
		return err
	}
	app.Landing.RenderCities(out)
	return nil
}

func runSearch(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("search", out)
	from := fs.String("from", "", "departure city (ville_depart)")
	to := fs.String("to", "", "arrival city (ville_arrivee)")
	date := fs.String("date", "", "departure date, YYYY-MM-DD (date_depart)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if app.Session().IsAuthenticated() {
		app.SetView(cli.ViewDashboard)
		d := app.Dashboard
		d.ActiveTab = cli.TabSearch
		d.SearchForm.VilleDepart, d.SearchForm.VilleArrivee, d.SearchForm.DateDepart = *from, *to, *date
		if err := d.Search(ctx); err != nil {
			return err
		}
	} else {
		app.SetView(cli.ViewLanding)
		l := app.Landing
		l.Form.VilleDepart, l.Form.VilleArrivee, l.Form.DateDepart = *from, *to, *date
		if err := l.Search(ctx); err != nil {
			return err
		}
	}
	app.Render(out)
	return nil
}

func runLogin(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("login", out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := passwordOrPrompt(*password, out)
	if err != nil {
		return err
	}

	app.Landing.Start()
	if !app.Auth.IsLogin {
		app.Auth.Toggle()
	}
	app.Auth.Form.Email = *email
	app.Auth.Form.MotDePasse = pw
	if err := app.Auth.Submit(ctx); err != nil {
		return err
	}
	return openAfterAuth(ctx, app, out)
}

func runRegister(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("register", out)
	nom := fs.String("nom", "", "last name")
	prenom := fs.String("prenom", "", "first name")
	email := fs.String("email", "", "account email")
	telephone := fs.String("telephone", "", "phone number")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := parse(fs, args); err != nil {
		return err
	}

	pw, err := passwordOrPrompt(*password, out)
	if err != nil {
		return err
	}

	app.Landing.Start()
	if app.Auth.IsLogin {
		app.Auth.Toggle()
	}
	app.Auth.Form.Nom = *nom
	app.Auth.Form.Prenom = *prenom
	app.Auth.Form.Email = *email
	app.Auth.Form.Telephone = *telephone
	app.Auth.Form.MotDePasse = pw
	if err := app.Auth.Submit(ctx); err != nil {
		return err
	}
	return openAfterAuth(ctx, app, out)
}

func openAfterAuth(ctx context.Context, app *cli.App, out io.Writer) error {
	if err := app.OpenDashboard(ctx, cli.TabSearch); err != nil {
		return err
	}
	app.Render(out)
	return nil
}

func runLogout(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	if err := parse(newFlagSet("logout", out), args); err != nil {
		return err
	}
	if err := app.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Déconnecté.")
	return nil
}

func runWhoami(_ context.Context, app *cli.App, args []string, out io.Writer) error {
	if err := parse(newFlagSet("whoami", out), args); err != nil {
		return err
	}
	u := app.Session().User()
	if u == nil {
		return myerrors.ErrNotAuthenticated
	}
	fmt.Fprintf(out, "%s %s <%s>\n", u.Prenom, u.Nom, u.Email)
	return nil
}

func runDashboard(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("dashboard", out)
	tab := fs.String("tab", cli.TabSearch, "search | create | my-rides | bookings")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := app.OpenDashboard(ctx, *tab); err != nil {
		return err
	}
	app.Render(out)
	return nil
}

func tabCommand(tab string) func(context.Context, *cli.App, []string, io.Writer) error {
	return func(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
		return runDashboard(ctx, app, append([]string{"--tab", tab}, args...), out)
	}
}

func runCreateRide(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("create-ride", out)
	from := fs.String("from", "", "departure city")
	to := fs.String("to", "", "arrival city")
	date := fs.String("date", "", "departure date, YYYY-MM-DD")
	at := fs.String("time", "", "departure time, HH:MM")
	seats := fs.Int("seats", 1, "seats offered (1-7)")
	price := fs.Float64("price", 0, "price per seat in FCFA")
	vehicle := fs.String("vehicle", "", "vehicle description")
	description := fs.String("description", "", "free text for passengers")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !fs.Changed("price") {
		return fmt.Errorf("%w: --price is required", ErrUsage)
	}

	if err := app.OpenDashboard(ctx, cli.TabCreate); err != nil {
		return err
	}
	f := &app.Dashboard.RideForm
	f.VilleDepart = *from
	f.VilleArrivee = *to
	f.DateDepart = *date
	f.HeureDepart = *at
	f.PlacesDisponibles = *seats
	f.PrixParPlace = *price
	f.VehiculeInfo = *vehicle
	f.Description = *description

	if err := app.Dashboard.CreateRide(ctx); err != nil {
		return err
	}
	app.Render(out)
	return nil
}

func runBook(ctx context.Context, app *cli.App, args []string, out io.Writer) error {
	fs := newFlagSet("book", out)
	ride := fs.String("ride", "", "ride reference (trajet id)")
	seats := fs.String("seats", "", "number of seats")
	if err := parse(fs, args); err != nil {
		return err
	}

	if !app.Session().IsAuthenticated() {
		return myerrors.ErrNotAuthenticated
	}
	app.SetView(cli.ViewDashboard)
	if err := app.Dashboard.BookRide(ctx, *ride, *seats); err != nil {
		return err
	}
	app.Dashboard.RenderBooking(out)
	return nil
}

// passwordOrPrompt reads the password from the terminal without echo when
// it was not given on the command line.
func passwordOrPrompt(given string, out io.Writer) (string, error) {
	if given != "" {
		return given, nil
	}
	if env := os.Getenv("AFRIKAR_PASSWORD"); env != "" {
		return env, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprint(out, "Mot de passe: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// ExitCode maps an error to the process status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}
