package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"afrikar/internal/client/adapters/driven/api"
	"afrikar/internal/client/adapters/driven/storage"
	"afrikar/internal/client/core/domain/dto"
	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/domain/model"
	"afrikar/internal/client/core/myerrors"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/mylogger"

	"github.com/gorilla/mux"
)

const rideJSON = `{"id":"r1","ville_depart":"Dakar","ville_arrivee":"Thiès","date_depart":"2024-01-01",
"heure_depart":"08:00","places_disponibles":3,"prix_par_place":2500,"conducteur_nom":"Mamadou Fall"}`

type recordingBroker struct {
	mu     sync.Mutex
	events []brokerdto.Activity
}

func (b *recordingBroker) PublishActivity(_ context.Context, e brokerdto.Activity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBroker) Close() error { return nil }

func (b *recordingBroker) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *storage.Memory
	session  *SessionService
	auth     *AuthService
	rides    *RidesService
	bookings *BookingsService
	broker   *recordingBroker

	mu   sync.Mutex
	hits map[string]int
}

func (f *fixture) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newFixture(t *testing.T, register func(r *mux.Router)) *fixture {
	t.Helper()

	f := &fixture{hits: make(map[string]int)}
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.hits[r.URL.Path]++
			f.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	log := mylogger.Discard()
	f.store = storage.NewMemory()
	f.broker = &recordingBroker{}
	client := api.New(srv.URL, 5*time.Second, f.store, log)
	f.session = NewSessionService(log, f.store)
	f.auth = NewAuthService(log, client, f.session, f.broker)
	f.rides = NewRidesService(log, client, f.session, f.broker)
	f.bookings = NewBookingsService(log, client, f.session, f.broker)
	return f
}

func loginFixture(t *testing.T, f *fixture) {
	t.Helper()
	if err := f.session.Login(context.Background(), model.User{ID: "u1", Prenom: "Awa"}, "tok"); err != nil {
		t.Fatal(err)
	}
}

func TestAuthLoginPopulatesSession(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
			var req dto.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Email != "awa@example.sn" || req.MotDePasse != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"detail":"Email ou mot de passe incorrect"}`)
				return
			}
			_, _ = io.WriteString(w, `{"user":{"id":"u1","prenom":"Awa","nom":"Ndiaye","email":"awa@example.sn"},"access_token":"tok-123"}`)
		}).Methods(http.MethodPost)
	})
	ctx := context.Background()

	_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "awa@example.sn", MotDePasse: "wrong"})
	if err == nil || err.Error() != "Email ou mot de passe incorrect" {
		t.Fatalf("bad password err = %v", err)
	}
	if f.session.IsAuthenticated() {
		t.Fatal("failed login populated the session")
	}

	user, err := f.auth.Login(ctx, dto.LoginRequest{Email: "awa@example.sn", MotDePasse: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Prenom != "Awa" || f.session.Token() != "tok-123" {
		t.Errorf("user %+v token %q", user, f.session.Token())
	}
	if tok, _, _ := f.store.Get(ctx, driven.KeyToken); tok != "tok-123" {
		t.Errorf("durable token = %q", tok)
	}
	if got := f.broker.types(); len(got) != 1 || got[0] != brokerdto.ActivityLogin {
		t.Errorf("activity = %v", got)
	}
}

func TestAuthRegisterRequiresAllFields(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(RegisterPath, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"user":{"id":"u9","prenom":"Ibou"},"access_token":"t"}`)
		})
	})

	_, err := f.auth.Register(context.Background(), dto.RegisterRequest{Email: "i@b.sn", MotDePasse: "x"})
	if !errors.Is(err, myerrors.ErrFieldIsEmpty) {
		t.Fatalf("err = %v", err)
	}
	if n := f.count(RegisterPath); n != 0 {
		t.Errorf("incomplete form reached the backend %d times", n)
	}

	user, err := f.auth.Register(context.Background(), dto.RegisterRequest{
		Nom: "Sarr", Prenom: "Ibou", Email: "i@b.sn", Telephone: "+221770000000", MotDePasse: "x",
	})
	if err != nil || user.ID != "u9" {
		t.Fatalf("Register = %+v, %v", user, err)
	}
}

func TestAuthLogoutClearsSession(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {})
	loginFixture(t, f)

	if err := f.auth.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.session.IsAuthenticated() {
		t.Error("still authenticated")
	}
	if got := f.broker.types(); len(got) != 1 || got[0] != brokerdto.ActivityLogout {
		t.Errorf("activity = %v", got)
	}
}

func TestSearchIssuesOrderedQuery(t *testing.T) {
	var rawQuery string
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(RidesPath, func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			_, _ = io.WriteString(w, "["+rideJSON+"]")
		}).Methods(http.MethodGet)
	})

	rides, err := f.rides.Search(context.Background(), dto.SearchQuery{
		VilleDepart: "Dakar", VilleArrivee: "Thiès", DateDepart: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := "ville_depart=Dakar&ville_arrivee=Thi%C3%A8s&date_depart=2024-01-01"; rawQuery != want {
		t.Errorf("query = %q, want %q", rawQuery, want)
	}
	if len(rides) != 1 || rides[0].VilleArrivee != "Thiès" || rides[0].PrixParPlace != 2500 {
		t.Errorf("rides = %+v", rides)
	}
}

func TestSearchRejectsMalformedListing(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(RidesPath, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[{"id":"","ville_depart":"Dakar"}]`)
		})
	})
	_, err := f.rides.Search(context.Background(), dto.SearchQuery{})
	if !errors.Is(err, myerrors.ErrInvalidRecord) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecentLimits(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(RidesPath, func(w http.ResponseWriter, r *http.Request) {
			var rides []map[string]any
			for i := 0; i < 9; i++ {
				rides = append(rides, map[string]any{
					"id": string(rune('a' + i)), "ville_depart": "Dakar", "ville_arrivee": "Mbour",
				})
			}
			_ = json.NewEncoder(w).Encode(rides)
		})
	})
	rides, err := f.rides.Recent(context.Background(), 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(rides) != 6 || rides[0].ID != "a" {
		t.Errorf("got %d rides starting %q", len(rides), rides[0].ID)
	}
}

func TestCitiesAndEmptyListing(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(CitiesPath, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"cities":["Dakar","Thiès","Saint-Louis"]}`)
		})
		r.HandleFunc(MyRidesPath, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `null`)
		})
	})
	ctx := context.Background()

	cities, err := f.rides.Cities(ctx)
	if err != nil || len(cities) != 3 {
		t.Fatalf("Cities = %v, %v", cities, err)
	}

	loginFixture(t, f)
	mine, err := f.rides.Mine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if mine == nil || len(mine) != 0 {
		t.Errorf("Mine = %#v, want empty non-nil slice", mine)
	}
}

func TestCreateRide(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(RidesPath, func(w http.ResponseWriter, r *http.Request) {
			var req dto.CreateRideRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.PlacesDisponibles != 3 || req.HeureDepart != "08:00" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, rideJSON)
		}).Methods(http.MethodPost)
	})
	ctx := context.Background()
	req := dto.CreateRideRequest{
		VilleDepart: "Dakar", VilleArrivee: "Thiès", DateDepart: "2024-01-01",
		HeureDepart: "08:00", PlacesDisponibles: 3, PrixParPlace: 2500,
	}

	if _, err := f.rides.Create(ctx, req); !errors.Is(err, myerrors.ErrNotAuthenticated) {
		t.Fatalf("anonymous create err = %v", err)
	}

	loginFixture(t, f)

	tooMany := req
	tooMany.PlacesDisponibles = 9
	if _, err := f.rides.Create(ctx, tooMany); !errors.Is(err, myerrors.ErrInvalidSeatCount) {
		t.Fatalf("9 seats err = %v", err)
	}
	if n := f.count(RidesPath); n != 0 {
		t.Fatalf("invalid forms reached the backend %d times", n)
	}

	ride, err := f.rides.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ride.ID != "r1" {
		t.Errorf("ride = %+v", ride)
	}
	if got := f.broker.types(); len(got) != 1 || got[0] != brokerdto.ActivityRideCreated {
		t.Errorf("activity = %v", got)
	}
}

func TestBookInvalidSeatsNeverCallsBackend(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(BookingsPath, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":"b1","trajet_id":"r1","nombre_places":1,"statut":"confirmée"}`)
		})
	})
	loginFixture(t, f)
	ctx := context.Background()

	for _, seats := range []int{0, -1} {
		if _, err := f.bookings.Book(ctx, "r1", seats); !errors.Is(err, myerrors.ErrInvalidSeatCount) {
			t.Errorf("seats %d: err = %v", seats, err)
		}
	}
	if n := f.count(BookingsPath); n != 0 {
		t.Fatalf("backend called %d times for invalid seat counts", n)
	}

	booking, err := f.bookings.Book(ctx, "r1", 1)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if booking.ID != "b1" || f.count(BookingsPath) != 1 {
		t.Errorf("booking = %+v, calls = %d", booking, f.count(BookingsPath))
	}
}

func TestMyBookingsTotalPrice(t *testing.T) {
	f := newFixture(t, func(r *mux.Router) {
		r.HandleFunc(MyBookingsPath, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `[{"id":"b1","trajet_id":"r1","nombre_places":2,"statut":"confirmée","trajet":`+rideJSON+`}]`)
		})
	})
	loginFixture(t, f)

	bookings, err := f.bookings.Mine(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(bookings) != 1 || bookings[0].TotalPrice() != 5000 {
		t.Errorf("bookings = %+v", bookings)
	}
}
