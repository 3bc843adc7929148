package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"afrikar/internal/client/core/domain/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	orange = lipgloss.Color("#F97316")
	green  = lipgloss.Color("#16A34A")
	gray   = lipgloss.Color("#6B7280")

	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(orange)
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(gray)
	priceStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	tabStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeTab  = tabStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(orange)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray).
			Padding(0, 1).
			MarginBottom(1)
)

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " FCFA"
}

func route(r model.Ride) string {
	return r.VilleDepart + " → " + r.VilleArrivee
}

func schedule(r model.Ride) string {
	return r.DateDepart + " à " + r.HeureDepart
}

func renderHeader(w io.Writer, user *model.User) {
	line := brandStyle.Render("AfriKar") + " " + mutedStyle.Render("Covoiturage au Sénégal")
	if user != nil {
		line += "  ·  Bonjour, " + user.DisplayName()
	}
	fmt.Fprintln(w, line)
}

func renderRideCard(r model.Ride) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(route(r)) + "  " + priceStyle.Render(formatPrice(r.PrixParPlace)) + "\n")
	b.WriteString(mutedStyle.Render(schedule(r)) + "\n")
	if r.ConducteurNom != "" {
		b.WriteString("Conducteur: " + r.ConducteurNom + "\n")
	}
	b.WriteString("Places disponibles: " + strconv.Itoa(r.PlacesDisponibles) + "\n")
	if r.VehiculeInfo != "" {
		b.WriteString("Véhicule: " + r.VehiculeInfo + "\n")
	}
	if r.Description != "" {
		b.WriteString(r.Description + "\n")
	}
	b.WriteString(mutedStyle.Render("Réf: " + r.ID))
	return cardStyle.Render(b.String())
}

func renderBookingCard(bk model.Booking) string {
	var b strings.Builder
	if bk.Trajet != nil {
		b.WriteString(titleStyle.Render(route(*bk.Trajet)) + "  " + priceStyle.Render(bk.Statut) + "\n")
		b.WriteString(mutedStyle.Render(schedule(*bk.Trajet)) + "\n")
	} else {
		b.WriteString(titleStyle.Render("Trajet "+bk.TrajetID) + "  " + priceStyle.Render(bk.Statut) + "\n")
	}
	b.WriteString("Places réservées: " + strconv.Itoa(bk.NombrePlaces) + "\n")
	if bk.Trajet != nil {
		b.WriteString("Prix total: " + formatPrice(bk.TotalPrice()) + "\n")
		b.WriteString("Conducteur: " + bk.Trajet.ConducteurNom + "\n")
		b.WriteString("Téléphone: " + bk.Trajet.ConducteurTelephone + "\n")
	}
	b.WriteString(mutedStyle.Render("Réf: " + bk.ID))
	return cardStyle.Render(b.String())
}

func renderRides(w io.Writer, title string, rides []model.Ride, empty string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	if len(rides) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(empty))
		return
	}
	for _, r := range rides {
		fmt.Fprintln(w, renderRideCard(r))
	}
}

func renderBookings(w io.Writer, bookings []model.Booking) {
	fmt.Fprintln(w, titleStyle.Render("Mes Réservations"))
	if len(bookings) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Vous n'avez pas encore de réservations."))
		return
	}
	for _, bk := range bookings {
		fmt.Fprintln(w, renderBookingCard(bk))
	}
}

func renderCities(w io.Writer, cities []string) {
	fmt.Fprintln(w, titleStyle.Render("Villes desservies"))
	for _, c := range cities {
		fmt.Fprintln(w, "  "+c)
	}
}

func renderTabs(w io.Writer, active string) {
	parts := make([]string, 0, len(Tabs))
	for _, t := range Tabs {
		if t.ID == active {
			parts = append(parts, activeTab.Render(t.Title))
		} else {
			parts = append(parts, tabStyle.Render(t.Title))
		}
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}
