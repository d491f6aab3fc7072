package flightapi

import (
	"context"
	"net/url"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// Flight fetches a flight by ID.
func (a *API) Flight(ctx context.Context, flightID string) (*domain.Flight, error) {
	var out domain.Flight
	if err := a.c.Get(ctx, "/api/flights/"+flightID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FlightWithPricing fetches a flight with its dynamic price applied.
func (a *API) FlightWithPricing(ctx context.Context, flightID string) (*domain.Flight, error) {
	var out domain.Flight
	if err := a.c.Get(ctx, "/api/flights/"+flightID+"/with-pricing", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableSeats lists the seats still open on a flight.
func (a *API) AvailableSeats(ctx context.Context, flightID string) ([]domain.Seat, error) {
	var out []domain.Seat
	if err := a.c.Get(ctx, "/api/flights/"+flightID+"/seats/available", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Flights lists flights, paginated.
func (a *API) Flights(ctx context.Context, page, size int) (*Page[domain.Flight], error) {
	var out Page[domain.Flight]
	if err := a.c.Get(ctx, "/api/flights", &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindFlights queries the flights service directly by route and date.
// Most storefront searches go through SearchFlights instead, which hits
// the caching search service.
func (a *API) FindFlights(ctx context.Context, origin, destination, date string) ([]domain.Flight, error) {
	q := url.Values{
		"origin":      []string{origin},
		"destination": []string{destination},
		"date":        []string{date},
	}
	var out []domain.Flight
	if err := a.c.Get(ctx, "/api/flights/search", &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return out, nil
}
