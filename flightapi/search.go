package flightapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/search"
)

// SearchFlights queries the search service. Passengers defaults to 1;
// returnDate is sent only when present.
func (a *API) SearchFlights(ctx context.Context, p search.Params) ([]domain.Flight, error) {
	passengers := p.Passengers
	if passengers <= 0 {
		passengers = 1
	}
	q := url.Values{
		"origin":        []string{p.Origin},
		"destination":   []string{p.Destination},
		"departureDate": []string{p.DepartureDate},
		"passengers":    []string{strconv.Itoa(passengers)},
	}
	if p.ReturnDate != "" {
		q.Set("returnDate", p.ReturnDate)
	}
	var out []domain.Flight
	if err := a.c.Get(ctx, "/api/search/flights", &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearSearchCache asks the search service to drop its server-side cache.
// Callers should clear the client-side cache alongside.
func (a *API) ClearSearchCache(ctx context.Context) error {
	return a.c.Delete(ctx, "/api/search/cache", nil)
}
