package flightapi

import (
	"context"
	"net/url"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// CreateBookingRequest is the draft submitted to the bookings service.
type CreateBookingRequest struct {
	FlightID   string             `json:"flightId"`
	UserID     string             `json:"userId,omitempty"`
	Passengers []domain.Passenger `json:"passengers"`
}

// CreateBooking submits a booking draft. On success the returned record
// carries the server-issued reference and expiry.
func (a *API) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	var out domain.Booking
	if err := a.c.Post(ctx, "/api/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmBooking marks a booking paid, linking it to the payment.
func (a *API) ConfirmBooking(ctx context.Context, bookingID, paymentID string) (*domain.Booking, error) {
	q := url.Values{"paymentId": []string{paymentID}}
	var out domain.Booking
	if err := a.c.Put(ctx, "/api/bookings/"+bookingID+"/confirm", nil, &out, client.WithQuery(q)); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBooking cancels a booking.
func (a *API) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var out domain.Booking
	if err := a.c.Put(ctx, "/api/bookings/"+bookingID+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Booking fetches a booking by ID.
func (a *API) Booking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var out domain.Booking
	if err := a.c.Get(ctx, "/api/bookings/"+bookingID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookingByReference fetches a booking by its human-facing reference.
func (a *API) BookingByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	var out domain.Booking
	if err := a.c.Get(ctx, "/api/bookings/reference/"+reference, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserBookings lists a user's bookings, paginated.
func (a *API) UserBookings(ctx context.Context, userID string, page, size int) (*Page[domain.Booking], error) {
	var out Page[domain.Booking]
	if err := a.c.Get(ctx, "/api/bookings/user/"+userID, &out, client.WithQuery(pageQuery(page, size))); err != nil {
		return nil, err
	}
	return &out, nil
}
