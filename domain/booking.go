package domain

import "time"

// BookingStatus defines the possible states of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// DocumentType is the identity-document type accepted for a passenger.
type DocumentType string

const (
	DocumentCedula   DocumentType = "CEDULA"
	DocumentPassport DocumentType = "PASSPORT"
	DocumentRUC      DocumentType = "RUC"
)

// Passenger is one traveller on a booking. The validate tags gate the
// wizard's passenger step: every field except SeatNumber must be present
// before the draft may advance to review.
type Passenger struct {
	FirstName      string       `json:"firstName" validate:"required"`
	LastName       string       `json:"lastName" validate:"required"`
	DocumentType   DocumentType `json:"documentType" validate:"required,oneof=CEDULA PASSPORT RUC"`
	DocumentNumber string       `json:"documentNumber" validate:"required"`
	SeatNumber     string       `json:"seatNumber,omitempty"`
}

// Booking is the server-issued booking record. It is attached to the
// client-side draft only after the bookings service confirms creation.
type Booking struct {
	ID               string        `json:"id"`
	BookingReference string        `json:"bookingReference"`
	FlightID         string        `json:"flightId"`
	UserID           string        `json:"userId,omitempty"`
	Status           BookingStatus `json:"status"`
	TotalPrice       float64       `json:"totalPrice"`
	Passengers       []Passenger   `json:"passengers"`
	CreatedAt        time.Time     `json:"createdAt"`
	ExpiresAt        time.Time     `json:"expiresAt"`
}
