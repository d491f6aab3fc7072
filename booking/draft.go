// Package booking holds the client-side booking draft: the multi-step
// wizard state between selecting a flight and handing off to payment.
package booking

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/andeanfly/flightdesk/domain"
)

// MaxSeats is the per-booking seat cap enforced client-side.
const MaxSeats = 9

// Step is the wizard step. Forward transitions are gated, backward ones
// are always allowed except from the first step.
type Step int

const (
	StepSeats Step = iota + 1
	StepPassengers
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepSeats:
		return "seat selection"
	case StepPassengers:
		return "passenger entry"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

var (
	// ErrSeatUnavailable rejects selecting a seat that is not AVAILABLE.
	ErrSeatUnavailable = errors.New("the selected seat is no longer available")
	// ErrTooManySeats rejects the tenth seat.
	ErrTooManySeats = errors.New("a booking can hold at most 9 seats")
	// ErrTooManyPassengers rejects a passenger beyond the selected seats.
	ErrTooManyPassengers = errors.New("every passenger needs a selected seat")
	// ErrStepIncomplete rejects a forward step whose gate predicate fails.
	ErrStepIncomplete = errors.New("complete the current step first")
	// ErrNoFlight rejects wizard operations before a flight is selected.
	ErrNoFlight = errors.New("no flight selected")
)

// Draft is the in-progress reservation. It is a dependency-injected state
// container: each test, and each app instance, owns its own Draft.
type Draft struct {
	mu         sync.Mutex
	flight     *domain.Flight
	seats      []domain.Seat
	passengers []domain.Passenger
	booking    *domain.Booking
	step       Step
	validate   *validator.Validate
}

// NewDraft creates an empty draft.
func NewDraft() *Draft {
	return &Draft{step: StepSeats, validate: validator.New()}
}

// SelectFlight starts a new draft for the given flight, discarding any
// previous wizard state.
func (d *Draft) SelectFlight(flight domain.Flight) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flight = &flight
	d.seats = nil
	d.passengers = nil
	d.booking = nil
	d.step = StepSeats
}

// Flight returns the selected flight, or nil.
func (d *Draft) Flight() *domain.Flight {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flight
}

// ToggleSeat selects the seat if absent and deselects it if present,
// keyed by seat number. Selecting a seat that is not available, or a
// tenth seat, is rejected with no state change.
func (d *Draft) ToggleSeat(seat domain.Seat) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flight == nil {
		return ErrNoFlight
	}
	for i, s := range d.seats {
		if s.SeatNumber == seat.SeatNumber {
			d.seats = append(d.seats[:i], d.seats[i+1:]...)
			// Deselecting a seat may orphan the last passenger; the
			// passenger step gate catches the mismatch.
			return nil
		}
	}
	if seat.Status != domain.SeatAvailable {
		return ErrSeatUnavailable
	}
	if len(d.seats) >= MaxSeats {
		return ErrTooManySeats
	}
	d.seats = append(d.seats, seat)
	return nil
}

// Seats returns the selected seats in selection order.
func (d *Draft) Seats() []domain.Seat {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Seat, len(d.seats))
	copy(out, d.seats)
	return out
}

// AddPassenger appends a passenger, bound positionally to the next seat.
// The passenger must be complete and there must be a seat left for them.
func (d *Draft) AddPassenger(p domain.Passenger) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.passengers) >= len(d.seats) {
		return ErrTooManyPassengers
	}
	if err := d.validate.Struct(p); err != nil {
		return fmt.Errorf("incomplete passenger: %w", err)
	}
	p.SeatNumber = d.seats[len(d.passengers)].SeatNumber
	d.passengers = append(d.passengers, p)
	return nil
}

// RemovePassenger removes the passenger at index i. Seat binding is
// positional, so every following passenger shifts to the previous seat in
// the list.
func (d *Draft) RemovePassenger(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.passengers) {
		return fmt.Errorf("no passenger at index %d", i)
	}
	d.passengers = append(d.passengers[:i], d.passengers[i+1:]...)
	for j := range d.passengers {
		d.passengers[j].SeatNumber = d.seats[j].SeatNumber
	}
	return nil
}

// Passengers returns the entered passengers in order.
func (d *Draft) Passengers() []domain.Passenger {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Passenger, len(d.passengers))
	copy(out, d.passengers)
	return out
}

// Step returns the current wizard step.
func (d *Draft) Step() Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step
}

// Next advances the wizard when the current step's gate predicate holds:
// at least one seat to leave seat selection, one complete passenger per
// seat to leave passenger entry.
func (d *Draft) Next() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.step {
	case StepSeats:
		if len(d.seats) == 0 {
			return ErrStepIncomplete
		}
		d.step = StepPassengers
	case StepPassengers:
		if len(d.passengers) != len(d.seats) {
			return ErrStepIncomplete
		}
		for _, p := range d.passengers {
			if err := d.validate.Struct(p); err != nil {
				return ErrStepIncomplete
			}
		}
		d.step = StepReview
	case StepReview:
		return errors.New("already at the last step")
	}
	return nil
}

// Prev steps backward. Backward transitions are always allowed except
// from the first step.
func (d *Draft) Prev() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.step == StepSeats {
		return errors.New("already at the first step")
	}
	d.step--
	return nil
}

// AttachBooking stores the server-issued booking record after creation
// succeeds.
func (d *Draft) AttachBooking(b domain.Booking) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.booking = &b
}

// Booking returns the server booking record, non-nil only between
// successful creation and reset.
func (d *Draft) Booking() *domain.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.booking
}

// Amount is the amount submitted to payment. The server's totalPrice is
// authoritative; when it is missing the client falls back to seat count
// times the flight's current price, or base price. The fallback is a
// documented trust-boundary wart, kept for compatibility.
func (d *Draft) Amount() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.booking != nil && d.booking.TotalPrice > 0 {
		return d.booking.TotalPrice, nil
	}
	if d.flight == nil {
		return 0, ErrNoFlight
	}
	count := len(d.passengers)
	if d.booking != nil && len(d.booking.Passengers) > 0 {
		count = len(d.booking.Passengers)
	}
	return fallbackAmount(*d.flight, count)
}

// AmountDue resolves the charge for an already-created booking outside a
// draft, applying the same totalPrice-then-pricing-fallback rules as
// Draft.Amount.
func AmountDue(b domain.Booking, f domain.Flight) (float64, error) {
	if b.TotalPrice > 0 {
		return b.TotalPrice, nil
	}
	return fallbackAmount(f, len(b.Passengers))
}

func fallbackAmount(f domain.Flight, count int) (float64, error) {
	if count == 0 {
		count = 1
	}
	price := f.CurrentPrice
	if price <= 0 {
		price = f.BasePrice
	}
	if price <= 0 {
		return 0, errors.New("could not determine the payment amount")
	}
	return price * float64(count), nil
}

// Reset clears the whole draft: called after successful payment or when
// navigating away from an expired booking.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flight = nil
	d.seats = nil
	d.passengers = nil
	d.booking = nil
	d.step = StepSeats
}
