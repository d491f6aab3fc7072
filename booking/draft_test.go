package booking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanfly/flightdesk/domain"
)

func testFlight() domain.Flight {
	return domain.Flight{
		ID:           "f1",
		FlightNumber: "AF101",
		Origin:       "UIO",
		Destination:  "GYE",
		BasePrice:    80,
		CurrentPrice: 100,
	}
}

func availableSeat(number string) domain.Seat {
	return domain.Seat{ID: "seat-" + number, SeatNumber: number, Status: domain.SeatAvailable}
}

func completePassenger(first string) domain.Passenger {
	return domain.Passenger{
		FirstName:      first,
		LastName:       "Paz",
		DocumentType:   domain.DocumentCedula,
		DocumentNumber: "1712345678",
	}
}

func TestDraft_ToggleSeatSelectsAndDeselects(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())

	require.NoError(t, d.ToggleSeat(availableSeat("12A")))
	require.NoError(t, d.ToggleSeat(availableSeat("12B")))
	assert.Len(t, d.Seats(), 2)

	// Toggling the same seat number again deselects it, even from a fresh
	// seat value.
	require.NoError(t, d.ToggleSeat(availableSeat("12A")))
	seats := d.Seats()
	require.Len(t, seats, 1)
	assert.Equal(t, "12B", seats[0].SeatNumber)
}

func TestDraft_ToggleSeatRejectsUnavailable(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())

	taken := availableSeat("1A")
	taken.Status = domain.SeatOccupied
	assert.ErrorIs(t, d.ToggleSeat(taken), ErrSeatUnavailable)
	assert.Empty(t, d.Seats())
}

func TestDraft_SeatCap(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())

	for i := 0; i < MaxSeats; i++ {
		require.NoError(t, d.ToggleSeat(availableSeat(fmt.Sprintf("%dA", i+1))))
	}
	err := d.ToggleSeat(availableSeat("99Z"))
	assert.ErrorIs(t, err, ErrTooManySeats)
	assert.Len(t, d.Seats(), MaxSeats)
}

func TestDraft_ToggleSeatWithoutFlight(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.ToggleSeat(availableSeat("1A")), ErrNoFlight)
}

func TestDraft_PassengerSeatBindingIsPositional(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.ToggleSeat(availableSeat("10B")))
	require.NoError(t, d.ToggleSeat(availableSeat("10C")))

	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	require.NoError(t, d.AddPassenger(completePassenger("Bruno")))
	require.NoError(t, d.AddPassenger(completePassenger("Carla")))

	passengers := d.Passengers()
	assert.Equal(t, "10A", passengers[0].SeatNumber)
	assert.Equal(t, "10B", passengers[1].SeatNumber)
	assert.Equal(t, "10C", passengers[2].SeatNumber)
}

func TestDraft_RemovePassengerShiftsSeats(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.ToggleSeat(availableSeat("10B")))
	require.NoError(t, d.ToggleSeat(availableSeat("10C")))
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	require.NoError(t, d.AddPassenger(completePassenger("Bruno")))
	require.NoError(t, d.AddPassenger(completePassenger("Carla")))

	require.NoError(t, d.RemovePassenger(0))

	passengers := d.Passengers()
	require.Len(t, passengers, 2)
	assert.Equal(t, "Bruno", passengers[0].FirstName)
	assert.Equal(t, "10A", passengers[0].SeatNumber, "remaining passengers re-bind to the earlier seats")
	assert.Equal(t, "Carla", passengers[1].FirstName)
	assert.Equal(t, "10B", passengers[1].SeatNumber)
}

func TestDraft_AddPassengerValidation(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))

	incomplete := completePassenger("Ana")
	incomplete.DocumentNumber = ""
	assert.Error(t, d.AddPassenger(incomplete))

	wrongDoc := completePassenger("Ana")
	wrongDoc.DocumentType = "DRIVER_LICENSE"
	assert.Error(t, d.AddPassenger(wrongDoc))

	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	assert.ErrorIs(t, d.AddPassenger(completePassenger("Bruno")), ErrTooManyPassengers)
}

func TestDraft_StepGates(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	assert.Equal(t, StepSeats, d.Step())

	assert.ErrorIs(t, d.Next(), ErrStepIncomplete, "cannot leave seat selection with no seats")

	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.ToggleSeat(availableSeat("10B")))
	require.NoError(t, d.Next())
	assert.Equal(t, StepPassengers, d.Step())

	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	assert.ErrorIs(t, d.Next(), ErrStepIncomplete, "one passenger per seat required")

	require.NoError(t, d.AddPassenger(completePassenger("Bruno")))
	require.NoError(t, d.Next())
	assert.Equal(t, StepReview, d.Step())

	assert.Error(t, d.Next(), "review is the last step")

	require.NoError(t, d.Prev())
	assert.Equal(t, StepPassengers, d.Step())
	require.NoError(t, d.Prev())
	assert.Equal(t, StepSeats, d.Step())
	assert.Error(t, d.Prev())
}

func TestDraft_DeselectingSeatOrphansPassenger(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.Next())
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	require.NoError(t, d.Prev())

	require.NoError(t, d.ToggleSeat(availableSeat("10A")), "deselect")
	require.NoError(t, d.ToggleSeat(availableSeat("10B")))
	require.NoError(t, d.Next())

	// One passenger, one seat: count matches, so the gate passes.
	assert.NoError(t, d.Next())
}

func TestDraft_AmountPrefersServerTotal(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	d.AttachBooking(domain.Booking{ID: "b1", TotalPrice: 123.45})

	amount, err := d.Amount()
	require.NoError(t, err)
	assert.Equal(t, 123.45, amount)
}

func TestDraft_AmountFallsBackToSeatsTimesPrice(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.ToggleSeat(availableSeat("10B")))
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	require.NoError(t, d.AddPassenger(completePassenger("Bruno")))
	d.AttachBooking(domain.Booking{ID: "b1"}) // no total price from the server

	amount, err := d.Amount()
	require.NoError(t, err)
	assert.Equal(t, 200.0, amount, "2 passengers x current price 100")
}

func TestDraft_AmountFallsBackToBasePrice(t *testing.T) {
	flight := testFlight()
	flight.CurrentPrice = 0

	d := NewDraft()
	d.SelectFlight(flight)
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))

	amount, err := d.Amount()
	require.NoError(t, err)
	assert.Equal(t, 80.0, amount)
}

func TestAmountDue_PrefersServerTotal(t *testing.T) {
	amount, err := AmountDue(domain.Booking{ID: "b1", TotalPrice: 321.5}, testFlight())
	require.NoError(t, err)
	assert.Equal(t, 321.5, amount)
}

func TestAmountDue_FallsBackToPassengersTimesPrice(t *testing.T) {
	b := domain.Booking{ID: "b1", Passengers: []domain.Passenger{{}, {}}} // no total price
	amount, err := AmountDue(b, testFlight())
	require.NoError(t, err)
	assert.Equal(t, 200.0, amount, "2 passengers x current price 100")
}

func TestAmountDue_FallsBackToBasePrice(t *testing.T) {
	flight := testFlight()
	flight.CurrentPrice = 0

	amount, err := AmountDue(domain.Booking{ID: "b1", Passengers: []domain.Passenger{{}}}, flight)
	require.NoError(t, err)
	assert.Equal(t, 80.0, amount)
}

func TestAmountDue_NoPricingAtAll(t *testing.T) {
	_, err := AmountDue(domain.Booking{ID: "b1"}, domain.Flight{ID: "f1"})
	require.Error(t, err)
}

func TestDraft_SelectFlightResetsEverything(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	require.NoError(t, d.AddPassenger(completePassenger("Ana")))
	d.AttachBooking(domain.Booking{ID: "b1"})

	d.SelectFlight(domain.Flight{ID: "f2"})

	assert.Empty(t, d.Seats())
	assert.Empty(t, d.Passengers())
	assert.Nil(t, d.Booking())
	assert.Equal(t, StepSeats, d.Step())
}

func TestDraft_Reset(t *testing.T) {
	d := NewDraft()
	d.SelectFlight(testFlight())
	require.NoError(t, d.ToggleSeat(availableSeat("10A")))
	d.Reset()

	assert.Nil(t, d.Flight())
	assert.Empty(t, d.Seats())
	assert.Equal(t, StepSeats, d.Step())
}
