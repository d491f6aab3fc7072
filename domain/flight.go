package domain

import "time"

// SeatStatus defines the possible states of a seat on a flight.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatOccupied  SeatStatus = "OCCUPIED"
	SeatBlocked   SeatStatus = "BLOCKED"
)

// SeatClass defines the cabin class of a seat.
type SeatClass string

const (
	SeatClassEconomy  SeatClass = "ECONOMY"
	SeatClassBusiness SeatClass = "BUSINESS"
	SeatClassFirst    SeatClass = "FIRST_CLASS"
)

// PriceLevel is the dynamic-pricing band reported by the pricing service.
type PriceLevel string

const (
	PriceLevelLow    PriceLevel = "LOW"
	PriceLevelMedium PriceLevel = "MEDIUM"
	PriceLevelHigh   PriceLevel = "HIGH"
)

// Flight is the flight record as served by the flights service. The client
// does not own its lifecycle, only displays and forwards it.
type Flight struct {
	ID              string     `json:"id"`
	FlightNumber    string     `json:"flightNumber"`
	Airline         string     `json:"airline,omitempty"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	DepartureTime   time.Time  `json:"departureTime"`
	ArrivalTime     time.Time  `json:"arrivalTime"`
	DurationMinutes int        `json:"durationMinutes"`
	BasePrice       float64    `json:"basePrice"`
	CurrentPrice    float64    `json:"currentPrice,omitempty"`
	PriceLevel      PriceLevel `json:"priceLevel,omitempty"`
	AvailableSeats  int        `json:"availableSeats"`
	Status          string     `json:"status,omitempty"`
}

// Seat is a single seat on a flight as served by the seats endpoint.
type Seat struct {
	ID         string     `json:"id"`
	SeatNumber string     `json:"seatNumber"`
	Class      SeatClass  `json:"seatClass"`
	Status     SeatStatus `json:"status"`
	Price      float64    `json:"price,omitempty"`
}
