package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanfly/flightdesk/domain"
)

func TestCache_HitAndMiss(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	params := Params{Origin: "UIO", Destination: "GYE", DepartureDate: "2025-03-01", Passengers: 2}

	_, ok := c.Get(params)
	assert.False(t, ok)

	c.Set(params, []domain.Flight{{ID: "f1"}})
	results, ok := c.Get(params)
	require.True(t, ok)
	assert.Equal(t, "f1", results[0].ID)

	// Any parameter change is a different key.
	other := params
	other.Passengers = 3
	_, ok = c.Get(other)
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	c := NewCache(30 * time.Millisecond)
	defer c.Stop()

	params := Params{Origin: "UIO", Destination: "GYE", DepartureDate: "2025-03-01"}
	c.Set(params, []domain.Flight{{ID: "f1"}})

	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get(params)
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	params := Params{Origin: "UIO", Destination: "GYE", DepartureDate: "2025-03-01"}
	c.Set(params, []domain.Flight{{ID: "f1"}})
	c.Clear()

	_, ok := c.Get(params)
	assert.False(t, ok)
}
