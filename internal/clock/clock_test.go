package clock_test

import (
	"testing"
	"time"

	"transport-service/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	fixed := clock.Fixed{Instant: time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2025-03-05", clock.Today(fixed))
}

func TestNewReal(t *testing.T) {
	c, err := clock.NewReal("America/Managua")
	require.NoError(t, err)
	assert.Equal(t, "-06", c.Now().Format("-07"))
}

func TestNewReal_UnknownTimezone(t *testing.T) {
	_, err := clock.NewReal("Mars/Olympus")
	assert.Error(t, err)
}

func TestDateLayoutOrdering(t *testing.T) {
	// String order on the layout must match time order.
	earlier := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC).Format(clock.DateLayout)
	later := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC).Format(clock.DateLayout)
	assert.Less(t, earlier, later)
}
