package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(t0)
	assert.Equal(t, t0, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, t0.Add(time.Minute), c.Now())

	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}
