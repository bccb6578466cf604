package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClock_NowOnlyMovesOnAdvance(t *testing.T) {
	start := time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC)
	c := Fake(start)

	assert.Equal(t, start, c.Now())

	c.Advance(36 * time.Hour)
	assert.Equal(t, start.Add(36*time.Hour), c.Now())

	pinned := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(pinned)
	assert.Equal(t, pinned, c.Now())
}

func TestFakeClock_TickerFiresOnBoundary(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)
	ticker := c.NewTicker(time.Minute)
	defer ticker.Stop()

	c.Advance(30 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired before its interval elapsed")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case tick := <-ticker.C:
		assert.Equal(t, start.Add(time.Minute), tick)
	default:
		t.Fatal("ticker did not fire after one interval")
	}
}

func TestFakeClock_StoppedTickerStaysQuiet(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(10 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeClock_NewTickerRejectsZeroInterval(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	require.Panics(t, func() { c.NewTicker(0) })
}

func TestReal_NowIsCurrent(t *testing.T) {
	before := time.Now()
	got := Real().Now()
	assert.False(t, got.Before(before))
}
