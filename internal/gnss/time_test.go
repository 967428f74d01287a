package gnss_test

import (
	"testing"
	"time"

	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/stretchr/testify/assert"
)

// Adapted from the TimeAdd/TimeDiff round-trip checks in the teacher's
// time_test.go, retargeted from gnssgo.Gtime to this package's Epoch
// (whole-seconds-plus-fraction split).

func TestEpoch_AddSubRoundTrip(t *testing.T) {
	assert := assert.New(t)
	e0 := gnss.FromTime(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	for _, dt := range []float64{0, 1, -1, 0.5, 3600, -86400, 1e-3} {
		e1 := e0.Add(dt)
		assert.InDelta(dt, e1.Sub(e0), 1e-9)
	}
}

func TestEpoch_Seconds(t *testing.T) {
	assert := assert.New(t)
	e := gnss.Epoch{Sec: 100, Frac: 0.25}
	assert.InDelta(100.25, e.Seconds(), 1e-12)
}

func TestEpoch_IsZero(t *testing.T) {
	assert := assert.New(t)
	assert.True(gnss.Epoch{}.IsZero())
	assert.False(gnss.Epoch{Sec: 1}.IsZero())
}
