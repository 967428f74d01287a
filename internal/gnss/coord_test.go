package gnss_test

import (
	"math"
	"testing"

	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/stretchr/testify/assert"
)

// Adapted from Test_coordutest1/Test_coordutest3 in the teacher's
// coord_test.go, retargeted from the gnssgo package's slice-based
// Ecef2Pos/Ecef2Enu to this package's ECEF/Geodetic/ENU value types.

const rad2Deg = 180.0 / math.Pi

func TestECEF_ToGeodetic(t *testing.T) {
	assert := assert.New(t)

	pos := gnss.ECEF{X: 0, Y: 0, Z: 0}.ToGeodetic()
	assert.True(pos.Height < 0.0)

	pos = gnss.ECEF{X: 10000000.0, Y: 0, Z: 0}.ToGeodetic()
	assert.Equal(0.0, pos.Lat)
	assert.Equal(0.0, pos.Lon)
	assert.True(pos.Height > 0.0)

	pos = gnss.ECEF{X: 0, Y: 10000000.0, Z: 0}.ToGeodetic()
	assert.Equal(0.0, pos.Lat)
	assert.InDelta(math.Pi/2, pos.Lon, 1e-6)
	assert.True(pos.Height > 0.0)

	pos = gnss.ECEF{X: -3.5173197701e+06, Y: 4.1316679161e+06, Z: 3.3412651227e+06}.ToGeodetic()
	assert.InDelta(3.1796021375e+01, pos.Lat*rad2Deg, 1e-7)
	assert.InDelta(1.3040799917e+02, pos.Lon*rad2Deg, 1e-7)
	assert.InDelta(6.8863206206e+01, pos.Height, 1e-4)
}

func TestToENU(t *testing.T) {
	assert := assert.New(t)
	origin := gnss.Geodetic{Lat: 35.0 * math.Pi / 180, Lon: 140.0 * math.Pi / 180}
	e := gnss.ToENU(origin, gnss.ECEF{X: 0.3, Y: 0.4, Z: 0.5})
	assert.InDelta(-0.499254, e.E, 1e-6)
	assert.InDelta(0.393916, e.N, 1e-6)
	assert.InDelta(0.309152, e.U, 1e-6)
}

func TestGeoDist(t *testing.T) {
	assert := assert.New(t)
	rr := gnss.ECEF{X: -3.5173197701e+06, Y: 4.1316679161e+06, Z: 3.3412651227e+06}
	rs := rr.Add(gnss.ECEF{X: 1e7, Y: 0, Z: 0})
	dist, unit := gnss.GeoDist(rs, rr)
	assert.True(dist > 0)
	assert.InDelta(1.0, unit.Norm(), 1e-9)
}
