// Package pppclient is the façade spec.md §4.I describes: it wires the
// ephemeris store (§4.D), satellite state evaluator and transmission-time
// solver (§4.E/§4.G), observation conditioner (§4.F) and Kalman filter
// (§4.H) into the public process_epoch/put_*/reset operations a caller
// drives one epoch at a time. Grounded on the pppos()/rtkpos() driver in
// ppp.go/rtkpos.go, which plays the same role around RTKLIB's equivalent
// pieces.
package pppclient

import (
	"math"

	"github.com/fxbgnss/pppengine/internal/config"
	"github.com/fxbgnss/pppengine/internal/ephemeris"
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/kalman"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
	"github.com/fxbgnss/pppengine/internal/satpos"
)

// Output is one epoch's result (spec.md §4.I): the solved position and its
// covariance upper triangle, the local offset (north, east, up) of that
// position from the a priori position given to NewClient, satellite count
// and HDOP, tropospheric diagnostics, and the epoch's accumulated log text.
type Output struct {
	Error bool
	Epoch gnss.Epoch

	XYZ              [3]float64
	CovUpperTriangle [6]float64 // xx,xy,xz,yy,yz,zz
	NEU              [3]float64

	NumSat int
	HDOP   float64

	Trp0     float64 // a priori (dry) zenith delay, metres
	Trp      float64 // estimated wet zenith delay, metres
	TrpStdev float64

	Log string
}

// Client is a single PPP processing session: its own ephemeris store,
// code-bias table and Kalman filter state. Concurrent epochs on the same
// Client are not supported (spec.md §5 scopes one client to one goroutine
// at a time); the ephemeris store it wraps may be shared and is internally
// synchronized.
type Client struct {
	opt    config.Options
	store  *ephemeris.Store
	filter *kalman.Filter
	logger gnss.Logger
	log    gnss.EpochLog

	lastTime  gnss.Epoch
	origin    gnss.ECEF
}

// NewClient builds a client seeded at approxPos, using cfg's tuning and
// logger for diagnostic output (gnss.NopLogger{} if nil).
func NewClient(cfg config.Options, approxPos gnss.ECEF, logger gnss.Logger) *Client {
	if logger == nil {
		logger = gnss.NopLogger{}
	}
	c := &Client{
		opt:    cfg,
		logger: logger,
		origin: approxPos,
	}
	c.store = ephemeris.NewStore(func() gnss.Epoch { return c.lastTime })
	c.filter = kalman.NewFilter(cfg.ToKalmanOptions(), approxPos)
	return c
}

// PutEphemeris inserts a broadcast ephemeris into the shared store (spec.md
// §4.I put_ephemeris), running the full CheckEphemeris validation.
func (c *Client) PutEphemeris(eph ephemeris.Eph) ephemeris.Status {
	return c.store.Put(eph, true)
}

// PutOrbCorrections attaches SSR orbit corrections by (PRN, IOD) match
// (spec.md §4.I put_orb_corrections).
func (c *Client) PutOrbCorrections(list []ephemeris.OrbitCorrection) {
	for _, corr := range list {
		if !c.store.AttachOrbitCorrection(corr) {
			c.logger.Debugf("pppclient: no matching ephemeris for orbit correction %s/%d", corr.Sat, corr.IOD)
		}
	}
}

// PutClkCorrections attaches SSR clock corrections by (PRN, IOD) match
// (spec.md §4.I put_clk_corrections).
func (c *Client) PutClkCorrections(list []ephemeris.ClockCorrection) {
	for _, corr := range list {
		if !c.store.AttachClockCorrection(corr) {
			c.logger.Debugf("pppclient: no matching ephemeris for clock correction %s/%d", corr.Sat, corr.IOD)
		}
	}
}

// PutCodeBiases overwrites the code-bias table for each entry's satellite
// (spec.md §4.I put_code_biases).
func (c *Client) PutCodeBiases(list []ephemeris.CodeBias) {
	for _, b := range list {
		c.store.PutCodeBias(b)
	}
}

// PutPhaseBiases is accepted but reserved: phase-bias fixing is out of
// scope for the float-ambiguity filter this client runs (spec.md
// Non-goals), so the message is acknowledged and discarded.
func (c *Client) PutPhaseBiases(_ any) {}

// PutTEC is accepted but reserved: the ionosphere-free combination this
// client forms does not consume VTEC corrections (spec.md Non-goals).
func (c *Client) PutTEC(_ any) {}

// Reset discards the filter state and the ephemeris/code-bias store, but
// keeps the caller-supplied configuration and logger (spec.md §4.I reset).
func (c *Client) Reset() {
	c.store.Reset()
	c.filter = kalman.NewFilter(c.opt.ToKalmanOptions(), c.origin)
	c.lastTime = gnss.Epoch{}
}

// ProcessEpoch runs one epoch of raw observations through conditioning,
// satellite-state evaluation and the Kalman filter, returning the
// resulting Output (spec.md §4.I process_epoch). On failure Output.Error
// is set and the filter state is left unchanged.
func (c *Client) ProcessEpoch(raws []obsmodel.RawObservation) Output {
	if len(raws) > 0 {
		c.lastTime = raws[0].Time
	}

	sats := make([]obsmodel.SatData, 0, len(raws))
	for _, raw := range raws {
		enabled := true
		switch raw.Sat.Sys {
		case gnss.SystemGPS:
			enabled = c.opt.UseSystem.GPS
		case gnss.SystemGLO:
			enabled = c.opt.UseSystem.GLONASS
		case gnss.SystemGAL:
			enabled = c.opt.UseSystem.Galileo
		case gnss.SystemBDS:
			enabled = c.opt.UseSystem.BeiDou
		}
		if !enabled {
			c.log.Printf("skip %s: system disabled", raw.Sat)
			continue
		}
		sd, err := obsmodel.Condition(raw, c.store)
		if err != nil {
			c.log.Printf("skip %s: %v", raw.Sat, err)
			continue
		}
		tx, err := satpos.ResolveTransmission(c.store, raw.Sat, raw.Time, sd.P3, c.opt.UseOrbClkCorr)
		if err != nil {
			c.log.Printf("skip %s: %v", raw.Sat, err)
			continue
		}
		if !tx.Healthy {
			c.log.Printf("skip %s: latest ephemeris broadcast unhealthy", raw.Sat)
			continue
		}
		sd.SatPos = tx.PosECEF
		sd.SatVel = tx.VelECEF
		sd.ClockM = tx.ClockM

		recv := c.filter.Position()
		_, unit := gnss.GeoDist(sd.SatPos, recv)
		az, el := gnss.AzEl(recv.ToGeodetic(), unit)
		sd.Azimuth, sd.Elevation = az, el

		sats = append(sats, sd)
	}

	result, err := c.filter.Update(c.lastTime, sats, c.logger)
	if err != nil {
		c.log.Printf("epoch failed: %v", err)
		return Output{Error: true, Epoch: c.lastTime, Log: c.log.Flush()}
	}

	return c.buildOutput(result)
}

func (c *Client) buildOutput(result kalman.Result) Output {
	pos := c.filter.Position()
	geo := pos.ToGeodetic()
	dry, _ := gnss.SaastamoinenZTD(geo.Height)

	diff := pos.Sub(c.origin)
	neu := gnss.ToENU(c.origin.ToGeodetic(), diff)

	return Output{
		Epoch:            result.Time,
		XYZ:              [3]float64{pos.X, pos.Y, pos.Z},
		CovUpperTriangle: c.filter.PositionCovarianceUpper(),
		NEU:              [3]float64{neu.N, neu.E, neu.U},
		NumSat:           result.NumSat,
		HDOP:             result.HDOP,
		Trp0:             dry,
		Trp:              result.TropWetM,
		TrpStdev:         sqrtNonNeg(c.filter.TropVariance()),
		Log:              c.log.Flush(),
	}
}

func sqrtNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}
