package kalman

import (
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/fxbgnss/pppengine/internal/obsmodel"
)

// Result is one epoch's finished filter state, the data pppclient's
// façade shapes into its public Output (spec.md §4.I).
type Result struct {
	Time      gnss.Epoch
	Position  gnss.ECEF
	ClockM    float64
	TropWetM  float64
	NumSat    int
	HDOP      float64
	Residuals map[gnss.Sat]float64
}

// Update runs one epoch through the filter: time update, elevation
// screening, slip detection, and sequential code/phase measurement
// update, grounded end to end on ppp.go's pppos() driver loop which calls
// UpdatePos/UpdateClk/UpdateTrop followed by PPPResidual per epoch. On
// ErrInsufficientSatellites or ErrNumericalFailure the filter's state and
// covariance are left exactly as they were before the call.
func (f *Filter) Update(t gnss.Epoch, obs []obsmodel.SatData, logger gnss.Logger) (Result, error) {
	if logger == nil {
		logger = gnss.NopLogger{}
	}

	dt := 0.0
	if f.initialized {
		dt = t.Sub(f.lastEpoch)
	}

	usable := make([]obsmodel.SatData, 0, len(obs))
	for _, sd := range obs {
		if sd.Elevation < f.opt.MinElevRad {
			continue
		}
		usable = append(usable, sd)
	}
	if len(usable) < f.opt.minObsFloor() {
		return Result{}, ErrInsufficientSatellites
	}

	savedX, savedP := f.x.Clone(), f.p.Clone()
	savedAmb := make(map[gnss.Sat]int, len(f.ambIndex))
	for k, v := range f.ambIndex {
		savedAmb[k] = v
	}

	f.timeUpdate(dt)

	for _, sd := range usable {
		if f.slipped(sd) {
			f.applySlip(sd.Sat, sd)
			logger.Debugf("kalman: slip on %s at %s", sd.Sat, t)
		}
	}

	residuals := make(map[gnss.Sat]float64, len(usable))
	used := 0
	for _, sd := range usable {
		mapping := gnss.NiellWetMapping(sd.Elevation)
		ok, residual, err := f.updateOne(sd, mapping)
		if err != nil {
			f.x, f.p, f.ambIndex = savedX, savedP, savedAmb
			return Result{}, err
		}
		if ok {
			used++
		}
		residuals[sd.Sat] = residual
		f.lastSeen[sd.Sat] = t
	}

	if used < f.opt.minObsFloor() {
		f.x, f.p, f.ambIndex = savedX, savedP, savedAmb
		return Result{}, ErrInsufficientSatellites
	}

	f.lastEpoch = t
	f.initialized = true

	return Result{
		Time:      t,
		Position:  f.Position(),
		ClockM:    f.ClockM(),
		TropWetM:  f.TropWetM(),
		NumSat:    used,
		HDOP:      f.HDOP(),
		Residuals: residuals,
	}, nil
}
