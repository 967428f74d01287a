package kalman

// timeUpdate propagates the state covariance by dt seconds, grounded on
// UpdatePosPPP/UpdateClkPPP/UpdateTropPPP in ppp.go: rover position follows
// a random walk (or stays static when NoiseCrd is zero), the receiver
// clock is whitened every epoch (no process-noise accumulation carries
// across epochs, matching the teacher's UpdateClkPPP reinitializing the
// clock's variance each call), and the tropospheric wet delay follows a
// slow random walk. Ambiguities are left untouched; they only change on
// detected slip.
func (f *Filter) timeUpdate(dt float64) {
	if dt < 0 {
		dt = 0
	}
	for i, axis := range []int{idxX, idxY, idxZ} {
		if f.opt.NoiseCrd[i] != 0 {
			f.p.Add(axis, axis, sq(f.opt.NoiseCrd[i])*dt)
		}
	}
	f.p.Set(idxClk, idxClk, clockResetVarianceM2)
	for i := 0; i < f.p.Rows; i++ {
		if i == idxClk {
			continue
		}
		f.p.Set(idxClk, i, 0)
		f.p.Set(i, idxClk, 0)
	}
	if f.opt.AprSigTrp > 0 {
		f.p.Add(idxTrp, idxTrp, sq(f.opt.NoiseTrp)*dt)
	}
}
