package gnss

// Carrier frequencies (Hz) for the signal pairs the observation conditioner
// combines per constellation (§4.F table). GLONASS FDMA channels are
// slot-dependent and computed by GlonassFreq.
const (
	FreqGPSL1 = 1575.42e6
	FreqGPSL2 = 1227.60e6

	FreqGalE1 = 1575.42e6
	FreqGalE5 = 1176.45e6

	FreqBDSB2 = 1561.098e6
	FreqBDSB7 = 1207.140e6

	gloL1Base = 1602.0e6
	gloL1Step = 0.5625e6
	gloL2Base = 1246.0e6
	gloL2Step = 0.4375e6
)

// GlonassFreq returns the FDMA L1/L2 carrier frequencies for slot
// (frequency channel number) k, k in [-7,13] per the ICD.
func GlonassFreq(k int) (f1, f2 float64) {
	return gloL1Base + float64(k)*gloL1Step, gloL2Base + float64(k)*gloL2Step
}

// IFCoefficients returns the ionosphere-free combination coefficients a,b
// for a frequency pair (f1,f2): a = f1^2/(f1^2-f2^2), b = -f2^2/(f1^2-f2^2).
// Grounded on the dual-frequency IF combination of spec.md §4.F: the
// coefficients satisfy a+b == 1 and a/f1^2 + b/f2^2 == 0, so the
// first-order ionospheric delay cancels.
func IFCoefficients(f1, f2 float64) (a, b float64) {
	den := f1*f1 - f2*f2
	a = f1 * f1 / den
	b = -f2 * f2 / den
	return a, b
}

// Wavelength returns c/f in metres.
func Wavelength(f float64) float64 { return SpeedOfLight / f }
