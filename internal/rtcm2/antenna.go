package rtcm2

import "github.com/fxbgnss/pppengine/internal/gnss"

// DecodeType22 decodes an antenna L1/L2 offset record: each axis a signed
// 18-bit value scaled 1mm, the straightforward part of spec.md §4.C types
// 22/23/24; the 6-bit decimetre correction spec.md calls out applies only
// to type 24's reference point.
func DecodeType22(pkt Packet) (AntennaOffset, error) {
	if pkt.Data.TotalBits() < 2*3*18 {
		return AntennaOffset{}, ErrPacketTooShort
	}
	read := func(base int) gnss.ECEF {
		x, _ := pkt.Data.GetSigned(base, 18)
		y, _ := pkt.Data.GetSigned(base+18, 18)
		z, _ := pkt.Data.GetSigned(base+36, 18)
		return gnss.ECEF{X: float64(x) * 0.001, Y: float64(y) * 0.001, Z: float64(z) * 0.001}
	}
	return AntennaOffset{
		StationID: pkt.StationID,
		L1:        read(0),
		L2:        read(54),
	}, nil
}

// DecodeType23 decodes a type-23 antenna type/serial record. Grounded on
// decode_type23 in rtcm2.go, which is itself a no-op stub (the field
// layout was never finalized in the RTCM2 spec the teacher targets); this
// keeps that no-op-for-PPP treatment but, unlike the teacher, surfaces the
// station ID so the event still reaches a caller instead of vanishing.
func DecodeType23(pkt Packet) (AntennaDescriptor, error) {
	return AntennaDescriptor{StationID: pkt.StationID}, nil
}

// DecodeType24 decodes the reference-point ECEF: a 32-bit base scaled
// 64mm, with a 6-bit sign-matched decimetre correction added for
// sub-resolution (spec.md §4.C).
func DecodeType24(pkt Packet) (ReferencePoint, error) {
	if pkt.Data.TotalBits() < 3*(32+6) {
		return ReferencePoint{}, ErrPacketTooShort
	}
	read := func(base int) float64 {
		base64, _ := pkt.Data.GetSigned(base, 32)
		corr, _ := pkt.Data.GetSigned(base+32, 6)
		v := float64(base64) * 0.064
		if base64 < 0 {
			v -= float64(corr) * 0.001
		} else {
			v += float64(corr) * 0.001
		}
		return v
	}
	return ReferencePoint{
		StationID: pkt.StationID,
		ECEF: gnss.ECEF{
			X: read(0),
			Y: read(38),
			Z: read(76),
		},
	}, nil
}
