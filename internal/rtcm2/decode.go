package rtcm2

import (
	"errors"
	"math"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

// ErrPacketTooShort mirrors bitword's sentinel at the decoder layer: the
// packet's declared data-word count is too small for its message type
// (spec.md §4.C; §7: discard packet, never surfaced as fatal).
var ErrPacketTooShort = errors.New("rtcm2: packet too short for its message type")

// ErrUnsupportedFrequency is returned when a type-18/19 packet mixes an
// unsupported frequency flag; the whole packet is dropped (spec.md §4.C).
var ErrUnsupportedFrequency = errors.New("rtcm2: unsupported carrier frequency in packet")

// ErrLeadingGlonassBeforeGPS is returned when the leading satellite of a
// type-18/19 block is GLONASS but no GPS satellite has been observed yet in
// this decoding session (spec.md §4.C).
var ErrLeadingGlonassBeforeGPS = errors.New("rtcm2: leading GLONASS satellite before any GPS seen")

// errNeedsMoreMessages signals that a type-20/21 packet was accumulated
// but the multiple-message indicator has not cleared yet (spec.md §4.C).
var errNeedsMoreMessages = errors.New("rtcm2: type 20/21 block awaiting more messages")

// errUnhandledType is returned for message types the core does not decode
// (e.g. type 14 GPS time of week, or anything outside spec.md §4.C's list).
var errUnhandledType = errors.New("rtcm2: unhandled message type")

func prnFromRaw(raw int) int {
	if raw == 0 {
		return gnss.RawPRNWrap
	}
	return raw
}

func satFromFlag(glonass bool, prn int) gnss.Sat {
	sys := gnss.SystemGPS
	if glonass {
		sys = gnss.SystemGLO
	}
	return gnss.Sat{Sys: sys, PRN: prn}
}

// DecodeType3 decodes a reference-station ECEF packet: x,y,z each signed
// 32-bit times 0.01m (spec.md §4.C, grounded on decode_type3, rtcm2.go).
func DecodeType3(pkt Packet) (StationPosition, error) {
	if pkt.Data.TotalBits() < 96 {
		return StationPosition{}, ErrPacketTooShort
	}
	x, _ := pkt.Data.GetSigned(0, 32)
	y, _ := pkt.Data.GetSigned(32, 32)
	z, _ := pkt.Data.GetSigned(64, 32)
	return StationPosition{
		StationID: pkt.StationID,
		ECEF: gnss.ECEF{
			X: float64(x) * 0.01,
			Y: float64(y) * 0.01,
			Z: float64(z) * 0.01,
		},
	}, nil
}

// type18RecordBits is the per-satellite record width: frequency flag (1) +
// constellation flag (1) + PRN (5) + slip counter (5) + reserved padding
// (12) + phase (24, signed) = 48 bits (spec.md §4.C).
const type18RecordBits = 48
const type18HeaderBits = 24

// DecodeType18 decodes a carrier-phase packet (odd DW count >= 3). Epoch is
// 0.6*modZCount (already folded into the packet header) plus the packet's
// own microsecond offset, rounded to the nearest 0.01s (spec.md §4.C, §8
// boundary property 10 / scenario S6).
func DecodeType18(pkt Packet) (Type18, error) {
	if pkt.Data.TotalBits() < type18HeaderBits {
		return Type18{}, ErrPacketTooShort
	}
	usec, _ := pkt.Data.GetUnsigned(4, 20) // 2-bit freq + 2 reserved precede it
	epoch := math.Round((pkt.ModZCount+float64(usec)*1e-6)*100) / 100

	n := (pkt.Data.TotalBits() - type18HeaderBits) / type18RecordBits
	records := make([]PhaseRecord, 0, n)
	var refFreq = -1
	for i := 0; i < n; i++ {
		base := type18HeaderBits + i*type18RecordBits
		freqBit, _ := pkt.Data.GetUnsigned(base, 1)
		if refFreq == -1 {
			refFreq = int(freqBit)
		} else if int(freqBit) != refFreq {
			return Type18{}, ErrUnsupportedFrequency
		}
		glonassBit, _ := pkt.Data.GetUnsigned(base+1, 1)
		rawPRN, _ := pkt.Data.GetUnsigned(base+2, 5)
		slip, _ := pkt.Data.GetUnsigned(base+7, 5)
		phase, _ := pkt.Data.GetSigned(base+24, 24)

		sat := satFromFlag(glonassBit != 0, prnFromRaw(int(rawPRN)))
		records = append(records, PhaseRecord{
			Sat:         sat,
			FreqIsL2:    freqBit != 0,
			SlipCounter: int(slip),
			PhaseCycles: -float64(phase) / 256.0,
		})
	}
	return Type18{Epoch: epoch, Records: records}, nil
}

const type19RecordBits = 48
const type19HeaderBits = 24

// DecodeType19 decodes a pseudorange packet. Measurement is unsigned
// 32-bit times 0.02m; a code-type flag distinguishes C/A-on-L1 from
// P-code. A majority vote across the packet's satellites overrides the
// leading satellite's constellation flag, working around a known
// receiver's PRN-32 misbehavior (spec.md §4.C).
func DecodeType19(pkt Packet) (Type19, error) {
	if pkt.Data.TotalBits() < type19HeaderBits {
		return Type19{}, ErrPacketTooShort
	}
	n := (pkt.Data.TotalBits() - type19HeaderBits) / type19RecordBits
	type raw struct {
		isPCode, glonass bool
		prn              int
		freqIsL2         bool
		rangeM           float64
	}
	parsed := make([]raw, 0, n)
	gpsVotes, gloVotes := 0, 0
	for i := 0; i < n; i++ {
		base := type19HeaderBits + i*type19RecordBits
		freqBit, _ := pkt.Data.GetUnsigned(base, 1)
		codeBit, _ := pkt.Data.GetUnsigned(base+1, 1)
		glonassBit, _ := pkt.Data.GetUnsigned(base+2, 1)
		rawPRN, _ := pkt.Data.GetUnsigned(base+3, 5)
		rng, _ := pkt.Data.GetUnsigned(base+8, 32)
		r := raw{
			isPCode:  codeBit != 0,
			glonass:  glonassBit != 0,
			prn:      prnFromRaw(int(rawPRN)),
			freqIsL2: freqBit != 0,
			rangeM:   float64(rng) * 0.02,
		}
		parsed = append(parsed, r)
		if r.glonass {
			gloVotes++
		} else {
			gpsVotes++
		}
	}
	majorityGlonass := gloVotes > gpsVotes
	records := make([]RangeRecord, 0, n)
	for i, r := range parsed {
		glonass := r.glonass
		if i == 0 {
			glonass = majorityGlonass
		}
		records = append(records, RangeRecord{
			Sat:          satFromFlag(glonass, r.prn),
			IsPCode:      r.isPCode,
			FreqIsL2:     r.freqIsL2,
			PseudorangeM: r.rangeM,
		})
	}
	return Type19{Epoch: pkt.ModZCount, Records: records}, nil
}
