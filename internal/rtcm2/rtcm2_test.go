package rtcm2

import (
	"math"
	"testing"

	"github.com/fxbgnss/pppengine/internal/bitword"
	"github.com/fxbgnss/pppengine/internal/gnss"
	"github.com/stretchr/testify/require"
)

// encodeWord builds a valid 30-bit word for the given desired (sign-
// corrected) payload and previous-word sign context: it computes the
// correct parity analytically, then pre-inverts the data bits actually
// placed on the wire when the previous word's D30* bit is set, so that
// ApplyParity's sign correction recovers the intended payload on decode.
func encodeWord(t *testing.T, payload uint32, prevD29D30 uint32) (wire []byte, raw30 uint32) {
	t.Helper()
	payload &= 0xFFFFFF
	parity := bitword.ComputeParity(payload)
	raw30 = payload<<6 | parity
	transmitted := payload
	if prevD29D30&0x1 != 0 {
		transmitted ^= 0xFFFFFF
	}
	candidate := transmitted<<6 | parity
	got, err := bitword.ApplyParity(candidate, prevD29D30)
	require.NoError(t, err)
	require.Equal(t, raw30, got)
	return wireBytes(candidate), raw30
}

func wireBytes(word30 uint32) []byte {
	bits := make([]byte, 0, 30)
	for i := 29; i >= 0; i-- {
		bits = append(bits, byte((word30>>uint(i))&1))
	}
	out := make([]byte, 5)
	for g := 0; g < 5; g++ {
		chunk := bits[g*6 : g*6+6]
		var reversed byte
		for i := 0; i < 6; i++ {
			reversed <<= 1
			reversed |= chunk[5-i]
		}
		out[g] = 0x40 | reversed
	}
	return out
}

// encodePacket builds a full wire-encoded RTCM2 packet from its H1/H2
// payloads and a list of 24-bit data-word payloads, chaining parity sign
// correction word to word the way a transmitter would.
func encodePacket(t *testing.T, h1Payload, h2Payload uint32, dataPayloads []uint32) []byte {
	t.Helper()
	var out []byte
	wire, raw := encodeWord(t, h1Payload, 0)
	out = append(out, wire...)
	parity := raw & 0x3
	wire, raw = encodeWord(t, h2Payload, parity)
	out = append(out, wire...)
	parity = raw & 0x3
	for _, p := range dataPayloads {
		wire, raw = encodeWord(t, p, parity)
		out = append(out, wire...)
		parity = raw & 0x3
	}
	return out
}

func buildType3Packet(t *testing.T, stationID int, x, y, z float64) []byte {
	t.Helper()
	h1 := uint32(bitword.Preamble)<<16 | uint32(3)<<10 | uint32(stationID)&0x3FF
	h2 := uint32(4) << 3 // nDataWords=4 at payload bits 7..3

	vals := []int32{int32(x / 0.01), int32(y / 0.01), int32(z / 0.01)}
	bits := make([]byte, 0, 96)
	for _, v := range vals {
		u := uint32(v)
		for i := 31; i >= 0; i-- {
			bits = append(bits, byte((u>>uint(i))&1))
		}
	}
	dataPayloads := make([]uint32, 4)
	for w := 0; w < 4; w++ {
		chunk := bits[w*24 : w*24+24]
		var payload uint32
		for _, b := range chunk {
			payload = (payload << 1) | uint32(b)
		}
		dataPayloads[w] = payload
	}
	return encodePacket(t, h1, h2, dataPayloads)
}

func TestFramer_Type3RoundTrip(t *testing.T) {
	pktBytes := buildType3Packet(t, 42, 123.45, -678.90, 111.11)

	// S1: two valid type-3 packets separated by one random byte.
	stream := append([]byte{}, pktBytes...)
	stream = append(stream, 0xAA)
	stream = append(stream, pktBytes...)

	f := NewFramer()
	f.Write(stream)

	pkt1, ok := f.Next()
	require.True(t, ok)
	require.Equal(t, 3, pkt1.MsgType)
	require.Equal(t, 42, pkt1.StationID)

	sp1, err := DecodeType3(pkt1)
	require.NoError(t, err)
	require.InDelta(t, 123.45, sp1.ECEF.X, 0.01)
	require.InDelta(t, -678.90, sp1.ECEF.Y, 0.01)
	require.InDelta(t, 111.11, sp1.ECEF.Z, 0.01)

	pkt2, ok := f.Next()
	require.True(t, ok)
	sp2, err := DecodeType3(pkt2)
	require.NoError(t, err)
	require.InDelta(t, 123.45, sp2.ECEF.X, 0.01)
}

func TestReconcile_AmbiguityResolution(t *testing.T) {
	// Property 6: resolved phase round-trips P within half a wavelength.
	sat := gnss.Sat{Sys: gnss.SystemGPS, PRN: 5}
	lambda := gnss.Wavelength(gnss.FreqGPSL1)
	trueRangeCycles := 12345678.37 // far beyond the 2^23 truncation window
	truncated := math.Mod(trueRangeCycles, 1<<23)
	if truncated > (1 << 22) {
		truncated -= 1 << 23
	}

	// A GPS block is only valid with code+phase on both L1 and L2, so the
	// same cycles are supplied on L2 (the wavelength stub ignores frequency).
	t18 := Type18{Records: []PhaseRecord{
		{Sat: sat, FreqIsL2: false, PhaseCycles: truncated},
		{Sat: sat, FreqIsL2: true, PhaseCycles: truncated},
	}}
	t19 := Type19{Records: []RangeRecord{
		{Sat: sat, FreqIsL2: false, PseudorangeM: trueRangeCycles * lambda},
		{Sat: sat, FreqIsL2: true, PseudorangeM: trueRangeCycles * lambda},
	}}

	resolved, err := Reconcile(t18, t19, func(gnss.Sat, bool) float64 { return lambda }, true)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.InDelta(t, trueRangeCycles, resolved[0].PhaseCycles, 0.5)
}

func TestReconcile_LeadingGlonassBeforeGPS(t *testing.T) {
	sat := gnss.Sat{Sys: gnss.SystemGLO, PRN: 3}
	t18 := Type18{Records: []PhaseRecord{{Sat: sat}}}
	t19 := Type19{}
	_, err := Reconcile(t18, t19, func(gnss.Sat, bool) float64 { return 1 }, false)
	require.ErrorIs(t, err, ErrLeadingGlonassBeforeGPS)
}

func TestDecodeType18_EpochRounding(t *testing.T) {
	// S6: epoch 3599.998s should round to 3600.00s.
	pkt := Packet{ModZCount: 3599.998, Data: bitword.Payloads{0, 0}}
	t18, err := DecodeType18(pkt)
	require.NoError(t, err)
	require.InDelta(t, 3600.00, t18.Epoch, 1e-9)
}
