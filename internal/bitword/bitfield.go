package bitword

import "errors"

// ErrPacketTooShort is returned when a bitfield request extends past the
// available payload bits (spec.md §4.A, §7: discard packet, keep buffer
// tail, never surfaced as fatal).
var ErrPacketTooShort = errors.New("bitword: packet too short for requested bitfield")

// Payloads is the concatenated 24-bit payload of a sequence of RTCM2 words
// (header words and/or data words), addressed bit by bit starting at bit 0
// of the first word. Grounded on get_unsigned_bits/get_bits as spec.md
// §4.A describes them (not present verbatim in the teacher's Go port,
// which works on fixed struct fields instead; derived directly from the
// RTCM2 ICD bit layout the teacher's decode_type* functions consume).
type Payloads []uint32

// GetUnsigned extracts an n-bit (n<=32) unsigned value beginning at bit
// index start across the concatenated payloads.
func (p Payloads) GetUnsigned(start, n int) (uint64, error) {
	if n <= 0 || n > 32 {
		return 0, errors.New("bitword: bitfield width out of range")
	}
	if start+n > len(p)*24 {
		return 0, ErrPacketTooShort
	}
	var v uint64
	for i := 0; i < n; i++ {
		bitIdx := start + i
		word := p[bitIdx/24]
		// Bit 0 of a word is its most-significant payload bit.
		shift := uint(23 - bitIdx%24)
		bit := (word >> shift) & 1
		v = (v << 1) | uint64(bit)
	}
	return v, nil
}

// GetSigned extracts a sign-extended n-bit value beginning at bit start.
func (p Payloads) GetSigned(start, n int) (int64, error) {
	u, err := p.GetUnsigned(start, n)
	if err != nil {
		return 0, err
	}
	signBit := uint64(1) << uint(n-1)
	if u&signBit != 0 {
		return int64(u) - int64(signBit<<1), nil
	}
	return int64(u), nil
}

// TotalBits is the number of addressable payload bits.
func (p Payloads) TotalBits() int { return len(p) * 24 }
