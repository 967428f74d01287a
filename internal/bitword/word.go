// Package bitword extracts parity-checked 30-bit RTCM2 words from a raw
// byte stream. Grounded on Decode_Word (common.go) for the ICD-GPS-200
// parity masks, generalized to the wire format spec.md §4.A describes: six
// meaningful data bits per input byte (bits 7..6 must read '01'), bit-
// reversed through a 64-entry table, shifted into a register that also
// carries the two trailing parity bits of the previous word so the new
// word's data can be sign-corrected before its own parity check.
package bitword

import "errors"

// ErrBadByte is returned by Assembler.PushByte when bits 7..6 of the input
// byte are not '01' (the byte carries no RTCM2 data and is discarded).
var ErrBadByte = errors.New("bitword: byte tag bits are not 01")

// ErrParityFailure is returned when a 30-bit word fails the ICD-GPS-200
// parity check; per spec.md §7 the framer drops one byte and resyncs.
var ErrParityFailure = errors.New("bitword: parity check failed")

// Preamble is the 8-bit RTCM2 header pattern occupying bits 29..22 of the
// sign-corrected word (spec.md §4.A).
const Preamble = 0x66

// reverse6 bit-reverses the low 6 bits of b, the 64-entry table spec.md
// §4.A names, expressed as a computed permutation rather than a literal
// array of the same values.
func reverse6(b byte) byte {
	var r byte
	for i := 0; i < 6; i++ {
		r <<= 1
		r |= (b >> uint(i)) & 1
	}
	return r
}

// hammingMasks are the six fixed 32-bit masks ICD-GPS-200 defines for the
// parity XOR-aggregation, taken verbatim from Decode_Word (common.go).
var hammingMasks = [6]uint32{
	0xBB1F3480, 0x5D8F9A40, 0xAEC7CD00, 0x5763E680, 0x6BB1F340, 0x8B7A89C0,
}

// Word is one sign-corrected, parity-checked 30-bit RTCM2 word: 24 payload
// bits plus the 6 trailing parity bits (parity already verified).
type Word struct {
	Payload uint32 // low 24 bits significant
	Raw30   uint32 // full 30-bit sign-corrected word (payload<<6 | parity)
}

// Assembler turns a stream of input bytes into a stream of parity-checked
// 30-bit words, retaining the previous word's trailing two parity bits so
// each new word can be sign-corrected per ICD-GPS-200 §20.3.5.
type Assembler struct {
	reg        uint32
	bitCount   int
	prevD29D30 uint32
}

// NewAssembler returns an Assembler with no prior-word parity context (both
// sign bits zero, matching the teacher's InitRtcm: rtcm.Word = 0).
func NewAssembler() *Assembler { return &Assembler{} }

// PushByte feeds one input byte. ok is true when a full 30-bit word has
// just been assembled and parity-validated. err is ErrBadByte when the tag
// bits are wrong, or ErrParityFailure when assembly completed but parity
// did not check out; both are resync conditions, never fatal (spec.md §7).
func (a *Assembler) PushByte(b byte) (w Word, ok bool, err error) {
	if b&0xC0 != 0x40 {
		return Word{}, false, ErrBadByte
	}
	data := reverse6(b & 0x3F)
	a.reg = (a.reg << 6) | uint32(data)
	a.bitCount += 6
	if a.bitCount < 30 {
		return Word{}, false, nil
	}
	shift := uint(a.bitCount - 30)
	word30 := (a.reg >> shift) & 0x3FFFFFFF
	a.bitCount -= 30
	a.reg &= (1 << uint(a.bitCount)) - 1

	raw, perr := ApplyParity(word30, a.prevD29D30)
	if perr != nil {
		// Resync context is rebuilt from scratch by the framer on the next
		// attempt; keep the sign bits unknown rather than stale.
		a.prevD29D30 = 0
		return Word{}, false, perr
	}
	a.prevD29D30 = raw & 0x3
	return Word{Payload: (raw >> 6) & 0xFFFFFF, Raw30: raw}, true, nil
}

// Reset clears the sign-correction context, used when the framer
// resynchronizes after a parity failure (spec.md §4.B SEEK_H1).
func (a *Assembler) Reset() { a.reg, a.bitCount, a.prevD29D30 = 0, 0, 0 }

// DecodeWordBytes decodes a standalone 5-byte chunk (no assembler state)
// into a sign-corrected, parity-checked Word, given the previous word's
// trailing parity bits. Used by the packet framer (spec.md §4.B), which
// needs random access into the buffer to search for resynchronization
// points rather than a single forward-only byte stream.
func DecodeWordBytes(data5 []byte, prevD29D30 uint32) (Word, error) {
	if len(data5) != 5 {
		return Word{}, errors.New("bitword: word must be exactly 5 bytes")
	}
	var word30 uint32
	for _, b := range data5 {
		if b&0xC0 != 0x40 {
			return Word{}, ErrBadByte
		}
		word30 = (word30 << 6) | uint32(reverse6(b&0x3F))
	}
	raw, err := ApplyParity(word30, prevD29D30)
	if err != nil {
		return Word{}, err
	}
	return Word{Payload: (raw >> 6) & 0xFFFFFF, Raw30: raw}, nil
}

// ComputeParity computes the 6 ICD-GPS-200 parity bits for a 24-bit
// payload (the sign-corrected/final form of the data), the inverse
// building block ApplyParity's validation is checked against. Exposed so
// encoders and tests can construct well-formed words without a brute-force
// search (spec.md §8 property 1: parity round-trips).
func ComputeParity(payload uint32) uint32 {
	w := (payload & 0xFFFFFF) << 6
	var parity uint32
	for i := 0; i < 6; i++ {
		p := (w & hammingMasks[i]) >> 6
		var bit uint32
		for p > 0 {
			bit ^= p & 1
			p >>= 1
		}
		parity = (parity << 1) | bit
	}
	return parity
}

// ApplyParity sign-corrects word30 using the previous word's trailing two
// parity bits prevD29D30 (bit1=D29*, bit0=D30*) and validates its own
// parity against the ICD-GPS-200 Hamming masks (Decode_Word, common.go).
// It returns the sign-corrected 30-bit word (data<<6 | parity) on success.
func ApplyParity(word30, prevD29D30 uint32) (uint32, error) {
	w := word30
	if prevD29D30&0x1 != 0 {
		w ^= 0x3FFFFFC0 // invert D1..D24; the 6 parity bits are left as sent
	}
	var parity uint32
	for i := 0; i < 6; i++ {
		p := (w & hammingMasks[i]) >> 6
		var bit uint32
		for p > 0 {
			bit ^= p & 1
			p >>= 1
		}
		parity = (parity << 1) | bit
	}
	if parity != w&0x3F {
		return 0, ErrParityFailure
	}
	return w, nil
}
