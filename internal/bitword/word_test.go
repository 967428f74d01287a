package bitword

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// wordToBytes packs a 30-bit word into 5 input bytes tagged '01' in bits
// 7..6, the inverse of Assembler.PushByte's bit-reversal/accumulation.
func wordToBytes(word30 uint32) []byte {
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

func TestAssembler_ParityRoundTrip(t *testing.T) {
	a := NewAssembler()
	payload := uint32(0x123456)
	parity := ComputeParity(payload)
	word := payload<<6 | parity

	var got Word
	var ok bool
	var err error
	for _, b := range wordToBytes(word) {
		got, ok, err = a.PushByte(b)
	}
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload, got.Payload)
}

func TestAssembler_BadByteTag(t *testing.T) {
	a := NewAssembler()
	_, ok, err := a.PushByte(0x00)
	require.False(t, ok)
	require.ErrorIs(t, err, ErrBadByte)
}

func TestComputeParity_RoundTrip(t *testing.T) {
	// Property 1: reapplying parity to a parsed word's payload reproduces
	// its parity bits.
	for _, payload := range []uint32{0, 0xFFFFFF, 0x555555, 0xAAAAAA, 0x123456} {
		parity := ComputeParity(payload)
		word30 := payload<<6 | parity
		got, err := ApplyParity(word30, 0)
		require.NoError(t, err)
		require.Equal(t, word30, got)
	}
}

func TestPayloads_GetUnsignedAndSigned(t *testing.T) {
	p := Payloads{0x123456, 0xFFFFFF}
	v, err := p.GetUnsigned(0, 24)
	require.NoError(t, err)
	require.Equal(t, uint64(0x123456), v)

	s, err := p.GetSigned(24, 8)
	require.NoError(t, err)
	require.Equal(t, int64(-1), s)
}

func TestPayloads_TooShort(t *testing.T) {
	p := Payloads{0x0}
	_, err := p.GetUnsigned(0, 32)
	require.ErrorIs(t, err, ErrPacketTooShort)
}
