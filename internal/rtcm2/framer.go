// Package rtcm2 frames and decodes legacy RTCM2 differential-GNSS
// messages. Grounded on rtcm2.go (DecodeRtcm2 and the per-type decode_*
// functions) and rtcm.go (InputRtcm2), but restructured per spec.md §4.B-C
// around an explicit buffer-retaining state machine rather than the
// teacher's single-bit-at-a-time receiver-stream reader, since the pack's
// wire format (§4.A) is byte-aligned every 5 input bytes per 30-bit word.
package rtcm2

import (
	"errors"

	"github.com/fxbgnss/pppengine/internal/bitword"
)

const wordBytes = 5 // 30 bits at 6 payload bits/byte

// Packet is one fully assembled, parity-clean RTCM2 packet: header words
// H1/H2 plus n data words, bit-addressable via Payloads.
type Packet struct {
	H1, H2 bitword.Word
	Data   bitword.Payloads // n data words, 24 bits each

	MsgType    int
	StationID  int
	ModZCount  float64 // seconds, 0.6s resolution
	SeqNum     int
	NDataWords int
	StaHealth  int
}

// frameState is the framer's SEEK_H1/READ_H2/READ_DATA state machine
// (spec.md §4.B).
type frameState int

const (
	stateSeekH1 frameState = iota
	stateReadH2
	stateReadData
)

// Framer retains an input byte buffer between calls and emits decoded
// Packets as enough bytes accumulate. Not safe for concurrent use from
// multiple goroutines (§5: single-threaded cooperative per decoder).
type Framer struct {
	buf   []byte
	state frameState

	h1         bitword.Word
	h2         bitword.Word
	nDataWords int
}

// NewFramer returns an empty Framer ready to accept bytes.
func NewFramer() *Framer { return &Framer{} }

// Write appends data to the framer's retained buffer; packets are
// assembled by Next, which is called repeatedly to drain them.
func (f *Framer) Write(data []byte) {
	f.buf = append(f.buf, data...)
}

// Next attempts to produce the next fully assembled packet from the
// retained buffer. It returns ok=false when more input is needed. Parity
// failures and short packets are resync conditions (spec.md §7): the
// framer drops one byte and keeps scanning rather than returning an error.
func (f *Framer) Next() (pkt Packet, ok bool) {
	for {
		switch f.state {
		case stateSeekH1:
			if !f.seekH1() {
				return Packet{}, false
			}
			f.state = stateReadH2

		case stateReadH2:
			w, err := f.readWordAt(wordBytes, f.h1.Raw30&0x3)
			if err != nil {
				// H2 parity failed: drop first buffer byte, resync.
				f.dropByte()
				f.state = stateSeekH1
				continue
			}
			f.h2 = w
			f.nDataWords = extractNDataWords(f.h2)
			f.state = stateReadData

		case stateReadData:
			total := 2*wordBytes + f.nDataWords*wordBytes
			if len(f.buf) < total {
				return Packet{}, false
			}
			words, err := f.decodeDataWords()
			if err != nil {
				f.dropByte()
				f.state = stateSeekH1
				continue
			}
			pkt = buildPacket(f.h1, f.h2, words)
			f.buf = f.buf[total:]
			f.state = stateSeekH1
			return pkt, true
		}
	}
}

// decodeDataWords decodes the nDataWords data words following H1/H2 in the
// buffer, chaining each word's sign correction off the previous one's
// trailing parity bits.
func (f *Framer) decodeDataWords() (bitword.Payloads, error) {
	words := make(bitword.Payloads, 0, f.nDataWords)
	prev := f.h2.Raw30 & 0x3
	for i := 0; i < f.nDataWords; i++ {
		w, err := bitword.DecodeWordBytes(f.buf[(2+i)*wordBytes:(3+i)*wordBytes], prev)
		if err != nil {
			return nil, err
		}
		words = append(words, w.Payload)
		prev = w.Raw30 & 0x3
	}
	return words, nil
}

// seekH1 scans forward through the buffer, one byte at a time, looking for
// a word with valid parity and the RTCM2 preamble. One spare 5-byte word
// ahead of the candidate header is implicitly available because decoding
// is stateless per attempt (DecodeWordBytes takes prevD29D30 explicitly),
// so no extra bookkeeping is required to "retain" it as the teacher's
// bit-stream reader must.
func (f *Framer) seekH1() bool {
	for len(f.buf) >= wordBytes {
		w, err := bitword.DecodeWordBytes(f.buf[:wordBytes], 0)
		if err == nil && byte(w.Payload>>16) == bitword.Preamble {
			f.h1 = w
			return true
		}
		f.dropByte()
	}
	return false
}

func (f *Framer) dropByte() {
	if len(f.buf) > 0 {
		f.buf = f.buf[1:]
	}
}

func (f *Framer) readWordAt(offset int, prevD29D30 uint32) (bitword.Word, error) {
	if len(f.buf) < offset+wordBytes {
		return bitword.Word{}, errShortBuffer
	}
	return bitword.DecodeWordBytes(f.buf[offset:offset+wordBytes], prevD29D30)
}

var errShortBuffer = errors.New("rtcm2: not enough buffered bytes")

// extractNDataWords reads the data-word count from H2 payload bits 7..3
// (spec.md §4.B: "bits 9..5" counted against the raw 30-bit word, i.e.
// bits 7..3 of the 24-bit payload DecodeWordBytes returns).
func extractNDataWords(h2 bitword.Word) int {
	return int((h2.Payload >> 3) & 0x1F)
}

// buildPacket decodes the header fields the framer exposes (spec.md §4.B):
// msgType = H1>>16&0x3F, stationId = H1>>6&0x3FF, modZCount = H2>>17&0x1FFF,
// seqNum, nDataWords, staHealth — all formulas given against the raw
// 30-bit word; Payload is raw>>6, so each shift amount here is 6 less than
// the spec's to read the same bits out of the payload.
func buildPacket(h1, h2 bitword.Word, data bitword.Payloads) Packet {
	return Packet{
		H1:         h1,
		H2:         h2,
		Data:       data,
		MsgType:    int((h1.Payload >> 10) & 0x3F),
		StationID:  int(h1.Payload & 0x3FF),
		ModZCount:  float64((h2.Payload>>11)&0x1FFF) * 0.6,
		SeqNum:     int((h2.Payload >> 8) & 0x7),
		NDataWords: int((h2.Payload >> 3) & 0x1F),
		StaHealth:  int(h2.Payload & 0x7),
	}
}
