package rtcm2

import "github.com/fxbgnss/pppengine/internal/gnss"

// highResRecordBits is the per-satellite type-20/21 record width: PRN(5) +
// IOD(8) + phi1(16) + phi2(16) + range1(16) + range2(16) + lossOfLock(1) +
// pCodeFlag(1) + reserved(1) = 80 bits (spec.md §4.C names the fields, not
// exact widths; this layout keeps every named field and pads to a byte
// multiple for framing symmetry with the other types).
const highResRecordBits = 80
const highResHeaderBits = 8 // multiple-message-indicator + reserved

// DecodeHighResRecords parses the per-satellite records out of one
// type-20 or type-21 packet, without yet applying the multiple-message
// accumulation semantics (that lives in PendingHighRes).
func DecodeHighResRecords(pkt Packet) ([]OrbitClockRecord, bool /*moreMessages*/, error) {
	if pkt.Data.TotalBits() < highResHeaderBits {
		return nil, false, ErrPacketTooShort
	}
	mmi, _ := pkt.Data.GetUnsigned(0, 1)
	n := (pkt.Data.TotalBits() - highResHeaderBits) / highResRecordBits
	out := make([]OrbitClockRecord, 0, n)
	for i := 0; i < n; i++ {
		base := highResHeaderBits + i*highResRecordBits
		prn, _ := pkt.Data.GetUnsigned(base, 5)
		iod, _ := pkt.Data.GetUnsigned(base+5, 8)
		phi1, _ := pkt.Data.GetSigned(base+13, 16)
		phi2, _ := pkt.Data.GetSigned(base+29, 16)
		range1, _ := pkt.Data.GetSigned(base+45, 16)
		range2, _ := pkt.Data.GetSigned(base+61, 16)
		lol, _ := pkt.Data.GetUnsigned(base+77, 1)
		pcode, _ := pkt.Data.GetUnsigned(base+78, 1)
		out = append(out, OrbitClockRecord{
			Sat:        gnss.Sat{Sys: gnss.SystemGPS, PRN: prnFromRaw(int(prn))},
			IOD:        int(iod),
			Phi1:       float64(phi1) * 0.01,
			Phi2:       float64(phi2) * 0.01,
			Range1:     float64(range1) * 0.02,
			Range2:     float64(range2) * 0.02,
			LossOfLock: lol != 0,
			IsPCode:    pcode != 0,
		})
	}
	return out, mmi != 0, nil
}

// PendingHighRes accumulates type-20/21 records across packets until the
// multiple-message indicator clears, then freezes them for the epoch and
// clears the pending store (spec.md §4.C).
type PendingHighRes struct {
	records []OrbitClockRecord
}

// Add feeds one decoded packet's records in. When moreMessages is false,
// it returns the frozen, accumulated record set and resets the pending
// store; otherwise it returns ok=false and keeps accumulating.
func (p *PendingHighRes) Add(records []OrbitClockRecord, moreMessages bool) (frozen []OrbitClockRecord, ok bool) {
	p.records = append(p.records, records...)
	if moreMessages {
		return nil, false
	}
	frozen = p.records
	p.records = nil
	return frozen, true
}
