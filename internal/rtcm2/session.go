package rtcm2

import "github.com/fxbgnss/pppengine/internal/gnss"

// Session wraps a Framer with the cross-packet state spec.md §4.C needs:
// whether any GPS satellite has been seen yet (for the leading-GLONASS
// drop rule) and the pending type-20/21 accumulator.
type Session struct {
	framer  *Framer
	pending PendingHighRes
	seenGPS bool
}

func NewSession() *Session {
	return &Session{framer: NewFramer()}
}

// Write feeds raw bytes into the underlying framer.
func (s *Session) Write(data []byte) { s.framer.Write(data) }

// Event is one decoded unit of work the Session produces from the byte
// stream: exactly one of its non-zero fields is populated.
type Event struct {
	Station   *StationPosition
	Obs18     *Type18
	Obs19     *Type19
	HighRes   []OrbitClockRecord
	Antenna22 *AntennaOffset
	Antenna23 *AntennaDescriptor
	Antenna24 *ReferencePoint
}

// Next drains the next available packet and decodes it, returning ok=false
// once the buffer is exhausted. Decode errors that spec.md §7 marks
// non-fatal (parity/short-packet/unsupported-frequency) are swallowed and
// the loop advances to the next packet rather than surfacing to the
// caller.
func (s *Session) Next() (Event, bool) {
	for {
		pkt, ok := s.framer.Next()
		if !ok {
			return Event{}, false
		}
		ev, err := s.decode(pkt)
		if err != nil {
			continue
		}
		return ev, true
	}
}

func (s *Session) decode(pkt Packet) (Event, error) {
	switch pkt.MsgType {
	case 3:
		sp, err := DecodeType3(pkt)
		if err != nil {
			return Event{}, err
		}
		return Event{Station: &sp}, nil

	case 18:
		t18, err := DecodeType18(pkt)
		if err != nil {
			return Event{}, err
		}
		for _, r := range t18.Records {
			if r.Sat.Sys == gnss.SystemGPS {
				s.seenGPS = true
			}
		}
		if len(t18.Records) > 0 && t18.Records[0].Sat.Sys == gnss.SystemGLO && !s.seenGPS {
			return Event{}, ErrLeadingGlonassBeforeGPS
		}
		return Event{Obs18: &t18}, nil

	case 19:
		t19, err := DecodeType19(pkt)
		if err != nil {
			return Event{}, err
		}
		return Event{Obs19: &t19}, nil

	case 20, 21:
		recs, more, err := DecodeHighResRecords(pkt)
		if err != nil {
			return Event{}, err
		}
		frozen, ok := s.pending.Add(recs, more)
		if !ok {
			return Event{}, errNeedsMoreMessages
		}
		return Event{HighRes: frozen}, nil

	case 22:
		ao, err := DecodeType22(pkt)
		if err != nil {
			return Event{}, err
		}
		return Event{Antenna22: &ao}, nil

	case 23:
		ad, err := DecodeType23(pkt)
		if err != nil {
			return Event{}, err
		}
		return Event{Antenna23: &ad}, nil

	case 24:
		rp, err := DecodeType24(pkt)
		if err != nil {
			return Event{}, err
		}
		return Event{Antenna24: &rp}, nil

	default:
		return Event{}, errUnhandledType
	}
}

// SeenGPS reports whether any GPS satellite has been observed in this
// session (used by Reconcile's leading-GLONASS rule).
func (s *Session) SeenGPS() bool { return s.seenGPS }
