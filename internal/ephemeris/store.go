package ephemeris

import (
	"math"
	"sync"

	"github.com/fxbgnss/pppengine/internal/gnss"
)

const capacity = 5

// Per-system maximum ephemeris age, spec.md §4.D step 2 (overriding the
// teacher's MAXDTOE_* constants, which differ slightly per system; spec.md
// is authoritative here).
const (
	maxAgeGPSGalQZS = 4 * 3600.0
	maxAgeGLONASS   = 1 * 3600.0
	maxAgeBDS       = 6 * 3600.0
	maxAgeSBAS      = 600.0
)

func maxAgeFor(sys gnss.System) float64 {
	switch sys {
	case gnss.SystemGLO:
		return maxAgeGLONASS
	case gnss.SystemBDS:
		return maxAgeBDS
	case gnss.SystemSBS:
		return maxAgeSBAS
	default:
		return maxAgeGPSGalQZS
	}
}

const (
	minRadiusM = 2e7
	maxRadiusM = 6e7
	consistencyThresholdM = 1000.0
)

// entry pairs a stored ephemeris with the Status it was inserted under, so
// that status (including a later promotion to ok, see Put) survives
// alongside the record instead of being recomputed and discarded on every
// check (spec.md §4.D).
type entry struct {
	eph    Eph
	status Status
}

// Store is the shared ephemeris store of spec.md §4.D/§5: a map from PRN
// to a bounded FIFO (capacity 5), serialized under a single mutex since it
// is shared between a PPP client and concurrent RTCM decoders.
type Store struct {
	mu       sync.Mutex
	byPRN    map[int][]entry
	biases   map[int]CodeBias
	now      func() gnss.Epoch
}

// NewStore returns an empty store. now supplies "current time" for the age
// check in CheckEphemeris; callers normally pass a function backed by the
// most recent observation epoch rather than wall-clock time.
func NewStore(now func() gnss.Epoch) *Store {
	return &Store{
		byPRN:  make(map[int][]entry),
		biases: make(map[int]CodeBias),
		now:    now,
	}
}

// Put inserts eph for its PRN, running CheckEphemeris first when check is
// true. The entry is kept only if it is newer than the current latest and
// not bad/outdated (spec.md §4.D); the oldest entry is evicted once the
// per-PRN queue exceeds capacity. When the new entry checks out ok against
// the existing latest entry, that prior entry is promoted to ok too
// (spec.md §4.D step 3): a consistent successor corroborates it even if it
// was inserted unhealthy.
func (s *Store) Put(eph Eph, check bool) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := StatusOK
	if check {
		status = s.checkLocked(eph)
	}
	if status == StatusBad || status == StatusOutdated {
		return status
	}

	key := eph.id().Num()
	queue := s.byPRN[key]
	if len(queue) > 0 && !eph.isNewerThan(queue[len(queue)-1].eph) {
		return status
	}
	if check && status == StatusOK && len(queue) > 0 {
		queue[len(queue)-1].status = StatusOK
	}
	queue = append(queue, entry{eph: eph, status: status})
	if len(queue) > capacity {
		queue = queue[len(queue)-capacity:]
	}
	s.byPRN[key] = queue
	return status
}

// Last returns the most recent ephemeris for prn, or false if none stored.
func (s *Store) Last(prn gnss.Sat) (Eph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.byPRN[prn.Num()]
	if len(queue) == 0 {
		return nil, false
	}
	return queue[len(queue)-1].eph, true
}

// Prev returns the second-most-recent ephemeris for prn, or false if fewer
// than two are stored.
func (s *Store) Prev(prn gnss.Sat) (Eph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.byPRN[prn.Num()]
	if len(queue) < 2 {
		return nil, false
	}
	return queue[len(queue)-2].eph, true
}

// LastStatus returns the stored status of prn's latest entry, or false if
// none stored. Unlike CheckEphemeris this never recomputes: it reports
// whatever status the entry was inserted (or later promoted) under, which
// is how the satellite evaluator (package satpos) learns that a
// satellite's latest ephemeris was broadcast unhealthy (spec.md §4.E).
func (s *Store) LastStatus(prn gnss.Sat) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.byPRN[prn.Num()]
	if len(queue) == 0 {
		return StatusOK, false
	}
	return queue[len(queue)-1].status, true
}

// CheckEphemeris runs the three validation steps of spec.md §4.D and
// returns the resulting status. It does not mutate the store; Put is the
// only place a stored entry's status changes.
func (s *Store) CheckEphemeris(eph Eph) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked(eph)
}

func (s *Store) checkLocked(eph Eph) Status {
	if !eph.healthy() {
		return StatusUnhealthy
	}

	toc := eph.toc()
	pos, _, _, err := eph.PositionAt(toc, false)
	if err != nil {
		return StatusBad
	}
	if r := pos.Norm(); r < minRadiusM || r > maxRadiusM {
		return StatusBad
	}

	now := s.now()
	if math.Abs(now.Sub(toc)) > maxAgeFor(eph.id().Sys) {
		return StatusOutdated
	}

	key := eph.id().Num()
	queue := s.byPRN[key]
	if len(queue) == 0 {
		return StatusOK
	}
	prior := queue[len(queue)-1].eph
	priorPos, _, priorClk, priorErr := prior.PositionAt(toc, false)
	_, _, newClk, _ := eph.PositionAt(toc, false)
	if priorErr != nil {
		return StatusOK
	}
	posDelta := pos.Sub(priorPos).Norm()
	clkDelta := math.Abs((newClk - priorClk) * gnss.SpeedOfLight)
	if posDelta < consistencyThresholdM && clkDelta < consistencyThresholdM {
		return StatusOK
	}
	return StatusBad
}

// AttachOrbitCorrection matches corr's IOD against last(prn) then prev(prn)
// and attaches it, replacing any prior orbit attachment on that entry
// (spec.md §4.D/§4.I put_orb_corrections).
func (s *Store) AttachOrbitCorrection(corr OrbitCorrection) bool {
	return s.attach(corr.Sat, corr.IOD, func(a *SSRAttachment) { a.Orbit = &corr })
}

// AttachClockCorrection is the clock-correction analogue of
// AttachOrbitCorrection.
func (s *Store) AttachClockCorrection(corr ClockCorrection) bool {
	return s.attach(corr.Sat, corr.IOD, func(a *SSRAttachment) { a.Clock = &corr })
}

func (s *Store) attach(sat gnss.Sat, iod int, mutate func(*SSRAttachment)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.byPRN[sat.Num()]
	for i := len(queue) - 1; i >= 0 && i >= len(queue)-2; i-- {
		if queue[i].eph.iode() != iod {
			continue
		}
		att := queue[i].eph.attachment()
		if att == nil {
			att = &SSRAttachment{}
		}
		mutate(att)
		queue[i].eph.attach(att)
		return true
	}
	return false
}

// PutCodeBias overwrites the code-bias table for bias.Sat (spec.md §4.I
// put_code_biases).
func (s *Store) PutCodeBias(bias CodeBias) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.biases[bias.Sat.Num()] = bias
}

// CodeBiasFor returns the bias in metres for sat's signal code, or 0 if no
// bias table or entry exists.
func (s *Store) CodeBiasFor(sat gnss.Sat, signalCode string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	bias, ok := s.biases[sat.Num()]
	if !ok {
		return 0
	}
	return bias.Biases[signalCode]
}

// Reset discards all ephemerides and code biases (spec.md §4.I reset,
// applied to the client's own store only; the shared store outlives any
// one client per §5).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPRN = make(map[int][]entry)
	s.biases = make(map[int]CodeBias)
}
