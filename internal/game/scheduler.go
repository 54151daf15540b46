package game

import (
	"sync"
	"time"

	"pencil/internal/logger"
)

type TimerKind int

const (
	TimerRevealLetter TimerKind = iota
	TimerRevealCliff
	TimerRoundEnd
)

func (k TimerKind) String() string {
	switch k {
	case TimerRevealLetter:
		return "reveal-letter"
	case TimerRevealCliff:
		return "reveal-cliff"
	case TimerRoundEnd:
		return "round-end"
	}
	return "unknown"
}

// CliffWindow is the tail of a round during which all but one letter is shown.
const CliffWindow = 5 * time.Second

type ScheduledTimer struct {
	Kind TimerKind
	At   time.Duration
}

// PlanRound spreads letters-1 single reveals over the round minus the cliff
// window, then adds the cliff reveal and the hard round end.
func PlanRound(roundTime time.Duration, letters int) []ScheduledTimer {
	var plan []ScheduledTimer

	if toReveal := letters - 1; toReveal > 0 {
		span := max(time.Second, roundTime-CliffWindow)
		interval := span / time.Duration(toReveal)
		for i := 1; i <= toReveal; i++ {
			plan = append(plan, ScheduledTimer{
				Kind: TimerRevealLetter,
				At:   (interval * time.Duration(i)).Round(time.Millisecond),
			})
		}
		plan = append(plan, ScheduledTimer{Kind: TimerRevealCliff, At: roundTime - CliffWindow})
	}

	return append(plan, ScheduledTimer{Kind: TimerRoundEnd, At: roundTime})
}

// FireFunc is invoked from a timer goroutine. turn is the drawing turn the
// timer was armed for; receivers must compare it against the room before acting.
type FireFunc func(code string, kind TimerKind, turn uint64)

type timerSet struct {
	turn    uint64
	handles []Timer
}

func (ts *timerSet) stop() {
	for _, h := range ts.handles {
		h.Stop()
	}
}

// RoundScheduler keeps one replaceable timer set per room code.
type RoundScheduler struct {
	mu     sync.Mutex
	timers TimerFactory
	sets   map[string]*timerSet
}

func NewRoundScheduler(timers TimerFactory) *RoundScheduler {
	return &RoundScheduler{
		timers: timers,
		sets:   make(map[string]*timerSet),
	}
}

// Arm cancels whatever is pending for code and schedules plan in its place.
func (s *RoundScheduler) Arm(code string, turn uint64, plan []ScheduledTimer, fire FireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sets[code]; ok {
		old.stop()
	}

	set := &timerSet{turn: turn, handles: make([]Timer, 0, len(plan))}
	for _, st := range plan {
		kind := st.Kind
		set.handles = append(set.handles, s.timers.AfterFunc(st.At, func() {
			fire(code, kind, turn)
		}))
	}
	s.sets[code] = set
	logger.Debugf("[Room %s] Armed %d timers for turn %d", code, len(plan), turn)
}

func (s *RoundScheduler) Cancel(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.sets[code]; ok {
		set.stop()
		delete(s.sets, code)
		logger.Debugf("[Room %s] Cancelled timers for turn %d", code, set.turn)
	}
}

// ArmedTurn returns the turn the pending set for code belongs to.
func (s *RoundScheduler) ArmedTurn(code string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[code]
	if !ok {
		return 0, false
	}
	return set.turn, true
}

// Close stops every pending timer of every room.
func (s *RoundScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, set := range s.sets {
		set.stop()
		delete(s.sets, code)
	}
}
