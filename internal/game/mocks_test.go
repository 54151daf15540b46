package game

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- CodeGenerator ---

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- WordSupply ---

type MockWordSupply struct {
	mock.Mock
}

func (m *MockWordSupply) NextWordBatch(ctx context.Context, n int) ([]string, error) {
	args := m.Called(ctx, n)
	words, _ := args.Get(0).([]string)
	return words, args.Error(1)
}

// --- PasswordHasher ---

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

// --- Notifier ---

type delivery struct {
	to  string
	msg Message
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []delivery
}

func (n *recordingNotifier) Notify(to []string, msg Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range to {
		n.sent = append(n.sent, delivery{to: id, msg: msg})
	}
}

func (n *recordingNotifier) received(id string, kind MessageType) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Message
	for _, d := range n.sent {
		if d.to == id && d.msg.Type == kind {
			out = append(out, d.msg)
		}
	}
	return out
}

func (n *recordingNotifier) lastState(id string) (Snapshot, bool) {
	states := n.received(id, MsgRoomState)
	if len(states) == 0 {
		return Snapshot{}, false
	}
	return states[len(states)-1].Data.(Snapshot), true
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// --- TimerFactory ---

type fakeTimer struct {
	owner   *fakeTimers
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// fakeTimers never fires on its own; tests fire timers by hand.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{owner: ft, d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

func (ft *fakeTimers) pending() []*fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	var out []*fakeTimer
	for _, t := range ft.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs t even when it was stopped, the way a timer that already
// started its callback would.
func (ft *fakeTimers) fire(t *fakeTimer) {
	ft.mu.Lock()
	t.fired = true
	ft.mu.Unlock()
	t.f()
}
