package game

import "time"

type Timer interface {
	Stop() bool
}

// TimerFactory schedules one-shot callbacks. Tests swap it for a manual clock.
type TimerFactory interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timerGen struct{}

func NewTimerGen() TimerFactory {
	return timerGen{}
}

func (timerGen) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
