// Package motor wraps a DC motor driver and a position encoder behind a
// small command surface: enable, direction, speed, tick reads and health.
//
// Commands are fire-and-forget. Nothing here returns an error; hardware
// faults surface only through Status, which callers poll themselves.
package motor

import (
	"time"

	"pps-go/drivers/drv8245"
	"pps-go/errcode"
	"pps-go/x/mathx"
)

// Driver is the H-bridge capability set (*drv8245.Device implements it).
type Driver interface {
	Init()
	SetSleep(enable bool)
	SetCoast(on bool)
	SetSpeed(percent uint8)
	SetDirection(dir drv8245.Direction)
	Fault() bool
}

// Encoder reports a signed position count. Status is 0 while healthy.
type Encoder interface {
	Ticks() int
	Status() int
}

// Status codes, checked in this order.
const (
	StatusOK             = 0
	StatusNotInitialised = -1
	StatusDriverFault    = -2
	StatusEncoderFault   = -3
)

const defaultPollInterval = time.Millisecond

type Config struct {
	// PollInterval is the wait between encoder checks in MoveByTicks.
	// Default 1 ms.
	PollInterval time.Duration
}

type Motor struct {
	drv Driver
	enc Encoder

	poll        time.Duration
	sleep       func(time.Duration)
	initialised bool
}

// New binds a driver and an encoder. Neither is touched until Init.
func New(drv Driver, enc Encoder, cfgs ...Config) *Motor {
	m := &Motor{drv: drv, enc: enc, poll: defaultPollInterval, sleep: time.Sleep}
	if len(cfgs) > 0 && cfgs[0].PollInterval > 0 {
		m.poll = cfgs[0].PollInterval
	}
	return m
}

// Init initialises the driver and marks the motor usable.
func (m *Motor) Init() bool {
	m.drv.Init()
	m.initialised = true
	return true
}

// Enable wakes the driver (on) or lets the outputs float (off).
// Disabling never brakes.
func (m *Motor) Enable(on bool) {
	if on {
		m.drv.SetSleep(false)
		m.drv.SetCoast(false)
		return
	}
	m.drv.SetCoast(true)
}

// SetSpeed applies min(100, |percent|) as duty. The sign never selects
// direction.
func (m *Motor) SetSpeed(percent int) {
	p := mathx.Abs(percent)
	if p < 0 { // |math.MinInt| overflows
		p = 100
	}
	m.drv.SetSpeed(uint8(mathx.Min(p, 100)))
}

func (m *Motor) SetDirection(forward bool) {
	if forward {
		m.drv.SetDirection(drv8245.Forward)
		return
	}
	m.drv.SetDirection(drv8245.Reverse)
}

// MoveByTicks drives delta encoder ticks (one tick taken as one degree)
// and blocks until the target count is reached. Each poll sleeps for the
// configured interval, yielding to other goroutines. There is no timeout:
// a stalled encoder holds the caller forever.
func (m *Motor) MoveByTicks(delta, speed int) {
	target := m.enc.Ticks() + delta
	forward := delta >= 0

	m.SetDirection(forward)
	m.Enable(true)
	m.SetSpeed(speed)

	if forward {
		for m.enc.Ticks() < target {
			m.sleep(m.poll)
		}
	} else {
		for m.enc.Ticks() > target {
			m.sleep(m.poll)
		}
	}
	m.SetSpeed(0)
	m.Enable(false)
}

func (m *Motor) Ticks() int { return m.enc.Ticks() }

// Status returns StatusOK or the first failing condition. Any nonzero
// value means the effect of the last command cannot be trusted.
func (m *Motor) Status() int {
	switch {
	case !m.initialised:
		return StatusNotInitialised
	case m.drv.Fault():
		return StatusDriverFault
	case m.enc.Status() != 0:
		return StatusEncoderFault
	}
	return StatusOK
}

// StatusCode maps a Status value onto its bus-facing code.
func StatusCode(status int) errcode.Code {
	switch status {
	case StatusOK:
		return errcode.OK
	case StatusNotInitialised:
		return errcode.NotInitialised
	case StatusDriverFault:
		return errcode.DriverFault
	case StatusEncoderFault:
		return errcode.EncoderFault
	}
	return errcode.Error
}
