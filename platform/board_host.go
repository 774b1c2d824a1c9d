//go:build !rp2040 && !rp2350

package platform

import (
	"encoding/binary"
	"errors"
	"sync"

	"pps-go/drivers/bno055"
	"pps-go/drivers/drv8245"
	"pps-go/types"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin is a settable level usable as input or output.
type FakePin struct {
	mu    sync.RWMutex
	level bool
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Toggle() { p.Set(!p.Get()) }

// ----------------------------- PWM (host) ------------------------------------

type FakePWM struct {
	mu   sync.RWMutex
	duty uint8
}

func (p *FakePWM) SetDuty(percent uint8) {
	p.mu.Lock()
	p.duty = percent
	p.mu.Unlock()
}

func (p *FakePWM) Duty() uint8 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.duty
}

// ----------------------------- Motor plant (host) ----------------------------

// Plant observes the DRV8245 control lines and moves a simulated shaft.
// Every Ticks read advances the shaft by one tick while the bridge is awake,
// out of coast and driven with a nonzero duty.
type Plant struct {
	Dir, DrvZ, Sleep, Fault *FakePin
	PWM                     *FakePWM

	mu     sync.Mutex
	ticks  int
	status int
}

// Running reports whether the bridge is currently driving the motor.
func (p *Plant) Running() bool {
	return p.DrvZ.Get() && p.Sleep.Get() && p.PWM.Duty() > 0
}

// Forward reports the commanded direction.
func (p *Plant) Forward() bool { return p.Dir.Get() }

func (p *Plant) Ticks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.ticks
	if p.Running() {
		if p.Forward() {
			p.ticks++
		} else {
			p.ticks--
		}
	}
	return v
}

func (p *Plant) Status() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetEncoderStatus injects an encoder health code.
func (p *Plant) SetEncoderStatus(s int) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// SetFault drives nFAULT (active low).
func (p *Plant) SetFault(on bool) { p.Fault.Set(!on) }

// ----------------------------- I²C / IMU (host) ------------------------------

// HostIMU emulates a BNO055 register file on a drivers.I2C bus.
type HostIMU struct {
	mu      sync.Mutex
	regs    [0x80]byte
	Missing bool // no ACK at any address
	Err     error
}

var errNACK = errors.New("i2c: nack")

func NewHostIMU() *HostIMU {
	h := &HostIMU{}
	h.regs[0x00] = 0xA0
	return h
}

func (h *HostIMU) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	if h.Missing || addr != bno055.AddressPrimary || len(w) == 0 {
		return errNACK
	}
	reg := int(w[0])
	if len(w) > 1 {
		copy(h.regs[reg:], w[1:])
	}
	if len(r) > 0 {
		copy(r, h.regs[reg:])
	}
	return nil
}

// Fail makes every transfer return err until called with nil.
func (h *HostIMU) Fail(err error) {
	h.mu.Lock()
	h.Err = err
	h.mu.Unlock()
}

// SetSample encodes s into the data registers using the chip's scaling.
func (h *HostIMU) SetSample(s types.IMUSample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	putVec(h.regs[0x08:], s.Accel, 100)
	putVec(h.regs[0x14:], s.Gyro, 16)
	putQ(h.regs[0x20:], s.Quat)
	putVec(h.regs[0x28:], s.LinearAccel, 100)
	putVec(h.regs[0x2E:], s.Gravity, 100)
}

func put16(b []byte, v float32) {
	binary.LittleEndian.PutUint16(b, uint16(int16(v)))
}

func putVec(b []byte, v types.Vec3, scale float32) {
	put16(b, round(v.X*scale))
	put16(b[2:], round(v.Y*scale))
	put16(b[4:], round(v.Z*scale))
}

func putQ(b []byte, q types.Quaternion) {
	const s = 16384
	put16(b, round(q.W*s))
	put16(b[2:], round(q.X*s))
	put16(b[4:], round(q.Y*s))
	put16(b[6:], round(q.Z*s))
}

func round(v float32) float32 {
	if v < 0 {
		return v - 0.5
	}
	return v + 0.5
}

// ----------------------------- Board (host) ----------------------------------

// HostParts exposes the fakes behind a host board.
type HostParts struct {
	Switch *FakePin
	Plant  *Plant
	IMU    *HostIMU
	LED    *FakePin
}

// NewHostBoard assembles a board from fakes. The limit switch starts
// retracted, nFAULT starts released and the IMU answers at the primary
// address.
func NewHostBoard() (*Board, *HostParts) {
	parts := &HostParts{
		Switch: &FakePin{},
		Plant: &Plant{
			Dir:   &FakePin{},
			DrvZ:  &FakePin{},
			Sleep: &FakePin{},
			Fault: &FakePin{level: true},
			PWM:   &FakePWM{},
		},
		IMU: NewHostIMU(),
		LED: &FakePin{},
	}
	pl := parts.Plant
	b := &Board{
		LimitSwitch: parts.Switch,
		Driver:      drv8245.New(pl.Dir, pl.PWM, pl.DrvZ, pl.Sleep, pl.Fault),
		Encoder:     pl,
		I2C:         parts.IMU,
		LED:         parts.LED,
	}
	return b, parts
}

// Open returns a host board. The wiring is ignored.
func Open(_ Wiring) (*Board, error) {
	b, _ := NewHostBoard()
	return b, nil
}
