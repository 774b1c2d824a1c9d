// Package platform wires the mechanism's peripherals for a target.
//
// On RP2040/RP2350 Open configures real pins, PWM, I²C and the telemetry
// UART. On the host Open returns a board built from fakes whose motor,
// encoder, limit switch and IMU can be driven by tests and the simulator.
package platform

import (
	"io"
	"sync/atomic"

	"pps-go/drivers/bno055"
	"pps-go/drivers/drv8245"
	"pps-go/motor"
	"pps-go/pps"

	"tinygo.org/x/drivers"
)

// Wiring lists GPIO numbers. It carries no operating parameters.
type Wiring struct {
	LimitSwitch int // input, pull-up; high = extended

	MotorDir   int // PH/IN2
	MotorPWM   int // EN/IN1
	MotorDrvZ  int
	MotorSleep int
	MotorFault int // nFAULT, input pull-up

	EncA, EncB int

	I2CSDA, I2CSCL int
	UARTTX, UARTRX int

	LED int
}

// DefaultWiring is the payload carrier board rev A on a Pico.
var DefaultWiring = Wiring{
	LimitSwitch: 2,
	MotorDir:    3,
	MotorPWM:    4,
	MotorDrvZ:   5,
	MotorSleep:  6,
	MotorFault:  7,
	EncA:        8,
	EncB:        9,
	I2CSDA:      14,
	I2CSCL:      15,
	UARTTX:      0,
	UARTRX:      1,
	LED:         25,
}

const (
	MotorPWMHz   = 20_000
	I2CFrequency = 400_000
	UARTBaud     = 115200
)

// Board is the assembled set of peripherals.
type Board struct {
	LimitSwitch pps.LimitSwitch
	Driver      *drv8245.Device
	Encoder     motor.Encoder
	I2C         drivers.I2C
	LED         drv8245.Pin
	Telemetry   io.Writer // nil when no telemetry port exists
}

// Motor builds the motor command layer over the board's driver/encoder.
func (b *Board) Motor(cfg ...motor.Config) *motor.Motor {
	return motor.New(b.Driver, b.Encoder, cfg...)
}

// IMU returns an unconfigured BNO055 on the board's I²C bus.
func (b *Board) IMU() *bno055.Device {
	return bno055.New(b.I2C)
}

// -----------------------------------------------------------------------------
// Quadrature decoding
// -----------------------------------------------------------------------------

// quadStep[prev<<2|cur] is the count delta for a Gray-code transition.
// Both channels changing at once is illegal and marked with 2.
var quadStep = [16]int8{
	0, -1, 1, 2,
	1, 0, 2, -1,
	-1, 2, 0, 1,
	2, 1, -1, 0,
}

// Quadrature counts x4 edges from an A/B pair. Update may be called from
// an interrupt handler; Ticks and Status may be called from anywhere.
type Quadrature struct {
	count   int32
	state   uint32
	illegal uint32
}

// Reset seeds the decoder with the current pin levels.
func (q *Quadrature) Reset(a, b bool) {
	atomic.StoreUint32(&q.state, ab(a, b))
	atomic.StoreInt32(&q.count, 0)
	atomic.StoreUint32(&q.illegal, 0)
}

// Update feeds the current A/B levels.
func (q *Quadrature) Update(a, b bool) {
	cur := ab(a, b)
	prev := atomic.SwapUint32(&q.state, cur)
	switch d := quadStep[prev<<2|cur]; d {
	case 2:
		atomic.AddUint32(&q.illegal, 1)
	case 0:
	default:
		atomic.AddInt32(&q.count, int32(d))
	}
}

func (q *Quadrature) Ticks() int { return int(atomic.LoadInt32(&q.count)) }

// Status is nonzero once an illegal transition (missed edge) was seen.
func (q *Quadrature) Status() int {
	if atomic.LoadUint32(&q.illegal) != 0 {
		return 1
	}
	return 0
}

func ab(a, b bool) uint32 {
	var v uint32
	if a {
		v |= 2
	}
	if b {
		v |= 1
	}
	return v
}
