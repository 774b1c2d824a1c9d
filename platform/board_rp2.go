//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"pps-go/drivers/drv8245"
	"pps-go/x/mathx"
	"pps-go/x/timex"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// pwmGroup is the subset of *machine.pwmGroup we use.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

func pwmGroupBySlice(slice uint8) pwmGroup {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return nil
}

// rp2PWM drives one PWM channel as a 0..100 % duty.
type rp2PWM struct {
	ctrl pwmGroup
	ch   uint8
}

func newPWM(pin machine.Pin, freqHz uint32) (*rp2PWM, error) {
	// GPIO n belongs to slice (n>>1)&7.
	ctrl := pwmGroupBySlice(uint8(pin>>1) & 7)
	if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
		return nil, err
	}
	ch, err := ctrl.Channel(pin)
	if err != nil {
		return nil, err
	}
	ctrl.Set(ch, 0)
	return &rp2PWM{ctrl: ctrl, ch: ch}, nil
}

func (p *rp2PWM) SetDuty(percent uint8) {
	p.ctrl.Set(p.ch, mathx.ScalePercent(percent, p.ctrl.Top()))
}

func output(n int, initial bool) machine.Pin {
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(initial)
	return p
}

func inputPullUp(n int) machine.Pin {
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return p
}

// Open configures every peripheral named in w. The motor driver is left
// asleep and coasting until motor.Init.
func Open(w Wiring) (*Board, error) {
	sw := inputPullUp(w.LimitSwitch)

	dir := output(w.MotorDir, false)
	drvZ := output(w.MotorDrvZ, false)
	sleep := output(w.MotorSleep, false)
	fault := inputPullUp(w.MotorFault)
	pwm, err := newPWM(machine.Pin(w.MotorPWM), MotorPWMHz)
	if err != nil {
		println("[platform] pwm configure failed:", err.Error())
		return nil, err
	}

	// Encoder: count every edge of both channels.
	a := inputPullUp(w.EncA)
	b := inputPullUp(w.EncB)
	enc := &Quadrature{}
	enc.Reset(a.Get(), b.Get())
	onEdge := func(machine.Pin) { enc.Update(a.Get(), b.Get()) }
	for _, p := range []machine.Pin{a, b} {
		if err := p.SetInterrupt(machine.PinRising|machine.PinFalling, onEdge); err != nil {
			println("[platform] encoder irq failed:", err.Error())
			return nil, err
		}
	}

	sda := machine.Pin(w.I2CSDA)
	scl := machine.Pin(w.I2CSCL)
	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: I2CFrequency}); err != nil {
		println("[platform] i2c configure failed:", err.Error())
		return nil, err
	}

	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: UARTBaud,
		TX:       machine.Pin(w.UARTTX),
		RX:       machine.Pin(w.UARTRX),
	})

	return &Board{
		LimitSwitch: sw,
		Driver:      drv8245.New(dir, pwm, drvZ, sleep, fault),
		Encoder:     enc,
		I2C:         i2c,
		LED:         output(w.LED, false),
		Telemetry:   uart,
	}, nil
}
