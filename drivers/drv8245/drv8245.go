// Package drv8245 drives a TI DRV8245-H H-bridge wired in PH/EN mode:
//
//	EN/IN1  PWM duty sets speed (0..100 %)
//	PH/IN2  direction
//	DRVOFF  output stage enable; low puts the bridge in Hi-Z (coast)
//	nSLEEP  low = sleep, high = awake
//	nFAULT  open-drain, active low
//
// The driver only toggles pins; it holds no timing and never brakes.
package drv8245

// Pin is the subset of machine.Pin the driver uses.
type Pin interface {
	Set(bool)
	Get() bool
}

// PWM sets the EN/IN1 duty in percent.
type PWM interface {
	SetDuty(percent uint8)
}

type Direction uint8

const (
	Reverse Direction = 0
	Forward Direction = 1
)

// Device holds the control lines of one DRV8245.
type Device struct {
	dir    Pin
	pwm    PWM
	drvZ   Pin
	sleep  Pin
	nFault Pin
	duty   uint8
}

// New binds the control lines. Pins must already be configured
// (outputs for dir/drvZ/sleep, input with pull-up for nFault).
func New(dir Pin, pwm PWM, drvZ, sleep, nFault Pin) *Device {
	return &Device{dir: dir, pwm: pwm, drvZ: drvZ, sleep: sleep, nFault: nFault}
}

// Init enables the output stage and wakes the device.
func (d *Device) Init() {
	d.drvZ.Set(true)
	d.sleep.Set(true)
}

// SetSpeed applies a duty cycle, capped at 100 %.
func (d *Device) SetSpeed(percent uint8) {
	if percent > 100 {
		percent = 100
	}
	d.duty = percent
	d.pwm.SetDuty(percent)
}

// Speed returns the last applied duty.
func (d *Device) Speed() uint8 { return d.duty }

func (d *Device) SetDirection(dir Direction) {
	d.dir.Set(dir == Forward)
}

// SetCoast(true) puts the outputs into Hi-Z; SetCoast(false) re-enables them.
func (d *Device) SetCoast(on bool) {
	d.drvZ.Set(!on)
}

// SetSleep(true) enters low-power sleep; SetSleep(false) wakes the device.
func (d *Device) SetSleep(enable bool) {
	d.sleep.Set(!enable)
}

// Fault reports an asserted nFAULT line.
func (d *Device) Fault() bool {
	return !d.nFault.Get()
}
