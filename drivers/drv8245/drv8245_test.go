package drv8245

import "testing"

type pin struct{ level bool }

func (p *pin) Set(b bool) { p.level = b }
func (p *pin) Get() bool  { return p.level }

type pwm struct {
	duty  uint8
	calls int
}

func (p *pwm) SetDuty(d uint8) { p.duty = d; p.calls++ }

func newDev() (*Device, *pin, *pwm, *pin, *pin, *pin) {
	dir, z, slp, flt := &pin{}, &pin{}, &pin{}, &pin{level: true}
	p := &pwm{}
	return New(dir, p, z, slp, flt), dir, p, z, slp, flt
}

func TestInit_WakesAndEnablesOutputs(t *testing.T) {
	d, _, _, z, slp, _ := newDev()
	d.Init()
	if !z.level || !slp.level {
		t.Fatalf("after Init drvZ=%v sleep=%v, want both high", z.level, slp.level)
	}
}

func TestSetSpeed_CapsAt100(t *testing.T) {
	d, _, p, _, _, _ := newDev()
	for _, c := range []struct{ in, want uint8 }{{0, 0}, {42, 42}, {100, 100}, {101, 100}, {255, 100}} {
		d.SetSpeed(c.in)
		if p.duty != c.want || d.Speed() != c.want {
			t.Fatalf("SetSpeed(%d): pwm=%d Speed()=%d want %d", c.in, p.duty, d.Speed(), c.want)
		}
	}
}

func TestDirectionCoastSleep(t *testing.T) {
	d, dir, _, z, slp, _ := newDev()
	d.Init()

	d.SetDirection(Forward)
	if !dir.level {
		t.Fatalf("Forward should drive PH high")
	}
	d.SetDirection(Reverse)
	if dir.level {
		t.Fatalf("Reverse should drive PH low")
	}

	d.SetCoast(true)
	if z.level {
		t.Fatalf("coast should drive DRVOFF low (Hi-Z)")
	}
	d.SetCoast(false)
	if !z.level {
		t.Fatalf("leaving coast should drive DRVOFF high")
	}

	d.SetSleep(true)
	if slp.level {
		t.Fatalf("sleep should drive nSLEEP low")
	}
	d.SetSleep(false)
	if !slp.level {
		t.Fatalf("wake should drive nSLEEP high")
	}
}

func TestFault_ActiveLow(t *testing.T) {
	d, _, _, _, _, flt := newDev()
	if d.Fault() {
		t.Fatalf("fault reported with nFAULT high")
	}
	flt.level = false
	if !d.Fault() {
		t.Fatalf("fault not reported with nFAULT low")
	}
}
