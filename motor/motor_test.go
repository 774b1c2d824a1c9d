package motor

import (
	"math"
	"testing"
	"time"

	"pps-go/drivers/drv8245"
	"pps-go/errcode"
)

type fakeDriver struct {
	inits  int
	asleep bool
	coast  bool
	speed  uint8
	dir    drv8245.Direction
	fault  bool
	speeds []uint8
}

func (d *fakeDriver) Init()                              { d.inits++ }
func (d *fakeDriver) SetSleep(b bool)                    { d.asleep = b }
func (d *fakeDriver) SetCoast(b bool)                    { d.coast = b }
func (d *fakeDriver) SetSpeed(p uint8)                   { d.speed = p; d.speeds = append(d.speeds, p) }
func (d *fakeDriver) SetDirection(dir drv8245.Direction) { d.dir = dir }
func (d *fakeDriver) Fault() bool                        { return d.fault }
func (d *fakeDriver) enabled() bool                      { return !d.asleep && !d.coast }

// rampEncoder moves one tick per read in the commanded direction.
type rampEncoder struct {
	drv    *fakeDriver
	ticks  int
	status int
	reads  int
}

func (e *rampEncoder) Ticks() int {
	e.reads++
	v := e.ticks
	if e.drv.enabled() && e.drv.speed > 0 {
		if e.drv.dir == drv8245.Forward {
			e.ticks++
		} else {
			e.ticks--
		}
	}
	return v
}
func (e *rampEncoder) Status() int { return e.status }

func newTestMotor() (*Motor, *fakeDriver, *rampEncoder, *[]time.Duration) {
	drv := &fakeDriver{}
	enc := &rampEncoder{drv: drv}
	m := New(drv, enc, Config{PollInterval: 5 * time.Millisecond})
	var sleeps []time.Duration
	m.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return m, drv, enc, &sleeps
}

func TestSetSpeed_ClampsAbsolute(t *testing.T) {
	m, drv, _, _ := newTestMotor()
	cases := []struct {
		in   int
		want uint8
	}{
		{0, 0}, {1, 1}, {55, 55}, {100, 100}, {101, 100}, {1000, 100},
		{-1, 1}, {-55, 55}, {-100, 100}, {-250, 100},
		{math.MaxInt, 100}, {math.MinInt, 100},
	}
	for _, c := range cases {
		m.SetSpeed(c.in)
		if drv.speed != c.want {
			t.Errorf("SetSpeed(%d) applied %d want %d", c.in, drv.speed, c.want)
		}
	}
}

func TestSetDirection(t *testing.T) {
	m, drv, _, _ := newTestMotor()
	m.SetDirection(true)
	if drv.dir != drv8245.Forward {
		t.Fatalf("forward -> %v", drv.dir)
	}
	m.SetDirection(false)
	if drv.dir != drv8245.Reverse {
		t.Fatalf("reverse -> %v", drv.dir)
	}
}

func TestEnable_WakesOrCoasts(t *testing.T) {
	m, drv, _, _ := newTestMotor()
	drv.asleep, drv.coast = true, true
	m.Enable(true)
	if !drv.enabled() {
		t.Fatalf("Enable(true) left asleep=%v coast=%v", drv.asleep, drv.coast)
	}
	m.Enable(false)
	if !drv.coast {
		t.Fatalf("Enable(false) must coast")
	}
	if drv.asleep {
		t.Fatalf("Enable(false) must not put the driver to sleep")
	}
}

func TestStatus_Priority(t *testing.T) {
	m, drv, enc, _ := newTestMotor()
	drv.fault = true
	enc.status = 7
	if got := m.Status(); got != StatusNotInitialised {
		t.Fatalf("before Init: %d", got)
	}
	if !m.Init() || drv.inits != 1 {
		t.Fatalf("Init did not initialise driver")
	}
	if got := m.Status(); got != StatusDriverFault {
		t.Fatalf("driver fault masked: %d", got)
	}
	drv.fault = false
	if got := m.Status(); got != StatusEncoderFault {
		t.Fatalf("encoder fault: %d", got)
	}
	enc.status = 0
	if got := m.Status(); got != StatusOK {
		t.Fatalf("healthy: %d", got)
	}
}

func TestStatusCode(t *testing.T) {
	cases := map[int]errcode.Code{
		StatusOK:             errcode.OK,
		StatusNotInitialised: errcode.NotInitialised,
		StatusDriverFault:    errcode.DriverFault,
		StatusEncoderFault:   errcode.EncoderFault,
		-99:                  errcode.Error,
	}
	for in, want := range cases {
		if got := StatusCode(in); got != want {
			t.Errorf("StatusCode(%d)=%q want %q", in, got, want)
		}
	}
}

func TestMoveByTicks_Forward(t *testing.T) {
	m, drv, enc, sleeps := newTestMotor()
	enc.ticks = 10
	m.MoveByTicks(25, -60)

	if enc.ticks < 35 {
		t.Fatalf("stopped early at %d", enc.ticks)
	}
	if drv.dir != drv8245.Forward {
		t.Fatalf("direction %v", drv.dir)
	}
	if len(drv.speeds) != 2 || drv.speeds[0] != 60 || drv.speeds[1] != 0 {
		t.Fatalf("speed sequence %v, want [60 0]", drv.speeds)
	}
	if !drv.coast {
		t.Fatalf("motor not disabled after move")
	}
	if len(*sleeps) == 0 || (*sleeps)[0] != 5*time.Millisecond {
		t.Fatalf("poll interval not used: %v", *sleeps)
	}
}

func TestMoveByTicks_Reverse(t *testing.T) {
	m, drv, enc, _ := newTestMotor()
	m.MoveByTicks(-12, 30)
	if enc.ticks > -12 {
		t.Fatalf("stopped early at %d", enc.ticks)
	}
	if drv.dir != drv8245.Reverse {
		t.Fatalf("direction %v", drv.dir)
	}
	if drv.enabled() {
		t.Fatalf("motor left enabled")
	}
}

func TestMoveByTicks_ZeroDeltaReturnsWithoutPolling(t *testing.T) {
	m, drv, _, sleeps := newTestMotor()
	m.MoveByTicks(0, 50)
	if len(*sleeps) != 0 {
		t.Fatalf("polled %d times for zero delta", len(*sleeps))
	}
	if drv.speed != 0 || !drv.coast {
		t.Fatalf("motor not stopped: speed=%d coast=%v", drv.speed, drv.coast)
	}
}
