package pps

import (
	"testing"

	"pps-go/types"
)

type fakeSwitch struct {
	level bool
	reads int
}

func (s *fakeSwitch) Get() bool { s.reads++; return s.level }

func newMech() (*Mechanism, *fakeSwitch, *recMotor) {
	sw := &fakeSwitch{}
	m := &recMotor{}
	return New(sw, m), sw, m
}

var identity = types.Quaternion{W: 1}

func TestNew_StartsIdle(t *testing.T) {
	p, _, m := newMech()
	if p.State() != types.StateIdle {
		t.Fatalf("initial state %v", p.State())
	}
	if m.commands != 0 {
		t.Fatalf("constructor issued motor commands")
	}
}

func TestIdle_NoTransitionWithoutCause(t *testing.T) {
	p, sw, m := newMech()
	// Extended with zero orientation: no deploy, and not retracted.
	sw.level = true
	for i := 0; i < 5; i++ {
		p.Update()
	}
	if p.State() != types.StateIdle || m.commands != 0 {
		t.Fatalf("state=%v commands=%d", p.State(), m.commands)
	}
}

func TestDeployPath(t *testing.T) {
	p, sw, m := newMech()
	sw.level = true
	p.PushOrientation(identity)

	p.Update()
	if p.State() != types.StateDeploying {
		t.Fatalf("state=%v want deploying", p.State())
	}
	if m.commands != 0 {
		t.Fatalf("Idle step issued %d motor commands", m.commands)
	}

	p.Update()
	if p.State() != types.StateRotating {
		t.Fatalf("state=%v want rotating", p.State())
	}
	if m.disables != 1 || m.cur.enabled {
		t.Fatalf("disables=%d enabled=%v", m.disables, m.cur.enabled)
	}
	if !m.cur.forward || m.cur.speed != 100 {
		t.Fatalf("deploy command not issued before exit: %+v", m.cur)
	}
}

func TestDeploying_DrivesUntilExtended(t *testing.T) {
	p, sw, m := newMech()
	sw.level = true
	p.PushOrientation(identity)
	p.Update() // -> Deploying

	sw.level = false
	for i := 0; i < 10; i++ {
		p.Update()
		if p.State() != types.StateDeploying {
			t.Fatalf("step %d left Deploying", i)
		}
		if m.cur != (triple{enabled: true, forward: true, speed: 100}) {
			t.Fatalf("step %d motor %+v", i, m.cur)
		}
	}
	if m.disables != 0 {
		t.Fatalf("disabled while deploying")
	}

	sw.level = true
	p.Update()
	if p.State() != types.StateRotating || m.disables != 1 {
		t.Fatalf("state=%v disables=%d", p.State(), m.disables)
	}
}

func TestRotationPath_Exactly100Steps(t *testing.T) {
	p, sw, m := newMech()
	sw.level = true
	p.PushOrientation(identity)
	p.Update()
	p.Update() // -> Rotating
	base := m.disables

	for i := 1; i <= 99; i++ {
		p.Update()
		if p.State() != types.StateRotating {
			t.Fatalf("call %d left Rotating", i)
		}
		if m.cur != (triple{enabled: true, forward: true, speed: 100}) {
			t.Fatalf("call %d motor %+v", i, m.cur)
		}
	}
	if m.disables != base {
		t.Fatalf("disabled during rotation")
	}
	p.Update()
	if p.State() != types.StateIdle {
		t.Fatalf("call 100: state %v", p.State())
	}
	if m.disables != base+1 || m.cur.enabled {
		t.Fatalf("disables=%d enabled=%v", m.disables, m.cur.enabled)
	}
}

func TestRotationCounterResets(t *testing.T) {
	p, _, _ := newMech()
	for round := 0; round < 3; round++ {
		for i := 1; i < rotationSteps; i++ {
			if p.rotationComplete() {
				t.Fatalf("round %d: complete at call %d", round, i)
			}
		}
		if !p.rotationComplete() {
			t.Fatalf("round %d: not complete at call %d", round, rotationSteps)
		}
	}
}

func TestRetractPath(t *testing.T) {
	p, sw, m := newMech()
	sw.level = false
	p.PushAcceleration(types.Vec3{})

	p.Update()
	if p.State() != types.StateRetract {
		t.Fatalf("state=%v want retract", p.State())
	}
	if m.commands != 0 {
		t.Fatalf("Idle step issued motor commands")
	}

	p.Update()
	if p.State() != types.StateIdle {
		t.Fatalf("state=%v want idle", p.State())
	}
	if m.disables != 1 {
		t.Fatalf("disables=%d", m.disables)
	}
	if m.cur.forward || m.cur.speed != 100 {
		t.Fatalf("retract command not issued before exit: %+v", m.cur)
	}
}

func TestRetract_DrivesUntilRetracted(t *testing.T) {
	p, sw, m := newMech()
	p.Update() // retracted + still -> Retract

	sw.level = true
	for i := 0; i < 5; i++ {
		p.Update()
		if p.State() != types.StateRetract {
			t.Fatalf("step %d left Retract", i)
		}
		if m.cur != (triple{enabled: true, forward: false, speed: 100}) {
			t.Fatalf("step %d motor %+v", i, m.cur)
		}
	}
	sw.level = false
	p.Update()
	if p.State() != types.StateIdle || m.disables != 1 {
		t.Fatalf("state=%v disables=%d", p.State(), m.disables)
	}
}

func TestIsRetractedAndStill_Motion(t *testing.T) {
	p, sw, _ := newMech()
	sw.level = false

	p.PushAcceleration(types.Vec3{X: 1})
	if p.isRetractedAndStill() {
		t.Fatalf("delta 1.0 from zero counted as still")
	}
	p.PushAcceleration(types.Vec3{X: 1.05})
	if !p.isRetractedAndStill() {
		t.Fatalf("delta 0.0025 not counted as still")
	}
	p.PushAcceleration(types.Vec3{X: 1.05, Y: 0.1})
	if p.isRetractedAndStill() {
		t.Fatalf("delta exactly at threshold counted as still")
	}
}

func TestIsRetractedAndStill_HistoryUpdatedWhenExtended(t *testing.T) {
	p, sw, _ := newMech()

	sw.level = true
	p.PushAcceleration(types.Vec3{Z: 9.81})
	if p.isRetractedAndStill() {
		t.Fatalf("extended switch counted as retracted")
	}
	if p.prevAccel != (types.Vec3{Z: 9.81}) {
		t.Fatalf("history not updated while extended: %+v", p.prevAccel)
	}

	sw.level = false
	if !p.isRetractedAndStill() {
		t.Fatalf("unchanged sample after extended step should be still")
	}
}

func TestShouldDeploy(t *testing.T) {
	cases := []struct {
		name     string
		extended bool
		q        types.Quaternion
		want     bool
	}{
		{"retracted", false, identity, false},
		{"zero quat", true, types.Quaternion{}, false},
		{"w", true, types.Quaternion{W: 1}, true},
		{"x", true, types.Quaternion{X: -0.1}, true},
		{"y", true, types.Quaternion{Y: 0.2}, true},
		{"z", true, types.Quaternion{Z: 0.3}, true},
	}
	for _, c := range cases {
		p, sw, _ := newMech()
		sw.level = c.extended
		p.PushOrientation(c.q)
		if got := p.shouldDeploy(); got != c.want {
			t.Errorf("%s: shouldDeploy=%v want %v", c.name, got, c.want)
		}
	}
}

func TestPushOrientation_LastWins(t *testing.T) {
	p, _, _ := newMech()
	q1 := types.Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}
	q2 := types.Quaternion{W: 0.1, Z: -0.9}
	p.PushOrientation(q1)
	if p.quat != q1 {
		t.Fatalf("quat=%+v want %+v", p.quat, q1)
	}
	p.PushOrientation(q2)
	if p.quat != q2 {
		t.Fatalf("quat=%+v want %+v", p.quat, q2)
	}
	a := types.Vec3{X: 1, Y: 2, Z: 3}
	p.PushAcceleration(a)
	if p.accel != a {
		t.Fatalf("accel=%+v", p.accel)
	}
}

func TestLimitSwitchReadEveryStep(t *testing.T) {
	p, sw, _ := newMech()
	sw.level = true
	for i := 0; i < 4; i++ {
		p.Update()
	}
	if sw.reads < 4 {
		t.Fatalf("switch read %d times in 4 steps", sw.reads)
	}
}

// Pseudo-random input sequences must never disable the motor more often
// than the mechanism leaves a motion state.
func TestNoSpuriousDisable(t *testing.T) {
	p, sw, m := newMech()
	var seed uint32 = 0x9e3779b9
	next := func() uint32 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return seed
	}
	exits := 0
	for i := 0; i < 5000; i++ {
		r := next()
		sw.level = r&1 == 1
		if r&6 == 0 {
			p.PushOrientation(types.Quaternion{})
		} else {
			p.PushOrientation(identity)
		}
		p.PushAcceleration(types.Vec3{X: float32(r>>8&3) * 0.04})

		before := p.State()
		p.Update()
		after := p.State()
		if before != after && before != types.StateIdle {
			exits++
		}
		if m.disables > exits {
			t.Fatalf("step %d: %d disables for %d exits", i, m.disables, exits)
		}
	}
	if m.disables != exits {
		t.Fatalf("disables=%d exits=%d", m.disables, exits)
	}
	if p.Transitions() == 0 {
		t.Fatalf("random walk never transitioned")
	}
}
