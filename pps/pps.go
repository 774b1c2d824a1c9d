// Package pps implements the deploy/rotate/retract state machine of the
// payload positioning mechanism.
//
// The host pushes the latest IMU samples and calls Update at its own
// cadence. Each Update reads the limit switch, evaluates the exit
// condition of the current state, issues at most one motion command and
// performs at most one transition. A Mechanism must only be used from a
// single goroutine.
package pps

import "pps-go/types"

// LimitSwitch reads the end-stop input; true means extended.
// machine.Pin satisfies it.
type LimitSwitch interface {
	Get() bool
}

// stillThreshold bounds the squared acceleration delta (in (m/s²)²)
// between two steps for the mechanism to count as stationary.
const stillThreshold = 0.01

// rotationSteps is the number of Update calls spent in Rotating. This is a
// stand-in for encoder or IMU based rotation tracking.
const rotationSteps = 100

type switchState uint8

const (
	retracted switchState = iota
	extended
)

type Mechanism struct {
	sw    LimitSwitch
	motor Motor

	state types.MechanismState
	quat  types.Quaternion
	accel types.Vec3

	prevAccel   types.Vec3 // last sample seen by isRetractedAndStill
	rotateCount int

	transitions uint32
}

// New returns a Mechanism in Idle. The switch and motor are borrowed and
// must outlive it.
func New(sw LimitSwitch, m Motor) *Mechanism {
	return &Mechanism{sw: sw, motor: m, state: types.StateIdle}
}

// PushOrientation replaces the stored orientation sample.
func (p *Mechanism) PushOrientation(q types.Quaternion) { p.quat = q }

// PushAcceleration replaces the stored acceleration sample.
func (p *Mechanism) PushAcceleration(a types.Vec3) { p.accel = a }

func (p *Mechanism) State() types.MechanismState { return p.state }

// Transitions counts state changes since construction.
func (p *Mechanism) Transitions() uint32 { return p.transitions }

// Update advances the state machine by one step.
func (p *Mechanism) Update() {
	switch p.state {
	case types.StateIdle:
		if p.shouldDeploy() {
			p.enter(types.StateDeploying)
		} else if p.isRetractedAndStill() {
			p.enter(types.StateRetract)
		}

	case types.StateDeploying:
		DriveDeploy(p.motor)
		if p.readSwitch() == extended {
			p.motor.Enable(false)
			p.enter(types.StateRotating)
		}

	case types.StateRotating:
		DriveToTarget(p.motor)
		if p.rotationComplete() {
			p.motor.Enable(false)
			p.enter(types.StateIdle)
		}

	case types.StateRetract:
		DriveRetract(p.motor)
		if p.readSwitch() == retracted {
			p.motor.Enable(false)
			p.enter(types.StateIdle)
		}
	}
}

func (p *Mechanism) enter(s types.MechanismState) {
	p.state = s
	p.transitions++
}

func (p *Mechanism) readSwitch() switchState {
	if p.sw.Get() {
		return extended
	}
	return retracted
}

// shouldDeploy requires the switch to already read extended and a non-zero
// orientation sample. The switch precondition matches the deployed
// firmware; it is not the inverse of the Deploying exit condition by
// mistake.
func (p *Mechanism) shouldDeploy() bool {
	if p.readSwitch() != extended {
		return false
	}
	return !p.quat.IsZero()
}

// isRetractedAndStill reports a retracted switch with an acceleration
// sample that barely moved since the previous call. The previous sample is
// replaced on every call regardless of the switch.
func (p *Mechanism) isRetractedAndStill() bool {
	prev := p.prevAccel
	p.prevAccel = p.accel
	if p.readSwitch() != retracted {
		return false
	}
	return p.accel.DistSq(prev) < stillThreshold
}

// rotationComplete reports true on every rotationSteps-th call.
func (p *Mechanism) rotationComplete() bool {
	p.rotateCount++
	if p.rotateCount >= rotationSteps {
		p.rotateCount = 0
		return true
	}
	return false
}
