package pps

// Motor is the command surface the mechanism needs (*motor.Motor
// implements it).
type Motor interface {
	Enable(on bool)
	SetDirection(forward bool)
	SetSpeed(percent int)
}

// deployForward is the motor direction that extends the mechanism.
const deployForward = true

const fullSpeed = 100

// DriveDeploy runs the motor toward the extended end stop.
func DriveDeploy(m Motor) { drive(m, deployForward) }

// DriveToTarget runs the motor toward the working position. It currently
// issues the same command as DriveDeploy.
func DriveToTarget(m Motor) { drive(m, deployForward) }

// DriveRetract runs the motor toward the retracted end stop.
func DriveRetract(m Motor) { drive(m, !deployForward) }

func drive(m Motor, forward bool) {
	m.Enable(true)
	m.SetDirection(forward)
	m.SetSpeed(fullSpeed)
}
