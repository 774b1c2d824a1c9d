package types

// ------------------------
// Mechanism state
// ------------------------

// MechanismState is the lifecycle state of the deploy/rotate/retract
// mechanism. Idle is both the initial and the resting state.
type MechanismState uint8

const (
	StateIdle MechanismState = iota
	StateDeploying
	StateRotating
	StateRetract
)

func (s MechanismState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDeploying:
		return "deploying"
	case StateRotating:
		return "rotating"
	case StateRetract:
		return "retract"
	}
	return "unknown"
}

// ParseMechanismState is the inverse of String. Unknown names map to Idle.
func ParseMechanismState(s string) (MechanismState, bool) {
	switch s {
	case "idle":
		return StateIdle, true
	case "deploying":
		return StateDeploying, true
	case "rotating":
		return StateRotating, true
	case "retract":
		return StateRetract, true
	}
	return StateIdle, false
}

// ------------------------
// Telemetry (retained)
// ------------------------

// PPSValue is published on pps/state/value whenever the state changes.
type PPSValue struct {
	State       string `json:"state"`
	Transitions uint32 `json:"transitions"`
	Ticks       int    `json:"ticks"`
	TS          int64  `json:"ts_ms"`
}

// PPSEvent is published (non-retained) on pps/state/event per transition.
type PPSEvent struct {
	From string `json:"from"`
	To   string `json:"to"`
	TS   int64  `json:"ts_ms"`
}

// MotorStatus mirrors the motor's integer status and its stable code.
type MotorStatus struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	TS    int64  `json:"ts_ms"`
}

// ------------------------
// Control
// ------------------------

// PPSMove requests a blocking encoder-tick jog while the mechanism rests.
type PPSMove struct {
	Ticks int `json:"ticks"`
	Speed int `json:"speed"` // 0 => config default
}

type PPSReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Ticks int    `json:"ticks"`
}
