//go:build !rp2040 && !rp2350

package sim

import (
	"errors"
	"time"

	"pps-go/bus"
	"pps-go/drivers/bno055"
	"pps-go/motor"
	"pps-go/platform"
	svc "pps-go/services/pps"
	"pps-go/types"
)

var errIMUFault = errors.New("sim: injected imu fault")

// Row is the observable state after one control iteration.
type Row struct {
	Iter    int
	Step    int // 1-based scenario step
	Switch  SwitchLevel
	State   types.MechanismState
	Ticks   int
	Running bool
	Forward bool
	Duty    uint8
	Status  int
}

// Mismatch is an expectation that did not hold.
type Mismatch struct {
	Step int
	Iter int
	Want string
	Got  string
}

type Result struct {
	Name       string
	Rows       []Row
	Mismatches []Mismatch
	Events     []types.PPSEvent
}

func (r *Result) OK() bool { return len(r.Mismatches) == 0 }

// Run executes the scenario against a fresh host board.
func Run(sc *Scenario) (*Result, error) {
	board, parts := platform.NewHostBoard()

	imu := board.IMU()
	if err := imu.Configure(bno055.Config{Mode: bno055.ModeNDOF, StartupDelay: time.Millisecond}); err != nil {
		return nil, err
	}
	m := board.Motor(motor.Config{PollInterval: time.Microsecond})
	m.Init()

	s := svc.New(board.LimitSwitch, imu, m, nil)
	conn := bus.NewBus(8).NewConnection("sim")
	events := conn.Subscribe(svc.TopicStateEvent)
	defer conn.Unsubscribe(events)

	res := &Result{Name: sc.Name, Rows: make([]Row, 0, sc.Iterations())}
	var sample types.IMUSample
	iter := 0

	for i, st := range sc.Steps {
		if st.Switch != nil {
			parts.Switch.Set(bool(*st.Switch))
		}
		if st.Quat != nil {
			sample.Quat = types.Quaternion{W: st.Quat[0], X: st.Quat[1], Y: st.Quat[2], Z: st.Quat[3]}
		}
		if st.Accel != nil {
			sample.Accel = types.Vec3{X: st.Accel[0], Y: st.Accel[1], Z: st.Accel[2]}
		}
		parts.IMU.SetSample(sample)
		if st.IMUFault != nil {
			parts.IMU.Fail(boolErr(*st.IMUFault))
		}

		for n := 0; n < st.repeat(); n++ {
			iter++
			s.Step(conn)
			res.Rows = append(res.Rows, Row{
				Iter:    iter,
				Step:    i + 1,
				Switch:  SwitchLevel(parts.Switch.Get()),
				State:   s.State(),
				Ticks:   board.Encoder.Ticks(),
				Running: parts.Plant.Running(),
				Forward: parts.Plant.Forward(),
				Duty:    parts.Plant.PWM.Duty(),
				Status:  m.Status(),
			})
			drainEvents(events, res)
		}

		if st.Expect != "" && s.State().String() != st.Expect {
			res.Mismatches = append(res.Mismatches, Mismatch{
				Step: i + 1, Iter: iter, Want: st.Expect, Got: s.State().String(),
			})
		}
	}
	return res, nil
}

func boolErr(on bool) error {
	if on {
		return errIMUFault
	}
	return nil
}

func drainEvents(sub *bus.Subscription, res *Result) {
	for {
		select {
		case msg := <-sub.Channel():
			if e, ok := msg.Payload.(types.PPSEvent); ok {
				res.Events = append(res.Events, e)
			}
		default:
			return
		}
	}
}
