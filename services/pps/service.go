// Package pps runs the deployment mechanism on a fixed cadence and exposes
// it on the bus.
package pps

import (
	"context"
	"io"
	"time"

	"pps-go/bus"
	"pps-go/errcode"
	"pps-go/motor"
	core "pps-go/pps"
	"pps-go/types"
	"pps-go/x/conv"
	"pps-go/x/timex"
)

var (
	topicConfig = bus.Topic{"config", "pps"}

	TopicStateValue  = bus.Topic{"pps", "state", "value"}
	TopicStateEvent  = bus.Topic{"pps", "state", "event"}
	TopicMotorStatus = bus.Topic{"pps", "motor", "status"}
	TopicControlMove = bus.Topic{"pps", "control", "move"}
)

// IMU is the sensor the loop samples once per step.
type IMU interface {
	Read(*types.IMUSample) error
}

// Motor is what the service needs beyond the state machine's capability.
type Motor interface {
	core.Motor
	MoveByTicks(delta, speed int)
	Ticks() int
	Status() int
}

// imuLogEvery rate-limits repeated IMU read failures in the log.
const imuLogEvery = 100

type Service struct {
	mech  *core.Mechanism
	imu   IMU
	motor Motor
	tty   io.Writer

	cfg    types.PPSConfig
	sample types.IMUSample
	steps  uint32

	imuErrs    uint32
	lastStatus int
	statusSent bool

	line []byte
}

// New wires a mechanism to its switch and motor. imu may be nil, in which
// case the mechanism sees zero samples. tty, if set, receives one text line
// per published state value.
func New(sw core.LimitSwitch, imu IMU, m Motor, tty io.Writer) *Service {
	return &Service{
		mech:  core.New(sw, m),
		imu:   imu,
		motor: m,
		tty:   tty,
		cfg:   types.PPSConfig{}.Normalised(),
	}
}

func (s *Service) State() types.MechanismState { return s.mech.State() }
func (s *Service) Config() types.PPSConfig      { return s.cfg }

// Step runs one control iteration: sample, update, publish.
func (s *Service) Step(conn *bus.Connection) {
	s.readIMU()
	s.mech.PushOrientation(s.sample.Quat)
	s.mech.PushAcceleration(s.sample.Accel)

	from := s.mech.State()
	s.mech.Update()
	to := s.mech.State()
	s.steps++

	now := timex.NowMs()
	switch {
	case from != to:
		println("[pps]", from.String(), "->", to.String())
		conn.Publish(conn.NewMessage(TopicStateEvent,
			types.PPSEvent{From: from.String(), To: to.String(), TS: now}, false))
		s.publishValue(conn, now)
	case s.steps%s.cfg.TelemetryEvery == 0:
		s.publishValue(conn, now)
	}
	s.publishStatus(conn, now)
}

func (s *Service) readIMU() {
	if s.imu == nil {
		return
	}
	var smp types.IMUSample
	if err := s.imu.Read(&smp); err != nil {
		if s.imuErrs%imuLogEvery == 0 {
			println("[pps] imu read failed:", err.Error())
		}
		s.imuErrs++
		return
	}
	s.sample = smp
}

func (s *Service) publishValue(conn *bus.Connection, now int64) {
	v := types.PPSValue{
		State:       s.mech.State().String(),
		Transitions: s.mech.Transitions(),
		Ticks:       s.motor.Ticks(),
		TS:          now,
	}
	conn.Publish(conn.NewMessage(TopicStateValue, v, true))
	s.mirror(v)
}

// publishStatus sends the motor status only when it differs from the last
// one sent.
func (s *Service) publishStatus(conn *bus.Connection, now int64) {
	st := s.motor.Status()
	if s.statusSent && st == s.lastStatus {
		return
	}
	s.lastStatus, s.statusSent = st, true

	ms := types.MotorStatus{Code: st, TS: now}
	if st != motor.StatusOK {
		ms.Error = string(motor.StatusCode(st))
		println("[pps] motor status:", ms.Error)
	}
	conn.Publish(conn.NewMessage(TopicMotorStatus, ms, true))
}

// mirror writes "pps state=<s> ticks=<n> transitions=<n>\n" to the tty.
func (s *Service) mirror(v types.PPSValue) {
	if s.tty == nil {
		return
	}
	b := s.line[:0]
	b = append(b, "pps state="...)
	b = append(b, v.State...)
	b = append(b, " ticks="...)
	b = conv.AppendInt(b, int64(v.Ticks))
	b = append(b, " transitions="...)
	b = conv.AppendUint(b, uint64(v.Transitions))
	b = append(b, '\n')
	s.line = b
	_, _ = s.tty.Write(b)
}

// -----------------------------------------------------------------------------
// Config and control
// -----------------------------------------------------------------------------

// applyConfig installs a new config. It reports whether the step interval
// changed.
func (s *Service) applyConfig(p any) (bool, error) {
	var c types.PPSConfig
	switch v := p.(type) {
	case types.PPSConfig:
		c = v
	case *types.PPSConfig:
		if v == nil {
			return false, errcode.InvalidPayload
		}
		c = *v
	default:
		return false, errcode.InvalidPayload
	}
	c = c.Normalised()
	changed := c.IntervalMs != s.cfg.IntervalMs
	s.cfg = c
	return changed, nil
}

// handleMove runs a blocking jog. It is only accepted while the mechanism
// rests in Idle; the control loop does not step during the move.
func (s *Service) handleMove(conn *bus.Connection, req *bus.Message) {
	var mv types.PPSMove
	switch v := req.Payload.(type) {
	case types.PPSMove:
		mv = v
	case *types.PPSMove:
		if v == nil {
			s.reply(conn, req, errcode.InvalidPayload)
			return
		}
		mv = *v
	default:
		s.reply(conn, req, errcode.InvalidPayload)
		return
	}

	if s.mech.State() != types.StateIdle {
		s.reply(conn, req, errcode.Busy)
		return
	}
	if st := s.motor.Status(); st != motor.StatusOK {
		s.reply(conn, req, motor.StatusCode(st))
		return
	}

	speed := mv.Speed
	if speed == 0 {
		speed = s.cfg.MoveSpeed
	}
	println("[pps] move", mv.Ticks, "ticks at", speed)
	s.motor.MoveByTicks(mv.Ticks, speed)

	now := timex.NowMs()
	conn.Reply(req, types.PPSReply{OK: true, Ticks: s.motor.Ticks()})
	s.publishValue(conn, now)
	s.publishStatus(conn, now)
}

func (s *Service) reply(conn *bus.Connection, req *bus.Message, c errcode.Code) {
	conn.Reply(req, types.PPSReply{Error: string(c), Ticks: s.motor.Ticks()})
}

// -----------------------------------------------------------------------------
// Loop
// -----------------------------------------------------------------------------

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)
	moveSub := conn.Subscribe(TopicControlMove)
	defer conn.Unsubscribe(moveSub)

	tick := time.NewTicker(timex.Ms(s.cfg.IntervalMs))
	defer tick.Stop()

	now := timex.NowMs()
	s.publishValue(conn, now)
	s.publishStatus(conn, now)

	for {
		select {
		case <-ctx.Done():
			println("[pps] stopping")
			return
		case <-tick.C:
			s.Step(conn)
		case msg := <-cfgSub.Channel():
			changed, err := s.applyConfig(msg.Payload)
			if err != nil {
				println("[pps] bad config:", err.Error())
				continue
			}
			if changed {
				tick.Reset(timex.Ms(s.cfg.IntervalMs))
				println("[pps] interval", s.cfg.IntervalMs, "ms")
			}
		case msg := <-moveSub.Channel():
			s.handleMove(conn, msg)
		}
	}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	s.serviceLoop(ctx, conn)
}

// Start runs the service in its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
