package heartbeat

import (
	"context"
	"time"

	"pps-go/bus"
	"pps-go/types"
	"pps-go/x/timex"
)

var topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}

// LED is the status output toggled on every beat.
type LED interface {
	Set(bool)
	Get() bool
}

type Service struct {
	led   LED
	beats uint32
}

// New returns a heartbeat driving led, which may be nil for log-only beats.
func New(led LED) *Service { return &Service{led: led} }

func (s *Service) beat() {
	s.beats++
	if s.led != nil {
		s.led.Set(!s.led.Get())
	}
	if s.beats%types.HeartbeatLogEvery == 0 {
		println("[heartbeat]", s.beats)
	}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	interval := uint32(types.DefaultHeartbeatMs)
	tick := time.NewTicker(timex.Ms(interval))
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			s.beat()
		case msg := <-cfgSub.Channel():
			c, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok {
				println("[heartbeat] bad config")
				continue
			}
			if iv := c.Normalised().IntervalMs; iv != interval {
				interval = iv
				tick.Reset(timex.Ms(interval))
				println("[heartbeat] interval", interval, "ms")
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
