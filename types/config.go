package types

// PPS configuration supplied on topic "config/pps".

type PPSConfig struct {
	IntervalMs     uint32 `json:"interval_ms"`     // update cadence
	TelemetryEvery uint32 `json:"telemetry_every"` // republish value every N steps without a change
	MoveSpeed      int    `json:"move_speed"`      // default jog speed, percent
}

const (
	DefaultIntervalMs     = 20
	DefaultTelemetryEvery = 50
	DefaultMoveSpeed      = 50
)

// Normalised fills zero fields with defaults.
func (c PPSConfig) Normalised() PPSConfig {
	if c.IntervalMs == 0 {
		c.IntervalMs = DefaultIntervalMs
	}
	if c.TelemetryEvery == 0 {
		c.TelemetryEvery = DefaultTelemetryEvery
	}
	if c.MoveSpeed == 0 {
		c.MoveSpeed = DefaultMoveSpeed
	}
	return c
}

// Heartbeat configuration supplied on topic "config/heartbeat".

type HeartbeatConfig struct {
	IntervalMs uint32 `json:"interval_ms"`
}

const (
	DefaultHeartbeatMs = 1000
	HeartbeatLogEvery  = 60 // beats between log lines
)

func (c HeartbeatConfig) Normalised() HeartbeatConfig {
	if c.IntervalMs == 0 {
		c.IntervalMs = DefaultHeartbeatMs
	}
	return c
}
