package config

import "pps-go/types"

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey).
// -----------------------------------------------------------------------------

var embeddedConfigs = map[string]DeviceConfig{
	"pico": {
		PPS: &types.PPSConfig{
			IntervalMs:     types.DefaultIntervalMs,
			TelemetryEvery: types.DefaultTelemetryEvery,
			MoveSpeed:      types.DefaultMoveSpeed,
		},
		Heartbeat: &types.HeartbeatConfig{IntervalMs: types.DefaultHeartbeatMs},
	},
	"pico-bench": {
		PPS: &types.PPSConfig{
			IntervalMs:     50,
			TelemetryEvery: 20,
			MoveSpeed:      30,
		},
		Heartbeat: &types.HeartbeatConfig{IntervalMs: 250},
	},
}
