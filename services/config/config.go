package config

import (
	"context"
	"errors"

	"pps-go/bus"
	"pps-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

var (
	errNoDevice = errors.New("config: missing device ID in context")
	errNoConfig = errors.New("config: no embedded config for device")
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) (DeviceConfig, bool) {
	c, ok := embeddedConfigs[device]
	return c, ok
}

// DeviceConfig holds every service section for one device. Each non-nil
// section is published retained on config/<section>.
type DeviceConfig struct {
	PPS       *types.PPSConfig
	Heartbeat *types.HeartbeatConfig
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig resolves the device config and publishes its sections as
// retained messages.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errNoDevice
	}

	dc, ok := EmbeddedConfigLookup(device)
	if !ok {
		return errors.Join(errNoConfig, errors.New(device))
	}

	if dc.PPS != nil {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, "pps"), dc.PPS.Normalised(), true))
	}
	if dc.Heartbeat != nil {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, "heartbeat"), dc.Heartbeat.Normalised(), true))
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config]", err.Error())
		}
	}()
}
