package main

import (
	"context"
	"time"

	"pps-go/bus"
	"pps-go/drivers/bno055"
	"pps-go/platform"
	"pps-go/services/config"
	"pps-go/services/heartbeat"
	svc "pps-go/services/pps"
	"pps-go/types"
	"pps-go/x/conv"
)

const deviceID = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(3 * time.Second)
	println("[main] boot")

	board, err := platform.Open(platform.DefaultWiring)
	if err != nil {
		println("[main] board:", err.Error())
		halt()
	}

	var imu svc.IMU
	dev := board.IMU()
	if err := dev.Configure(bno055.Config{Mode: bno055.ModeNDOF}); err != nil {
		// Without orientation the mechanism never deploys, but retract
		// still works from the zero samples.
		println("[main] imu:", err.Error())
	} else {
		imu = dev
		if id, err := dev.ChipID(); err == nil {
			println("[main] bno055 chip", conv.Hex8(id))
		}
	}

	m := board.Motor()
	if !m.Init() {
		println("[main] motor init failed")
		halt()
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	println("[main] bootstrapping bus …")
	b := bus.NewBus(8)
	cfgConn := b.NewConnection("config")
	ppsConn := b.NewConnection("pps")
	hbConn := b.NewConnection("heartbeat")
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(svc.TopicStateEvent)
	go func() {
		for msg := range mon.Channel() {
			if e, ok := msg.Payload.(types.PPSEvent); ok {
				println("[monitor]", e.From, "->", e.To)
			}
		}
	}()

	println("[main] starting services …")
	if err := svc.New(board.LimitSwitch, imu, m, board.Telemetry).Start(ctx, ppsConn); err != nil {
		println("[main] pps:", err.Error())
	}
	var led heartbeat.LED
	if board.LED != nil {
		led = board.LED
	}
	_ = heartbeat.New(led).Start(ctx, hbConn)
	config.NewConfigService().Start(ctx, cfgConn)

	select {}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
