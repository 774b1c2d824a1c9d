// Package bno055 provides a driver for the Bosch BNO055 9-axis IMU with
// on-chip fusion, over tinygo.org/x/drivers.I2C.
//
//	d := bno055.New(i2c)
//	if err := d.Configure(bno055.Config{}); err != nil { ... }
//	var s types.IMUSample
//	err := d.Read(&s)
//
// Read performs one burst transaction covering the accelerometer through
// the gravity vector and decodes it into physical units.
package bno055

import (
	"encoding/binary"
	"errors"
	"time"

	"pps-go/types"

	"tinygo.org/x/drivers"
)

const (
	AddressPrimary   = 0x28
	AddressAlternate = 0x29

	chipID = 0xA0
)

// Register map (page 0).
const (
	regChipID    = 0x00
	regPageID    = 0x07
	regAccData   = 0x08 // first byte of the burst window
	regCalibStat = 0x35
	regSTResult  = 0x36
	regSysStatus = 0x39
	regSysErr    = 0x3A
	regOprMode   = 0x3D
	regPwrMode   = 0x3E
	regSysTrig   = 0x3F
)

// Offsets into the burst window starting at regAccData.
const (
	offAcc   = 0x08 - regAccData
	offGyr   = 0x14 - regAccData
	offQua   = 0x20 - regAccData
	offLia   = 0x28 - regAccData
	offGrv   = 0x2E - regAccData
	burstLen = 0x34 - regAccData
)

const (
	pwrNormal  = 0x00
	pwrSuspend = 0x02

	trigSelfTest = 0x01
	trigResetInt = 0x80
)

// Fixed-point scales (LSB per unit).
const (
	accelScale = 100.0   // m/s²
	gyroScale  = 16.0    // dps
	quatScale  = 16384.0 // 2^14
)

type Mode uint8

const (
	ModeConfig Mode = 0x00
	ModeIMU    Mode = 0x08
	ModeNDOF   Mode = 0x0C
)

var (
	ErrNotFound = errors.New("bno055: chip id mismatch")
	ErrMode     = errors.New("bno055: unsupported mode")
)

// Config holds optional settings; zero values pick datasheet defaults.
type Config struct {
	// Address defaults to AddressPrimary.
	Address uint16
	// Mode defaults to ModeIMU (accel + gyro fusion, no magnetometer).
	Mode Mode
	// StartupDelay is the power-on wait before the first probe. Default 650 ms.
	StartupDelay time.Duration
	// ProbeRetries bounds extra chip-id reads. Default 5.
	ProbeRetries int
}

// Device wraps an I2C connection to a BNO055.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg   Config
	mode  Mode
	buf   [burstLen]byte
	sleep func(time.Duration)
}

// New creates a Device. The I2C bus must already be configured; the chip
// is not touched until Configure.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: AddressPrimary, sleep: time.Sleep}
}

// Configure probes the chip and brings it into the configured fusion mode.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.Mode == ModeConfig {
		cfg.Mode = ModeIMU
	}
	if cfg.Mode != ModeIMU && cfg.Mode != ModeNDOF {
		return ErrMode
	}
	if cfg.StartupDelay <= 0 {
		cfg.StartupDelay = 650 * time.Millisecond
	}
	if cfg.ProbeRetries <= 0 {
		cfg.ProbeRetries = 5
	}
	d.cfg = cfg

	d.sleep(cfg.StartupDelay)

	id, _ := d.ChipID()
	for i := 0; i < cfg.ProbeRetries && id != chipID; i++ {
		d.sleep(10 * time.Millisecond)
		id, _ = d.ChipID()
	}
	if id != chipID {
		return ErrNotFound
	}

	if err := d.SetMode(ModeConfig); err != nil {
		return err
	}
	if err := d.write(regPwrMode, pwrNormal); err != nil {
		return err
	}
	if err := d.write(regPageID, 0); err != nil {
		return err
	}
	return d.SetMode(cfg.Mode)
}

// SetMode writes OPR_MODE and waits for the switch to settle.
func (d *Device) SetMode(m Mode) error {
	if err := d.write(regOprMode, byte(m)); err != nil {
		return err
	}
	// 19 ms any->CONFIG, 7 ms CONFIG->any; round up.
	d.sleep(30 * time.Millisecond)
	d.mode = m
	return nil
}

// Mode reads OPR_MODE back from the chip.
func (d *Device) Mode() (Mode, error) {
	v, err := d.read(regOprMode)
	return Mode(v & 0x0F), err
}

func (d *Device) ChipID() (byte, error) { return d.read(regChipID) }

// CalibStatus returns CALIB_STAT: sys/gyr/acc/mag, two bits each.
func (d *Device) CalibStatus() (byte, error) { return d.read(regCalibStat) }

func (d *Device) SysStatus() (byte, error) { return d.read(regSysStatus) }

func (d *Device) SysError() (byte, error) { return d.read(regSysErr) }

// SelfTest triggers the built-in self test and returns ST_RESULT
// (0x0F = all of MCU, gyro, mag and accel passed). The previous fusion
// mode is restored afterwards.
func (d *Device) SelfTest() (byte, error) {
	return d.runTest(trigSelfTest)
}

// PowerOnSelfTest re-runs the POST via a system reset trigger.
func (d *Device) PowerOnSelfTest() (byte, error) {
	return d.runTest(trigResetInt)
}

func (d *Device) runTest(trigger byte) (byte, error) {
	restore := d.mode
	if restore == ModeConfig {
		restore = ModeIMU
	}
	if err := d.SetMode(ModeConfig); err != nil {
		return 0, err
	}
	if err := d.write(regSysTrig, trigger); err != nil {
		return 0, err
	}
	d.sleep(650 * time.Millisecond)
	res, err := d.read(regSTResult)
	if merr := d.SetMode(restore); err == nil {
		err = merr
	}
	return res, err
}

// Suspend puts the chip into its suspend power mode.
func (d *Device) Suspend() error {
	if err := d.SetMode(ModeConfig); err != nil {
		return err
	}
	if err := d.write(regPwrMode, pwrSuspend); err != nil {
		return err
	}
	d.sleep(25 * time.Millisecond)
	return nil
}

// Read fetches one fused sample. On error out is left untouched.
func (d *Device) Read(out *types.IMUSample) error {
	b := d.buf[:]
	if err := d.bus.Tx(d.Address, []byte{regAccData}, b); err != nil {
		return err
	}
	out.Accel = vec3(b[offAcc:], accelScale)
	out.Gyro = vec3(b[offGyr:], gyroScale)
	out.LinearAccel = vec3(b[offLia:], accelScale)
	out.Gravity = vec3(b[offGrv:], accelScale)
	out.Quat = types.Quaternion{
		W: s16(b[offQua:]) / quatScale,
		X: s16(b[offQua+2:]) / quatScale,
		Y: s16(b[offQua+4:]) / quatScale,
		Z: s16(b[offQua+6:]) / quatScale,
	}
	return nil
}

func (d *Device) read(reg byte) (byte, error) {
	var v [1]byte
	err := d.bus.Tx(d.Address, []byte{reg}, v[:])
	return v[0], err
}

func (d *Device) write(reg, val byte) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}

func s16(b []byte) float32 {
	return float32(int16(binary.LittleEndian.Uint16(b)))
}

func vec3(b []byte, scale float32) types.Vec3 {
	return types.Vec3{X: s16(b) / scale, Y: s16(b[2:]) / scale, Z: s16(b[4:]) / scale}
}
