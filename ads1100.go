// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ads1100 provides a driver for the TI ADS1100 self-calibrating
// 16-bit I2C ADC.
package ads1100

import (
	"errors"
	"fmt"
	"time"
)

// Bus is the I2C bus the ADS1100 is connected to.
//
// Write performs a write transfer of data to the device at addr.
// Read performs a read transfer from the device at addr, filling buf.
// The driver only ever addresses its own device.
type Bus interface {
	Write(addr byte, data []byte) error
	Read(addr byte, buf []byte) error
}

// Mode is the conversion mode of the ADS1100.
type Mode int

// Conversion modes.
//
// In Continuous mode the device converts constantly and a read returns the
// most recent result. In Single mode writing the config register with the ST
// bit set triggers one conversion, and the busy flag clears when the result
// is ready.
const (
	Continuous Mode = 0
	Single     Mode = 1
)

func (m Mode) String() string {
	if m == Single {
		return "single"
	}
	return "continuous"
}

// DefaultAddress is the I2C address of the ADS1100A0 variant.
const DefaultAddress = 0x48

// Config register bit fields, per the ADS1100 datasheet.
const (
	busyBit byte = 0x80 // ST/BSY - set while a single conversion is in progress
	scBit   byte = 0x10 // SC - single conversion mode select
	drBits  byte = 0x0c // DR - data rate select
	pgaBits byte = 0x03 // PGA - gain select

	// power-on reset value of the config register
	defaultConfig byte = 0x8c
)

// settlingTime is the fixed delay between requesting a conversion and reading
// the result. It is not derived from the configured data rate, so at 8SPS it
// may be shorter than a full conversion period - in single mode the busy flag
// still gates the result, but in continuous mode a read may return the
// previous conversion.
const settlingTime = 100 * time.Millisecond

// Field values are the index of the setting in these tables.
var (
	dataRates = [4]int{128, 32, 16, 8}
	gains     = [4]int{1, 2, 4, 8}
)

// minCode is the full-scale negative output code for each data rate.
// Lower rates use more of the 16-bit range.
var minCode = map[int]int{128: -2048, 32: -8192, 16: -16384, 8: -32768}

// ErrInvalidRate indicates a data rate outside the set supported by the device.
var ErrInvalidRate = errors.New("rate must be one of 128, 32, 16 or 8")

// ErrInvalidGain indicates a gain outside the set supported by the device.
var ErrInvalidGain = errors.New("gain must be one of 1, 2, 4 or 8")

// ADS1100 reads ADC values from a connected ADS1100.
//
// The driver reuses an internal scratch buffer for all transfers, so an
// ADS1100 is not safe for concurrent use. Callers requiring concurrent access
// must serialize calls themselves.
type ADS1100 struct {
	bus  Bus
	addr byte
	// shadow of the device config register - the last value written to, or
	// read back from, the device.
	cfg   byte
	mode  Mode
	rate  int
	gain  int
	vref  float64
	ratio int
	tset  time.Duration
	// scratch buffer for transfers - [MSB, LSB, config]
	buf [3]byte
}

// Option alters the default configuration of an ADS1100.
type Option func(*ADS1100)

// WithAddress sets the I2C address of the device.
// The default is DefaultAddress (0x48).
func WithAddress(addr byte) Option {
	return func(adc *ADS1100) {
		adc.addr = addr
	}
}

// WithReferenceVoltage sets the supply voltage used as the conversion
// reference. The default is 3.3V.
func WithReferenceVoltage(vref float64) Option {
	return func(adc *ADS1100) {
		adc.vref = vref
	}
}

// WithPressureRatio sets the multiplier applied when scaling readings to a
// voltage, for inputs fed through a voltage divider. The default is 2.
func WithPressureRatio(ratio int) Option {
	return func(adc *ADS1100) {
		adc.ratio = ratio
	}
}

// WithSettlingTime sets the delay between requesting a conversion and reading
// the result. The default is 100ms, which covers a full conversion at all
// data rates other than 8SPS.
func WithSettlingTime(tset time.Duration) Option {
	return func(adc *ADS1100) {
		adc.tset = tset
	}
}

// New creates a ADS1100.
//
// The bus is externally owned and must remain open for the lifetime of the
// driver. No transfers are performed until the first read or setter call.
func New(bus Bus, options ...Option) *ADS1100 {
	adc := &ADS1100{
		bus:   bus,
		addr:  DefaultAddress,
		cfg:   defaultConfig,
		mode:  Continuous,
		rate:  8,
		gain:  1,
		vref:  3.3,
		ratio: 2,
		tset:  settlingTime,
	}
	for _, option := range options {
		option(adc)
	}
	return adc
}

// ReadValue triggers a conversion and returns the raw output code.
//
// The value is the 16-bit two's complement output code in an unsigned
// container - reinterpret as int16 for a signed reading.
//
// The bool is false if no fresh sample is available, which can only occur in
// single mode while the device reports busy. Zero is a legitimate reading, so
// absence is reported separately rather than as a sentinel value.
func (adc *ADS1100) ReadValue() (uint16, bool, error) {
	if err := adc.writeConfig(adc.cfg); err != nil {
		return 0, false, err
	}
	time.Sleep(adc.tset)
	if err := adc.bus.Read(adc.addr, adc.buf[:]); err != nil {
		return 0, false, err
	}
	// the device may have cleared the busy flag
	adc.cfg = adc.buf[2]
	if adc.cfg&scBit != 0 && adc.cfg&busyBit != 0 {
		return 0, false, nil
	}
	return uint16(adc.buf[0])<<8 | uint16(adc.buf[1]), true, nil
}

// Voltage returns the input voltage computed from the raw output code.
//
// Returns 0.0 if no fresh sample is available, so a stale conversion is not
// distinguishable from a 0V reading at this level - use ReadValue where that
// matters.
func (adc *ADS1100) Voltage() (float64, error) {
	v, ok, err := adc.ReadValue()
	if err != nil || !ok {
		return 0, err
	}
	return float64(v) / float64(-minCode[adc.rate]*adc.gain) * adc.vref * float64(adc.ratio), nil
}

// Mode returns the conversion mode of the ADS1100.
func (adc *ADS1100) Mode() Mode {
	return adc.mode
}

// SetMode sets the conversion mode of the ADS1100.
//
// The new config register value is written to the device immediately.
func (adc *ADS1100) SetMode(mode Mode) error {
	cfg := adc.cfg&^scBit | byte(mode)<<4
	if err := adc.writeConfig(cfg); err != nil {
		return err
	}
	adc.mode = mode
	return nil
}

// Rate returns the data rate of the ADS1100 in samples per second.
func (adc *ADS1100) Rate() int {
	return adc.rate
}

// SetRate sets the data rate of the ADS1100.
//
// The rate must be one of 128, 32, 16 or 8 samples per second. The new config
// register value is written to the device immediately.
func (adc *ADS1100) SetRate(rate int) error {
	for i, r := range dataRates {
		if r == rate {
			cfg := adc.cfg&^drBits | byte(i)<<2
			if err := adc.writeConfig(cfg); err != nil {
				return err
			}
			adc.rate = rate
			return nil
		}
	}
	return fmt.Errorf("%d: %w", rate, ErrInvalidRate)
}

// Gain returns the gain of the ADS1100.
func (adc *ADS1100) Gain() int {
	return adc.gain
}

// SetGain sets the gain of the ADS1100.
//
// The gain must be one of 1, 2, 4 or 8. The new config register value is
// written to the device immediately.
func (adc *ADS1100) SetGain(gain int) error {
	for i, g := range gains {
		if g == gain {
			cfg := adc.cfg&^pgaBits | byte(i)
			if err := adc.writeConfig(cfg); err != nil {
				return err
			}
			adc.gain = gain
			return nil
		}
	}
	return fmt.Errorf("%d: %w", gain, ErrInvalidGain)
}

// writeConfig writes cfg to the device config register and commits it to the
// shadow. The shadow is only updated once the write has succeeded.
func (adc *ADS1100) writeConfig(cfg byte) error {
	adc.buf[0] = cfg
	if err := adc.bus.Write(adc.addr, adc.buf[:1]); err != nil {
		return err
	}
	adc.cfg = cfg
	return nil
}
