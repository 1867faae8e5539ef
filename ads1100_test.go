// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Test suite for the ads1100 driver using a simulated bus.
package ads1100_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/ads1100"
)

// bus simulates the I2C transport, recording writes and returning a scripted
// response to reads.
type bus struct {
	writes []xfer
	rdata  []byte
	werr   error
	rerr   error
}

type xfer struct {
	addr byte
	data []byte
}

func (b *bus) Write(addr byte, data []byte) error {
	if b.werr != nil {
		return b.werr
	}
	d := make([]byte, len(data))
	copy(d, data)
	b.writes = append(b.writes, xfer{addr: addr, data: d})
	return nil
}

func (b *bus) Read(addr byte, buf []byte) error {
	if b.rerr != nil {
		return b.rerr
	}
	copy(buf, b.rdata)
	return nil
}

func newADS1100(b *bus, options ...ads1100.Option) *ads1100.ADS1100 {
	options = append([]ads1100.Option{ads1100.WithSettlingTime(0)}, options...)
	return ads1100.New(b, options...)
}

func TestNew(t *testing.T) {
	b := &bus{}
	adc := ads1100.New(b)
	assert.Equal(t, ads1100.Continuous, adc.Mode())
	assert.Equal(t, 8, adc.Rate())
	assert.Equal(t, 1, adc.Gain())
	// construction performs no transfers
	assert.Empty(t, b.writes)
}

func TestSetRate(t *testing.T) {
	patterns := []struct {
		rate int
		dr   byte
	}{
		{128, 0x00},
		{32, 0x04},
		{16, 0x08},
		{8, 0x0c},
	}
	b := &bus{}
	adc := newADS1100(b)
	for i, p := range patterns {
		err := adc.SetRate(p.rate)
		require.Nil(t, err)
		assert.Equal(t, p.rate, adc.Rate())
		// one config write per set
		require.Equal(t, i+1, len(b.writes))
		w := b.writes[i]
		assert.Equal(t, byte(ads1100.DefaultAddress), w.addr)
		require.Equal(t, 1, len(w.data))
		assert.Equal(t, p.dr, w.data[0]&0x0c)
	}
}

func TestSetRateInvalid(t *testing.T) {
	b := &bus{}
	adc := newADS1100(b)
	for _, rate := range []int{0, 7, 64, 256, -8} {
		err := adc.SetRate(rate)
		assert.True(t, errors.Is(err, ads1100.ErrInvalidRate), "rate %d", rate)
	}
	err := adc.SetRate(64)
	assert.Contains(t, err.Error(), "64")
	// no transfers attempted and prior rate retained
	assert.Empty(t, b.writes)
	assert.Equal(t, 8, adc.Rate())
}

func TestSetRateWriteError(t *testing.T) {
	eb := errors.New("no ack")
	b := &bus{werr: eb}
	adc := newADS1100(b)
	err := adc.SetRate(128)
	assert.Equal(t, eb, err)
	// failed write leaves the cached rate unchanged
	assert.Equal(t, 8, adc.Rate())
}

func TestSetGain(t *testing.T) {
	patterns := []struct {
		gain int
		pga  byte
	}{
		{1, 0x00},
		{2, 0x01},
		{4, 0x02},
		{8, 0x03},
	}
	b := &bus{}
	adc := newADS1100(b)
	for i, p := range patterns {
		err := adc.SetGain(p.gain)
		require.Nil(t, err)
		assert.Equal(t, p.gain, adc.Gain())
		require.Equal(t, i+1, len(b.writes))
		w := b.writes[i]
		require.Equal(t, 1, len(w.data))
		assert.Equal(t, p.pga, w.data[0]&0x03)
	}
}

func TestSetGainInvalid(t *testing.T) {
	b := &bus{}
	adc := newADS1100(b)
	for _, gain := range []int{0, 3, 16, -1} {
		err := adc.SetGain(gain)
		assert.True(t, errors.Is(err, ads1100.ErrInvalidGain), "gain %d", gain)
	}
	err := adc.SetGain(3)
	assert.Contains(t, err.Error(), "3")
	assert.Empty(t, b.writes)
	assert.Equal(t, 1, adc.Gain())
}

func TestSetMode(t *testing.T) {
	b := &bus{}
	adc := newADS1100(b)
	err := adc.SetMode(ads1100.Single)
	require.Nil(t, err)
	assert.Equal(t, ads1100.Single, adc.Mode())
	require.Equal(t, 1, len(b.writes))
	assert.NotZero(t, b.writes[0].data[0]&0x10)

	err = adc.SetMode(ads1100.Continuous)
	require.Nil(t, err)
	assert.Equal(t, ads1100.Continuous, adc.Mode())
	require.Equal(t, 2, len(b.writes))
	assert.Zero(t, b.writes[1].data[0]&0x10)
}

func TestReadValueContinuous(t *testing.T) {
	b := &bus{rdata: []byte{0x12, 0x34, 0x0c}}
	adc := newADS1100(b)
	v, ok, err := adc.ReadValue()
	require.Nil(t, err)
	// continuous mode never waits on the busy flag
	assert.True(t, ok)
	assert.Equal(t, uint16(0x1234), v)
	// each read performs exactly one config write
	assert.Equal(t, 1, len(b.writes))
}

func TestReadValueSingleBusy(t *testing.T) {
	b := &bus{rdata: []byte{0x12, 0x34, 0x9c}}
	adc := newADS1100(b)
	v, ok, err := adc.ReadValue()
	require.Nil(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint16(0), v)
}

func TestReadValueSingleReady(t *testing.T) {
	b := &bus{rdata: []byte{0x12, 0x34, 0x1c}}
	adc := newADS1100(b)
	v, ok, err := adc.ReadValue()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x1234), v)
}

func TestReadValueZero(t *testing.T) {
	// zero is a valid reading, distinct from not-ready
	b := &bus{rdata: []byte{0x00, 0x00, 0x0c}}
	adc := newADS1100(b)
	v, ok, err := adc.ReadValue()
	require.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(0), v)
}

func TestReadValueShadowsConfig(t *testing.T) {
	// the config byte returned by the device becomes the next byte written
	b := &bus{rdata: []byte{0x12, 0x34, 0x1c}}
	adc := newADS1100(b)
	_, _, err := adc.ReadValue()
	require.Nil(t, err)
	_, _, err = adc.ReadValue()
	require.Nil(t, err)
	require.Equal(t, 2, len(b.writes))
	assert.Equal(t, byte(0x8c), b.writes[0].data[0])
	assert.Equal(t, byte(0x1c), b.writes[1].data[0])
}

func TestReadValueWriteError(t *testing.T) {
	eb := errors.New("no ack")
	b := &bus{werr: eb}
	adc := newADS1100(b)
	_, ok, err := adc.ReadValue()
	assert.Equal(t, eb, err)
	assert.False(t, ok)
}

func TestReadValueReadError(t *testing.T) {
	eb := errors.New("bus error")
	b := &bus{rerr: eb}
	adc := newADS1100(b)
	_, ok, err := adc.ReadValue()
	assert.Equal(t, eb, err)
	assert.False(t, ok)
}

func TestVoltage(t *testing.T) {
	// raw 16384 at 8SPS, gain 1, vref 3.3, ratio 2
	b := &bus{rdata: []byte{0x40, 0x00, 0x0c}}
	adc := newADS1100(b)
	v, err := adc.Voltage()
	require.Nil(t, err)
	assert.InDelta(t, 3.3, v, 1e-9)
}

func TestVoltageScaled(t *testing.T) {
	b := &bus{rdata: []byte{0x04, 0x00, 0x00}}
	adc := newADS1100(b,
		ads1100.WithReferenceVoltage(5.0),
		ads1100.WithPressureRatio(1),
	)
	require.Nil(t, adc.SetRate(128))
	require.Nil(t, adc.SetGain(2))
	// raw 1024 of full-scale 2048, gain 2
	v, err := adc.Voltage()
	require.Nil(t, err)
	assert.InDelta(t, 1.25, v, 1e-9)
}

func TestVoltageNotReady(t *testing.T) {
	b := &bus{rdata: []byte{0x12, 0x34, 0x9c}}
	adc := newADS1100(b)
	v, err := adc.Voltage()
	require.Nil(t, err)
	// not-ready collapses to 0.0 at this level
	assert.Equal(t, 0.0, v)
}

func TestVoltageReadError(t *testing.T) {
	eb := errors.New("bus error")
	b := &bus{rerr: eb}
	adc := newADS1100(b)
	v, err := adc.Voltage()
	assert.Equal(t, eb, err)
	assert.Equal(t, 0.0, v)
}

func TestWithAddress(t *testing.T) {
	b := &bus{}
	adc := newADS1100(b, ads1100.WithAddress(0x49))
	require.Nil(t, adc.SetMode(ads1100.Single))
	require.Equal(t, 1, len(b.writes))
	assert.Equal(t, byte(0x49), b.writes[0].addr)
}
