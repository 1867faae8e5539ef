// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

// Package i2c provides access to I2C buses via the Linux i2c-dev interface.
package i2c

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// from linux/i2c-dev.h
const i2cSlave = 0x0703

// ErrClosed indicates the bus is closed.
var ErrClosed = errors.New("closed")

// I2C is an I2C bus accessed through a /dev/i2c-N character device.
//
// Transfers are serialized, so a single I2C may be shared by drivers for
// devices at different addresses.
type I2C struct {
	mu sync.Mutex
	f  *os.File
}

// New opens the I2C bus character device at path, e.g. "/dev/i2c-1".
func New(path string) (*I2C, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &I2C{f: f}, nil
}

// Close releases the bus character device.
func (b *I2C) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrClosed
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Write performs a write transfer of data to the device at addr.
func (b *I2C) Write(addr byte, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrClosed
	}
	if err := b.setAddress(addr); err != nil {
		return err
	}
	_, err := b.f.Write(data)
	return err
}

// Read performs a read transfer from the device at addr, filling buf.
func (b *I2C) Read(addr byte, buf []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrClosed
	}
	if err := b.setAddress(addr); err != nil {
		return err
	}
	_, err := io.ReadFull(b.f, buf)
	return err
}

// setAddress selects the slave device subsequent transfers address.
// Assumes the caller already holds the mu lock.
func (b *I2C) setAddress(addr byte) error {
	return unix.IoctlSetInt(int(b.f.Fd()), i2cSlave, int(addr))
}
