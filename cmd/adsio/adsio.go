// SPDX-License-Identifier: MIT
//
// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads1100"
	"github.com/warthog618/ads1100/i2c"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "adsio",
	Short: "adsio is a utility to configure and read an ADS1100 ADC",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version: version,
}

var rootOpts = struct {
	Device  string
	Address uint8
	Rate    int
	Gain    int
	Single  bool
}{}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootOpts.Device, "device", "d", "/dev/i2c-1", "path to the I2C bus device")
	pf.Uint8VarP(&rootOpts.Address, "address", "a", ads1100.DefaultAddress, "I2C address of the ADS1100")
	pf.IntVarP(&rootOpts.Rate, "rate", "r", 8, "data rate in samples per second (128, 32, 16 or 8)")
	pf.IntVarP(&rootOpts.Gain, "gain", "g", 1, "gain (1, 2, 4 or 8)")
	pf.BoolVarP(&rootOpts.Single, "single", "s", false, "use single conversion mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "adsio %s: %s\n", cmd.Name(), err)
}

// openADC opens the bus and applies the mode, rate and gain selected by
// flags. The returned close function releases the bus.
func openADC(options ...ads1100.Option) (*ads1100.ADS1100, func(), error) {
	b, err := i2c.New(rootOpts.Device)
	if err != nil {
		return nil, nil, err
	}
	options = append([]ads1100.Option{ads1100.WithAddress(rootOpts.Address)}, options...)
	adc := ads1100.New(b, options...)
	if rootOpts.Single {
		err = adc.SetMode(ads1100.Single)
	}
	if err == nil && rootOpts.Rate != adc.Rate() {
		err = adc.SetRate(rootOpts.Rate)
	}
	if err == nil && rootOpts.Gain != adc.Gain() {
		err = adc.SetGain(rootOpts.Gain)
	}
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return adc, func() { b.Close() }, nil
}
