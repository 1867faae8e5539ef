// SPDX-License-Identifier: MIT
//
// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/ads1100"
)

func init() {
	voltageCmd.Flags().Float64VarP(&voltageOpts.Vref, "vref", "v", 3.3, "reference voltage")
	voltageCmd.Flags().IntVarP(&voltageOpts.Ratio, "ratio", "x", 2, "input divider ratio")
	voltageCmd.Flags().BoolVarP(&voltageOpts.Watch, "watch", "w", false, "read continuously")
	voltageCmd.Flags().DurationVarP(&voltageOpts.Period, "period", "p", time.Second, "period between watched readings")
	voltageCmd.SetHelpTemplate(voltageCmd.HelpTemplate() + extendedVoltageHelp)
	rootCmd.AddCommand(voltageCmd)
}

var (
	voltageCmd = &cobra.Command{
		Use:     "voltage",
		Short:   "Read the input voltage from the ADC",
		Example: "  adsio voltage -v 5.0 -x 1",
		Args:    cobra.NoArgs,
		RunE:    voltage,
	}
	voltageOpts = struct {
		Vref   float64
		Ratio  int
		Watch  bool
		Period time.Duration
	}{}
)

var extendedVoltageHelp = `
The voltage is scaled by the reference voltage and the input divider ratio.

A reading of 0.0000V is reported both for a 0V input and when no fresh sample
is available - use "adsio read" where the distinction matters.
`

func voltage(cmd *cobra.Command, args []string) error {
	adc, done, err := openADC(
		ads1100.WithReferenceVoltage(voltageOpts.Vref),
		ads1100.WithPressureRatio(voltageOpts.Ratio),
	)
	if err != nil {
		return err
	}
	defer done()
	for {
		v, err := adc.Voltage()
		if err != nil {
			if !voltageOpts.Watch {
				return err
			}
			logErr(cmd, err)
		} else {
			fmt.Printf("%.4fV\n", v)
		}
		if !voltageOpts.Watch {
			return nil
		}
		time.Sleep(voltageOpts.Period)
	}
}
