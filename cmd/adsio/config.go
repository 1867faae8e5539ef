// SPDX-License-Identifier: MIT
//
// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Write the mode, rate and gain to the ADC without reading",
	Example: "  adsio config -r 128 -g 4",
	Args:    cobra.NoArgs,
	RunE:    configure,
}

func configure(cmd *cobra.Command, args []string) error {
	adc, done, err := openADC()
	if err != nil {
		return err
	}
	defer done()
	fmt.Printf("mode=%s rate=%d gain=%d\n", adc.Mode(), adc.Rate(), adc.Gain())
	return nil
}
