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
	readCmd.SetHelpTemplate(readCmd.HelpTemplate() + extendedReadHelp)
	rootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:     "read",
	Short:   "Read the raw value from the ADC",
	Example: "  adsio read -r 32 -g 2",
	Args:    cobra.NoArgs,
	RunE:    read,
}

var extendedReadHelp = `
The value is the 16-bit two's complement output code of the ADC.

In single conversion mode the device may still be converting, in which case
"not ready" is reported rather than a value.
`

func read(cmd *cobra.Command, args []string) error {
	adc, done, err := openADC()
	if err != nil {
		return err
	}
	defer done()
	v, ok, err := adc.ReadValue()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("not ready")
		return nil
	}
	fmt.Printf("0x%04x\n", v)
	return nil
}
