// Copyright © 2021 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/warthog618/ads1100"
	"github.com/warthog618/ads1100/i2c"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/blob/loader/file"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
)

// This example reads the voltage from an ADS1100 connected to the first I2C
// bus. The defaults are defined in loadConfig, but can be altered via
// configuration (env, flag or config file), including the reference voltage
// and divider ratio to suit the input circuit.
func main() {
	cfg := loadConfig()
	b, err := i2c.New(cfg.MustGet("device").String())
	if err != nil {
		panic(err)
	}
	defer b.Close()
	adc := ads1100.New(b,
		ads1100.WithAddress(uint8(cfg.MustGet("address").Uint())),
		ads1100.WithReferenceVoltage(cfg.MustGet("vref").Float()),
		ads1100.WithPressureRatio(int(cfg.MustGet("ratio").Int())),
	)
	if err = adc.SetRate(int(cfg.MustGet("rate").Int())); err != nil {
		panic(err)
	}
	if err = adc.SetGain(int(cfg.MustGet("gain").Int())); err != nil {
		panic(err)
	}
	period := cfg.MustGet("period").Duration()
	for {
		v, err := adc.Voltage()
		if err != nil {
			panic(err)
		}
		fmt.Printf("%.4fV\n", v)
		time.Sleep(period)
	}
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"device":  "/dev/i2c-1",
		"address": ads1100.DefaultAddress,
		"vref":    3.3,
		"ratio":   2,
		"rate":    8,
		"gain":    1,
		"period":  "1s",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	shortFlags := map[byte]string{
		'c': "config-file",
	}
	fget, err := pflag.New(pflag.WithShortFlags(shortFlags))
	if err != nil {
		panic(err)
	}
	// environment next
	eget, err := env.New(env.WithEnvPrefix("ADS1100_"))
	if err != nil {
		panic(err)
	}
	// highest priority sources first - flags override environment
	sources := config.NewStack(fget, eget)
	cfg := config.NewConfig(config.Decorate(sources, config.WithDefault(def)))

	// config file may be specified via flag or env, so check for it
	// and if present add it with lower priority than flag and env.
	configFile, err := cfg.Get("config.file")
	jsondec := json.NewDecoder()
	if err == nil {
		// explicitly specified config file - must be there
		f, err := file.New(configFile.String())
		if err != nil {
			panic(err)
		}
		jget, err := blob.New(f, jsondec)
		if err != nil {
			panic(err)
		}
		sources.Append(jget)
	} else {
		// implicit and optional default config file
		f, _ := file.New("ads1100.json")
		jget, err := blob.New(f, jsondec)
		if err == nil {
			sources.Append(jget)
		} else {
			if _, ok := err.(*os.PathError); !ok {
				panic(err)
			}
		}
	}
	cfg = cfg.GetConfig("", config.WithMust())
	return cfg
}
