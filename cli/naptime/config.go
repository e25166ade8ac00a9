package main

import (
	"encoding/json"
	"os"

	E "github.com/sagernet/naptime/common/exceptions"
)

type flags struct {
	Verbose    bool   `json:"verbose"`
	LogLevel   string `json:"log_level"`
	DenySleep  bool   `json:"deny_sleep"`
	ConfigFile string `json:"-"`
}

// load merges the config file under the values already set by flags.
func (f *flags) load() error {
	if f.ConfigFile == "" {
		return nil
	}
	configFile, err := os.ReadFile(f.ConfigFile)
	if err != nil {
		return E.Cause(err, "read config file")
	}
	flagsNew := new(flags)
	err = json.Unmarshal(configFile, flagsNew)
	if err != nil {
		return E.Cause(err, "decode config file")
	}
	if flagsNew.Verbose {
		f.Verbose = true
	}
	if flagsNew.LogLevel != "" && f.LogLevel == "" {
		f.LogLevel = flagsNew.LogLevel
	}
	if flagsNew.DenySleep {
		f.DenySleep = true
	}
	return nil
}
