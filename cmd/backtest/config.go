package main

const (
	DefaultConfigPath = "config.yaml"
	ConfigPathEnv     = "PYTRADE_CONFIG"

	// Demo strategy parameters
	FastPeriod = 5
	SlowPeriod = 20
	LotSize    = 1.0
)
