package main

import (
	"context"
	"os"

	"github.com/diwise/ngsi-v2-client/internal/pkg/application/simulator"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const (
	appName string = "fiware-sim"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	configFile := env.GetVariableOrDefault(ctx, "FLEET_CONFIG_FILE", "fleet.yaml")

	f, err := os.Open(configFile)
	if err != nil {
		log.Error("failed to open fleet configuration", "file", configFile, "err", err.Error())
		os.Exit(1)
	}

	cfg, err := simulator.LoadConfiguration(f)
	f.Close()

	if err != nil {
		log.Error("failed to load fleet configuration", "file", configFile, "err", err.Error())
		os.Exit(1)
	}

	fleet, err := simulator.New(ctx, *cfg)
	if err != nil {
		log.Error("failed to create simulator", "err", err.Error())
		os.Exit(1)
	}

	log.Info("starting fleet simulation", "pools", len(cfg.Pools))

	err = fleet.Start(ctx)
	if err != nil {
		log.Error("simulation failed", "err", err.Error())
		os.Exit(1)
	}
}
