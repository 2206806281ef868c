package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/diwise/ngsi-v2-client/internal/pkg/infrastructure/router"
	api "github.com/diwise/ngsi-v2-client/internal/pkg/presentation/api/ngsiv2"
	"github.com/diwise/ngsi-v2-client/pkg/accumulator"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const (
	appName string = "ql-accumulator"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	var policies io.Reader

	policyFile := env.GetVariableOrDefault(ctx, "AUTHZ_POLICY_FILE", "")
	if policyFile != "" {
		f, err := os.Open(policyFile)
		if err != nil {
			log.Error("failed to open authz policies", "file", policyFile, "err", err.Error())
			os.Exit(1)
		}
		defer f.Close()

		policies = f
	}

	acc := accumulator.New()
	r := router.New(appName)

	err := api.RegisterHandlers(ctx, r, policies, acc)
	if err != nil {
		log.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	port := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8668")
	log.Info("starting to listen for connections", "port", port)

	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}
