package main

import (
	"os"

	"storefront_client/config"
	"storefront_client/internal/stub"
)

func main() {
	bootLogger := config.NewLogger("info")
	cfg := config.LoadConfig(bootLogger)
	logger := config.NewLogger(cfg.LogLevel)

	store := stub.NewStore()
	if err := stub.Seed(store, 24, logger); err != nil {
		logger.Errorf("Failed to seed stub store: %v", err)
		os.Exit(1)
	}

	router := stub.NewRouter(store, logger, stub.Latency(cfg.StubLatency))
	logger.Infof("Stub storefront API listening on %s (latency %s)", cfg.StubPort, cfg.StubLatency)
	if err := router.Run(cfg.StubPort); err != nil {
		logger.Errorf("Failed to start stub server: %v", err)
		os.Exit(1)
	}
}
