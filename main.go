package main

import (
	"fmt"
	"os"

	"github.com/rsc-sentinel/cmd"
	"github.com/rsc-sentinel/internal/config"
	"github.com/rsc-sentinel/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := cmd.Execute(cfg, log); err != nil {
		log.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
