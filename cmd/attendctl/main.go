package main

import (
	"os"

	"attendancedesk/internal/config"
	"attendancedesk/internal/logger"
)

func main() {
	cfg := config.MustLoad()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogFormat != "json", Output: os.Stderr})

	if err := newCommandLine(cfg, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
