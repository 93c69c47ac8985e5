package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	appLog "calgrid/internal/log"
)

const (
	defaultConfigPath = "/etc/calgrid/config.yaml"
	version           = "0.1.0"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "calgrid",
		Usage:   "Lay out calendar events into day, week and month grids.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   defaultConfigPath,
				EnvVars: []string{"CALGRID_CONFIG"},
				Usage:   "Path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log at debug level regardless of log_level",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			showCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		appLog.Error("calgrid failed", err)
		os.Exit(1)
	}
}
