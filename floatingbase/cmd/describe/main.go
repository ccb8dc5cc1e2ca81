// Package main prints how a URDF robot model is split into a floating base and actuated joints.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rbd/floatingbase"
	"go.viam.com/rbd/logging"
)

const (
	flagURDF    = "urdf"
	flagSystem  = "system"
	flagDebug   = "debug"
	flagLogFile = "log-file"
)

func main() {
	app := &cli.App{
		Name:      "describe",
		Usage:     "describe the floating-base system of a URDF robot",
		UsageText: "describe --urdf robot.urdf [--system robot.yaml]",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     flagURDF,
				Required: true,
				Usage:    "URDF file of the robot",
			},
			&cli.PathFlag{
				Name:  flagSystem,
				Usage: "YAML file with the feet and default pose of the robot",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "also write the log to this file, rotated every 10 MB",
			},
		},
		Action: describeAction,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func describeAction(c *cli.Context) error {
	logger := logging.NewLogger("describe")
	if c.Bool(flagDebug) {
		logger = logging.NewDebugLogger("describe")
	}
	if path := c.Path(flagLogFile); path != "" {
		logger.AddAppender(logging.NewFileAppender(path, 10, 3))
	}
	//nolint:errcheck
	defer logger.Sync()
	system, err := floatingbase.NewSystemFromURDFFile(c.Path(flagURDF), c.Path(flagSystem), logger)
	if err != nil {
		return errors.Wrapf(err, "cannot describe %q", c.Path(flagURDF))
	}
	fmt.Fprintln(c.App.Writer, system)
	return nil
}
