// Package cli contains the hdmictl command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig   = "config"
	generalFlagName     = "name"
	generalFlagBus      = "bus"
	generalFlagSimulate = "simulate"
	generalFlagDebug    = "debug"
	generalFlagLogLevel = "log-level"
	generalFlagLogFile  = "log-file"

	edidFlagRaw  = "raw"
	regsFlagPage = "page"
)

var app = &cli.App{
	Name:            "hdmictl",
	Usage:           "inspect and drive a TDA998x HDMI transmitter",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    generalFlagConfig,
			Aliases: []string{"c"},
			Usage:   "load the transmitter from configuration `FILE`",
		},
		&cli.StringFlag{
			Name:  generalFlagName,
			Usage: "name of the component to use from the config file (default: first tda998x)",
		},
		&cli.StringFlag{
			Name:  generalFlagBus,
			Usage: "I2C bus the transmitter is on, when no config file is given",
		},
		&cli.BoolFlag{
			Name:  generalFlagSimulate,
			Usage: "drive a simulated transmitter with an HDMI monitor attached",
		},
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  generalFlagLogLevel,
			Value: "warn",
			Usage: "minimum level of driver logs: debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  generalFlagLogFile,
			Usage: "also write driver logs to `FILE`",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "detect",
			Usage:  "report the chip revision and whether a monitor is plugged in",
			Action: DetectAction,
		},
		{
			Name:  "edid",
			Usage: "read the monitor's EDID",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  edidFlagRaw,
					Usage: "write the raw bytes instead of a hex dump",
				},
			},
			Action: EDIDAction,
		},
		{
			Name:   "modes",
			Usage:  "list the CEA modes the monitor supports",
			Action: ModesAction,
		},
		{
			Name:      "power",
			Usage:     "enable or disable the audio and video ports",
			ArgsUsage: "on|off",
			Action:    PowerAction,
		},
		{
			Name:      "modeset",
			Usage:     "program the output for a CEA mode",
			ArgsUsage: "WIDTHxHEIGHT[@REFRESH][i]",
			Action:    ModeSetAction,
		},
		{
			Name:  "regs",
			Usage: "dump one register page",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     regsFlagPage,
					Usage:    "page number, decimal or 0x prefixed",
					Required: true,
				},
			},
			Action: RegsAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
