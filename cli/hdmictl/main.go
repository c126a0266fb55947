// Package main is the hdmictl command itself.
package main

import (
	"os"

	"github.com/saimusdev/bone-rt/cli"
	"github.com/saimusdev/bone-rt/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Fatal(err)
	}
}
