package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"github.com/vyPal/cmmc/lib/logging"
)

const version = "1.0.0"

var commands []*cli.Command

// outputFlags are shared by every command that prints.
var outputFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Print debug messages",
	},
}

func setupOutput(c *cli.Context) {
	if c.Bool("no-color") {
		logging.DisableColor()
	}
	logging.SetVerbose(c.Bool("verbose"))
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "cmmc",
		Usage:                  "Name analysis for C-- abstract syntax trees",
		Version:                version,
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logging.PrintErrorMessage("Error", err)
		os.Exit(1)
	}
}
