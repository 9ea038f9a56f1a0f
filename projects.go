package main

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/cmmc/lib/logging"
	"github.com/vyPal/cmmc/lib/project"
	"github.com/vyPal/cmmc/util"
)

//go:embed templates/main.yaml
var mainTemplate []byte

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new C-- analysis project",
		Category:  "project",
		ArgsUsage: "[directory]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.BoolFlag{
				Name:  "toml",
				Usage: "Write cmmconf.toml instead of cmmconf.yaml",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config without asking",
			},
		}, outputFlags...),
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	setupOutput(c)

	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}

	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return cli.Exit(color.RedString("Error creating directory: %s", err), 1)
		}
		logging.PrintInfoMessage("Created", rootDir)
	}

	name := c.String("name")
	if name == "" {
		abs, err := filepath.Abs(rootDir)
		if err != nil {
			return cli.Exit(color.RedString("Error: %s", err), 1)
		}
		name = util.PromptString("Project name", filepath.Base(abs))
	}

	conf := project.Config{}
	conf.CreateDefault(name)

	srcDir := filepath.Join(rootDir, conf.SourceDir)
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		if err := os.Mkdir(srcDir, 0755); err != nil {
			return cli.Exit(color.RedString("Error creating directory: %s", err), 1)
		}
		logging.PrintInfoMessage("Created", srcDir)
	}

	mainFile := filepath.Join(srcDir, "main.yaml")
	if _, err := os.Stat(mainFile); os.IsNotExist(err) {
		if err := os.WriteFile(mainFile, mainTemplate, 0644); err != nil {
			return cli.Exit(color.RedString("Error writing %s: %s", mainFile, err), 1)
		}
		logging.PrintInfoMessage("Created", mainFile)
	}

	confFile := filepath.Join(rootDir, project.YAMLFileName)
	if c.Bool("toml") {
		confFile = filepath.Join(rootDir, project.TOMLFileName)
	}
	saved, err := conf.Save(confFile, c.Bool("force"))
	if err != nil {
		return cli.Exit(color.RedString("Error saving config: %s", err), 1)
	}
	if !saved {
		logging.PrintWarningMessage("Skipped", confFile+" left unchanged")
		return nil
	}
	logging.Debugf("wrote %s", confFile)

	return nil
}
