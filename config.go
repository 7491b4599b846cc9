package main

import (
	"time"

	"github.com/MrGidor/DarkRL-Installer/installer"
	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/urfave/cli/v3"
)

type config struct {
	url          string
	yes          bool
	installerDir string
	root         string
	timeout      time.Duration
	logFile      string
	verbose      bool
	noColours    bool
}

func (c *config) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Aliases:     []string{"u"},
			Usage:       "Modpack zip URL",
			Value:       installer.DefaultURL,
			Destination: &c.url,
			Sources:     cli.EnvVars("MODPACK_URL"),
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "No prompts, overwrite existing mods",
			Destination: &c.yes,
		},
		&cli.StringFlag{
			Name:        "installer-dir",
			Usage:       "Custom installer directory (for testing)",
			Destination: &c.installerDir,
		},
		&cli.StringFlag{
			Name:        "root",
			Usage:       "Use this Minecraft directory instead of the platform default",
			Destination: &c.root,
			Sources:     cli.EnvVars("MODPACK_MINECRAFT_DIR"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Connect and response header timeout for the download, 0 to disable",
			Value:       util.DefaultTimeout,
			Destination: &c.timeout,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Write a copy of the output to this file, empty to disable",
			Value:       "modpack-installer.log",
			Destination: &c.logFile,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Verbose output",
			Destination: &c.verbose,
		},
		&cli.BoolFlag{
			Name:        "no-colours",
			Usage:       "Do not display console/terminal colours",
			Destination: &c.noColours,
		},
	}
}
