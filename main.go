package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrGidor/DarkRL-Installer/installer"
	"github.com/MrGidor/DarkRL-Installer/platform"
	"github.com/MrGidor/DarkRL-Installer/structs"
	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/urfave/cli/v3"
)

func init() {
	if util.ReleaseVersion == "" || util.ReleaseVersion == "main" {
		util.ReleaseVersion = "v0.0.0-beta.0"
	}

	if util.GitCommit == "" {
		util.GitCommit = "Dev"
	}

	util.UserAgent = fmt.Sprintf("darkrl-installer/%s", strings.TrimPrefix(util.ReleaseVersion, "v"))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args)
	cancel()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string) int {
	var cfg config
	var logFile *os.File
	defer func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}()

	cmd := &cli.Command{
		Name:    "darkrl-installer",
		Usage:   "Modpack Installer (Windows/macOS/Linux)",
		Version: fmt.Sprintf("%s (%s)", util.ReleaseVersion, util.GitCommit),
		Flags:   cfg.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile = setupOutput(&cfg)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return install(ctx, &cfg)
		},
		Commands: []*cli.Command{
			cmdSelfUpdate(),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		pterm.Error.Printfln("%s: %s", util.Phase(err), err.Error())
		return util.ExitCode(err)
	}
	return util.ExitOK
}

// setupOutput tees pterm output to the log file and applies the styling flags.
func setupOutput(cfg *config) *os.File {
	var logFile *os.File
	util.LogMw = os.Stdout
	if cfg.logFile != "" {
		f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			pterm.Warning.Printfln("Unable to open log file %s: %s", cfg.logFile, err)
		} else {
			logFile = f
			util.LogMw = io.MultiWriter(os.Stdout, util.NewCustomWriter(f))
		}
	}
	pterm.SetDefaultOutput(util.LogMw)

	pterm.Debug.Prefix = pterm.Prefix{
		Text:  "DEBUG",
		Style: pterm.NewStyle(pterm.BgLightMagenta, pterm.FgBlack),
	}
	pterm.Debug.MessageStyle = pterm.NewStyle(98)

	if cfg.noColours {
		pterm.DisableStyling()
	}
	if cfg.verbose {
		pterm.EnableDebugMessages()
		pterm.Debug.Println("Verbose output enabled")
	}

	return logFile
}

func printBanner() {
	logo, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Dark", pterm.NewStyle(pterm.FgGray)),
		putils.LettersFromStringWithStyle("RL", pterm.NewStyle(pterm.FgRed))).Srender()
	pterm.DefaultCenter.Println(logo)
	pterm.DefaultCenter.WithCenterEachLineSeparately().Printfln("Modpack installer version: %s(%s)\n%s", util.ReleaseVersion, util.GitCommit, time.Now().UTC().Format(time.RFC1123))
}

func install(ctx context.Context, cfg *config) error {
	printBanner()

	info, err := platform.Detect(ctx)
	if err != nil {
		return goerr.Wrap(err, "host detection cancelled")
	}
	pterm.Debug.Printfln("Host: %s/%s %s %s, family %q (%s)", info.OS, info.Arch, info.Distro, info.Version, info.Family, info.Platform)

	root := cfg.root
	if root == "" {
		root, err = platform.ResolveRoot(info.Platform, os.LookupEnv)
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return goerr.Wrap(err, "unable to get absolute path", goerr.V("root", cfg.root), goerr.T(util.ErrTagConfig))
	}
	pterm.Debug.Printfln("Minecraft directory: %s", root)

	stagingDir := cfg.installerDir
	if stagingDir != "" {
		if stagingDir, err = filepath.Abs(stagingDir); err != nil {
			return goerr.Wrap(err, "unable to get absolute path", goerr.V("installer-dir", cfg.installerDir))
		}
	}

	inst, err := installer.New(installer.Options{
		URL:        cfg.url,
		Root:       root,
		StagingDir: stagingDir,
		Yes:        cfg.yes,
		Fetcher:    util.NewFetcher(cfg.timeout),
	})
	if err != nil {
		return err
	}

	result, err := inst.Run(ctx)
	if err != nil {
		return err
	}
	if !result.Aborted {
		pterm.Debug.Printfln("Installed %d files into %s", len(structs.Files(result.Entries)), result.ModsPath)
	}
	return nil
}
