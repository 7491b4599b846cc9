// Package installer downloads a modpack archive and swaps it in for the
// current mods folder, keeping one level of backup.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrGidor/DarkRL-Installer/structs"
	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
)

const (
	DefaultURL     = "https://mrgidor.github.io/downloads/DarkRL-Modpack.zip"
	StagingDirName = "modpack_installer"
	ArchiveName    = "modpack.zip"
	ModsDirName    = "mods"
)

// Fetcher downloads url into destPath.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// ConfirmFunc asks the user a yes/no question. Only an explicit true lets the
// install continue.
type ConfirmFunc func(prompt string) (bool, error)

type Options struct {
	// URL of the modpack archive. Defaults to DefaultURL.
	URL string
	// Root is the Minecraft directory that holds the mods folder.
	Root string
	// StagingDir holds the downloaded archive. Defaults to Root/modpack_installer.
	StagingDir string
	// Yes skips the confirmation before replacing an existing mods folder.
	Yes     bool
	Confirm ConfirmFunc
	Fetcher Fetcher
}

type Result struct {
	Aborted     bool
	ModsPath    string
	BackupPath  string
	ArchivePath string
	Entries     []structs.Entry
}

type Installer struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) (*Installer, error) {
	if opts.Root == "" {
		return nil, goerr.New("minecraft directory is required", goerr.T(util.ErrTagConfig))
	}
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.StagingDir == "" {
		opts.StagingDir = filepath.Join(opts.Root, StagingDirName)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = util.NewFetcher(util.DefaultTimeout)
	}
	if opts.Confirm == nil {
		opts.Confirm = func(prompt string) (bool, error) {
			return util.ConfirmYN(prompt, false, pterm.Warning.MessageStyle)
		}
	}

	return &Installer{opts: opts, now: time.Now}, nil
}

func (i *Installer) ModsPath() string {
	return filepath.Join(i.opts.Root, ModsDirName)
}

func (i *Installer) ArchivePath() string {
	return filepath.Join(i.opts.StagingDir, ArchiveName)
}

// Run performs the install into an existing Minecraft directory. The user is
// asked before anything is downloaded or moved; declining returns a Result with Aborted set and a nil error.
// Nothing already done is undone when a later step fails.
func (i *Installer) Run(ctx context.Context) (*Result, error) {
	mods := i.ModsPath()
	archive := i.ArchivePath()
	result := &Result{ModsPath: mods, ArchivePath: archive}

	if err := i.checkRoot(); err != nil {
		return nil, err
	}

	proceed, err := i.confirm(mods)
	if err != nil {
		return nil, err
	}
	if !proceed {
		pterm.Info.Println("Aborted by user.")
		result.Aborted = true
		return result, nil
	}

	if err := Materialize(i.opts.StagingDir); err != nil {
		return nil, err
	}

	pterm.Info.Printfln("Downloading modpack from %s...", i.opts.URL)
	if err := i.opts.Fetcher.Fetch(ctx, i.opts.URL, archive); err != nil {
		return nil, goerr.Wrap(err, "unable to download modpack")
	}
	pterm.Info.Printfln("Downloaded to %s", archive)

	// A bad download must not cost the user their current mods.
	if _, err := Validate(archive); err != nil {
		return nil, err
	}

	backup, err := BackupAndSwap(mods)
	if err != nil {
		return nil, err
	}
	result.BackupPath = backup

	if err := Materialize(mods); err != nil {
		return nil, err
	}

	entries, err := Extract(ctx, archive, mods)
	if err != nil {
		return nil, err
	}
	result.Entries = entries

	i.writeManifest(result)

	pterm.Success.Println("Installation complete. You may now start Forge/Fabric.")
	return result, nil
}

// checkRoot fails when the Minecraft directory is missing; the installer never
// creates it.
func (i *Installer) checkRoot() error {
	ok, err := util.IsDir(i.opts.Root)
	if err != nil {
		return goerr.Wrap(err, "unable to check minecraft directory", goerr.V("path", i.opts.Root), goerr.T(util.ErrTagConfig))
	}
	if !ok {
		return goerr.New("minecraft directory not found, start the launcher once first", goerr.V("path", i.opts.Root), goerr.T(util.ErrTagConfig))
	}
	return nil
}

func (i *Installer) confirm(mods string) (bool, error) {
	exists, err := util.IsDir(mods)
	if err != nil {
		return false, goerr.Wrap(err, "unable to check mods folder", goerr.V("path", mods), goerr.T(util.ErrTagFilesystem))
	}
	if !exists || i.opts.Yes {
		return true, nil
	}

	prompt := fmt.Sprintf("Existing mods folder found at %s. Rename to %s and install new mods?", mods, filepath.Base(BackupPath(mods)))
	if previous, err := util.ReadManifest(i.opts.StagingDir); err == nil {
		prompt = fmt.Sprintf("%s\n(last installed from %s on %s)", prompt, previous.Url, previous.InstalledAt.Local().Format(time.RFC1123))
	}

	ok, err := i.opts.Confirm(prompt)
	if err != nil {
		return false, goerr.Wrap(err, "unable to read confirmation")
	}
	return ok, nil
}

func (i *Installer) writeManifest(result *Result) {
	manifest := structs.Manifest{
		Url:         i.opts.URL,
		InstalledAt: i.now().UTC(),
		ModsPath:    result.ModsPath,
		BackupPath:  result.BackupPath,
		Entries:     result.Entries,
	}
	if fi, err := os.Stat(result.ArchivePath); err == nil {
		manifest.ArchiveSize = fi.Size()
	}

	if err := util.WriteManifest(i.opts.StagingDir, manifest); err != nil {
		pterm.Warning.Printfln("Unable to record install: %s", err)
	}
}
