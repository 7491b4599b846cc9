package installer

import (
	"os"
	"path/filepath"

	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
)

// BackupPath returns the sibling folder used to keep the previous contents of
// dir, e.g. ".minecraft/mods" -> ".minecraft/mods-old".
func BackupPath(dir string) string {
	dir = filepath.Clean(dir)
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+"-old")
}

// BackupAndSwap moves dir aside to BackupPath(dir), removing any earlier
// backup first. It returns the backup path, or "" when dir did not exist.
//
// The two steps are not atomic. If the process dies after the old backup is
// removed but before the rename, dir is untouched and no backup exists. If the
// recursive removal itself fails part way, an incomplete backup folder is left
// behind and the error is returned without touching dir. Making this atomic
// would need versioned folders behind a symlink swap.
func BackupAndSwap(dir string) (string, error) {
	backup := BackupPath(dir)

	backupExists, err := util.PathExists(backup)
	if err != nil {
		return "", goerr.Wrap(err, "unable to check backup folder", goerr.V("path", backup), goerr.T(util.ErrTagFilesystem))
	}
	if backupExists {
		pterm.Info.Printfln("Removing existing %s...", filepath.Base(backup))
		if err := os.RemoveAll(backup); err != nil {
			return "", goerr.Wrap(err, "unable to remove old backup", goerr.V("path", backup), goerr.T(util.ErrTagFilesystem))
		}
	}

	exists, err := util.PathExists(dir)
	if err != nil {
		return "", goerr.Wrap(err, "unable to check folder", goerr.V("path", dir), goerr.T(util.ErrTagFilesystem))
	}
	if !exists {
		return "", nil
	}

	pterm.Info.Printfln("Renaming current %s to %s...", filepath.Base(dir), filepath.Base(backup))
	if err := os.Rename(dir, backup); err != nil {
		return "", goerr.Wrap(err, "unable to back up folder", goerr.V("from", dir), goerr.V("to", backup), goerr.T(util.ErrTagFilesystem))
	}
	return backup, nil
}

// Materialize creates dir and any missing parents. It is a no-op when dir
// already exists.
func Materialize(dir string) error {
	exists, err := util.IsDir(dir)
	if err != nil {
		return goerr.Wrap(err, "unable to check folder", goerr.V("path", dir), goerr.T(util.ErrTagFilesystem))
	}
	if exists {
		return nil
	}

	pterm.Debug.Printfln("Creating %s", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "unable to create folder", goerr.V("path", dir), goerr.T(util.ErrTagFilesystem))
	}
	return nil
}
