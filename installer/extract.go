package installer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrGidor/DarkRL-Installer/structs"
	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/codeclysm/extract/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
)

// Validate checks that archivePath is a well formed zip archive: the central
// directory parses, every entry decompresses with a matching CRC, and no entry
// points outside the extraction folder. Nothing is written to disk.
func Validate(archivePath string) ([]structs.Entry, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		if r != nil {
			_ = r.Close()
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, goerr.Wrap(err, "unable to open archive", goerr.V("path", archivePath), goerr.T(util.ErrTagFilesystem))
		}
		return nil, goerr.Wrap(err, "not a valid zip archive", goerr.V("path", archivePath), goerr.T(util.ErrTagArchive))
	}
	defer r.Close()

	entries := make([]structs.Entry, 0, len(r.File))
	for _, f := range r.File {
		if !isLocalName(f.Name) {
			return nil, goerr.New("archive entry escapes destination", goerr.V("entry", f.Name), goerr.T(util.ErrTagArchive))
		}

		if f.FileInfo().IsDir() {
			entries = append(entries, structs.Entry{Name: f.Name, IsDir: true})
			continue
		}

		if err := checkEntry(f); err != nil {
			return nil, goerr.Wrap(err, "corrupt archive entry", goerr.V("entry", f.Name), goerr.T(util.ErrTagArchive))
		}
		entries = append(entries, structs.Entry{Name: f.Name, Size: f.UncompressedSize64})
	}

	pterm.Debug.Printfln("Archive %s has %d entries", archivePath, len(entries))
	return entries, nil
}

func checkEntry(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return err
	}
	if uint64(n) != f.UncompressedSize64 {
		return fmt.Errorf("size mismatch: header says %d, got %d", f.UncompressedSize64, n)
	}
	return nil
}

func isLocalName(name string) bool {
	name = strings.TrimSuffix(strings.ReplaceAll(name, "\\", "/"), "/")
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	return filepath.IsLocal(filepath.FromSlash(name))
}

// Extract validates archivePath and then unpacks every entry under dest,
// keeping the archive's relative paths and overwriting existing files.
// A malformed archive fails before anything is created.
func Extract(ctx context.Context, archivePath, dest string) ([]structs.Entry, error) {
	entries, err := Validate(archivePath)
	if err != nil {
		return nil, err
	}

	pterm.Info.Printfln("Extracting %s -> %s ...", archivePath, dest)
	if err := Materialize(dest); err != nil {
		return nil, err
	}
	for _, e := range entries {
		parent := filepath.Dir(filepath.Join(dest, filepath.FromSlash(e.Name)))
		if e.IsDir {
			parent = filepath.Join(dest, filepath.FromSlash(e.Name))
		}
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, goerr.Wrap(err, "unable to create folder", goerr.V("path", parent), goerr.T(util.ErrTagFilesystem))
		}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to open archive", goerr.V("path", archivePath), goerr.T(util.ErrTagFilesystem))
	}
	defer f.Close()

	if err := extract.Zip(ctx, f, dest, nil); err != nil {
		if ctx.Err() != nil {
			return nil, goerr.Wrap(ctx.Err(), "extraction cancelled", goerr.V("dest", dest))
		}
		return nil, goerr.Wrap(err, "unable to extract archive", goerr.V("dest", dest), goerr.T(util.ErrTagFilesystem))
	}

	pterm.Info.Println("Extraction complete.")
	return entries, nil
}
