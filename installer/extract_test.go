package installer

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "modpack.zip")
	writeZip(t, archive, map[string]string{
		"config.json":     `{"pack":"darkrl"}`,
		"subdir/file.dat": "\x00\x01binary\xff",
	})

	dest := filepath.Join(dir, "mods")
	entries, err := Extract(context.Background(), archive, dest)
	gt.NoError(t, err)
	gt.Equal(t, len(entries), 2)

	gt.Equal(t, readFile(t, filepath.Join(dest, "config.json")), `{"pack":"darkrl"}`)
	gt.Equal(t, readFile(t, filepath.Join(dest, "subdir", "file.dat")), "\x00\x01binary\xff")
}

func TestExtractOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "modpack.zip")
	writeZip(t, archive, map[string]string{"config.json": "new"})

	dest := filepath.Join(dir, "mods")
	writeFile(t, filepath.Join(dest, "config.json"), "old and longer")

	_, err := Extract(context.Background(), archive, dest)
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, filepath.Join(dest, "config.json")), "new")
}

func TestExtractDirectoryEntries(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "modpack.zip")
	writeZip(t, archive, map[string]string{
		"config/":         "",
		"config/empty/":   "",
		"config/mod.toml": "a = 1",
		"jei-1.20.1.jar":  "jar",
	})

	dest := filepath.Join(dir, "mods")
	_, err := Extract(context.Background(), archive, dest)
	gt.NoError(t, err)
	gt.Equal(t, listTree(t, dest), []string{"config", "config/empty", "config/mod.toml", "jei-1.20.1.jar"})
}

func TestExtractMalformedArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "modpack.zip")
	writeFile(t, archive, "<html>404 not found</html>")

	dest := filepath.Join(dir, "mods")
	_, err := Extract(context.Background(), archive, dest)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, util.ErrTagArchive))
	gt.Equal(t, util.ExitCode(err), util.ExitArchive)
	gt.False(t, exists(t, dest))
}

func TestExtractMalformedArchiveLeavesDestinationEmpty(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "modpack.zip")
	writeZip(t, archive, map[string]string{"a.txt": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "b.txt": "b"})

	// Flip a byte inside the first entry's data so its CRC no longer matches.
	raw, err := os.ReadFile(archive)
	gt.NoError(t, err)
	zr, err := zip.OpenReader(archive)
	gt.NoError(t, err)
	offset, err := zr.File[0].DataOffset()
	gt.NoError(t, err)
	gt.NoError(t, zr.Close())
	raw[offset] ^= 0xff
	gt.NoError(t, os.WriteFile(archive, raw, 0644))

	dest := filepath.Join(dir, "mods")
	gt.NoError(t, os.MkdirAll(dest, 0755))

	_, err = Extract(context.Background(), archive, dest)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, util.ErrTagArchive))
	gt.Equal(t, len(listTree(t, dest)), 0)
}

func TestValidateRejectsEscapingEntries(t *testing.T) {
	for _, name := range []string{"../evil.txt", "/etc/evil", "a/../../evil"} {
		t.Run(name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), "modpack.zip")
			writeZip(t, archive, map[string]string{name: "x"})

			_, err := Validate(archive)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, util.ErrTagArchive))
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "missing.zip"))
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, util.ErrTagFilesystem))
	gt.False(t, goerr.HasTag(err, util.ErrTagArchive))
}
