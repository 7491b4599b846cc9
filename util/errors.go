package util

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error kinds surfaced by the installer. Each one maps to its own exit code.
var (
	ErrTagConfig     = goerr.NewTag("config")
	ErrTagNetwork    = goerr.NewTag("network")
	ErrTagArchive    = goerr.NewTag("archive")
	ErrTagFilesystem = goerr.NewTag("filesystem")
)

const (
	ExitOK = iota
	ExitConfig
	ExitNetwork
	ExitArchive
	ExitOther
)

// ExitCode maps an error returned by the install pipeline to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case goerr.HasTag(err, ErrTagConfig):
		return ExitConfig
	case goerr.HasTag(err, ErrTagNetwork):
		return ExitNetwork
	case goerr.HasTag(err, ErrTagArchive):
		return ExitArchive
	default:
		return ExitOther
	}
}

// Phase names the failed step for the single line error message.
func Phase(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagConfig):
		return "Failed to determine Minecraft directory"
	case goerr.HasTag(err, ErrTagNetwork):
		return "Network error"
	case goerr.HasTag(err, ErrTagArchive):
		return "Downloaded file is not a valid zip"
	case goerr.HasTag(err, ErrTagFilesystem):
		return "Filesystem error"
	default:
		return "An error occurred"
	}
}
