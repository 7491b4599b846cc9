package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/MrGidor/DarkRL-Installer/structs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
)

const (
	ManifestName = ".manifest.json"
)

var (
	ReleaseVersion string
	GitCommit      string
	UserAgent      string
	LogMw          io.Writer
)

var httpClient = &http.Client{Timeout: DefaultTimeout}

// DoGet sends a GET request with the installer user agent and fails on anything but a 200.
func DoGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to create request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("url", url))
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, goerr.New(fmt.Sprintf("unexpected status: %s", resp.Status), goerr.V("url", url), goerr.V("body", string(b)))
	}
	return resp, nil
}

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		return fi.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func ReadManifest(dir string) (structs.Manifest, error) {
	pterm.Debug.Println("Reading manifest from", dir)
	file, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return structs.Manifest{}, err
	}

	var manifest structs.Manifest
	err = json.Unmarshal(file, &manifest)
	if err != nil {
		return structs.Manifest{}, goerr.Wrap(err, "unable to parse manifest", goerr.V("dir", dir))
	}
	return manifest, nil
}

// WriteManifest handy function to write the install manifest
func WriteManifest(dir string, manifest structs.Manifest) error {
	manifestJson, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "unable to marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), manifestJson, 0644); err != nil {
		return goerr.Wrap(err, "unable to write manifest", goerr.V("dir", dir))
	}
	return nil
}

// ConfirmYN shows an interactive yes/no prompt.
func ConfirmYN(text string, value bool, style *pterm.Style) (bool, error) {
	if style == nil {
		style = pterm.Info.MessageStyle
	}
	show, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(text).
		WithDefaultValue(value).
		WithTextStyle(style).
		Show()
	if err != nil {
		return false, goerr.Wrap(err, "interactive confirm error")
	}
	return show, nil
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\r`)

// CustomWriter strips terminal escape sequences and control characters
type CustomWriter struct {
	writer io.Writer
}

// NewCustomWriter creates a new CustomWriter.
func NewCustomWriter(writer io.Writer) *CustomWriter {
	return &CustomWriter{writer: writer}
}

// Write implements the io.Writer interface. It reports len(p) on success.
func (cw *CustomWriter) Write(p []byte) (n int, err error) {
	stripped := ansiPattern.ReplaceAll(p, []byte{})

	filtered := make([]byte, 0, len(stripped))
	for _, b := range stripped {
		if b == '\n' || b == '\t' || (b >= 0x20 && b != 0x7f) {
			filtered = append(filtered, b)
		}
	}
	if _, err := cw.writer.Write(filtered); err != nil {
		return 0, err
	}
	return len(p), nil
}
