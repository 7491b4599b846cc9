package util

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pterm/pterm"
)

const (
	DefaultBufferSize = 32 * 1024
	DefaultTimeout    = 60 * time.Second
)

// Fetcher streams a single remote file to disk. It never resumes, retries or
// verifies what it downloaded.
type Fetcher struct {
	client     *grab.Client
	bufferSize int
	quiet      bool
}

// NewFetcher creates a fetcher whose connect, TLS handshake and response
// header phases are bounded by timeout. A zero timeout disables the bound.
func NewFetcher(timeout time.Duration) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
		transport.TLSHandshakeTimeout = timeout
		transport.ResponseHeaderTimeout = timeout
	}

	client := grab.NewClient()
	client.HTTPClient = &http.Client{Transport: transport}
	client.UserAgent = UserAgent

	return &Fetcher{
		client:     client,
		bufferSize: DefaultBufferSize,
	}
}

// SetBufferSize changes the chunk size used when writing the body to disk.
func (f *Fetcher) SetBufferSize(size int) {
	if size > 0 {
		f.bufferSize = size
	}
}

// SetQuiet disables the progress bar.
func (f *Fetcher) SetQuiet(quiet bool) {
	f.quiet = quiet
}

// Fetch downloads url into destPath, creating or truncating the file.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	req, err := grab.NewRequest(destPath, url)
	if err != nil {
		return goerr.Wrap(err, "invalid download request", goerr.V("url", url), goerr.T(ErrTagNetwork))
	}
	req = req.WithContext(ctx)
	req.NoResume = true
	req.BufferSize = f.bufferSize

	pterm.Debug.Printfln("Downloading %s to %s", url, destPath)
	resp := f.client.Do(req)

	if !f.quiet {
		f.track(resp)
	}

	if err := resp.Err(); err != nil {
		return classifyFetchError(err, url, destPath)
	}

	pterm.Debug.Printfln("Downloaded %d bytes to %s", resp.BytesComplete(), resp.Filename)
	return nil
}

func (f *Fetcher) track(resp *grab.Response) {
	p, err := pterm.DefaultProgressbar.WithTitle("Downloading...").WithTotal(100).Start()
	if err != nil {
		pterm.Debug.Printfln("Unable to start progress bar: %s", err)
		return
	}

	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			p.Current = int(resp.Progress() * 100)
		case <-resp.Done:
			if resp.Err() == nil {
				p.Current = 100
				p.UpdateTitle("Download complete")
			} else {
				p.UpdateTitle("Download failed")
			}
			_, _ = p.Stop()
			return
		}
	}
}

func classifyFetchError(err error, url, destPath string) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return goerr.Wrap(err, "unable to write archive", goerr.V("path", destPath), goerr.T(ErrTagFilesystem))
	}

	var status grab.StatusCodeError
	if errors.As(err, &status) {
		return goerr.Wrap(err, "server rejected download", goerr.V("url", url), goerr.V("status", int(status)), goerr.T(ErrTagNetwork))
	}

	return goerr.Wrap(err, "download failed", goerr.V("url", url), goerr.T(ErrTagNetwork))
}
