package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/MrGidor/DarkRL-Installer/util"
	semver "github.com/hashicorp/go-version"
	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/selfupdate"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

const (
	org  = "MrGidor"
	repo = "DarkRL-Installer"
)

var (
	githubApi      = "https://api.github.com"
	githubDownload = "https://github.com"
)

type GHRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

type VersionInfo struct {
	UpdateAvailable     bool
	CurrentVersion      string
	LatestVersion       string
	Name                string
	isPreReleaseOrDraft bool
}

func cmdSelfUpdate() *cli.Command {
	var checkOnly bool

	return &cli.Command{
		Name:  "self-update",
		Usage: "Update the installer to the latest release",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "Only report whether an update is available",
				Destination: &checkOnly,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			versionInfo, err := checkForUpdate(ctx, util.ReleaseVersion)
			if err != nil {
				return err
			}
			if !versionInfo.UpdateAvailable {
				pterm.Info.Printfln("Installer is up to date (%s)", versionInfo.CurrentVersion)
				return nil
			}

			updateStyle := pterm.NewStyle(pterm.FgLightMagenta, pterm.Bold)
			pterm.Info.Printfln("%s%s -> %s", updateStyle.Sprint("Installer update available: "), versionInfo.CurrentVersion, versionInfo.LatestVersion)
			if checkOnly {
				return nil
			}
			return doUpdate(ctx, versionInfo, selfupdate.Options{})
		},
	}
}

func checkForUpdate(ctx context.Context, current string) (VersionInfo, error) {
	versionInfo := VersionInfo{CurrentVersion: current}

	releaseApi := fmt.Sprintf("%s/repos/%s/%s/releases/latest", githubApi, org, repo)
	resp, err := util.DoGet(ctx, releaseApi)
	if err != nil {
		return versionInfo, goerr.Wrap(err, "error checking for update", goerr.T(util.ErrTagNetwork))
	}
	defer resp.Body.Close()

	var release GHRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return versionInfo, goerr.Wrap(err, "error decoding release", goerr.V("url", releaseApi))
	}

	if release.Prerelease || release.Draft {
		versionInfo.isPreReleaseOrDraft = true
		return versionInfo, nil
	}

	versionInfo.LatestVersion = release.TagName
	versionInfo.Name = release.Name

	currentVersion, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return versionInfo, goerr.Wrap(err, "error parsing current version", goerr.V("version", current))
	}
	latestVersion, err := semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return versionInfo, goerr.Wrap(err, "error parsing latest version", goerr.V("version", release.TagName))
	}

	versionInfo.UpdateAvailable = latestVersion.GreaterThan(currentVersion)
	return versionInfo, nil
}

func releaseAssetName() string {
	filename := fmt.Sprintf("darkrl-installer-%s-%s", strings.ToLower(runtime.GOOS), strings.ToLower(runtime.GOARCH))
	if runtime.GOOS == "windows" {
		filename += ".exe"
	}
	return filename
}

// doUpdate downloads the release binary and its .sha256 file and replaces the
// target binary (the running executable unless opts.TargetPath is set).
func doUpdate(ctx context.Context, versionInfo VersionInfo, opts selfupdate.Options) error {
	downloadUrl := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", githubDownload, org, repo, versionInfo.LatestVersion, releaseAssetName())

	checksum, err := fetchChecksum(ctx, downloadUrl+".sha256")
	if err != nil {
		return err
	}
	pterm.Debug.Println("Update Hash: ", hex.EncodeToString(checksum))

	resp, err := util.DoGet(ctx, downloadUrl)
	if err != nil {
		return goerr.Wrap(err, "error downloading update", goerr.T(util.ErrTagNetwork))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "error reading update response", goerr.T(util.ErrTagNetwork))
	}

	opts.Checksum = checksum
	if err := selfupdate.Apply(bytes.NewReader(data), opts); err != nil {
		if rerr := selfupdate.RollbackError(err); rerr != nil {
			pterm.Error.Printfln("Failed to rollback from bad update: %s", rerr)
		}
		return goerr.Wrap(err, "error applying update")
	}

	pterm.Success.Println("Update successful!\nPlease restart the program to use the new version.")
	return nil
}

func fetchChecksum(ctx context.Context, url string) ([]byte, error) {
	resp, err := util.DoGet(ctx, url)
	if err != nil {
		return nil, goerr.Wrap(err, "error downloading hash", goerr.T(util.ErrTagNetwork))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "error reading hash response", goerr.T(util.ErrTagNetwork))
	}

	// Accept both a bare hash and sha256sum's "<hash>  <file>" format.
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return nil, goerr.New("empty hash file", goerr.V("url", url))
	}
	sum, err := hex.DecodeString(fields[0])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid hash file", goerr.V("url", url))
	}
	return sum, nil
}
