package platform

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
)

const (
	AppDataEnv = "APPDATA"
	HomeEnv    = "HOME"
)

// LookupEnv matches the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// ResolveRoot returns the Minecraft data directory for p:
//
//	Windows  %APPDATA%\.minecraft
//	MacOS    $HOME/Library/Application Support/minecraft
//	Unix     $HOME/.minecraft
//
// Only Windows requires an environment variable. On the other platforms a
// missing HOME falls back to the account database.
func ResolveRoot(p Platform, lookup LookupEnv) (string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	switch p {
	case Windows:
		appData, ok := lookup(AppDataEnv)
		if !ok || appData == "" {
			return "", goerr.New("APPDATA not set on Windows", goerr.V("platform", p.String()), goerr.T(util.ErrTagConfig))
		}
		return filepath.Join(appData, ".minecraft"), nil
	case MacOS:
		home, err := homeDir(lookup)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "minecraft"), nil
	default:
		home, err := homeDir(lookup)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".minecraft"), nil
	}
}

func homeDir(lookup LookupEnv) (string, error) {
	if home, ok := lookup(HomeEnv); ok && home != "" {
		return home, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", goerr.Wrap(err, "unable to determine home directory", goerr.T(util.ErrTagConfig))
	}
	if u.HomeDir == "" {
		return "", goerr.New("account has no home directory", goerr.V("user", u.Username), goerr.T(util.ErrTagConfig))
	}
	return u.HomeDir, nil
}
