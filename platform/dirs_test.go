package platform

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrGidor/DarkRL-Installer/util"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func envOf(vars map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestResolveRoot(t *testing.T) {
	var tests = []struct {
		name     string
		platform Platform
		env      map[string]string
		want     string
	}{
		{
			name:     "windows uses APPDATA",
			platform: Windows,
			env:      map[string]string{"APPDATA": "/users/steve/AppData/Roaming"},
			want:     filepath.Join("/users/steve/AppData/Roaming", ".minecraft"),
		},
		{
			name:     "macos uses application support",
			platform: MacOS,
			env:      map[string]string{"HOME": "/Users/steve"},
			want:     filepath.Join("/Users/steve", "Library", "Application Support", "minecraft"),
		},
		{
			name:     "unix uses dot minecraft",
			platform: Unix,
			env:      map[string]string{"HOME": "/home/steve"},
			want:     filepath.Join("/home/steve", ".minecraft"),
		},
		{
			name:     "macos ignores APPDATA",
			platform: MacOS,
			env:      map[string]string{"HOME": "/Users/steve", "APPDATA": "/elsewhere"},
			want:     filepath.Join("/Users/steve", "Library", "Application Support", "minecraft"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRoot(tt.platform, envOf(tt.env))
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestResolveRootMissingAppData(t *testing.T) {
	for _, env := range []map[string]string{
		{},
		{"APPDATA": ""},
		{"HOME": "/home/steve"},
	} {
		_, err := ResolveRoot(Windows, envOf(env))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, util.ErrTagConfig))
		gt.Equal(t, util.ExitCode(err), util.ExitConfig)
	}
}

func TestResolveRootWithoutHomeNeverConfigErrors(t *testing.T) {
	// HOME is unset, so the account database is consulted instead.
	for _, p := range []Platform{MacOS, Unix} {
		got, err := ResolveRoot(p, envOf(map[string]string{}))
		if err != nil {
			t.Skipf("no account home directory on this host: %v", err)
		}
		switch p {
		case MacOS:
			gt.True(t, strings.HasSuffix(got, filepath.Join("Application Support", "minecraft")))
		case Unix:
			gt.True(t, strings.HasSuffix(got, ".minecraft"))
		}
	}
}

func TestFromGOOS(t *testing.T) {
	gt.Equal(t, FromGOOS("windows"), Windows)
	gt.Equal(t, FromGOOS("darwin"), MacOS)
	gt.Equal(t, FromGOOS("linux"), Unix)
	gt.Equal(t, FromGOOS("freebsd"), Unix)
	gt.Equal(t, Windows.String(), "windows")
}
