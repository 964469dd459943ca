package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Set via -ldflags "-X github.com/ternarybob/sticker/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the build identity reported by /api/version.
type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// GetVersionInfo returns the current build identity.
func GetVersionInfo() VersionInfo {
	return VersionInfo{Version: Version, Build: Build, GitCommit: GitCommit}
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (build: %s, commit: %s)", info.Version, info.Build, info.GitCommit)
}

// LoadVersionFromFile overrides Version with the contents of a .version file next to
// the executable, when one exists and the binary was not stamped at build time.
func LoadVersionFromFile() string {
	if Version != "dev" {
		return Version
	}
	exePath, err := os.Executable()
	if err != nil {
		return Version
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(exePath), ".version"))
	if err != nil {
		return Version
	}
	if v := strings.TrimSpace(string(data)); v != "" {
		Version = v
	}
	return Version
}
