package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the config and data directories.
const AppName = "yosoku"

// PathResolver finds the config directory and chain sources.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver inspects the environment once. It never fails: missing pieces fall back
// to the executable or temp directory.
func NewPathResolver() *PathResolver {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	execDir, err := GetExecutableDir()
	if err != nil {
		log.Debugf("Could not determine executable directory: %v", err)
		execDir = "."
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     configDirFor(runtime.GOOS, homeDir, os.Getenv),
	}
	log.Debugf("PathResolver: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr
}

// configDirFor picks the platform config directory.
func configDirFor(goos, homeDir string, getenv func(string) string) string {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// ConfigDir is the preferred config directory. It may not exist yet.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// DataDir holds chain sources and snapshots under the config directory.
func (pr *PathResolver) DataDir() string {
	return filepath.Join(pr.configDir, "data")
}

// ConfigPath returns a writable location for filename, trying the config directory first,
// then ~/.yosoku, the temp directory and finally the executable directory.
func (pr *PathResolver) ConfigPath(filename string) string {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for i, dir := range candidates {
		if CheckDirStatus(dir).Writable {
			if i > 0 {
				log.Warnf("Using fallback config location: %s", dir)
			}
			return filepath.Join(dir, filename)
		}
	}
	return filepath.Join(os.TempDir(), filename)
}

// ResolveSource locates a chain source given on the command line or in config. Absolute
// paths and paths that exist relative to the working directory are used as is; otherwise
// the data and executable directories are searched. The input is returned unchanged when
// nothing matches so the caller reports the path the user wrote.
func (pr *PathResolver) ResolveSource(path string) string {
	if filepath.IsAbs(path) || FileExists(path) {
		return path
	}
	for _, dir := range []string{pr.DataDir(), pr.executableDir} {
		candidate := filepath.Join(dir, path)
		if FileExists(candidate) {
			log.Debugf("Resolved source %s to %s", path, candidate)
			return candidate
		}
	}
	return path
}

// ResolveSources applies ResolveSource to each path.
func (pr *PathResolver) ResolveSources(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = pr.ResolveSource(p)
	}
	return out
}
