package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/aicmd/internal/domain"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns ~/.aicmd.
func AppDir() string {
	return filepath.Join(UserHomeDir(), domain.AppDirName)
}

// AppPath joins name onto AppDir.
func AppPath(name string) string {
	return filepath.Join(AppDir(), name)
}

// ExpandHome resolves a leading "~" or "~/" against the home directory.
func ExpandHome(path string) string {
	switch {
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	default:
		return path
	}
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}
