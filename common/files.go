package common

import (
	"os"
	"path/filepath"
)

func IsFullPath(path string) bool {
	l := len(path)
	if l == 0 {
		return false
	}
	if path[0] == '/' || path[0] == '\\' {
		return true
	}
	if l >= 2 && path[1] == ':' {
		// Windows
		return true
	}
	return false
}

func Join(dir, subpath string) string {
	if IsFullPath(subpath) {
		return subpath
	}
	return filepath.Join(dir, subpath)
}

// DefaultToExecutable returns full path. If input path is relative, it will considered relative to
// the folder of the executable
func DefaultToExecutable(path string) string {
	ex, _ := os.Executable()
	return Join(filepath.Dir(ex), path)
}

// DefaultToWorkingDir returns full path. If input path is relative, it will considered relative to
// the current working directory
func DefaultToWorkingDir(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return Join(wd, path)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
