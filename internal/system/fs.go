// Package system abstracts the host operations monitor-ctl performs so that
// discovery, state and stack code can run against in-memory fakes.
package system

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the subset of file operations used to inspect the target's
// data directory and to persist state and stack files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Rename replaces newpath with oldpath.
	Rename(oldpath, newpath string) error

	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool

	// ReadDir doubles as a readability check for the target data path.
	ReadDir(path string) ([]fs.DirEntry, error)
}

// CommandExecutor runs the container CLI and the compose hand-off.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteInDir runs a command with the given working directory.
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

	// LookPath reports the full path of an executable, or an error if it is not on PATH.
	LookPath(name string) (string, error)
}

var (
	hostFS       FileSystem      = &osFileSystem{}
	hostExecutor CommandExecutor = &osExecutor{}
)

// DefaultFS returns the host file system.
func DefaultFS() FileSystem {
	return hostFS
}

// DefaultExecutor returns the host command executor.
func DefaultExecutor() CommandExecutor {
	return hostExecutor
}

// WriteAtomic writes data next to path and renames it into place, creating
// the parent directory first. Readers never observe a partial file.
func WriteAtomic(fsys FileSystem, path string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *osFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (f *osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *osFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}
