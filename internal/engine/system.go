package engine

import (
	"context"
	"os"

	"github.com/google/renameio"

	"github.com/conn-castle/ladder/internal/vcs"
)

// System is the filesystem surface the engine writes through.
type System interface {
	Stat(name string) (os.FileInfo, error)
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// WriteFileAtomic writes data through a temp file renamed over filename.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}

// VCS is the version-control surface the engine drives. *vcs.Git implements it.
type VCS interface {
	Available(ctx context.Context) bool
	HasUncommittedChanges(ctx context.Context) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	CreateBranch(ctx context.Context, name string) error
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote string, branch string) error
	CreatePullRequest(ctx context.Context, opts vcs.PROptions) (*vcs.PullRequest, error)
}
