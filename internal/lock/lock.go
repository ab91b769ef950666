// Package lock keeps two upgrade runs from mutating the same working tree.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/ladder/internal/messages"
)

// ErrLocked is returned when another process holds the lock for a project.
var ErrLocked = errors.New("project is locked by another upgrade")

var lockDir = os.TempDir
var flockFn = unix.Flock
var lockSleep = time.Sleep

var (
	lockWaitTimeout = 2 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// Lock is a held advisory lock.
type Lock struct {
	file *os.File
	path string
}

// PathFor returns the lock file path for projectPath.
func PathFor(projectPath string) (string, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir(), "ladder-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the exclusive lock for projectPath, waiting briefly for a
// concurrent holder before failing with ErrLocked.
func Acquire(projectPath string) (*Lock, error) {
	path, err := PathFor(projectPath)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, projectPath, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(file); err != nil {
		_ = file.Close()
		if errors.Is(err, ErrLocked) {
			return nil, fmt.Errorf("%w: "+messages.LockHeldFmt, ErrLocked, projectPath)
		}
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &Lock{file: file, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := flockFn(int(file.Fd()), unix.LOCK_UN); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func lockFile(file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return ErrLocked
		}
		lockSleep(lockPollEvery)
	}
}
