// Package lock serializes builds that share a target, such as two projects
// with the same name mapping onto one hub repository.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Suffix is appended to the target path to form the lock file path.
const Suffix = ".lock"

// LockInfo contains the metadata stored in a lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	Project   string    `json:"project,omitempty"`
}

// ErrLocked indicates a non-stale lock is held by another build.
type ErrLocked struct {
	Target string
	Info   *LockInfo // nil if lock file is unreadable
	Path   string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("%s is in use by pid %d building %s since %s (lock file: %s)",
			e.Target, e.Info.PID, e.Info.Project, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("%s is in use (lock file: %s)", e.Target, e.Path)
}

// BuildLock guards a build target with an exclusive lock file.
type BuildLock struct {
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
}

// NewBuildLock returns a BuildLock with defaults:
// - StaleAfter: 2h
// - Now: time.Now
// - IsPIDAlive: signal 0 probe
func NewBuildLock() BuildLock {
	return BuildLock{
		StaleAfter: 2 * time.Hour,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
	}
}

// PathFor returns the lock file path guarding target.
func PathFor(target string) string {
	return filepath.Clean(target) + Suffix
}

// Lock acquires the lock on target and returns an unlock function.
// project is recorded in the lock file for the error shown to a competing
// build. The parent directory of target is created if missing.
// If already locked and not stale: returns *ErrLocked.
func (l BuildLock) Lock(target, project string) (unlock func() error, err error) {
	lockPath := PathFor(target)
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create lock directory: %w", err)
		}

		// O_EXCL makes creation the acquisition.
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			data, _ := json.Marshal(LockInfo{PID: os.Getpid(), CreatedAt: l.Now(), Project: project})
			if _, writeErr := f.Write(data); writeErr != nil {
				f.Close()
				os.Remove(lockPath)
				return nil, fmt.Errorf("failed to write lock file: %w", writeErr)
			}
			if closeErr := f.Close(); closeErr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("failed to close lock file: %w", closeErr)
			}
			return func() error {
				err := os.Remove(lockPath)
				if err != nil && !os.IsNotExist(err) {
					return err
				}
				return nil
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		info, readErr := readLockInfo(lockPath)
		if readErr != nil {
			// Unreadable: fall back to mtime, and treat a young file as held.
			stat, statErr := os.Stat(lockPath)
			if statErr != nil || l.Now().Sub(stat.ModTime()) <= l.StaleAfter {
				return nil, &ErrLocked{Target: target, Path: lockPath}
			}
		} else if !l.isStale(info) {
			return nil, &ErrLocked{Target: target, Info: info, Path: lockPath}
		}

		if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return nil, &ErrLocked{Target: target, Info: info, Path: lockPath}
		}
	}

	return nil, &ErrLocked{Target: target, Path: lockPath}
}

func readLockInfo(path string) (*LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale reports whether the holder is gone or the lock has outlived
// StaleAfter.
func (l BuildLock) isStale(info *LockInfo) bool {
	return !l.IsPIDAlive(info.PID) || l.Now().Sub(info.CreatedAt) > l.StaleAfter
}

// isPIDAlive sends signal 0 to pid. EPERM means the process exists.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
