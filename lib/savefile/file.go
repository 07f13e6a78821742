// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package savefile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// ReadFile reads the raw bytes of a container, which may be sealed.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save %s: %w", path, err)
	}
	return data, nil
}

// WriteFile atomically replaces the file at path with data. The bytes
// go to a temporary file in the same directory, which is synced and
// renamed over path; the directory is synced afterwards. Readers see
// either the old file or the new one, never a mix. The file is created
// with mode 0600.
func WriteFile(path string, data []byte) error {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary save file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary save file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary save file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary save file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming save file into place: %w", err)
	}

	parent, err := os.Open(directory)
	if err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// FileLock is an exclusive advisory lock held on a save's lock file.
type FileLock struct {
	file *os.File
}

// lockPollInterval is how often Lock retries a held lock.
const lockPollInterval = 25 * time.Millisecond

// Lock takes an exclusive flock on "<path>.lock", creating it if
// needed. It waits while another process holds the lock and gives up
// when ctx is done. The lock file is left in place after Unlock.
func Lock(ctx context.Context, path string) (*FileLock, error) {
	lockPath := path + ".lock"
	file, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &FileLock{file: file}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			file.Close()
			return nil, fmt.Errorf("locking %s: %w", lockPath, err)
		}
		select {
		case <-ctx.Done():
			file.Close()
			return nil, fmt.Errorf("waiting for lock on %s: %w", lockPath, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Unlock releases the lock. Calling it more than once is harmless.
func (lock *FileLock) Unlock() error {
	if lock.file == nil {
		return nil
	}
	err := unix.Flock(int(lock.file.Fd()), unix.LOCK_UN)
	closeErr := lock.file.Close()
	lock.file = nil
	if err != nil {
		return fmt.Errorf("unlocking save: %w", err)
	}
	return closeErr
}
