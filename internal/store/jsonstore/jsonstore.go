package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// JSON-backed storage. Single file, human-readable, portable.
// A sidecar <path>.lock keeps two processes from interleaving a write.

var (
	// ErrIO marks any failure reading or writing the data file.
	ErrIO = errors.New("jsonstore: io")
	// ErrLocked is returned when the lock could not be taken in time.
	ErrLocked = errors.New("jsonstore: file is locked by another process")
)

const (
	defaultLockTimeout = 3 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
)

// File reads and writes one JSON document at a fixed path.
type File struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

// Option configures a File.
type Option func(*File)

// WithLockTimeout bounds how long Read and Write wait for the lock.
func WithLockTimeout(d time.Duration) Option {
	return func(f *File) {
		if d > 0 {
			f.lockTimeout = d
		}
	}
}

// New returns a File for path. Nothing touches the disk until Read or Write.
func New(path string, opts ...Option) *File {
	f := &File{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the data file path.
func (f *File) Path() string { return f.path }

// Read returns the file contents. A missing file yields an error matching both
// ErrIO and os.ErrNotExist.
func (f *File) Read(ctx context.Context) ([]byte, error) {
	if _, err := os.Stat(f.path); err != nil {
		return nil, ioErr("stat", err)
	}

	unlock, err := f.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, ioErr("read file", err)
	}
	return b, nil
}

// Write replaces the file atomically: the data goes to a temp file in the same
// directory, is synced, then renamed over the target.
func (f *File) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioErr("mkdir", err)
	}

	unlock, err := f.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return ioErr("create temp", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ioErr("write file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return ioErr("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("close", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return ioErr("chmod", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return ioErr("rename", err)
	}
	committed = true
	return nil
}

func (f *File) acquire(ctx context.Context, exclusive bool) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, f.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return nil, ioErr("mkdir", err)
		}
		locked, err = f.lock.TryLockContext(ctx, lockRetryInterval)
	} else {
		locked, err = f.lock.TryRLockContext(ctx, lockRetryInterval)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, f.lock.Path())
		}
		return nil, ioErr("lock", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, f.lock.Path())
	}
	return func() { _ = f.lock.Unlock() }, nil
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
