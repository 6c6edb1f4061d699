// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink // import "blitznote.com/src/http.drop/sink"

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// Files expected to be smaller than this (in bytes) don't get any space reserved.
	reserveFileSizeThreshold = 1 << 15

	// Permissions of newly created files, before umask.
	filePerm os.FileMode = 0644
)

// File is the target of exactly one uploaded part.
type File interface {
	// Reserves space on disk for the file contents. Advisory.
	SizeWillBe(numBytes int64) error

	// Flushes the contents to stable storage and closes the file.
	Persist() error

	// Closes the file without any further ado. Written contents remain.
	Zap() error

	// Name under which the file has been created.
	Name() string

	io.Writer
}

type fsFile struct {
	afero.File

	name     string
	released bool
}

// Create opens 'path' on 'fs' for writing.
// An existing file will be truncated, never appended to.
func Create(fs afero.Fs, path string) (File, error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, errors.Wrap(err, "create")
	}
	return &fsFile{File: f, name: path}, nil
}

func (f *fsFile) Name() string { return f.name }

func (f *fsFile) SizeWillBe(numBytes int64) error {
	if numBytes <= reserveFileSizeThreshold {
		return nil
	}
	fd, ok := f.File.(interface{ Fd() uintptr })
	if !ok { // not backed by the OS, for example an in-memory filesystem
		return nil
	}
	return reserve(fd.Fd(), numBytes)
}

func (f *fsFile) Persist() error {
	if f.released {
		return os.ErrClosed
	}
	f.released = true

	if err := f.File.Sync(); err != nil {
		f.File.Close()
		return errors.Wrap(err, "sync")
	}
	return errors.Wrap(f.File.Close(), "close")
}

func (f *fsFile) Zap() error {
	if f.released {
		return nil
	}
	f.released = true
	return f.File.Close()
}
