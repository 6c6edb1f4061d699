// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"log/slog"
	"os"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// DefaultCollisionSuffix is inserted before the first dot of a filename that is already taken.
const DefaultCollisionSuffix = "_new"

// Configuration represents the settings of one upload destination.
//
// Must not be modified once a Handler or Processor has been derived from it.
type Configuration struct {
	// The upload destination. Uploaded files are reported as WriteToPath + "/" + filename.
	WriteToPath string

	// Where the files go. Defaults to the operating system's filesystem.
	Fs afero.Fs

	// Inserted into the name of files that would clash with an existing one.
	CollisionSuffix string

	// Use filenames as sent by the client, including any path separators.
	// Only ever enable this to replicate the behaviour of older implementations.
	AllowUnsafeFilenames bool

	// Set this to reduce the range of acceptable runes in filenames.
	RestrictFilenamesTo []*unicode.RangeTable

	// Enforce a particular Unicode normalization form on filenames.
	UnicodeForm *struct{ Use norm.Form }

	// Optional.
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewDefaultConfiguration creates a new default configuration.
func NewDefaultConfiguration(targetDirectory string) *Configuration {
	return &Configuration{
		WriteToPath:     targetDirectory,
		Fs:              afero.NewOsFs(),
		CollisionSuffix: DefaultCollisionSuffix,
	}
}

// Validate rejects formally incorrect configurations, and fills in defaults.
func (c *Configuration) Validate() error {
	if c.WriteToPath == "" {
		return errors.New("The destination path is missing")
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.CollisionSuffix == "" {
		c.CollisionSuffix = DefaultCollisionSuffix
	}
	// must be a directory
	finfo, err := c.Fs.Stat(c.WriteToPath)
	if err != nil {
		return err
	}
	if !finfo.IsDir() {
		return &os.PathError{Op: "stat", Path: c.WriteToPath, Err: errors.New("not a directory or mount point")}
	}
	return nil
}

func (c *Configuration) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Configuration) unicodeForm() *norm.Form {
	if c.UnicodeForm == nil {
		return nil
	}
	return &c.UnicodeForm.Use
}
