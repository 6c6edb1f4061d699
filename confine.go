// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"github.com/pkg/errors"
)

// Confine restricts the process' view of the filesystem to 'directory',
// which it may read from, write to, and create files in.
// Call this after all other files have been opened.
//
// Only has an effect on operating systems that implement unveil(2).
func Confine(directory string) error {
	if err := unveil(directory, "rwc"); err != nil {
		return errors.Wrap(err, directory)
	}
	return unveilBlock()
}
