// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"strings"

	"github.com/spf13/afero"
)

// resolveDestination derives where an upload named 'filename' goes.
//
// If something already exists at "dir/filename" the suffix is inserted before
// the first dot, "a.tar.gz" becoming "a_new.tar.gz", or appended to names without any dot.
// The rewritten name is not checked again and an existing file of that name will be replaced.
func resolveDestination(fs afero.Fs, dir, filename, suffix string) string {
	candidate := dir + "/" + filename
	if _, err := fs.Stat(candidate); err != nil {
		return candidate
	}

	if name, ext, found := strings.Cut(filename, "."); found {
		return dir + "/" + name + suffix + "." + ext
	}
	return candidate + suffix
}
