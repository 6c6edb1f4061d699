// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"golang.org/x/sys/unix"
)

// Errors returned by unveil or unveilBlock.
const (
	errUnveil       unveilError = "Call 'unveil' failed"
	errUnveilE2BIG  unveilError = "Call 'unveil' failed: Per-process limit reached"
	errUnveilENOENT unveilError = "Call 'unveil' failed: Path does not exist"
	errUnveilEINVAL unveilError = "Call 'unveil' failed: Invalid value for 'permissions'"
	errUnveilEPERM  unveilError = "Call 'unveil' failed: Called after locking"
)

type unveilError string

func (e unveilError) Error() string { return string(e) }

func translateUnveilErrorCode(err error) error {
	switch err {
	case nil:
		return nil
	case unix.E2BIG:
		return errUnveilE2BIG
	case unix.ENOENT:
		return errUnveilENOENT
	case unix.EINVAL:
		return errUnveilEINVAL
	case unix.EPERM:
		return errUnveilEPERM
	}
	return unveilError(string(errUnveil) + ": " + err.Error())
}

// Registers 'path' as the only one, besides earlier registered paths, to remain accessible.
// 'perm' is a combination of "rwxc".
func unveil(path, perm string) error {
	return translateUnveilErrorCode(unix.Unveil(path, perm))
}

// Locks the view on the filesystem. Any further calls to unveil will fail.
func unveilBlock() error {
	return translateUnveilErrorCode(unix.UnveilBlock())
}
