// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink implements the files uploads are streamed into.
//
// Unlike "proto files" which emerge only once complete, a sink file is
// visible under its final name from the moment it has been created.
// Its lifecycle is {Create, Write, Persist or Zap}:
// Persist flushes the contents to stable storage and releases the file,
// Zap releases it and leaves whatever has been written so far in place.
//
// Writes are not buffered, every call to Write reaches the operating system.
package sink // import "blitznote.com/src/http.drop/sink"
