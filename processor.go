// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"blitznote.com/src/http.drop/sink"
)

// Size of the chunks in which parts are copied to disk.
// This, times the number of concurrent uploads, bounds the memory spent on file contents.
const chunkSize = 1 << 15

var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, chunkSize)
		return &b
	},
}

// Processor streams the files of multipart uploads into its destination directory.
//
// Parts are processed strictly one after another, in the order they arrive.
// Any failure aborts the upload. Files written before remain on disk, as does
// whatever arrived of the file that was being written when the failure occurred.
type Processor struct {
	*Configuration

	// Held while a destination is resolved and its file created,
	// so that concurrent uploads of the same name won't both claim the same path.
	// Other processes writing to the directory are not covered.
	createLock sync.Mutex
}

// Written describes one file of an upload.
type Written struct {
	Path string
	Size int64
}

// Result lists the files of one upload in arrival order.
type Result struct {
	Files []Written
}

// Last returns the path of the file written last, or an empty string.
func (r Result) Last() string {
	if len(r.Files) == 0 {
		return ""
	}
	return r.Files[len(r.Files)-1].Path
}

// NewProcessor checks 'config' and fills in defaults.
func NewProcessor(config *Configuration) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Processor{Configuration: config}, nil
}

// Process consumes all parts of 'mr', each of which must carry a filename.
//
// Returns the files that have been written and a HTTP status code,
// which accompanies an error if the upload has been aborted.
func (p *Processor) Process(ctx context.Context, mr *multipart.Reader) (Result, int, error) {
	var res Result
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return res, http.StatusOK, nil
		}
		if err != nil {
			p.Metrics.failed(reasonMultipart)
			return res, http.StatusInternalServerError, err
		}

		// The remainder of a failed part is not drained.
		written, retval, err := p.processPart(ctx, part)
		if err != nil {
			return res, retval, err
		}
		res.Files = append(res.Files, written)
	}
}

func (p *Processor) processPart(ctx context.Context, part *multipart.Part) (Written, int, error) {
	filename := clientFilename(part.Header.Get("Content-Disposition"))
	if filename == "" {
		p.Metrics.failed(reasonMissingFilename)
		return Written{}, http.StatusBadRequest, ErrMissingFilename
	}
	if err := p.vetFilename(filename); err != nil {
		p.Metrics.failed(reasonUnacceptableFilename)
		return Written{}, http.StatusUnprocessableEntity, err
	}

	f, err := p.create(filename)
	if err != nil {
		p.Metrics.failed(reasonCreate)
		return Written{}, http.StatusInternalServerError, err
	}
	log := loggerFrom(ctx, p.logger()).With("path", f.Name())
	log.Debug("Receiving file")

	// Clients seldom send this. If they do, the value is a mere hint.
	if expectBytes, err := strconv.ParseInt(part.Header.Get("Content-Length"), 10, 64); err == nil {
		if err := f.SizeWillBe(expectBytes); err != nil {
			log.Debug("Cannot reserve space", "error", err)
		}
	}

	n, err := copyChunks(ctx, f, part)
	if err != nil {
		f.Zap()
		p.Metrics.failed(reasonStream)
		return Written{Path: f.Name(), Size: n}, http.StatusInternalServerError, err
	}
	if err = f.Persist(); err != nil {
		p.Metrics.failed(reasonStream)
		return Written{Path: f.Name(), Size: n}, http.StatusInternalServerError, err
	}

	p.Metrics.fileWritten(n)
	log.Info("File uploaded", "size", humanize.Bytes(uint64(n)))
	return Written{Path: f.Name(), Size: n}, http.StatusOK, nil
}

func (p *Processor) create(filename string) (sink.File, error) {
	p.createLock.Lock()
	defer p.createLock.Unlock()

	path := resolveDestination(p.Fs, p.WriteToPath, filename, p.CollisionSuffix)
	return sink.Create(p.Fs, path)
}

// copyChunks moves 'src' to 'dst' one chunk at a time.
// A chunk has been handed to 'dst' before the next one is read.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) (written int64, err error) {
	bp := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bp)
	buf := *bp

	for {
		if err = ctx.Err(); err != nil { // the client is gone
			return written, errors.Wrap(err, "read")
		}

		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, errors.Wrap(werr, "write")
			}
			if nw != nr {
				return written, errors.Wrap(io.ErrShortWrite, "write")
			}
		}
		switch {
		case rerr == io.EOF:
			return written, nil
		case rerr != nil:
			return written, errors.Wrap(rerr, "read")
		}
	}
}
