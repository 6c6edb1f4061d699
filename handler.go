// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// NewHandler creates a new instance of the upload handler,
// meant to be used in Go's own http server.
//
// Its responsibility is to reject invalid or formally incorrect configurations.
//
// 'next' is optional and receives any request that is not a POST.
func NewHandler(config *Configuration, next http.Handler) (*Handler, error) {
	p, err := NewProcessor(config)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = http.NotFoundHandler()
	}
	return &Handler{Next: next, Processor: p}, nil
}

// Handler implements http.Handler.
type Handler struct {
	Next http.Handler
	*Processor
}

// ServeHTTP handles uploads, else defers the request to the next handler.
//
// POST with a multipart envelope is what browsers send, and
//  curl -F file=@.bashrc <url>
// as well.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Next.ServeHTTP(w, r)
		return
	}

	log := h.logger().With("request_id", uuid.NewString(), "remote", r.RemoteAddr)
	res, httpCode, err := h.serveMultipartUpload(withLogger(r.Context(), log), r)
	switch {
	case err == nil:
		writeText(w, http.StatusOK, "File uploaded to '"+res.Last()+"'")
	case httpCode < 500:
		log.Warn("Upload rejected", "status", httpCode, "error", err, "files_written", len(res.Files))
		writeText(w, httpCode, err.Error())
	default:
		log.Error("Upload failed", "status", httpCode, "error", err, "files_written", len(res.Files))
		writeText(w, httpCode, "Server error: "+err.Error())
	}
}

// Unwraps one or more supplied files, and feeds them to the Processor.
func (h *Handler) serveMultipartUpload(ctx context.Context, r *http.Request) (Result, int, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		h.Metrics.failed(reasonMultipart)
		return Result{}, http.StatusInternalServerError, err
	}
	loggerFrom(ctx, slog.Default()).Debug("Upload started", "content_length", r.ContentLength)
	return h.Process(ctx, mr)
}

// Unlike http.Error this sends 'body' verbatim, without a trailing newline.
func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	io.WriteString(w, body)
}
