// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	_ "embed"
	"net/http"

	"github.com/gorilla/mux"
)

// Paths served by NewRouter.
const (
	FormPath   = "/"
	UploadPath = "/upload_file"
)

//go:embed form.html
var formPage []byte

// FormHandler serves the upload form.
func FormHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(formPage)
	})
}

// NewRouter serves the form on GET, and hands POSTs of it to 'uploads'.
// Anything else is "not found".
func NewRouter(uploads http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Handle(FormPath, FormHandler()).Methods(http.MethodGet)
	r.Handle(UploadPath, uploads).Methods(http.MethodPost)

	r.NotFoundHandler = http.NotFoundHandler()
	r.MethodNotAllowedHandler = http.NotFoundHandler()
	return r
}
