package drop // import "blitznote.com/src/http.drop"

import (
	"github.com/pkg/errors"
)

// Errors which abort an upload due to the client.
// Their text is sent as response body.
var (
	ErrMissingFilename      = errors.New("No filename provided")
	ErrUnacceptableFilename = errors.New("Unacceptable filename")
)

// Reasons by which failures are counted.
const (
	reasonMissingFilename      = "missing_filename"
	reasonUnacceptableFilename = "unacceptable_filename"
	reasonMultipart            = "multipart"
	reasonCreate               = "create"
	reasonStream               = "stream"
)
