// Command drop serves a page to upload files with,
// and writes whatever is uploaded into the current directory.
//
// Usage:
//  drop [-p port] [-d directory]
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCommand(serve).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
