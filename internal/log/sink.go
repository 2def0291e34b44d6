package log

import (
	"io"
	"os"
)

var output io.Writer = os.Stderr

func stderr() io.Writer { return output }

// SetOutput redirects log output. Takes effect on the next Init.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	output = w
}
