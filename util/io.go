// io.go provides source-reading helpers. Adapted from the teacher's
// src/util/io.go ReadSource; the teacher's Writer/ListenWrite assembly-text
// multiplexer is not carried (this compiler never emits textual assembly
// and must not run the concurrent writer goroutines spec.md §5 rules out).
package util

import (
	"errors"
	"io"
	"os"
	"time"
)

// ReadSource reads Simply source code from the file named by path, or from
// stdin (with a short grace period) if path is empty.
func ReadSource(path string) (string, error) {
	if len(path) > 0 {
		b, err := os.ReadFile(path)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)
	go func() {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			cerr <- err
			return
		}
		c <- string(b)
	}()

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}
