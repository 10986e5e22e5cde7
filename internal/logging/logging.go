// Package logging builds the logr.Logger handed to the library packages.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Verbosity levels accepted by ParseLevel.
const (
	LevelInfo  = 0
	LevelDebug = 1
	LevelTrace = 2
)

func ParseLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want info, debug or trace)", s)
	}
}

// New returns a logger writing one key=value line per entry to w. Entries
// with V above verbosity are dropped; errors are always written.
func New(w io.Writer, verbosity int) logr.Logger {
	var mu sync.Mutex
	return funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{
		Verbosity: verbosity,
	})
}
