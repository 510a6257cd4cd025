// Package input merges the CLI-supplied question with piped standard input
// into one effective prompt string.
package input

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Read returns the effective prompt for this invocation. When stdin is not
// an interactive terminal, piped text is read in full and appended to the
// prefix. The interactivity check runs before any read so the call never
// blocks waiting for a pipe that is not connected.
func Read(prefix string) string {
	return ReadFrom(prefix, os.Stdin, stdinIsTerminal())
}

// ReadFrom is the testable core of Read. When interactive is true no data
// is read from r; the prefix (possibly empty) is returned as-is.
func ReadFrom(prefix string, r io.Reader, interactive bool) string {
	prefix = strings.TrimSpace(prefix)
	if interactive {
		return prefix
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return prefix
	}

	piped := strings.TrimSpace(string(data))
	switch {
	case prefix == "":
		return piped
	case piped == "":
		return prefix
	default:
		return prefix + "\n" + piped
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
