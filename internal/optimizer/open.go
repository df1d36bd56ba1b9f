package optimizer

import (
	"errors"
	"io"
	"strings"
)

// ErrNotConfigured is returned by Open when neither an address nor a
// command was given.
var ErrNotConfigured = errors.New("no optimizer configured")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open picks a transport: a gRPC address wins over a command line. The
// command line is split on whitespace, the first field being the
// executable.
func Open(addr, command string) (Optimizer, io.Closer, error) {
	if addr != "" {
		r, err := Dial(addr)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, nil, ErrNotConfigured
	}
	return &Command{Path: fields[0], Args: fields[1:]}, nopCloser{}, nil
}
