// Package session creates the data directory of a capture session.
//
// Session directories live directly under the station's data directory
// and are named after the UTC time the session started and the
// instrument that captures into it:
//
//	<data_directory>/<yyyy>-<mm>-<dd>_<HH><MM>[<SS>]_<instrument>
//
// For example, /data0/2023-07-22_0426_allskyvideo.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	layoutSecs   = "2006-01-02_150405"
	layoutNoSecs = "2006-01-02_1504"
)

var (
	ErrNoRoot            = errors.New("empty data directory")
	ErrInvalidInstrument = errors.New("invalid instrument name")
	ErrMakeDir           = errors.New("failed to create session directory")

	// Testing and debugging support.
	verbose = func(fmt string, args ...interface{}) {}
)

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

// Dir returns the session directory pathname for the given data
// directory, instrument, and start time without creating it.
func Dir(root, instrument string, now time.Time, secs bool) (string, error) {
	if root == "" {
		return "", ErrNoRoot
	}
	if instrument == "" || strings.ContainsRune(instrument, os.PathSeparator) || instrument == "." || instrument == ".." {
		return "", fmt.Errorf("%q: %w", instrument, ErrInvalidInstrument)
	}
	layout := layoutNoSecs
	if secs {
		layout = layoutSecs
	}
	return filepath.Join(root, now.UTC().Format(layout)+"_"+instrument), nil
}

// DataPath returns the session directory pathname (see Dir) after
// creating it and any missing parents.
func DataPath(root, instrument string, now time.Time, secs bool) (string, error) {
	dir, err := Dir(root, instrument, now, secs)
	if err != nil {
		return "", err
	}
	verbose("creating session directory %v", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMakeDir, err)
	}
	return dir, nil
}
