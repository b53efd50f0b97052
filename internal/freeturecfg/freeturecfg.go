// Package freeturecfg renders the per-session configuration file of the
// freeture capture program from a template.
//
// The template is a line oriented file of KEY = value lines.  A fixed
// table maps freeture keys to dfnstation.cfg station keys; each line
// that sets one of those freeture keys is rewritten with the station's
// value and every other line is copied unchanged.
//
// Rendered files are named after the station and the UTC time they were
// created:
//
//	<hostname>_<yyyy>-<mm>-<dd>_<HH><MM><SS>_<suffix>.cfg
package freeturecfg

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/trlsmax/freeture-gdmn/internal/station"
)

// Translation maps a freeture key to a dfnstation.cfg station key.
type Translation struct {
	FreetureKey string
	StationKey  string
}

// Table is an ordered list of translations.
type Table []Translation

// Options configures Write.
type Options struct {
	TemplatePath string    // freeture configuration template
	DestDir      string    // directory to write the rendered file to
	Suffix       string    // last component of the rendered file's name
	Table        Table     // translations to apply (DefaultTable if nil)
	Now          time.Time // creation time used in the rendered file's name
}

const (
	DefaultSuffix = "freeture"
	layout        = "2006-01-02_150405"
)

var (
	// DefaultTable is the translation table between freeture and
	// dfnstation.cfg keys.
	DefaultTable = Table{
		{FreetureKey: "STATION_NAME", StationKey: station.KeyLocation},
		{FreetureKey: "TELESCOP", StationKey: station.KeyHostname},
		{FreetureKey: "SITELONG", StationKey: station.KeyLon},
		{FreetureKey: "SITELAT", StationKey: station.KeyLat},
		{FreetureKey: "SITEELEV", StationKey: station.KeyAltitude},
		{FreetureKey: "GPS_LOCK", StationKey: station.KeyGPSLock},
	}

	// Freeture keys are upper case identifiers.
	keyRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	ErrTable        = errors.New("invalid translation table")
	ErrNoHostname   = errors.New("empty hostname")
	ErrRemove       = errors.New("failed to remove existing session file")
	ErrReadTemplate = errors.New("failed to read template")
	ErrWrite        = errors.New("failed to write session file")
	ErrKeyNotFound  = errors.New("key not found")
	ErrKeyValue     = errors.New("unexpected value")

	// Testing and debugging support.
	verbose = func(fmt string, args ...interface{}) {}
)

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

// Validate checks that the table is not empty, that it is one to one,
// and that every station key names a station field.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty", ErrTable)
	}
	freetureKeys := make(map[string]struct{}, len(t))
	stationKeys := make(map[string]struct{}, len(t))
	for _, tr := range t {
		if !keyRegex.MatchString(tr.FreetureKey) {
			return fmt.Errorf("%w: invalid freeture key %q", ErrTable, tr.FreetureKey)
		}
		if _, ok := (station.Station{}).Get(tr.StationKey); !ok {
			return fmt.Errorf("%w: unknown station key %q", ErrTable, tr.StationKey)
		}
		if _, ok := freetureKeys[tr.FreetureKey]; ok {
			return fmt.Errorf("%w: duplicate freeture key %q", ErrTable, tr.FreetureKey)
		}
		if _, ok := stationKeys[tr.StationKey]; ok {
			return fmt.Errorf("%w: duplicate station key %q", ErrTable, tr.StationKey)
		}
		freetureKeys[tr.FreetureKey] = struct{}{}
		stationKeys[tr.StationKey] = struct{}{}
	}
	return nil
}

// SessionFilename returns the name of the session file for the given
// hostname, suffix, and creation time.
func SessionFilename(hostname, suffix string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.cfg", hostname, now.UTC().Format(layout), suffix)
}

// Render returns template with every line that sets a freeture key in
// table rewritten as "KEY = value", where value is the station's value
// for the corresponding station key.  Other lines and line endings are
// preserved byte for byte.
func Render(template []byte, table Table, st station.Station) ([]byte, error) {
	rules, err := compile(table, st)
	if err != nil {
		return nil, err
	}
	lines := bytes.Split(template, []byte("\n"))
	for i, line := range lines {
		body, cr := bytes.TrimSuffix(line, []byte("\r")), bytes.HasSuffix(line, []byte("\r"))
		for _, r := range rules {
			if !r.re.Match(body) {
				continue
			}
			rendered := []byte(r.key + " = " + r.value)
			if cr {
				rendered = append(rendered, '\r')
			}
			lines[i] = rendered
			break
		}
	}
	return bytes.Join(lines, []byte("\n")), nil
}

// Check verifies that content sets every freeture key in table to the
// station's value.
func Check(content []byte, table Table, st station.Station) error {
	rules, err := compile(table, st)
	if err != nil {
		return err
	}
	for _, r := range rules {
		found := false
		for _, line := range bytes.Split(content, []byte("\n")) {
			line = bytes.TrimSuffix(line, []byte("\r"))
			if !r.re.Match(line) {
				continue
			}
			found = true
			if want := r.key + " = " + r.value; string(line) != want {
				return fmt.Errorf("%q, want %q: %w", line, want, ErrKeyValue)
			}
		}
		if !found {
			return fmt.Errorf("%v: %w", r.key, ErrKeyNotFound)
		}
	}
	return nil
}

// Write renders the template in opts with the station values in cfg and
// writes the result to a new session file in opts.DestDir.  It returns
// the session file's full pathname.
//
// The file is written through a temporary file and renamed into place,
// so either a complete session file exists or none does.
func Write(cfg station.Config, opts Options) (string, error) {
	if cfg.Station.Hostname == "" {
		return "", ErrNoHostname
	}
	table := opts.Table
	if table == nil {
		table = DefaultTable
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	destDir, err := filepath.Abs(opts.DestDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	sessionFile := filepath.Join(destDir, SessionFilename(cfg.Station.Hostname, suffix, opts.Now))

	// This can only happen if called twice within the same second.
	if fi, err := os.Stat(sessionFile); err == nil && fi.Mode().IsRegular() {
		verbose("removing existing %v", sessionFile)
		if err := os.Remove(sessionFile); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRemove, err)
		}
	}

	verbose("rendering %v", opts.TemplatePath)
	template, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadTemplate, err)
	}
	content, err := Render(template, table, cfg.Station)
	if err != nil {
		return "", err
	}
	if err := writeFile(sessionFile, content); err != nil {
		return "", err
	}
	verbose("wrote %v bytes to %v", len(content), sessionFile)
	return sessionFile, nil
}

type rule struct {
	key   string
	value string
	re    *regexp.Regexp
}

func compile(table Table, st station.Station) ([]rule, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	rules := make([]rule, 0, len(table))
	for _, tr := range table {
		value, _ := st.Get(tr.StationKey)
		rules = append(rules, rule{
			key:   tr.FreetureKey,
			value: value,
			re:    regexp.MustCompile(`^` + regexp.QuoteMeta(tr.FreetureKey) + ` *=`),
		})
	}
	return rules, nil
}

func writeFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
