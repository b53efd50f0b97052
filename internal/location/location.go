// Package location reads the location report that the station's interval
// service drops on the local filesystem after talking to the GPS
// microcontroller.
//
// Until the interval service obtains its first fix, it writes a report
// whose currenttime is "0.0".  Read turns that sentinel into an explicit
// Status so callers never compare against the magic string themselves.
package location

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	"github.com/trlsmax/freeture-gdmn/internal/station"
)

// Status tells whether a report carries a GPS fix.
type Status int

const (
	NoFix Status = iota // the interval service has not produced a fix yet
	Fix                 // the report's position comes from a GPS fix
)

// NoFixTime is the currenttime value of a report without a fix.
const NoFixTime = "0.0"

const keyCurrentTime = "currenttime"

// Report is a location report.  Lon, Lat, Altitude, and GPSLock are only
// meaningful when Status is Fix.
type Report struct {
	CurrentTime string // seconds since the epoch when the fix was obtained
	Status      Status
	Lon         string
	Lat         string
	Altitude    string
	GPSLock     string
}

var (
	fixKeys = []string{station.KeyLon, station.KeyLat, station.KeyAltitude, station.KeyGPSLock}

	ErrReadLocation  = errors.New("failed to read location report")
	ErrParseLocation = errors.New("failed to parse location report")
	ErrMissingKey    = errors.New("missing key in location report")
	ErrWriteLocation = errors.New("failed to write location report")
)

func (s Status) String() string {
	switch s {
	case NoFix:
		return "no fix"
	case Fix:
		return "fix"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Read reads the location report at path.
func Read(path string) (Report, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrReadLocation, err)
	}
	f, err := ini.LoadSources(station.LoadOptions, contents)
	if err != nil {
		return Report{}, fmt.Errorf("%v: %w: %v", path, ErrParseLocation, err)
	}
	currentTime, err := lookup(f, station.SectionInternal, keyCurrentTime)
	if err != nil {
		return Report{}, fmt.Errorf("%v: %w", path, err)
	}
	if currentTime == NoFixTime {
		return Report{CurrentTime: currentTime, Status: NoFix}, nil
	}
	values := make(map[string]string, len(fixKeys))
	for _, key := range fixKeys {
		v, err := lookup(f, station.SectionStation, key)
		if err != nil {
			return Report{}, fmt.Errorf("%v: %w", path, err)
		}
		values[key] = v
	}
	return Report{
		CurrentTime: currentTime,
		Status:      Fix,
		Lon:         values[station.KeyLon],
		Lat:         values[station.KeyLat],
		Altitude:    values[station.KeyAltitude],
		GPSLock:     values[station.KeyGPSLock],
	}, nil
}

// Write writes report to path in the format Read expects.  A report
// whose Status is NoFix is written with the NoFixTime sentinel.
func Write(path string, report Report) error {
	f := ini.Empty(station.LoadOptions)
	currentTime := report.CurrentTime
	if report.Status == NoFix {
		currentTime = NoFixTime
	}
	f.Section(station.SectionInternal).Key(keyCurrentTime).SetValue(currentTime)
	sec := f.Section(station.SectionStation)
	sec.Key(station.KeyLon).SetValue(report.Lon)
	sec.Key(station.KeyLat).SetValue(report.Lat)
	sec.Key(station.KeyAltitude).SetValue(report.Altitude)
	sec.Key(station.KeyGPSLock).SetValue(report.GPSLock)
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteLocation, err)
	}
	return nil
}

func lookup(f *ini.File, section, key string) (string, error) {
	sec, err := f.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("[%v]: %w", section, ErrMissingKey)
	}
	if !sec.HasKey(key) {
		return "", fmt.Errorf("[%v] %v: %w", section, key, ErrMissingKey)
	}
	return sec.Key(key).String(), nil
}
