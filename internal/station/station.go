// Package station loads and saves the static configuration of a DFN
// station (dfnstation.cfg).
//
// The file is INI formatted and, among many other sections, has a
// [station] section that describes the station's identity and position
// and an [internal] section that describes where its data lives:
//
//	[station]
//	location = test_lab
//	hostname = DFNEXT027
//	lon = 115.89469
//	lat = -32.00720
//	altitude = 50.0
//	gps_lock = N
//
//	[internal]
//	data_directory = /data0
//
// Values are kept as the strings found in the file so they can be copied
// byte for byte into other configuration files.
package station

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// Section and key names in dfnstation.cfg.
const (
	SectionStation  = "station"
	SectionInternal = "internal"

	KeyLocation      = "location"
	KeyHostname      = "hostname"
	KeyLon           = "lon"
	KeyLat           = "lat"
	KeyAltitude      = "altitude"
	KeyGPSLock       = "gps_lock"
	KeyDataDirectory = "data_directory"
	KeyConfigFile    = "config_file"

	// GPSLocked and GPSUnlocked are the values of gps_lock.
	GPSLocked   = "Y"
	GPSUnlocked = "N"
)

// Station is the [station] section.
type Station struct {
	Location string // location identifier (e.g., test_lab)
	Hostname string // station hostname (e.g., DFNEXT009)
	Lon      string // longitude in decimal degrees
	Lat      string // latitude in decimal degrees
	Altitude string // altitude in meters
	GPSLock  string // Y if position comes from a GPS fix, N otherwise
}

// Internal is the [internal] section.
type Internal struct {
	DataDirectory string // root directory of session data
	ConfigFile    string // pathname this configuration was loaded from
}

// Config is the part of dfnstation.cfg this program cares about.
type Config struct {
	Station  Station
	Internal Internal
	raw      []byte // contents of the file it was loaded from
}

var (
	// StationKeys lists the keys required in the [station] section.
	StationKeys = []string{KeyLocation, KeyHostname, KeyLon, KeyLat, KeyAltitude, KeyGPSLock}

	ErrReadConfig  = errors.New("failed to read station config")
	ErrParseConfig = errors.New("failed to parse station config")
	ErrMissingKey  = errors.New("missing key in station config")
	ErrSaveConfig  = errors.New("failed to save station config")

	// LoadOptions mirrors Python's configparser which lower-cases
	// section and key names.
	LoadOptions = ini.LoadOptions{Insensitive: true}

	// Testing and debugging support.
	verbose = func(fmt string, args ...interface{}) {}
)

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

// Load reads the station configuration file at path.  All station keys
// and the data directory must be present.  Internal.ConfigFile is set
// to path.
func Load(path string) (Config, error) {
	verbose("loading station config %v", path)
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	f, err := ini.LoadSources(LoadOptions, contents)
	if err != nil {
		return Config{}, fmt.Errorf("%v: %w: %v", path, ErrParseConfig, err)
	}
	values := make(map[string]string, len(StationKeys))
	for _, key := range StationKeys {
		v, err := lookup(f, SectionStation, key)
		if err != nil {
			return Config{}, fmt.Errorf("%v: %w", path, err)
		}
		values[key] = v
	}
	dataDir, err := lookup(f, SectionInternal, KeyDataDirectory)
	if err != nil {
		return Config{}, fmt.Errorf("%v: %w", path, err)
	}
	cfg := Config{
		Station: Station{
			Location: values[KeyLocation],
			Hostname: values[KeyHostname],
			Lon:      values[KeyLon],
			Lat:      values[KeyLat],
			Altitude: values[KeyAltitude],
			GPSLock:  values[KeyGPSLock],
		},
		Internal: Internal{
			DataDirectory: dataDir,
			ConfigFile:    path,
		},
		raw: contents,
	}
	verbose("station %v at %v,%v,%v gps_lock=%v", cfg.Station.Hostname, cfg.Station.Lon, cfg.Station.Lat, cfg.Station.Altitude, cfg.Station.GPSLock)
	return cfg, nil
}

// Save writes cfg to path.  Sections and keys of the original file that
// Config does not model are preserved.
func Save(path string, cfg Config) error {
	verbose("saving station config %v", path)
	f := ini.Empty(LoadOptions)
	if len(cfg.raw) != 0 {
		var err error
		if f, err = ini.LoadSources(LoadOptions, cfg.raw); err != nil {
			return fmt.Errorf("%w: %v", ErrSaveConfig, err)
		}
	}
	sec := f.Section(SectionStation)
	for _, key := range StationKeys {
		v, _ := cfg.Station.Get(key)
		sec.Key(key).SetValue(v)
	}
	sec = f.Section(SectionInternal)
	sec.Key(KeyDataDirectory).SetValue(cfg.Internal.DataDirectory)
	sec.Key(KeyConfigFile).SetValue(cfg.Internal.ConfigFile)
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveConfig, err)
	}
	return nil
}

// Get returns the value of the station field whose dfnstation.cfg key
// name is key.
func (s Station) Get(key string) (string, bool) {
	switch key {
	case KeyLocation:
		return s.Location, true
	case KeyHostname:
		return s.Hostname, true
	case KeyLon:
		return s.Lon, true
	case KeyLat:
		return s.Lat, true
	case KeyAltitude:
		return s.Altitude, true
	case KeyGPSLock:
		return s.GPSLock, true
	}
	return "", false
}

// Locked returns true if the station position comes from a GPS fix.
func (s Station) Locked() bool {
	return s.GPSLock == GPSLocked
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
