// Package reconcile merges the live location report into the static
// station configuration.
//
// A capture session must always be able to start, so reconciliation
// never fails: if the report cannot be read or has no fix yet, the
// static position is kept and the station is marked as not GPS locked.
package reconcile

import (
	"log"

	"github.com/trlsmax/freeture-gdmn/internal/location"
	"github.com/trlsmax/freeture-gdmn/internal/station"
)

// Outcome is the branch reconciliation took.
type Outcome int

const (
	Locked     Outcome = iota // position taken from the location report
	NoFix                     // report read but it has no fix yet
	Unreadable                // report could not be read
)

// Outcomes lists all outcomes in order.
var Outcomes = []Outcome{Locked, NoFix, Unreadable}

// Result is the reconciled station configuration and how it came about.
type Result struct {
	Config  station.Config
	Outcome Outcome
	Err     error // why the report was unreadable
}

// Testing and debugging support.
var verbose = func(fmt string, args ...interface{}) {}

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

func (o Outcome) String() string {
	switch o {
	case Locked:
		return "locked"
	case NoFix:
		return "nofix"
	case Unreadable:
		return "unreadable"
	}
	return "unknown"
}

// Reconcile returns static updated with the position in report.  readErr
// is the error, if any, encountered while reading report.  static is not
// modified.
func Reconcile(static station.Config, report location.Report, readErr error) Result {
	cfg := static
	switch {
	case readErr != nil:
		cfg.Station.GPSLock = station.GPSUnlocked
		return Result{Config: cfg, Outcome: Unreadable, Err: readErr}
	case report.Status != location.Fix:
		cfg.Station.GPSLock = station.GPSUnlocked
		return Result{Config: cfg, Outcome: NoFix}
	}
	cfg.Station.Lon = report.Lon
	cfg.Station.Lat = report.Lat
	cfg.Station.Altitude = report.Altitude
	cfg.Station.GPSLock = report.GPSLock
	return Result{Config: cfg, Outcome: Locked}
}

// FromFile reads the location report at locationPath and reconciles it
// with static.  Falling back to the static position is logged as a
// warning.
func FromFile(static station.Config, locationPath string) Result {
	verbose("reading location report %v", locationPath)
	report, err := location.Read(locationPath)
	res := Reconcile(static, report, err)
	switch res.Outcome {
	case Unreadable:
		log.Printf("WARNING: failed to read location report %v (%v), using values from default config file %v\n",
			locationPath, res.Err, static.Internal.ConfigFile)
	case NoFix:
		log.Printf("WARNING: no GPS fix in location report %v, using values from default config file %v\n",
			locationPath, static.Internal.ConfigFile)
	case Locked:
		verbose("GPS fix at %v: lon=%v lat=%v altitude=%v gps_lock=%v", report.CurrentTime,
			report.Lon, report.Lat, report.Altitude, report.GPSLock)
	}
	return res
}
