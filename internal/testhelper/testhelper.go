// Package testhelper implements code that helps in unit and integration
// testing.  The helpers in this package include verbose logging (with
// colored details) and a small set of fixtures that lay out station,
// location, and template files on the local filesystem the way a DFN
// station does.
package testhelper

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const (
	ANSIGreen  = "\033[00;32m"
	ANSIBlue   = "\033[00;34m"
	ANSIPurple = "\033[00;35m"
	ANSIEnd    = "\033[0m"
)

// StationConfig is the static station configuration used in the
// documented scenarios (DFNEXT009 in the test lab).
const StationConfig = `[station]
location = test_lab
hostname = DFNEXT009
lon = 115.0
lat = -32.0
altitude = 50.0
gps_lock = N

[internal]
data_directory = DATADIR

[camera]
exposure = 25
`

// LocationFix is a location report with a valid fix.
const LocationFix = `[internal]
currenttime = 1690000000

[station]
lon = 115.89469
lat = -32.00720
altitude = 50.0
gps_lock = Y
`

// LocationNoFix is a location report written before the interval
// service obtained its first fix.
const LocationNoFix = `[internal]
currenttime = 0.0

[station]
lon = 0.0
lat = 0.0
altitude = 0.0
gps_lock = Y
`

// FreetureTemplate is a trimmed freeture configuration template.
const FreetureTemplate = `##########################################################
# FREETURE CONFIGURATION FILE
##########################################################

ACQ_FPS = 30
ACQ_BIT_DEPTH = MONO12

STATION_NAME = XXX
TELESCOP = XXX
OBSERVER = DFN
INSTRUME = allskyvideo
SITELONG = 0.0
SITELAT = 0.0
SITEELEV = 0.0
GPS_LOCK = N

# SITELONG = commented out, left alone
DATA_PATH = /data0/
`

// VLogf logs messages in verbose mode (mostly for debugging).  Messages
// are prefixed by "filename:line-number function()" printed in green and
// the message printed in blue for easier visual inspection.
func VLogf(format string, args ...interface{}) {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Printf(format, args...)
		return
	}
	details := runtime.FuncForPC(pc)
	if details == nil {
		log.Printf(format, args...)
		return
	}
	file = filepath.Base(file)
	idx := strings.LastIndex(details.Name(), "/")
	if idx == -1 {
		idx = 0
	} else {
		idx++
	}
	a := []interface{}{ANSIGreen, file, line, details.Name()[idx:], ANSIBlue}
	a = append(a, args...)
	log.Printf("%s%s:%d: %s(): %s"+format+"%s", append(a, ANSIEnd)...)
}

// WriteFile writes contents to name under dir and returns the full
// pathname.  The test fails immediately if the file cannot be written.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("os.MkdirAll() = %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o666); err != nil {
		t.Fatalf("os.WriteFile() = %v", err)
	}
	return path
}

// WriteStationConfig writes StationConfig under dir with its data
// directory pointing at dataDir and returns the full pathname.
func WriteStationConfig(t *testing.T, dir, dataDir string) string {
	t.Helper()
	return WriteFile(t, dir, "dfnstation.cfg", strings.Replace(StationConfig, "DATADIR", dataDir, 1))
}
