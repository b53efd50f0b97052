package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-lab/go/testingx"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/trlsmax/freeture-gdmn/internal/reconcile"
	"github.com/trlsmax/freeture-gdmn/internal/station"
	"github.com/trlsmax/freeture-gdmn/internal/testhelper"
)

func TestRecord(t *testing.T) { //nolint:paralleltest
	now := time.Date(2023, time.July, 22, 4, 26, 40, 0, time.UTC)
	tests := []struct {
		outcome  reconcile.Outcome
		gpsLock  string
		wantLock float64
	}{
		{reconcile.Locked, station.GPSLocked, 1},
		{reconcile.NoFix, station.GPSUnlocked, 0},
		{reconcile.Unreadable, station.GPSUnlocked, 0},
	}
	for i, test := range tests {
		t.Logf("%s>>> test %02d: %v%s", testhelper.ANSIPurple, i, test.outcome, testhelper.ANSIEnd)
		res := reconcile.Result{Outcome: test.outcome}
		res.Config.Station.GPSLock = test.gpsLock
		Record(res, now)
		if got := testutil.ToFloat64(GPSLock); got != test.wantLock {
			t.Fatalf("GPSLock = %v, want %v", got, test.wantLock)
		}
		for _, o := range reconcile.Outcomes {
			want := 0.0
			if o == test.outcome {
				want = 1
			}
			if got := testutil.ToFloat64(LocationOutcome.WithLabelValues(o.String())); got != want {
				t.Fatalf("LocationOutcome{%v} = %v, want %v", o, got, want)
			}
		}
		if got := testutil.ToFloat64(SessionTimestamp); got != float64(now.Unix()) {
			t.Fatalf("SessionTimestamp = %v, want %v", got, now.Unix())
		}
	}
}

func TestWriteTextfile(t *testing.T) { //nolint:paralleltest
	dir := t.TempDir()
	res := reconcile.Result{Outcome: reconcile.Locked}
	res.Config.Station.GPSLock = station.GPSLocked
	Record(res, time.Now())

	path := filepath.Join(dir, "freeture_preconfig.prom")
	testingx.Must(t, WriteTextfile(path), "failed to write %v", path)
	contents, err := os.ReadFile(path)
	testingx.Must(t, err, "failed to read %v", path)
	for _, want := range []string{
		"freeture_preconfig_gps_lock 1",
		`freeture_preconfig_location_outcome{outcome="locked"} 1`,
		`freeture_preconfig_location_outcome{outcome="unreadable"} 0`,
		"freeture_preconfig_session_timestamp_seconds",
	} {
		if !strings.Contains(string(contents), want) {
			t.Fatalf("WriteTextfile() wrote:\n%s\nwant it to contain %q", contents, want)
		}
	}

	if err := WriteTextfile(""); !errors.Is(err, ErrNoPath) {
		t.Fatalf("WriteTextfile() = %v, want %v", err, ErrNoPath)
	}
	if err := WriteTextfile(filepath.Join(dir, "missing", "x.prom")); !errors.Is(err, ErrWriteMetrics) {
		t.Fatalf("WriteTextfile() = %v, want %v", err, ErrWriteMetrics)
	}
}
