package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-lab/go/testingx"

	"github.com/trlsmax/freeture-gdmn/internal/testhelper"
)

func TestVerbose(t *testing.T) {
	Verbose(func(fmt string, args ...interface{}) {})
}

func TestDir(t *testing.T) {
	t.Parallel()
	// 2023-07-22 04:26:40 UTC, expressed in Perth time.
	now := time.Date(2023, time.July, 22, 12, 26, 40, 0, time.FixedZone("AWST", 8*3600))
	tests := []struct {
		root       string
		instrument string
		secs       bool
		want       string
		wantErr    error
	}{
		{"/data0", "allskyvideo", false, "/data0/2023-07-22_0426_allskyvideo", nil},
		{"/data0", "allskyvideo", true, "/data0/2023-07-22_042640_allskyvideo", nil},
		{"/data0/", "DSC", true, "/data0/2023-07-22_042640_DSC", nil},
		{"relative", "allskyvideo", false, "relative/2023-07-22_0426_allskyvideo", nil},
		{"", "allskyvideo", false, "", ErrNoRoot},
		{"/data0", "", false, "", ErrInvalidInstrument},
		{"/data0", "all/sky", false, "", ErrInvalidInstrument},
		{"/data0", "..", false, "", ErrInvalidInstrument},
	}
	for i, test := range tests {
		t.Logf("%s>>> test %02d%s", testhelper.ANSIPurple, i, testhelper.ANSIEnd)
		got, err := Dir(test.root, test.instrument, now, test.secs)
		if !errors.Is(err, test.wantErr) {
			t.Fatalf("Dir() = %v, want %v", err, test.wantErr)
		}
		if got != test.want {
			t.Fatalf("Dir() = %v, want %v", got, test.want)
		}
	}
}

func TestDataPath(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "data0", "not-yet-created")
	now := time.Date(2023, time.July, 22, 4, 26, 40, 0, time.UTC)

	dir, err := DataPath(root, "allskyvideo", now, false)
	testingx.Must(t, err, "failed to create session directory under %v", root)
	if want := filepath.Join(root, "2023-07-22_0426_allskyvideo"); dir != want {
		t.Fatalf("DataPath() = %v, want %v", dir, want)
	}
	fi, err := os.Stat(dir)
	testingx.Must(t, err, "failed to stat %v", dir)
	if !fi.IsDir() {
		t.Fatalf("DataPath() created %v which is not a directory", dir)
	}

	// Calling it again at the same time is fine.
	again, err := DataPath(root, "allskyvideo", now, false)
	testingx.Must(t, err, "failed to create session directory under %v twice", root)
	if again != dir {
		t.Fatalf("DataPath() = %v, want %v", again, dir)
	}

	// A different time yields a different directory.
	later, err := DataPath(root, "allskyvideo", now.Add(time.Minute), false)
	testingx.Must(t, err, "failed to create session directory under %v", root)
	if later == dir {
		t.Fatalf("DataPath() = %v for two different minutes", later)
	}
}

func TestDataPathFail(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	now := time.Date(2023, time.July, 22, 4, 26, 40, 0, time.UTC)

	// The session directory name is taken by a regular file.
	testhelper.WriteFile(t, dir, "2023-07-22_042640_allskyvideo", "")
	if _, err := DataPath(dir, "allskyvideo", now, true); !errors.Is(err, ErrMakeDir) {
		t.Fatalf("DataPath() = %v, want %v", err, ErrMakeDir)
	}

	// The data directory is a regular file.
	root := testhelper.WriteFile(t, dir, "data0", "")
	if _, err := DataPath(root, "allskyvideo", now, true); !errors.Is(err, ErrMakeDir) {
		t.Fatalf("DataPath() = %v, want %v", err, ErrMakeDir)
	}

	if _, err := DataPath(dir, "", now, true); !errors.Is(err, ErrInvalidInstrument) {
		t.Fatalf("DataPath() = %v, want %v", err, ErrInvalidInstrument)
	}
}
