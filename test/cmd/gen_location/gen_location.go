// This tool is a part of e2e helper programs and writes a location report
// the way the station's interval service does, so freeture-preconfig can
// be exercised without a GPS microcontroller.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/m-lab/go/rtx"

	"github.com/trlsmax/freeture-gdmn/internal/location"
)

var (
	output   = flag.String("output", "/tmp/dfn_location.cfg", "pathname of the location report to write")
	noFix    = flag.Bool("no-fix", false, "write a report without a fix (currenttime = 0.0)")
	lon      = flag.String("lon", "115.89469", "longitude in decimal degrees")
	lat      = flag.String("lat", "-32.00720", "latitude in decimal degrees")
	altitude = flag.String("altitude", "50.0", "altitude in meters")
	gpsLock  = flag.String("gps-lock", "Y", "gps_lock value (Y or N)")
	verbose  = flag.Bool("verbose", false, "enable verbose mode")
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Println("extra arguments on the command line") //nolint
		os.Exit(1)
	}
	report := location.Report{
		CurrentTime: strconv.FormatInt(time.Now().Unix(), 10),
		Status:      location.Fix,
		Lon:         *lon,
		Lat:         *lat,
		Altitude:    *altitude,
		GPSLock:     *gpsLock,
	}
	if *noFix {
		report.Status = location.NoFix
	}
	rtx.Must(location.Write(*output, report), "failed to write %v", *output)
	if *verbose {
		fmt.Printf("wrote %v report to %v\n", report.Status, *output) //nolint
	}
}
