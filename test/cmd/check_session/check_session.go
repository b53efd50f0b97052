// This tool is a part of e2e helper programs and verifies that:
//
//  1. Every session file given on the command line (or found under the
//     directories given on the command line) sets every translated
//     freeture key to the value in the station configuration.
//  2. If the session directory has a saved dfnstation.cfg, the session
//     file agrees with it instead of the static station configuration.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-lab/go/rtx"

	"github.com/trlsmax/freeture-gdmn/internal/freeturecfg"
	"github.com/trlsmax/freeture-gdmn/internal/station"
)

var (
	stationConfig = flag.String("station-config", "/opt/dfn-software/dfnstation.cfg", "static station configuration file")
	suffix        = flag.String("suffix", freeturecfg.DefaultSuffix, "suffix of session configuration file names")
	verbose       = flag.Bool("verbose", false, "enable verbose mode")
)

func main() {
	flag.Parse()
	static, err := station.Load(*stationConfig)
	rtx.Must(err, "failed to load station config")
	if flag.NArg() == 0 {
		walkDir(".", static)
	} else {
		for _, arg := range flag.Args() {
			walkDir(arg, static)
		}
	}
}

func walkDir(dir string, static station.Config) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Panicf("failed to access path: %v", err)
		}
		if !d.IsDir() && strings.HasSuffix(path, "_"+*suffix+".cfg") {
			checkSession(path, static)
		}
		return nil
	})
	if err != nil {
		log.Panicf("failed to walk directory %v: %v", dir, err)
	}
}

func checkSession(sessionFile string, static station.Config) {
	if *verbose {
		fmt.Printf("checking session file %v\n", sessionFile) //nolint:forbidigo
	}
	content, err := os.ReadFile(sessionFile)
	rtx.Must(err, "failed to read %v", sessionFile)

	// Without a saved copy of the reconciled configuration the position
	// may have come from a location report, so only the station's
	// identity can be checked.
	cfg := static
	table := freeturecfg.Table{}
	saved := filepath.Join(filepath.Dir(sessionFile), "dfnstation.cfg")
	if _, err := os.Stat(saved); err == nil {
		cfg, err = station.Load(saved)
		rtx.Must(err, "failed to load %v", saved)
		table = freeturecfg.DefaultTable
	} else {
		for _, tr := range freeturecfg.DefaultTable {
			if tr.StationKey == station.KeyLocation || tr.StationKey == station.KeyHostname {
				table = append(table, tr)
			}
		}
	}
	if err := freeturecfg.Check(content, table, cfg.Station); err != nil {
		log.Panicf("%v: %v", sessionFile, err)
	}
	if *verbose {
		fmt.Println("OK") //nolint:forbidigo
	}
}
