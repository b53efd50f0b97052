// Package main implements freeture-preconfig.
//
// freeture-preconfig prepares the configuration file of a freeture
// capture session.  It merges the static station configuration with the
// latest location report, creates the session data directory, renders
// the freeture template into it, and prints the pathname of the rendered
// file as the last line of its output:
//
//	freetureconf=$(freeture-preconfig | tail -n 1)
//	/usr/local/bin/freeture -m 3 -c ${freetureconf}
//
// We use log.Panic() instead of log.Fatal() because log.Fatal()
// calls os.Exit() which will not run deferred calls and also makes
// testing harder (for testing, we can recover from log.Panic()).
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/trlsmax/freeture-gdmn/internal/freeturecfg"
	"github.com/trlsmax/freeture-gdmn/internal/metrics"
	"github.com/trlsmax/freeture-gdmn/internal/reconcile"
	"github.com/trlsmax/freeture-gdmn/internal/session"
	"github.com/trlsmax/freeture-gdmn/internal/station"
)

const sessionStationConfig = "dfnstation.cfg"

var (
	// Testing and debugging support.
	stdout  io.Writer = os.Stdout
	timeNow           = time.Now
)

func main() {
	log.SetFlags(log.Ltime)
	if err := parseAndValidateCLI(); err != nil {
		log.Panic(err)
	}
	sessionFile, err := preconfigure(timeNow().UTC())
	if err != nil {
		log.Panic(err)
	}
	fmt.Fprintln(stdout, sessionFile)
}

// preconfigure runs the whole pipeline and returns the pathname of the
// session configuration file.  Only failing to read the location report
// is tolerated; every other failure is returned.
func preconfigure(now time.Time) (string, error) {
	static, err := station.Load(stationConfig)
	if err != nil {
		return "", err
	}
	res := reconcile.FromFile(static, locationFile)
	cfg := res.Config

	dataPath, err := session.DataPath(cfg.Internal.DataDirectory, instrument, now, secs)
	if err != nil {
		return "", err
	}
	if saveStationConfig {
		path := filepath.Join(dataPath, sessionStationConfig)
		if err := station.Save(path, cfg); err != nil {
			return "", err
		}
	}

	sessionFile, err := freeturecfg.Write(cfg, freeturecfg.Options{
		TemplatePath: templateFile,
		DestDir:      dataPath,
		Suffix:       suffix,
		Table:        freeturecfg.DefaultTable,
		Now:          now,
	})
	if err != nil {
		return "", err
	}

	if metricsTextfile != "" {
		metrics.Record(res, now)
		if err := metrics.WriteTextfile(metricsTextfile); err != nil {
			log.Printf("WARNING: %v\n", err)
		}
	}
	return sessionFile, nil
}
