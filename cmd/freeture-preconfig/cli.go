// Package main implements freeture-preconfig.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-lab/go/flagx"

	"github.com/trlsmax/freeture-gdmn/internal/freeturecfg"
	"github.com/trlsmax/freeture-gdmn/internal/reconcile"
	"github.com/trlsmax/freeture-gdmn/internal/session"
	"github.com/trlsmax/freeture-gdmn/internal/station"
	"github.com/trlsmax/freeture-gdmn/internal/testhelper"
)

var (
	// Flags related to input files.
	stationConfig string
	locationFile  string
	templateFile  string

	// Flags related to the session.
	instrument        string
	secs              bool
	suffix            string
	saveStationConfig bool

	// Flags related to program's execution.
	metricsTextfile string
	envFile         string
	verbose         bool

	// Errors related to command line parsing and validation.
	errExtraArgs     = errors.New("extra arguments on the command line")
	errNoStationCfg  = errors.New("must specify station-config")
	errNoLocation    = errors.New("must specify location-file")
	errNoTemplate    = errors.New("must specify template")
	errNoInstrument  = errors.New("must specify instrument")
	errInstrument    = errors.New("instrument must not contain '/'")
	errSuffix        = errors.New("suffix must not be empty or contain '/'")
	errLoadEnvFile   = errors.New("failed to load env file")
	errArgsFromEnv   = errors.New("failed to get args from the environment")
	errTemplateStat  = errors.New("failed to stat template")
	errTemplateIsDir = errors.New("template is a directory")
)

func initFlags() {
	// Flags related to input files.
	flag.StringVar(&stationConfig, "station-config", "/opt/dfn-software/dfnstation.cfg", "static station configuration file")
	flag.StringVar(&locationFile, "location-file", "/tmp/dfn_location.cfg", "location report dropped by the interval service")
	flag.StringVar(&templateFile, "template", "/opt/dfn-software/dfn_freeture_template.cfg", "freeture configuration template")

	// Flags related to the session.
	flag.StringVar(&instrument, "instrument", "allskyvideo", "instrument type used in the session directory name")
	flag.BoolVar(&secs, "secs", false, "include seconds in the session directory name")
	flag.StringVar(&suffix, "suffix", freeturecfg.DefaultSuffix, "suffix of the session configuration file name")
	flag.BoolVar(&saveStationConfig, "save-station-config", false, "save the reconciled station configuration in the session directory")

	// Flags related to program's execution.
	flag.StringVar(&metricsTextfile, "metrics-textfile", "", "write metrics in Prometheus text format to this file")
	flag.StringVar(&envFile, "env-file", "", "load environment variables from this file before reading flags from the environment")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose mode")
}

// parseAndValidateCLI parses and validates the command line.
func parseAndValidateCLI() error {
	initFlags()
	flag.Parse()
	if flag.NArg() != 0 {
		return errExtraArgs
	}

	// Now, check if some flags were set in the environment (possibly
	// loaded from an env file) instead of on the command line.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("%v: %w", errLoadEnvFile, err)
		}
	}
	if err := flagx.ArgsFromEnv(flag.CommandLine); err != nil {
		return fmt.Errorf("%v: %w", errArgsFromEnv, err)
	}

	// Enable verbose mode in all packages as soon as the flags are
	// parsed because they may be called for during argument validation.
	if verbose {
		station.Verbose(testhelper.VLogf)
		reconcile.Verbose(testhelper.VLogf)
		session.Verbose(testhelper.VLogf)
		freeturecfg.Verbose(testhelper.VLogf)
	}

	if stationConfig == "" {
		return errNoStationCfg
	}
	if locationFile == "" {
		return errNoLocation
	}
	if templateFile == "" {
		return errNoTemplate
	}
	if instrument == "" {
		return errNoInstrument
	}
	if strings.ContainsRune(instrument, os.PathSeparator) {
		return fmt.Errorf("%v: %w", instrument, errInstrument)
	}
	if suffix == "" || strings.ContainsRune(suffix, os.PathSeparator) {
		return fmt.Errorf("%q: %w", suffix, errSuffix)
	}
	return validateTemplate()
}

// validateTemplate validates the template exists and is not a directory
// before any session directory is created.
func validateTemplate() error {
	fi, err := os.Stat(templateFile)
	if err != nil {
		return fmt.Errorf("%v: %w", errTemplateStat, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%v: %w", templateFile, errTemplateIsDir)
	}
	return nil
}
