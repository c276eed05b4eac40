// /home/krylon/go/src/github.com/blicero/gazetteer/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-18 18:33:20 krylon>

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/wikidata"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
)

const (
	defaultThreshold = 0.75
	defaultLimit     = 3
	defaultLang      = "en"
	defaultPort      = 4205
	defaultSite      = "https://www.wikidata.org"
	defaultInterval  = time.Millisecond * 250
)

var logger *log.Logger

// endpoints are the Wikidata services the commands talk to.
var endpoints = struct {
	site     string
	sparql   string
	interval time.Duration
}{
	site:     defaultSite,
	sparql:   wikidata.DefaultSPARQLURL,
	interval: defaultInterval,
}

func main() {
	var ctx, cancel = signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		syscall.SIGTERM)

	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"%s\n",
			err.Error())
		os.Exit(1)
	}
} // func main()

func newApp() *cli.App {
	var (
		baseDir = common.Path(path.Base)
		workDir = "."
		minlog  = "TRACE"
	)

	return &cli.App{
		Name:    "gazetteer",
		Usage:   "Build and evaluate named-entity gazetteers from Wikidata and annotated corpora",
		Version: common.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "basedir",
				Value:       baseDir,
				Usage:       "Path for application-specific files",
				Destination: &baseDir,
			},
			&cli.StringFlag{
				Name:        "workdir",
				Value:       workDir,
				Usage:       "Directory holding datasets, gazetteers, label_synonyms and taxonomy",
				Destination: &workDir,
			},
			&cli.StringFlag{
				Name:        "loglevel",
				Value:       minlog,
				Usage:       "Minimum level for log messages to be logged",
				Destination: &minlog,
			},
			&cli.StringFlag{
				Name:        "wikidata",
				Value:       endpoints.site,
				Usage:       "Wikidata site serving Special:Search and the API",
				Destination: &endpoints.site,
			},
			&cli.StringFlag{
				Name:        "sparql",
				Value:       endpoints.sparql,
				Usage:       "Wikidata SPARQL endpoint",
				Destination: &endpoints.sparql,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Value:       endpoints.interval,
				Usage:       "Minimum interval between two requests to Wikidata",
				Destination: &endpoints.interval,
			},
		},
		Before: func(c *cli.Context) error {
			return setup(baseDir, workDir, minlog)
		},
		Commands: commands(),
	}
} // func newApp() *cli.App

func setup(baseDir, workDir, minlog string) error {
	var err error

	fmt.Printf("%s %s built on %s\n",
		common.AppName,
		common.Version,
		common.BuildStamp.Format(common.TimestampFormat))

	if err = common.SetLogLevel(minlog); err != nil {
		return err
	}

	if baseDir != common.Path(path.Base) {
		if err = common.SetBaseDir(baseDir); err != nil {
			return fmt.Errorf("Failed to set Base Directory to %s: %w",
				baseDir,
				err)
		}
	} else if err = common.InitApp(); err != nil {
		return fmt.Errorf("Error initializing application environment: %w", err)
	}

	common.SetWorkDir(workDir)

	if logger, err = common.GetLogger(logdomain.Common); err != nil {
		return err
	}

	return nil
} // func setup(baseDir, workDir, minlog string) error

// checkLang makes sure lang is a valid language tag. If allowAuto is true,
// "auto" is accepted, too.
func checkLang(lang string, allowAuto bool) error {
	if allowAuto && lang == "auto" {
		return nil
	} else if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("Invalid language %q: %w", lang, err)
	}

	return nil
} // func checkLang(lang string, allowAuto bool) error

func openDB() (*database.Database, error) {
	var (
		err error
		db  *database.Database
	)

	if db, err = database.Open(common.Path(path.Database)); err != nil {
		logger.Printf("[ERROR] Cannot open database at %s: %s\n",
			common.Path(path.Database),
			err.Error())
		return nil, err
	}

	return db, nil
} // func openDB() (*database.Database, error)

// checkLimit makes sure a limit on search results or instances is
// positive.
func checkLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("Invalid limit %d: must be at least 1", limit)
	}

	return nil
} // func checkLimit(limit int) error

// checkThreshold makes sure a similarity threshold is within the range of
// the cosine similarity.
func checkThreshold(threshold float64) error {
	if threshold < -1 || threshold > 1 {
		return fmt.Errorf("Invalid threshold %g: must be between -1 and 1", threshold)
	}

	return nil
} // func checkThreshold(threshold float64) error

func openClient(noCache bool) (*wikidata.Client, error) {
	var (
		err       error
		wd        *wikidata.Client
		cachePath = common.Path(path.Cache)
		site      = strings.TrimSuffix(endpoints.site, "/")
	)

	if noCache {
		cachePath = ""
	}

	if wd, err = wikidata.Create(cachePath); err != nil {
		return nil, err
	}

	wd.SearchURL = site + "/w/index.php"
	wd.APIURL = site + "/w/api.php"
	wd.SPARQLURL = endpoints.sparql
	wd.SetInterval(endpoints.interval)

	return wd, nil
} // func openClient(noCache bool) (*wikidata.Client, error)

// closeAll closes everything, logging errors.
func closeAll(closers ...interface{ Close() error }) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Printf("[ERROR] %s\n", err.Error())
		}
	}
} // func closeAll(closers ...interface{ Close() error })
