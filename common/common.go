// /home/krylon/go/src/github.com/blicero/gazetteer/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 20:17:33 krylon>

// Package common provides constants, variables and functions used
// throughout the application.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/krylib"
	"github.com/hashicorp/logutils"
)

const (
	// AppName is the name of the application.
	AppName = "Gazetteer"
	// Version is the version number of the application.
	Version = "0.4.1"
	// Debug, if true, causes the application to log additional messages.
	Debug = true
	// TimestampFormat is the format string used for displaying time stamps.
	TimestampFormat = "2006-01-02 15:04:05"
	// UserAgent is sent with every request to Wikidata.
	UserAgent = AppName + "/" + Version + " (https://github.com/blicero/gazetteer)"
	// CheckpointEvery is the number of entities between two checkpoints.
	CheckpointEvery = 100
	// PauseEvery is the number of entities after which we give Wikidata a rest.
	PauseEvery = 1000
	// PauseDuration is the length of that rest.
	PauseDuration = time.Second * 300
)

// BuildStamp is the time the binary was built.
var BuildStamp = time.Date(2025, 2, 11, 20, 17, 33, 0, time.Local)

// LogLevels are the names of the log levels supported by the logger.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

// PackageLevels defines minimum log levels per package.
var PackageLevels = make(map[logdomain.ID]logutils.LogLevel, len(LogLevels))

// MinLogLevel is the minimum level a message must have to be logged.
var MinLogLevel logutils.LogLevel = "TRACE"

func init() {
	for _, id := range logdomain.AllDomains() {
		PackageLevels[id] = MinLogLevel
	}
} // func init()

var (
	baseDir = filepath.Join(
		os.Getenv("HOME"),
		fmt.Sprintf(".%s.d", strings.ToLower(AppName)))
	workDir  = "."
	lock     sync.RWMutex
	logLock  sync.Mutex
	logFile  *os.File
	initDirs = map[path.ID]bool{
		path.Base:    true,
		path.Advisor: true,
	}
)

// Path returns the absolute path of the file or directory identified by
// the given ID.
func Path(p path.ID) string {
	lock.RLock()
	defer lock.RUnlock()

	switch p {
	case path.Base:
		return baseDir
	case path.Database:
		return filepath.Join(baseDir, strings.ToLower(AppName)+".db")
	case path.Log:
		return filepath.Join(baseDir, strings.ToLower(AppName)+".log")
	case path.Cache:
		return filepath.Join(baseDir, "cache.db")
	case path.Advisor:
		return filepath.Join(baseDir, "advisor")
	case path.Datasets:
		return filepath.Join(workDir, "datasets")
	case path.Gazetteers:
		return filepath.Join(workDir, "gazetteers")
	case path.LabelSynonyms:
		return filepath.Join(workDir, "label_synonyms")
	case path.Taxonomy:
		return filepath.Join(workDir, "label_taxonomy")
	default:
		panic(fmt.Sprintf("Invalid path ID: %d", p))
	}
} // func Path(p path.ID) string

// SetBaseDir sets the application's base directory. This should only be done
// during initialization.
// Once the log file and the database are opened, this is useless at best and
// opens a world of confusion at worst, so this function should only be called
// at program startup.
func SetBaseDir(p string) error {
	fmt.Printf("Setting BASE_DIR to %s\n", p)

	lock.Lock()
	baseDir = p
	lock.Unlock()

	logLock.Lock()
	if logFile != nil {
		logFile.Close() // nolint: errcheck
		logFile = nil
	}
	logLock.Unlock()

	if err := InitApp(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error initializing application environment: %s\n",
			err.Error())
		return err
	}

	return nil
} // func SetBaseDir(p string) error

// SetWorkDir sets the directory relative to which datasets, gazetteers,
// label synonyms and taxonomies are looked up.
func SetWorkDir(p string) {
	lock.Lock()
	workDir = p
	lock.Unlock()
} // func SetWorkDir(p string)

// SetLogLevel sets the minimum level for all log domains.
func SetLogLevel(lvl string) error {
	var l = logutils.LogLevel(strings.ToUpper(lvl))

	for _, candidate := range LogLevels {
		if candidate == l {
			MinLogLevel = l
			for _, id := range logdomain.AllDomains() {
				PackageLevels[id] = l
			}
			return nil
		}
	}

	return fmt.Errorf("Invalid log level %q", lvl)
} // func SetLogLevel(lvl string) error

// GetLogger tries to create a named logger instance and return it.
// If the directory to hold the log file does not exist, try to create it.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err     error
		logName = fmt.Sprintf("%s.%s",
			AppName,
			dom)
	)

	if err = InitApp(); err != nil {
		return nil, fmt.Errorf("Error initializing application environment: %s", err.Error())
	}

	logLock.Lock()
	defer logLock.Unlock()

	if logFile == nil {
		var logfile = Path(path.Log)
		if logFile, err = os.OpenFile(logfile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600); err != nil {
			return nil, fmt.Errorf("Error opening log file %s: %s",
				logfile,
				err.Error())
		}
	}

	var writer = io.MultiWriter(os.Stdout, logFile)

	var lvl, ok = PackageLevels[dom]
	if !ok {
		lvl = MinLogLevel
	}

	filter := &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: lvl,
		Writer:   writer,
	}

	logger := log.New(filter, logName+" ", log.Ldate|log.Ltime|log.Lshortfile)
	return logger, nil
} // func GetLogger(name string) (*log.Logger, error)

// InitApp performs some basic preparations for the application to run.
// Currently, this means creating the base directory and its subfolders.
func InitApp() error {
	var (
		err    error
		exists bool
	)

	for p := range initDirs {
		var dir = Path(p)
		if exists, err = krylib.Fexists(dir); err != nil {
			return err
		} else if exists {
			continue
		} else if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("Error creating directory %s: %s",
				dir,
				err.Error())
		}
	}

	return nil
} // func InitApp() error
