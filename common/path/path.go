// /home/krylon/go/src/github.com/blicero/gazetteer/common/path/path.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-01-13 18:02:44 krylon>

// Package path provides symbolic constants for the files and directories
// the application uses.
package path

//go:generate stringer -type=ID

// ID identifies a path.
type ID uint8

const (
	Base ID = iota
	Database
	Log
	Cache
	Advisor
	Datasets
	Gazetteers
	LabelSynonyms
	Taxonomy
)

// AllPaths returns a slice of all path IDs.
func AllPaths() []ID {
	return []ID{
		Base,
		Database,
		Log,
		Cache,
		Advisor,
		Datasets,
		Gazetteers,
		LabelSynonyms,
		Taxonomy,
	}
} // func AllPaths() []ID
