// /home/krylon/go/src/github.com/blicero/gazetteer/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-03 19:40:12 krylon>

// Package logdomain provides symbolic constants for the subsystems that
// write to the log.
package logdomain

//go:generate stringer -type=ID

// ID identifies a log domain.
type ID uint8

const (
	Common ID = iota
	Database
	Corpus
	Wikidata
	Vector
	Scorer
	Builder
	Augment
	Coverage
	Dump
	Taxonomy
	Translate
	Advisor
	Web
	Blacklist
)

// AllDomains returns a slice of all log domains.
func AllDomains() []ID {
	return []ID{
		Common,
		Database,
		Corpus,
		Wikidata,
		Vector,
		Scorer,
		Builder,
		Augment,
		Coverage,
		Dump,
		Taxonomy,
		Translate,
		Advisor,
		Web,
		Blacklist,
	}
} // func AllDomains() []ID
