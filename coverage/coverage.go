// /home/krylon/go/src/github.com/blicero/gazetteer/coverage/coverage.go
// -*- mode: go; coding: utf-8; -*-
// Created on 07. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-15 18:11:36 krylon>

// Package coverage measures how well a gazetteer covers the entities of an
// annotated corpus.
package coverage

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/corpus"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/olekukonko/tablewriter"
)

// NEREntry records the documents an entity appears in and the tags it was
// given.
type NEREntry struct {
	Docs []string
	Tags []string
}

func (e *NEREntry) hasDoc(id string) bool {
	for _, d := range e.Docs {
		if d == id {
			return true
		}
	}

	return false
} // func (e *NEREntry) hasDoc(id string) bool

// HasTag returns true if the entity was seen with the given tag.
func (e *NEREntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}

	return false
} // func (e *NEREntry) HasTag(tag string) bool

// NERDict maps entities to what we know about them. Names are kept in the
// order they were first seen.
type NERDict struct {
	Names   []string
	Entries map[string]*NEREntry
}

// NewNERDict creates an empty NERDict.
func NewNERDict() *NERDict {
	return &NERDict{
		Names:   make([]string, 0, 1024),
		Entries: make(map[string]*NEREntry, 1024),
	}
} // func NewNERDict() *NERDict

// Len returns the number of entities in the NERDict.
func (d *NERDict) Len() int {
	return len(d.Names)
} // func (d *NERDict) Len() int

// BuildNERDict adds the entities of a processed corpus to dict. A tag is
// only recorded for a mention in a document the entity was not seen in
// before.
func BuildNERDict(r io.Reader, dict *NERDict) error {
	var mentions, err = corpus.ReadMentions(r)

	if err != nil {
		return err
	}

	for _, m := range mentions {
		var e, ok = dict.Entries[m.Entity]

		if ok && e.hasDoc(m.DocID) {
			continue
		} else if !ok {
			e = &NEREntry{}
			dict.Entries[m.Entity] = e
			dict.Names = append(dict.Names, m.Entity)
		}

		e.Docs = append(e.Docs, m.DocID)

		if !e.HasTag(m.Tag) {
			e.Tags = append(e.Tags, m.Tag)
		}
	}

	return nil
} // func BuildNERDict(r io.Reader, dict *NERDict) error

// TagFrequency counts, for each tag, the number of distinct entities that
// were given that tag.
func TagFrequency(dict *NERDict) *corpus.Frequency {
	var freq = corpus.NewFrequency()

	for _, name := range dict.Names {
		for _, t := range dict.Entries[name].Tags {
			freq.Inc(t)
		}
	}

	return freq
} // func TagFrequency(dict *NERDict) *corpus.Frequency

// CountFrequency counts the tags of all mentions in a processed corpus.
func CountFrequency(r io.Reader) (*corpus.Frequency, error) {
	return corpus.CountTags(r)
} // func CountFrequency(r io.Reader) (*corpus.Frequency, error)

// Label is the coverage of a single gazetteer file.
type Label struct {
	Name    string
	Total   int
	Covered int
}

// Ratio returns the share of the file's lines that are covered.
func (l *Label) Ratio() float64 {
	if l.Total == 0 {
		return 0
	}

	return float64(l.Covered) / float64(l.Total)
} // func (l *Label) Ratio() float64

func (l *Label) String() string {
	return fmt.Sprintf("%s: Total: %d Covers: %d", l.Name, l.Total, l.Covered)
} // func (l *Label) String() string

// Measure counts, for each <LABEL>.txt file in gztDir, the lines in the file
// and the lines naming an entity that was tagged LABEL in the corpus.
func Measure(dict *NERDict, gztDir string) ([]Label, error) {
	var (
		err    error
		files  []string
		logger *log.Logger
	)

	if logger, err = common.GetLogger(logdomain.Coverage); err != nil {
		return nil, err
	} else if files, err = filepath.Glob(filepath.Join(gztDir, "*.txt")); err != nil {
		logger.Printf("[ERROR] Cannot list gazetteer files in %s: %s\n",
			gztDir,
			err.Error())
		return nil, err
	}

	var labels = make([]Label, 0, len(files))

	for _, p := range files {
		var (
			fh  *os.File
			lbl = Label{Name: strings.TrimSuffix(filepath.Base(p), ".txt")}
		)

		if lbl.Name == "coverage" {
			continue
		} else if fh, err = os.Open(p); err != nil {
			return nil, err
		}

		var scanner = bufio.NewScanner(fh)

		for scanner.Scan() {
			var line = corpus.Clean(scanner.Text())

			lbl.Total++

			if e, ok := dict.Entries[line]; ok && e.HasTag(lbl.Name) {
				lbl.Covered++
			}
		}

		err = scanner.Err()
		fh.Close() // nolint: errcheck

		if err != nil {
			logger.Printf("[ERROR] Cannot read %s: %s\n", p, err.Error())
			return nil, fmt.Errorf("Cannot read %s: %w", p, err)
		}

		logger.Printf("[DEBUG] %s\n", lbl.String())
		labels = append(labels, lbl)
	}

	return labels, nil
} // func Measure(dict *NERDict, gztDir string) ([]Label, error)

// WriteReport renders the coverage of a gazetteer as a table: for each
// label, the number of distinct entities the corpus has for it, the size
// of the gazetteer file and how many of its entries the corpus confirms.
func WriteReport(w io.Writer, freq *corpus.Frequency, labels []Label) {
	var (
		table = tablewriter.NewWriter(w)
		seen  = make(map[string]bool, len(labels))
	)

	table.SetHeader([]string{"Label", "Corpus", "Gazetteer", "Covered", "Ratio"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, l := range labels {
		seen[l.Name] = true
		table.Append([]string{
			l.Name,
			strconv.Itoa(freq.Get(l.Name)),
			strconv.Itoa(l.Total),
			strconv.Itoa(l.Covered),
			fmt.Sprintf("%.3f", l.Ratio()),
		})
	}

	for _, tag := range freq.Keys() {
		if !seen[tag] {
			table.Append([]string{tag, strconv.Itoa(freq.Get(tag)), "0", "0", "-"})
		}
	}

	table.Render()
} // func WriteReport(w io.Writer, freq *corpus.Frequency, labels []Label)
