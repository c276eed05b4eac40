// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/mentions.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-08 17:11:48 krylon>

package corpus

import (
	"bufio"
	"fmt"
	"io"

	"github.com/blicero/gazetteer/model"
)

// ReadMentions reads a processed corpus and returns all mentions in the
// order they appear. Entity lines that precede the first "# id" header get
// an empty DocID.
func ReadMentions(r io.Reader) ([]model.Mention, error) {
	var (
		err      error
		docID    string
		lineNo   int
		mentions = make([]model.Mention, 0, 256)
		scanner  = newScanner(r)
	)

	for scanner.Scan() {
		var line = Clean(scanner.Text())
		lineNo++

		if IsDivider(line) {
			continue
		} else if IsHeader(line) {
			docID = HeaderID(line)
			continue
		}

		var m = model.Mention{DocID: docID}

		if m.Entity, m.Tag, err = SplitTagged(line); err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, err, line)
		}

		mentions = append(mentions, m)
	}

	if err = scanner.Err(); err != nil {
		return nil, err
	}

	return mentions, nil
} // func ReadMentions(r io.Reader) ([]model.Mention, error)

// ReadDocIDs returns the IDs of all documents of a processed corpus, in the
// order of their headers.
func ReadDocIDs(r io.Reader) ([]string, error) {
	var (
		ids     = make([]string, 0, 256)
		scanner = newScanner(r)
	)

	for scanner.Scan() {
		var line = Clean(scanner.Text())

		if IsDivider(line) || !IsHeader(line) {
			continue
		}

		ids = append(ids, HeaderID(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ids, nil
} // func ReadDocIDs(r io.Reader) ([]string, error)

// Distinct maps each distinct entity of a corpus to the number of times it
// was seen with each tag.
type Distinct struct {
	Names []string
	Tags  map[string]*Frequency
}

// DistinctEntities collects the distinct entities of a processed corpus,
// ignoring mentions whose tag is in skip.
func DistinctEntities(r io.Reader, skip ...string) (*Distinct, error) {
	var (
		err      error
		mentions []model.Mention
		skipSet  = make(map[string]bool, len(skip))
		d        = &Distinct{
			Names: make([]string, 0, 256),
			Tags:  make(map[string]*Frequency, 256),
		}
	)

	for _, s := range skip {
		skipSet[s] = true
	}

	if mentions, err = ReadMentions(r); err != nil {
		return nil, err
	}

	for _, m := range mentions {
		if skipSet[m.Tag] {
			continue
		}

		var f, ok = d.Tags[m.Entity]
		if !ok {
			f = NewFrequency()
			d.Tags[m.Entity] = f
			d.Names = append(d.Names, m.Entity)
		}

		f.Inc(m.Tag)
	}

	return d, nil
} // func DistinctEntities(r io.Reader, skip ...string) (*Distinct, error)

// CountTags counts the tags of all mentions in a processed corpus.
func CountTags(r io.Reader) (*Frequency, error) {
	var (
		err      error
		mentions []model.Mention
		freq     = NewFrequency()
	)

	if mentions, err = ReadMentions(r); err != nil {
		return nil, err
	}

	for _, m := range mentions {
		freq.Inc(m.Tag)
	}

	return freq, nil
} // func CountTags(r io.Reader) (*Frequency, error)

// ExtractLabel writes every distinct entity whose tag is one of targets to w,
// one per line, and returns the number of entities written.
func ExtractLabel(r io.Reader, w io.Writer, targets ...string) (int, error) {
	var (
		err      error
		cnt      int
		mentions []model.Mention
		wanted   = make(map[string]bool, len(targets))
		seen     = make(map[string]bool)
		bw       = bufio.NewWriter(w)
	)

	for _, t := range targets {
		wanted[t] = true
	}

	if mentions, err = ReadMentions(r); err != nil {
		return 0, err
	}

	for _, m := range mentions {
		if !wanted[m.Tag] || seen[m.Entity] {
			continue
		}

		seen[m.Entity] = true
		if _, err = fmt.Fprintln(bw, m.Entity); err != nil {
			return cnt, err
		}
		cnt++
	}

	return cnt, bw.Flush()
} // func ExtractLabel(r io.Reader, w io.Writer, targets ...string) (int, error)
