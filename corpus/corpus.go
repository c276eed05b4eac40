// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/corpus.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-08 16:40:02 krylon>

// Package corpus reads and converts annotated NER corpora.
//
// Two formats are handled: CoNLL-style files with one token per line and
// BIO tags in the fourth column, and "processed" files, which contain
// one entity per line, followed by its tag, grouped under "# id" headers.
package corpus

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	docStart   = "-DOCSTART-"
	idPrefix   = "# id"
	maxLineLen = 1024 * 1024
)

// ErrBadLine indicates a line that does not have the expected number of fields.
var ErrBadLine = errors.New("malformed line")

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d':
		return true
	default:
		return false
	}
} // func isZeroWidth(r rune) bool

// Clean removes zero-width spaces and joiners from a line and trims
// surrounding whitespace.
func Clean(line string) string {
	// A transformer carries state, so we cannot share one between goroutines.
	var t = runes.Remove(runes.Predicate(isZeroWidth))

	if s, _, err := transform.String(t, line); err == nil {
		line = s
	}

	return strings.TrimSpace(line)
} // func Clean(line string) string

// IsDivider returns true if the line separates two sentences or documents.
func IsDivider(line string) bool {
	var fields = strings.Fields(line)

	return len(fields) == 0 || fields[0] == docStart
} // func IsDivider(line string) bool

// IsHeader returns true if the line carries a document ID.
func IsHeader(line string) bool {
	return strings.HasPrefix(line, idPrefix)
} // func IsHeader(line string) bool

// HeaderID returns the document ID from a "# id" line, i.e. its last field.
func HeaderID(line string) string {
	var fields = strings.Fields(line)

	if len(fields) == 0 {
		return ""
	}

	return fields[len(fields)-1]
} // func HeaderID(line string) string

// SplitTagged splits a processed line into the entity and its tag, which is
// the last whitespace-separated field.
func SplitTagged(line string) (entity, tag string, err error) {
	var fields = strings.Fields(line)

	if len(fields) < 2 {
		return "", "", ErrBadLine
	}

	tag = fields[len(fields)-1]
	entity = strings.Join(fields[:len(fields)-1], " ")
	return entity, tag, nil
} // func SplitTagged(line string) (entity, tag string, err error)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error

	for i := len(rc.closers) - 1; i >= 0; i-- {
		if e := rc.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
} // func (rc *readCloser) Close() error

// OpenFile opens a corpus file for reading. Files whose name ends in .gz are
// decompressed transparently.
func OpenFile(path string) (io.ReadCloser, error) {
	var (
		err error
		fh  *os.File
		gz  *gzip.Reader
	)

	if fh, err = os.Open(path); err != nil {
		return nil, err
	} else if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	} else if gz, err = gzip.NewReader(fh); err != nil {
		fh.Close() // nolint: errcheck
		return nil, fmt.Errorf("Cannot open gzip stream in %s: %w",
			path,
			err)
	}

	return &readCloser{Reader: gz, closers: []io.Closer{fh, gz}}, nil
} // func OpenFile(path string) (io.ReadCloser, error)

func newScanner(r io.Reader) *bufio.Scanner {
	var s = bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineLen)
	return s
} // func newScanner(r io.Reader) *bufio.Scanner

// ReadBlocks splits the input into blocks of consecutive lines that are not
// matched by the divider function. Lines are cleaned, dividers dropped.
func ReadBlocks(r io.Reader, divider func(string) bool) ([][]string, error) {
	var (
		blocks  = make([][]string, 0, 64)
		current []string
		scanner = newScanner(r)
	)

	for scanner.Scan() {
		var line = scanner.Text()

		if divider(line) {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}

		current = append(current, Clean(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	} else if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks, nil
} // func ReadBlocks(r io.Reader, divider func(string) bool) ([][]string, error)
