// /home/krylon/go/src/github.com/blicero/gazetteer/augment/template.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-15 16:22:48 krylon>

// Package augment creates new training sentences by replacing the entities
// of annotated sentences with random entries from a gazetteer.
package augment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blicero/gazetteer/corpus"
	"github.com/google/uuid"
)

const (
	idPrefix    = "# id"
	placeholder = "entity _ _ T-"
	slotPrefix  = "T-"
)

// MakeTemplate turns a CoNLL file into a template file: Every entity is
// collapsed into a single placeholder line carrying its type, all other
// lines are copied. It returns the number of placeholders written.
func MakeTemplate(r io.Reader, w io.Writer) (int, error) {
	var (
		cnt     int
		lineNo  int
		scanner = bufio.NewScanner(r)
		bw      = bufio.NewWriter(w)
	)

	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		lineNo++

		if line == "" {
			bw.WriteString("\n") // nolint: errcheck
			continue
		} else if strings.HasPrefix(line, idPrefix) {
			bw.WriteString(line + "\n") // nolint: errcheck
			continue
		}

		var (
			fields = strings.Fields(line)
			tag    = fields[len(fields)-1]
		)

		if tag == "O" {
			bw.WriteString(line + "\n") // nolint: errcheck
			continue
		}

		var prefix, name, ok = strings.Cut(tag, "-")

		if !ok {
			return cnt, fmt.Errorf("line %d: %w: invalid tag %q",
				lineNo,
				corpus.ErrBadLine,
				tag)
		} else if prefix == "B" {
			bw.WriteString(placeholder + name + "\n") // nolint: errcheck
			cnt++
		}
	}

	if err := scanner.Err(); err != nil {
		return cnt, err
	}

	return cnt, bw.Flush()
} // func MakeTemplate(r io.Reader, w io.Writer) (int, error)

// Template is a sentence in which the entities are placeholders.
type Template struct {
	Metadata string
	Lines    []string
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
} // func isBlank(line string) bool

// freshMetadata replaces the document ID in a "# id" line with a random
// UUID, so every generated sentence has an ID of its own.
func freshMetadata(line string) string {
	var fields = strings.Fields(line)

	if len(fields) < 2 || !strings.HasPrefix(line, idPrefix) {
		fields = []string{"#", "id"}
	}

	if len(fields) < 3 {
		fields = append(fields, uuid.NewString())
	} else {
		fields[2] = uuid.NewString()
	}

	return strings.Join(fields, " ")
} // func freshMetadata(line string) string

// LoadTemplates reads a template file.
func LoadTemplates(r io.Reader) ([]Template, error) {
	var (
		err    error
		blocks [][]string
	)

	if blocks, err = corpus.ReadBlocks(r, isBlank); err != nil {
		return nil, err
	}

	var templates = make([]Template, len(blocks))

	for i, lines := range blocks {
		var (
			t    = &templates[i]
			meta string
		)

		if strings.HasPrefix(lines[0], idPrefix) {
			meta = lines[0]
		}

		t.Metadata = freshMetadata(meta)

		for _, l := range lines {
			if !strings.HasPrefix(l, idPrefix) {
				t.Lines = append(t.Lines, l)
			}
		}
	}

	return templates, nil
} // func LoadTemplates(r io.Reader) ([]Template, error)

// Gazetteer maps labels to their entities.
type Gazetteer map[string][]string

// LoadGazetteer reads every <LABEL>.txt file in dir.
func LoadGazetteer(dir string) (Gazetteer, error) {
	var (
		err   error
		files []string
		gzt   = make(Gazetteer)
	)

	if files, err = filepath.Glob(filepath.Join(dir, "*.txt")); err != nil {
		return nil, err
	}

	for _, p := range files {
		var (
			fh    *os.File
			label = strings.TrimSuffix(filepath.Base(p), ".txt")
		)

		if fh, err = os.Open(p); err != nil {
			return nil, err
		}

		var scanner = bufio.NewScanner(fh)

		for scanner.Scan() {
			if line := corpus.Clean(scanner.Text()); line != "" {
				gzt[label] = append(gzt[label], line)
			}
		}

		err = scanner.Err()
		fh.Close() // nolint: errcheck

		if err != nil {
			return nil, fmt.Errorf("Cannot read %s: %w", p, err)
		}
	}

	return gzt, nil
} // func LoadGazetteer(dir string) (Gazetteer, error)
