// /home/krylon/go/src/github.com/blicero/gazetteer/dump/dump.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 15:48:20 krylon>

// Package dump extracts the labels of all instances of a set of classes
// from a Wikidata JSON dump.
package dump

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/wikidata"
	"github.com/blicero/krylib"
	"github.com/dsnet/compress/bzip2"
)

// DoneFile is the name of the file in the output directory that lists the
// dump files that have been processed completely.
const DoneFile = "done"

const (
	maxLineSize = 64 * 1024 * 1024
	checkEvery  = 10000
)

// Stats summarizes a pass over a dump file.
type Stats struct {
	Lines    int
	Entities int
	Errors   int
	Labels   int
	Skipped  bool
}

// Labels maps a language to the labels found for each class.
type Labels map[string]map[string][]string

// Scanner reads Wikidata dumps.
type Scanner struct {
	log     *log.Logger
	outDir  string
	classes map[string]bool
	langs   []string
}

// New creates a Scanner that collects the labels, in the given languages,
// of all instances (P31) of the given classes. The labels are written to
// <outDir>/<lang>/<class>.txt.
func New(outDir string, classes, langs []string) (*Scanner, error) {
	var (
		err error
		s   = &Scanner{
			outDir:  outDir,
			classes: make(map[string]bool, len(classes)),
			langs:   langs,
		}
	)

	if s.log, err = common.GetLogger(logdomain.Dump); err != nil {
		return nil, err
	}

	for _, c := range classes {
		s.classes[c] = true
	}

	return s, nil
} // func New(outDir string, classes, langs []string) (*Scanner, error)

// ReadList reads a file with one item per line, such as a list of classes.
// Empty lines are skipped.
func ReadList(path string) ([]string, error) {
	var (
		err  error
		fh   *os.File
		list []string
	)

	if fh, err = os.Open(path); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	var scanner = bufio.NewScanner(fh)

	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			list = append(list, line)
		}
	}

	return list, scanner.Err()
} // func ReadList(path string) ([]string, error)

func (s *Scanner) match(e *wikidata.Entity, res Labels) int {
	var cnt int

	for _, c := range e.Claims[wikidata.PropInstanceOf] {
		var class = c.EntityID()

		if !s.classes[class] {
			continue
		}

		for _, lang := range s.langs {
			if lbl := e.Label(lang); lbl != "" {
				if res[lang] == nil {
					res[lang] = make(map[string][]string)
				}

				res[lang][class] = append(res[lang][class], lbl)
				cnt++
			}
		}
	}

	return cnt
} // func (s *Scanner) match(e *wikidata.Entity, res Labels) int

// Scan reads a dump with one entity per line. Lines that cannot be decoded
// are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) (Labels, Stats, error) {
	var (
		st      Stats
		res     = make(Labels, len(s.langs))
		scanner = bufio.NewScanner(r)
	)

	scanner.Buffer(make([]byte, 1024*1024), maxLineSize)

	for scanner.Scan() {
		var (
			err  error
			e    wikidata.Entity
			line = strings.TrimSpace(scanner.Text())
		)

		st.Lines++

		if st.Lines%checkEvery == 0 {
			if err = ctx.Err(); err != nil {
				return nil, st, err
			}
		}

		if line == "" || line == "[" || line == "]" {
			continue
		}

		line = strings.TrimSuffix(line, ",")

		if err = json.Unmarshal([]byte(line), &e); err != nil {
			s.log.Printf("[ERROR] Cannot decode line %d: %s\n",
				st.Lines,
				err.Error())
			st.Errors++
			continue
		}

		st.Entities++
		st.Labels += s.match(&e, res)
	}

	if err := scanner.Err(); err != nil {
		return nil, st, err
	}

	return res, st, nil
} // func (s *Scanner) Scan(ctx context.Context, r io.Reader) (Labels, Stats, error)

func openDump(path string) (io.ReadCloser, error) {
	var (
		err error
		fh  *os.File
		bz  *bzip2.Reader
	)

	if fh, err = os.Open(path); err != nil {
		return nil, err
	} else if !strings.HasSuffix(path, ".bz2") {
		return fh, nil
	} else if bz, err = bzip2.NewReader(fh, &bzip2.ReaderConfig{}); err != nil {
		fh.Close() // nolint: errcheck
		return nil, err
	}

	return &dumpReader{Reader: bz, bz: bz, fh: fh}, nil
} // func openDump(path string) (io.ReadCloser, error)

type dumpReader struct {
	io.Reader
	bz *bzip2.Reader
	fh *os.File
}

func (d *dumpReader) Close() error {
	var err = d.bz.Close()

	if cerr := d.fh.Close(); err == nil {
		err = cerr
	}

	return err
} // func (d *dumpReader) Close() error

// Done returns the dump files that have been processed before.
func (s *Scanner) Done() (map[string]bool, error) {
	var (
		err    error
		exists bool
		list   []string
		path   = filepath.Join(s.outDir, DoneFile)
		done   = make(map[string]bool)
	)

	if exists, err = krylib.Fexists(path); err != nil {
		return nil, err
	} else if !exists {
		return done, nil
	} else if list, err = ReadList(path); err != nil {
		return nil, err
	}

	for _, f := range list {
		done[f] = true
	}

	return done, nil
} // func (s *Scanner) Done() (map[string]bool, error)

func appendLines(path string, lines []string) error {
	var (
		err error
		fh  *os.File
	)

	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	} else if fh, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644); err != nil {
		return err
	}

	var w = bufio.NewWriter(fh)

	for _, l := range lines {
		w.WriteString(l + "\n") // nolint: errcheck
	}

	if err = w.Flush(); err != nil {
		fh.Close() // nolint: errcheck
		return err
	}

	return fh.Close()
} // func appendLines(path string, lines []string) error

// Write appends the labels to the per-language, per-class files in the
// output directory.
func (s *Scanner) Write(res Labels) error {
	for lang, classes := range res {
		for class, labels := range classes {
			var p = filepath.Join(s.outDir, lang, class+".txt")

			if err := appendLines(p, labels); err != nil {
				s.log.Printf("[ERROR] Cannot write %s: %s\n",
					p,
					err.Error())
				return err
			}
		}
	}

	return nil
} // func (s *Scanner) Write(res Labels) error

// ScanFile processes a dump file, plain or compressed with bzip2, unless it
// is listed in the done file already. Once its labels have been written,
// the file is added to the done file.
func (s *Scanner) ScanFile(ctx context.Context, path string) (Stats, error) {
	var (
		err  error
		fh   io.ReadCloser
		done map[string]bool
		res  Labels
		st   Stats
	)

	if done, err = s.Done(); err != nil {
		return st, err
	} else if done[path] {
		s.log.Printf("[INFO] Skipping %s, it has been processed already\n", path)
		st.Skipped = true
		return st, nil
	} else if fh, err = openDump(path); err != nil {
		s.log.Printf("[ERROR] Cannot open %s: %s\n",
			path,
			err.Error())
		return st, err
	}

	defer fh.Close() // nolint: errcheck

	if res, st, err = s.Scan(ctx, fh); err != nil {
		s.log.Printf("[ERROR] Failed to scan %s: %s\n",
			path,
			err.Error())
		return st, err
	} else if err = s.Write(res); err != nil {
		return st, err
	} else if err = appendLines(filepath.Join(s.outDir, DoneFile), []string{path}); err != nil {
		return st, fmt.Errorf("Cannot mark %s as done: %w", path, err)
	}

	s.log.Printf("[INFO] %s: %d entities, %d labels, %d errors\n",
		path,
		st.Entities,
		st.Labels,
		st.Errors)

	return st, nil
} // func (s *Scanner) ScanFile(ctx context.Context, path string) (Stats, error)
