// /home/krylon/go/src/github.com/blicero/gazetteer/taxonomy/taxonomy.go
// -*- mode: go; coding: utf-8; -*-
// Created on 09. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 17:30:02 krylon>

// Package taxonomy builds gazetteers from a taxonomy, i.e. a list of
// Wikidata classes per label, by asking Wikidata for all instances of
// those classes.
package taxonomy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
)

// ErrEmpty indicates that a taxonomy directory contains no label files.
var ErrEmpty = errors.New("taxonomy is empty")

// InstanceSource returns the labels of the instances of a class.
type InstanceSource interface {
	InstancesOf(ctx context.Context, classID, lang string, limit int) ([]string, error)
}

// Label is a label of a taxonomy with the IDs of its classes.
type Label struct {
	Name    string
	Classes []string
}

// ReadLabel reads a taxonomy file. Each line describes a class, the last
// field of the line is its QID.
func ReadLabel(path string) (*Label, error) {
	var (
		err error
		fh  *os.File
		lbl = &Label{Name: strings.TrimSuffix(filepath.Base(path), ".txt")}
	)

	if fh, err = os.Open(path); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	var scanner = bufio.NewScanner(fh)

	for scanner.Scan() {
		var fields = strings.Fields(scanner.Text())

		if len(fields) > 0 {
			lbl.Classes = append(lbl.Classes, fields[len(fields)-1])
		}
	}

	return lbl, scanner.Err()
} // func ReadLabel(path string) (*Label, error)

// Result summarizes the instances found for a label.
type Result struct {
	Label   string
	Entries int
	Failed  []string
}

// Maker creates gazetteers from taxonomies.
type Maker struct {
	log   *log.Logger
	src   InstanceSource
	Limit int
	Lang  string
}

// New creates a Maker.
func New(src InstanceSource, lang string, limit int) (*Maker, error) {
	var (
		err error
		m   = &Maker{
			src:   src,
			Limit: limit,
			Lang:  lang,
		}
	)

	if m.log, err = common.GetLogger(logdomain.Taxonomy); err != nil {
		return nil, err
	}

	return m, nil
} // func New(src InstanceSource, lang string, limit int) (*Maker, error)

// MakeLabel writes the distinct, lowercased labels of all instances of the
// label's classes to <outDir>/<label>.txt. Classes for which Wikidata
// fails to deliver are logged and skipped.
func (m *Maker) MakeLabel(ctx context.Context, lbl *Label, outDir string) (*Result, error) {
	var (
		err  error
		fh   *os.File
		seen = make(map[string]bool)
		res  = &Result{Label: lbl.Name}
		p    = filepath.Join(outDir, lbl.Name+".txt")
	)

	if fh, err = os.Create(p); err != nil {
		m.log.Printf("[ERROR] Cannot create %s: %s\n",
			p,
			err.Error())
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	var w = bufio.NewWriter(fh)

	for _, class := range lbl.Classes {
		var items []string

		if items, err = m.src.InstancesOf(ctx, class, m.Lang, m.Limit); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			m.log.Printf("[ERROR] Cannot get instances of %s for %s: %s\n",
				class,
				lbl.Name,
				err.Error())
			res.Failed = append(res.Failed, class)
			continue
		}

		for _, item := range items {
			var l = strings.ToLower(item)

			if !seen[l] {
				seen[l] = true
				w.WriteString(l + "\n") // nolint: errcheck
				res.Entries++
			}
		}
	}

	if err = w.Flush(); err != nil {
		return nil, err
	}

	m.log.Printf("[INFO] %s: %d entries from %d classes\n",
		lbl.Name,
		res.Entries,
		len(lbl.Classes))

	return res, nil
} // func (m *Maker) MakeLabel(ctx context.Context, lbl *Label, outDir string) (*Result, error)

// Make processes every <LABEL>.txt file in taxDir and writes the gazetteer
// to outDir.
func (m *Maker) Make(ctx context.Context, taxDir, outDir string) ([]*Result, error) {
	var (
		err   error
		files []string
	)

	if files, err = filepath.Glob(filepath.Join(taxDir, "*.txt")); err != nil {
		return nil, err
	} else if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, taxDir)
	} else if err = os.MkdirAll(outDir, 0755); err != nil {
		m.log.Printf("[ERROR] Cannot create %s: %s\n",
			outDir,
			err.Error())
		return nil, err
	}

	var results = make([]*Result, 0, len(files))

	for _, f := range files {
		var (
			lbl *Label
			res *Result
		)

		m.log.Printf("[INFO] Processing %s\n", f)

		if lbl, err = ReadLabel(f); err != nil {
			m.log.Printf("[ERROR] Cannot read %s: %s\n",
				f,
				err.Error())
			return results, err
		} else if res, err = m.MakeLabel(ctx, lbl, outDir); err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
} // func (m *Maker) Make(ctx context.Context, taxDir, outDir string) ([]*Result, error)
