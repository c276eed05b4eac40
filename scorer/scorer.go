// /home/krylon/go/src/github.com/blicero/gazetteer/scorer/scorer.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-13 18:44:30 krylon>

// Package scorer decides which labels an entity belongs to, by comparing
// the Wikidata topics of the entity to a list of synonyms for each label.
package scorer

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/gazetteer/vector"
)

// ErrNoLabels indicates that a synonym directory contains no label files.
var ErrNoLabels = errors.New("no label synonyms found")

// Label is an entity type along with the Docs of its synonyms.
type Label struct {
	Name     string
	Synonyms []*vector.Doc
}

// Assignment records that an entity was assigned to a label, because one of
// its topics was similar enough to one of the label's synonyms.
type Assignment struct {
	Label   string
	Topic   model.Topic
	Synonym string
	Score   float64
}

// Scorer assigns entities to labels.
type Scorer struct {
	log    *log.Logger
	emb    *vector.Embedder
	labels []Label
}

// LoadSynonyms creates a Scorer from a directory of synonym files. Each file
// <LABEL>.txt holds the synonyms of one label, one per line.
func LoadSynonyms(emb *vector.Embedder, dir string) (*Scorer, error) {
	var (
		err   error
		files []string
		s     = &Scorer{emb: emb}
	)

	if s.log, err = common.GetLogger(logdomain.Scorer); err != nil {
		return nil, err
	} else if files, err = filepath.Glob(filepath.Join(dir, "*.txt")); err != nil {
		s.log.Printf("[ERROR] Cannot list synonym files in %s: %s\n",
			dir,
			err.Error())
		return nil, err
	} else if len(files) == 0 {
		s.log.Printf("[ERROR] %s contains no label synonyms\n", dir)
		return nil, fmt.Errorf("%w in %s", ErrNoLabels, dir)
	}

	s.labels = make([]Label, 0, len(files))

	for _, path := range files {
		var lbl Label

		if lbl, err = s.loadLabel(path); err != nil {
			return nil, err
		}

		s.labels = append(s.labels, lbl)
	}

	return s, nil
} // func LoadSynonyms(emb *vector.Embedder, dir string) (*Scorer, error)

func (s *Scorer) loadLabel(path string) (Label, error) {
	var (
		err error
		fh  *os.File
		lbl = Label{
			Name: strings.TrimSuffix(filepath.Base(path), ".txt"),
		}
	)

	if fh, err = os.Open(path); err != nil {
		s.log.Printf("[ERROR] Cannot open %s: %s\n",
			path,
			err.Error())
		return lbl, err
	}

	defer fh.Close() // nolint: errcheck

	var scanner = bufio.NewScanner(fh)

	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		lbl.Synonyms = append(lbl.Synonyms, s.emb.Embed(line))
	}

	if err = scanner.Err(); err != nil {
		s.log.Printf("[ERROR] Cannot read %s: %s\n",
			path,
			err.Error())
		return lbl, err
	}

	s.log.Printf("[DEBUG] Loaded %d synonyms for label %s\n",
		len(lbl.Synonyms),
		lbl.Name)

	return lbl, nil
} // func (s *Scorer) loadLabel(path string) (Label, error)

// Labels returns the names of all labels, in alphabetical order.
func (s *Scorer) Labels() []string {
	var names = make([]string, len(s.labels))

	for i, l := range s.labels {
		names[i] = l.Name
	}

	return names
} // func (s *Scorer) Labels() []string

// HasLabel returns true if the Scorer knows the given label.
func (s *Scorer) HasLabel(name string) bool {
	for _, l := range s.labels {
		if l.Name == name {
			return true
		}
	}

	return false
} // func (s *Scorer) HasLabel(name string) bool

// best returns the synonym of lbl most similar to the topic.
func (s *Scorer) best(lbl *Label, topic *vector.Doc) (string, float64, bool) {
	var (
		found   bool
		maxSim  float64
		synonym string
	)

	for _, syn := range lbl.Synonyms {
		if !syn.HasVector() {
			continue
		}

		var sim = vector.Similarity(topic, syn)

		if !found || sim > maxSim {
			found = true
			maxSim = sim
			synonym = syn.Text
		}

		if maxSim == 1 {
			break
		}
	}

	return synonym, maxSim, found
} // func (s *Scorer) best(lbl *Label, topic *vector.Doc) (string, float64, bool)

// Assign returns the labels the topics qualify an entity for. For each
// label, the topics are examined in order, and the first topic whose
// similarity to one of the label's synonyms reaches the threshold decides.
func (s *Scorer) Assign(topics []model.Topic, threshold float64) []Assignment {
	var (
		result = make([]Assignment, 0, 2)
		docs   = make([]*vector.Doc, len(topics))
	)

	for i, t := range topics {
		docs[i] = s.emb.Embed(t.Label)
	}

	for i := range s.labels {
		var lbl = &s.labels[i]

		for j, t := range topics {
			if !docs[j].HasVector() {
				continue
			}

			var syn, score, ok = s.best(lbl, docs[j])

			if ok && score >= threshold {
				result = append(result, Assignment{
					Label:   lbl.Name,
					Topic:   t,
					Synonym: syn,
					Score:   score,
				})
				break
			}
		}
	}

	return result
} // func (s *Scorer) Assign(topics []model.Topic, threshold float64) []Assignment
