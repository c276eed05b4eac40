// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/sentence.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-08 16:52:19 krylon>

package corpus

import (
	"fmt"
	"io"
	"strings"
)

// Sentence is a sentence from a CoNLL file, reduced to the tokens that are
// part of an entity.
type Sentence struct {
	Metadata string
	Tokens   []string
	Tags     []string
}

// Span is an entity extracted from a Sentence.
type Span struct {
	Text string
	Tag  string
}

func (s Span) String() string {
	return s.Text + " " + s.Tag
} // func (s Span) String() string

// ReadSentences reads a CoNLL file. For every sentence, the "# id" line, if
// present, is kept as metadata, and the tokens and tags of all lines not
// tagged O are collected.
func ReadSentences(r io.Reader) ([]Sentence, error) {
	var (
		err    error
		blocks [][]string
	)

	if blocks, err = ReadBlocks(r, IsDivider); err != nil {
		return nil, err
	}

	var sentences = make([]Sentence, 0, len(blocks))

	for bidx, lines := range blocks {
		var s Sentence

		if IsHeader(lines[0]) {
			s.Metadata = lines[0]
		}

		for lidx, line := range lines {
			if IsHeader(line) || strings.HasSuffix(line, "O") {
				continue
			}

			var fields = strings.Fields(line)
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w in sentence %d, line %d: %q",
					ErrBadLine,
					bidx+1,
					lidx+1,
					line)
			}

			s.Tokens = append(s.Tokens, fields[0])
			s.Tags = append(s.Tags, fields[3])
		}

		sentences = append(sentences, s)
	}

	return sentences, nil
} // func ReadSentences(r io.Reader) ([]Sentence, error)

// Entities merges the tokens of the Sentence into entity spans. A span ends
// when the following tag begins a new entity or the sentence ends.
func (s *Sentence) Entities() []Span {
	var (
		spans = make([]Span, 0, 4)
		words []string
	)

	for i, tag := range s.Tags {
		var suffix = tag

		if idx := strings.Index(tag, "-"); idx >= 0 {
			suffix = tag[idx+1:]
		}

		words = append(words, s.Tokens[i])

		if i == len(s.Tags)-1 || strings.HasPrefix(s.Tags[i+1], "B") {
			spans = append(spans, Span{Text: strings.Join(words, " "), Tag: suffix})
			words = nil
		}
	}

	return spans
} // func (s *Sentence) Entities() []Span

// Header returns the Sentence's metadata without its last field, which in
// MultiCoNER is the domain.
func (s *Sentence) Header() string {
	var fields = strings.Fields(s.Metadata)

	if len(fields) == 0 {
		return ""
	}

	return strings.Join(fields[:len(fields)-1], " ")
} // func (s *Sentence) Header() string
