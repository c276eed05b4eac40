// /home/krylon/go/src/github.com/blicero/gazetteer/vector/vector.go
// -*- mode: go; coding: utf-8; -*-
// Created on 25. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-13 17:22:08 krylon>

// Package vector provides word vectors and the similarity of short texts
// based on them.
package vector

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ynqa/wego/pkg/embedding"
)

// ErrNoVectors indicates that a model does not contain any vectors.
var ErrNoVectors = errors.New("model contains no vectors")

// ErrDimension indicates vectors of different dimensions in the same model.
var ErrDimension = errors.New("inconsistent vector dimensions")

// Model maps words to vectors.
type Model interface {
	Lookup(word string) ([]float64, bool)
	Dim() int
}

// Memory is a Model that keeps all its vectors in memory.
type Memory struct {
	dim     int
	vectors map[string][]float64
}

// NewMemory creates a Model from a map of words to vectors. All vectors
// must have the same dimension.
func NewMemory(vectors map[string][]float64) (*Memory, error) {
	var m = &Memory{vectors: make(map[string][]float64, len(vectors))}

	for word, vec := range vectors {
		if m.dim == 0 {
			m.dim = len(vec)
		} else if len(vec) != m.dim {
			return nil, fmt.Errorf("%w: %q has %d dimensions, expected %d",
				ErrDimension,
				word,
				len(vec),
				m.dim)
		}

		m.vectors[word] = vec
	}

	if m.dim == 0 {
		return nil, ErrNoVectors
	}

	return m, nil
} // func NewMemory(vectors map[string][]float64) (*Memory, error)

// Lookup returns the vector for word. If the word itself is unknown, its
// lowercase form is tried.
func (m *Memory) Lookup(word string) ([]float64, bool) {
	if v, ok := m.vectors[word]; ok {
		return v, true
	} else if lc := strings.ToLower(word); lc != word {
		v, ok = m.vectors[lc]
		return v, ok
	}

	return nil, false
} // func (m *Memory) Lookup(word string) ([]float64, bool)

// Dim returns the dimension of the Model's vectors.
func (m *Memory) Dim() int { return m.dim }

// Len returns the number of words in the Model.
func (m *Memory) Len() int { return len(m.vectors) }

// isHeader returns true for the "<count> <dim>" line that word2vec and
// fastText put at the start of their text files.
func isHeader(line string) bool {
	var fields = strings.Fields(line)

	if len(fields) != 2 {
		return false
	}

	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}

	return true
} // func isHeader(line string) bool

// LoadText reads vectors in the word2vec/fastText text format: one word per
// line, followed by the components of its vector. An optional header line
// is skipped.
func LoadText(r io.Reader) (*Memory, error) {
	var (
		err  error
		embs embedding.Embeddings
		br   = bufio.NewReader(r)
		head string
	)

	if head, err = br.ReadString('\n'); err != nil && err != io.EOF {
		return nil, err
	}

	var src io.Reader = br

	if !isHeader(head) {
		src = io.MultiReader(bytes.NewReader([]byte(head)), br)
	}

	if embs, err = embedding.Load(src); err != nil {
		return nil, fmt.Errorf("Cannot load vectors: %w", err)
	}

	var vectors = make(map[string][]float64, len(embs))

	for _, e := range embs {
		vectors[e.Word] = e.Vector
	}

	return NewMemory(vectors)
} // func LoadText(r io.Reader) (*Memory, error)

// LoadFile loads vectors from a text file. Files whose name ends in .gz are
// decompressed.
func LoadFile(path string) (*Memory, error) {
	var (
		err error
		fh  *os.File
		r   io.Reader
	)

	if fh, err = os.Open(path); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	r = fh

	if strings.HasSuffix(path, ".gz") {
		var gz *gzip.Reader

		if gz, err = gzip.NewReader(fh); err != nil {
			return nil, fmt.Errorf("Cannot open gzip stream in %s: %w",
				path,
				err)
		}

		defer gz.Close() // nolint: errcheck
		r = gz
	}

	return LoadText(r)
} // func LoadFile(path string) (*Memory, error)
