// /home/krylon/go/src/github.com/blicero/gazetteer/vector/embedder.go
// -*- mode: go; coding: utf-8; -*-
// Created on 25. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-13 17:40:51 krylon>

package vector

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jdkato/prose/tokenize"
	"gonum.org/v1/gonum/floats"
)

const defaultCacheSize = 65536

// Doc is a short text along with its vector, the average of the vectors of
// its tokens.
type Doc struct {
	Text   string
	Tokens []string
	Vector []float64
	norm   float64
}

// HasVector returns true if at least one token of the Doc has a vector.
func (d *Doc) HasVector() bool {
	return d.norm > 0
} // func (d *Doc) HasVector() bool

// Embedder turns texts into Docs.
type Embedder struct {
	model    Model
	tokenize func(string) []string
	cache    *lru.Cache[string, *Doc]
}

// NewEmbedder creates an Embedder on top of a Model. It remembers the Docs
// of the most recent cacheSize texts; if cacheSize is not positive, a
// default is used.
func NewEmbedder(m Model, cacheSize int) (*Embedder, error) {
	var (
		err error
		e   = &Embedder{
			model:    m,
			tokenize: tokenize.TextToWords,
		}
	)

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	if e.cache, err = lru.New[string, *Doc](cacheSize); err != nil {
		return nil, err
	}

	return e, nil
} // func NewEmbedder(m Model, cacheSize int) (*Embedder, error)

// SetTokenizer replaces the function used to split texts into tokens.
func (e *Embedder) SetTokenizer(fn func(string) []string) {
	e.tokenize = fn
	e.cache.Purge()
} // func (e *Embedder) SetTokenizer(fn func(string) []string)

// Embed returns the Doc for a text.
func (e *Embedder) Embed(text string) *Doc {
	if d, ok := e.cache.Get(text); ok {
		return d
	}

	var (
		cnt int
		d   = &Doc{
			Text:   text,
			Tokens: e.tokenize(text),
			Vector: make([]float64, e.model.Dim()),
		}
	)

	for _, tok := range d.Tokens {
		if v, ok := e.model.Lookup(tok); ok {
			floats.Add(d.Vector, v)
			cnt++
		}
	}

	if cnt > 0 {
		floats.Scale(1/float64(len(d.Tokens)), d.Vector)
		d.norm = floats.Norm(d.Vector, 2)
	}

	e.cache.Add(text, d)
	return d
} // func (e *Embedder) Embed(text string) *Doc

// Similarity returns the cosine similarity of two Docs. If either of them
// has no vector, the similarity is 0.
func Similarity(a, b *Doc) float64 {
	if !a.HasVector() || !b.HasVector() {
		return 0
	}

	var sim = floats.Dot(a.Vector, b.Vector) / (a.norm * b.norm)

	// Rounding may push the similarity of two identical vectors past 1.
	return max(-1, min(1, sim))
} // func Similarity(a, b *Doc) float64

// Similarity returns the cosine similarity of two texts.
func (e *Embedder) Similarity(a, b string) float64 {
	return Similarity(e.Embed(a), e.Embed(b))
} // func (e *Embedder) Similarity(a, b string) float64
