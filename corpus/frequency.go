// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/frequency.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-01-29 21:03:55 krylon>

package corpus

import (
	"bufio"
	"fmt"
	"io"
)

// Frequency counts occurrences of tags. It remembers the order in which
// keys were first seen.
type Frequency struct {
	order  []string
	counts map[string]int
}

// NewFrequency creates an empty Frequency.
func NewFrequency() *Frequency {
	return &Frequency{
		order:  make([]string, 0, 16),
		counts: make(map[string]int, 16),
	}
} // func NewFrequency() *Frequency

// Add increments the count for key by n.
func (f *Frequency) Add(key string, n int) {
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}

	f.counts[key] += n
} // func (f *Frequency) Add(key string, n int)

// Inc increments the count for key by one.
func (f *Frequency) Inc(key string) { f.Add(key, 1) }

// Get returns the count for key.
func (f *Frequency) Get(key string) int { return f.counts[key] }

// Keys returns all keys in the order they were first added.
func (f *Frequency) Keys() []string {
	var keys = make([]string, len(f.order))
	copy(keys, f.order)
	return keys
} // func (f *Frequency) Keys() []string

// Len returns the number of distinct keys.
func (f *Frequency) Len() int { return len(f.order) }

// Total returns the sum of all counts.
func (f *Frequency) Total() int {
	var sum int

	for _, n := range f.counts {
		sum += n
	}

	return sum
} // func (f *Frequency) Total() int

// Map returns a copy of the counts.
func (f *Frequency) Map() map[string]int {
	var m = make(map[string]int, len(f.counts))

	for k, v := range f.counts {
		m[k] = v
	}

	return m
} // func (f *Frequency) Map() map[string]int

// WriteTo writes one "KEY COUNT" line per key.
func (f *Frequency) WriteTo(w io.Writer) (int64, error) {
	var (
		err   error
		n     int
		total int64
		bw    = bufio.NewWriter(w)
	)

	for _, k := range f.order {
		if n, err = fmt.Fprintf(bw, "%s %d\n", k, f.counts[k]); err != nil {
			return total, err
		}
		total += int64(n)
	}

	return total, bw.Flush()
} // func (f *Frequency) WriteTo(w io.Writer) (int64, error)
