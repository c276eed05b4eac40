// /home/krylon/go/src/github.com/blicero/gazetteer/augment/replace.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-15 16:40:13 krylon>

package augment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
)

// ErrNoEntries indicates that a template asks for a label the gazetteer has
// no entries for.
var ErrNoEntries = errors.New("gazetteer has no entries for label")

// ErrNoTemplates indicates that there is nothing to pick a template from.
var ErrNoTemplates = errors.New("no templates")

// Replace fills the placeholders of a template with random entries of the
// gazetteer. The first word of an entry is tagged B-<LABEL>, the following
// words I-<LABEL>.
func Replace(gzt Gazetteer, t *Template, rng *rand.Rand) ([]string, error) {
	var res = make([]string, 1, len(t.Lines)+1)

	res[0] = t.Metadata

	for _, line := range t.Lines {
		var fields = strings.Fields(line)

		if len(fields) == 0 || !strings.HasPrefix(fields[len(fields)-1], slotPrefix) {
			res = append(res, line)
			continue
		}

		var (
			tag     = fields[len(fields)-1]
			label   = strings.TrimPrefix(tag, slotPrefix)
			entries = gzt[label]
		)

		if len(entries) == 0 {
			return nil, fmt.Errorf("%w %s", ErrNoEntries, label)
		}

		var words = strings.Fields(entries[rng.IntN(len(entries))])

		res = append(res, fmt.Sprintf("%s _ _ B-%s", words[0], label))
		for _, w := range words[1:] {
			res = append(res, fmt.Sprintf("%s _ _ I-%s", w, label))
		}
	}

	return res, nil
} // func Replace(gzt Gazetteer, t *Template, rng *rand.Rand) ([]string, error)

// Augmenter generates sentences from a set of templates and a gazetteer.
type Augmenter struct {
	log       *log.Logger
	gzt       Gazetteer
	templates []Template
	rng       *rand.Rand
}

// New creates an Augmenter. If seed is zero, the random number generator is
// seeded from the clock.
func New(gzt Gazetteer, templates []Template, seed uint64) (*Augmenter, error) {
	var (
		err error
		a   = &Augmenter{
			gzt:       gzt,
			templates: templates,
		}
	)

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	a.rng = rand.New(rand.NewPCG(seed, seed>>1|1))

	if a.log, err = common.GetLogger(logdomain.Augment); err != nil {
		return nil, err
	}

	return a, nil
} // func New(gzt Gazetteer, templates []Template, seed uint64) (*Augmenter, error)

// Load creates an Augmenter from a gazetteer directory and a template file.
func Load(gztDir, templatePath string, seed uint64) (*Augmenter, error) {
	var (
		err       error
		fh        *os.File
		gzt       Gazetteer
		templates []Template
	)

	if gzt, err = LoadGazetteer(gztDir); err != nil {
		return nil, err
	} else if fh, err = os.Open(templatePath); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	if templates, err = LoadTemplates(fh); err != nil {
		return nil, err
	}

	return New(gzt, templates, seed)
} // func Load(gztDir, templatePath string, seed uint64) (*Augmenter, error)

func (a *Augmenter) write(w *bufio.Writer, t *Template) error {
	var (
		err   error
		lines []string
	)

	if lines, err = Replace(a.gzt, t, a.rng); err != nil {
		a.log.Printf("[ERROR] Cannot fill template %s: %s\n",
			t.Metadata,
			err.Error())
		return err
	}

	for _, l := range lines {
		w.WriteString(l + "\n") // nolint: errcheck
	}

	_, err = w.WriteString("\n")
	return err
} // func (a *Augmenter) write(w *bufio.Writer, t *Template) error

// ReplaceAll fills every template once and writes the results to w.
func (a *Augmenter) ReplaceAll(w io.Writer) error {
	var bw = bufio.NewWriter(w)

	for i := range a.templates {
		if err := a.write(bw, &a.templates[i]); err != nil {
			return err
		}
	}

	a.log.Printf("[INFO] Generated %d sentences\n", len(a.templates))

	return bw.Flush()
} // func (a *Augmenter) ReplaceAll(w io.Writer) error

// ReplaceRandom fills n randomly chosen templates and writes the results
// to w.
func (a *Augmenter) ReplaceRandom(w io.Writer, n int) error {
	var bw = bufio.NewWriter(w)

	if len(a.templates) == 0 {
		return ErrNoTemplates
	}

	for i := 0; i < n; i++ {
		var t = &a.templates[a.rng.IntN(len(a.templates))]

		if err := a.write(bw, t); err != nil {
			return err
		}
	}

	a.log.Printf("[INFO] Generated %d sentences\n", n)

	return bw.Flush()
} // func (a *Augmenter) ReplaceRandom(w io.Writer, n int) error
