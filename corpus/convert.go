// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/convert.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-10 18:25:07 krylon>

package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jdkato/prose/tokenize"
)

// WordTokenize splits a text into words. It first splits the text into
// sentences, then applies the Treebank tokenizer to each sentence.
var WordTokenize = tokenize.TextToWords

// ConvertMultiCoNER turns a MultiCoNER CoNLL file into a processed corpus:
// For each sentence, it writes the "# id" header (minus the domain), one line
// per entity and an empty line.
func ConvertMultiCoNER(r io.Reader, w io.Writer) (*Frequency, error) {
	var (
		err       error
		sentences []Sentence
		freq      = NewFrequency()
		bw        = bufio.NewWriter(w)
	)

	if sentences, err = ReadSentences(r); err != nil {
		return nil, err
	}

	for idx, s := range sentences {
		var header = s.Header()

		if header == "" {
			header = fmt.Sprintf("%s %d", idPrefix, idx+1)
		}

		fmt.Fprintln(bw, header) // nolint: errcheck

		for _, span := range s.Entities() {
			fmt.Fprintln(bw, span.String()) // nolint: errcheck
			freq.Inc(span.Tag)
		}

		if _, err = fmt.Fprintln(bw); err != nil {
			return nil, err
		}
	}

	return freq, bw.Flush()
} // func ConvertMultiCoNER(r io.Reader, w io.Writer) (*Frequency, error)

type vimqRecord struct {
	Sentence string  `json:"sentence"`
	SeqLabel [][]any `json:"seq_label"`
}

// ConvertViMQ turns the ViMQ JSON training file into a list of entities
// with their tags.
func ConvertViMQ(r io.Reader, w io.Writer) (*Frequency, error) {
	var (
		err     error
		records []vimqRecord
		freq    = NewFrequency()
		bw      = bufio.NewWriter(w)
	)

	if err = json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("Cannot decode ViMQ data: %w", err)
	}

	for ridx, rec := range records {
		var words = strings.Fields(rec.Sentence)

		if len(words) == 0 {
			continue
		}

		for _, lbl := range rec.SeqLabel {
			var (
				start, end int
				tag        string
				ok         bool
			)

			if len(lbl) != 3 {
				return nil, fmt.Errorf("%w: record %d has label with %d fields",
					ErrBadLine,
					ridx,
					len(lbl))
			} else if start, ok = asInt(lbl[0]); !ok {
				return nil, fmt.Errorf("%w: record %d: invalid start %v", ErrBadLine, ridx, lbl[0])
			} else if end, ok = asInt(lbl[1]); !ok {
				return nil, fmt.Errorf("%w: record %d: invalid end %v", ErrBadLine, ridx, lbl[1])
			} else if tag, ok = lbl[2].(string); !ok {
				return nil, fmt.Errorf("%w: record %d: invalid tag %v", ErrBadLine, ridx, lbl[2])
			} else if start < 0 || end >= len(words) || start > end {
				return nil, fmt.Errorf("%w: record %d: span [%d, %d] out of range",
					ErrBadLine,
					ridx,
					start,
					end)
			}

			fmt.Fprintf(bw, "%s %s\n", strings.Join(words[start:end+1], " "), tag) // nolint: errcheck
			freq.Inc(tag)
		}
	}

	return freq, bw.Flush()
} // func ConvertViMQ(r io.Reader, w io.Writer) (*Frequency, error)

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
} // func asInt(v any) (int, bool)

type rdrsSpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

type rdrsEntity struct {
	Type  string     `json:"MedEntityType"`
	Spans []rdrsSpan `json:"spans"`
}

// rdrsEntities keeps the entities of a document in the order they appear
// in the JSON object.
type rdrsEntities []rdrsEntity

func (re *rdrsEntities) UnmarshalJSON(b []byte) error {
	var (
		err error
		tok json.Token
		dec = json.NewDecoder(bytes.NewReader(b))
	)

	if tok, err = dec.Token(); err != nil {
		return err
	} else if tok == nil {
		return nil
	} else if tok != json.Delim('{') {
		return fmt.Errorf("entities: expected object, got %v", tok)
	}

	for dec.More() {
		var e rdrsEntity

		if _, err = dec.Token(); err != nil {
			return err
		} else if err = dec.Decode(&e); err != nil {
			return err
		}

		*re = append(*re, e)
	}

	_, err = dec.Token()
	return err
} // func (re *rdrsEntities) UnmarshalJSON(b []byte) error

type rdrsDocument struct {
	TextID   any          `json:"text_id"`
	Text     string       `json:"text"`
	Entities rdrsEntities `json:"entities"`
}

func readRDRS(r io.Reader) ([]rdrsDocument, error) {
	var (
		docs []rdrsDocument
		dec  = json.NewDecoder(r)
	)

	dec.UseNumber()

	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("Cannot decode RDRS data: %w", err)
	}

	return docs, nil
} // func readRDRS(r io.Reader) ([]rdrsDocument, error)

// spanPosition finds the positions of the first and last word of the
// character span [begin, end) in the tokenized text.
func spanPosition(text []rune, begin, end int) (int, int) {
	if begin < 0 {
		begin = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if begin > end {
		begin = end
	}

	var (
		first = len(WordTokenize(string(text[:begin])))
		last  = first + len(WordTokenize(string(text[begin:end]))) - 1
	)

	return first, last
} // func spanPosition(text []rune, begin, end int) (int, int)

// ConvertRDRS turns the RDRS JSON data into a list of entities with their
// MedEntityType.
func ConvertRDRS(r io.Reader, w io.Writer) (*Frequency, error) {
	var (
		err  error
		docs []rdrsDocument
		freq = NewFrequency()
		bw   = bufio.NewWriter(w)
	)

	if docs, err = readRDRS(r); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		var (
			text  = []rune(doc.Text)
			words = WordTokenize(doc.Text)
		)

		for _, ent := range doc.Entities {
			if ent.Type == "" {
				continue
			}

			var tokens []string

			for _, span := range ent.Spans {
				var first, last = spanPosition(text, span.Begin, span.End)

				for i := first; i <= last && i < len(words); i++ {
					tokens = append(tokens, words[i])
				}
			}

			// A span outside the text yields no words.
			if len(tokens) == 0 {
				continue
			}

			fmt.Fprintf(bw, "%s %s\n", strings.Join(tokens, " "), ent.Type) // nolint: errcheck
			freq.Inc(ent.Type)
		}
	}

	return freq, bw.Flush()
} // func ConvertRDRS(r io.Reader, w io.Writer) (*Frequency, error)

// RDRSToCoNLL converts the RDRS JSON data into a BIO-tagged CoNLL file.
func RDRSToCoNLL(r io.Reader, w io.Writer, domain string) error {
	var (
		err  error
		docs []rdrsDocument
		bw   = bufio.NewWriter(w)
	)

	if docs, err = readRDRS(r); err != nil {
		return err
	}

	for didx, doc := range docs {
		var (
			text   = []rune(doc.Text)
			words  = WordTokenize(doc.Text)
			labels = make([]string, len(words))
		)

		for i := range labels {
			labels[i] = "O"
		}

		for _, ent := range doc.Entities {
			var isFirst = true

			if ent.Type == "" {
				continue
			}

			for _, span := range ent.Spans {
				var first, last = spanPosition(text, span.Begin, span.End)

				for i := first; i <= last && i < len(words); i++ {
					labels[i] = "I-" + ent.Type
				}

				if isFirst && first < len(words) {
					labels[first] = "B-" + ent.Type
					isFirst = false
				}
			}
		}

		if didx > 0 {
			fmt.Fprint(bw, "\n\n") // nolint: errcheck
		}

		fmt.Fprintf(bw, "%s %v\tdomain=%s", idPrefix, doc.TextID, domain) // nolint: errcheck

		for i, word := range words {
			if _, err = fmt.Fprintf(bw, "\n%s _ _ %s", word, labels[i]); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
} // func RDRSToCoNLL(r io.Reader, w io.Writer, domain string) error

// WriteFrequencyFile writes the Frequency to the file at path.
func WriteFrequencyFile(path string, f *Frequency) error {
	var (
		err error
		fh  *os.File
	)

	if fh, err = os.Create(path); err != nil {
		return err
	}

	if _, err = f.WriteTo(fh); err != nil {
		fh.Close() // nolint: errcheck
		return err
	}

	return fh.Close()
} // func WriteFrequencyFile(path string, f *Frequency) error
