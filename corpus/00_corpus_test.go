// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/00_corpus_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-08 17:30:41 krylon>

package corpus

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	type testCase struct {
		input    string
		expected string
	}

	var testCases = []testCase{
		{input: "  plain line \n", expected: "plain line"},
		{input: "zero\u200bwidth", expected: "zerowidth"},
		{input: "\u200c\u200djoiners\u200d", expected: "joiners"},
		{input: "", expected: ""},
	}

	for _, c := range testCases {
		if s := Clean(c.input); s != c.expected {
			t.Errorf("Clean(%q) = %q, expected %q",
				c.input,
				s,
				c.expected)
		}
	}
} // func TestClean(t *testing.T)

func TestIsDivider(t *testing.T) {
	type testCase struct {
		line     string
		expected bool
	}

	var testCases = []testCase{
		{line: "", expected: true},
		{line: "   \t", expected: true},
		{line: "-DOCSTART- -X- O O", expected: true},
		{line: "# id 1234 domain=en", expected: false},
		{line: "berlin _ _ B-LOC", expected: false},
	}

	for _, c := range testCases {
		if res := IsDivider(c.line); res != c.expected {
			t.Errorf("IsDivider(%q) = %t, expected %t",
				c.line,
				res,
				c.expected)
		}
	}
} // func TestIsDivider(t *testing.T)

const conllSample = `-DOCSTART- -X- O O

# id 8e2c4e3a domain=en
the _ _ O
new _ _ B-LOC
york _ _ I-LOC
times _ _ B-CORP
reported _ _ O
barack _ _ B-PER
obama _ _ I-PER

# id 91aa77f0 domain=en
nothing _ _ O
here _ _ O
`

func TestReadSentences(t *testing.T) {
	var (
		err       error
		sentences []Sentence
	)

	if sentences, err = ReadSentences(strings.NewReader(conllSample)); err != nil {
		t.Fatalf("Failed to read sentences: %s", err.Error())
	} else if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d", len(sentences))
	}

	var s = sentences[0]

	if s.Metadata != "# id 8e2c4e3a domain=en" {
		t.Errorf("Unexpected metadata: %q", s.Metadata)
	} else if s.Header() != "# id 8e2c4e3a" {
		t.Errorf("Unexpected header: %q", s.Header())
	}

	var spans = s.Entities()
	var expected = []string{"new york LOC", "times CORP", "barack obama PER"}

	if len(spans) != len(expected) {
		t.Fatalf("Expected %d entities, got %d: %v",
			len(expected),
			len(spans),
			spans)
	}

	for i, span := range spans {
		if span.String() != expected[i] {
			t.Errorf("Entity #%d: expected %q, got %q",
				i,
				expected[i],
				span.String())
		}
	}

	if n := len(sentences[1].Entities()); n != 0 {
		t.Errorf("Sentence without entities yielded %d spans", n)
	}
} // func TestReadSentences(t *testing.T)

func TestReadSentencesBadLine(t *testing.T) {
	const input = "# id 1 domain=en\nbroken B-LOC\n"

	if _, err := ReadSentences(strings.NewReader(input)); err == nil {
		t.Error("Malformed line should have caused an error")
	}
} // func TestReadSentencesBadLine(t *testing.T)

func TestConvertMultiCoNER(t *testing.T) {
	var (
		err  error
		freq *Frequency
		buf  strings.Builder
	)

	if freq, err = ConvertMultiCoNER(strings.NewReader(conllSample), &buf); err != nil {
		t.Fatalf("Conversion failed: %s", err.Error())
	}

	const expected = `# id 8e2c4e3a
new york LOC
times CORP
barack obama PER

# id 91aa77f0

`

	if buf.String() != expected {
		t.Errorf("Unexpected output:\n%s\nExpected:\n%s",
			buf.String(),
			expected)
	}

	if freq.Get("LOC") != 1 || freq.Get("PER") != 1 || freq.Get("CORP") != 1 {
		t.Errorf("Unexpected frequencies: %v", freq.Map())
	} else if keys := freq.Keys(); strings.Join(keys, ",") != "LOC,CORP,PER" {
		t.Errorf("Keys should keep insertion order, got %v", keys)
	}
} // func TestConvertMultiCoNER(t *testing.T)
