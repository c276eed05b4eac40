// /home/krylon/go/src/github.com/blicero/gazetteer/corpus/02_convert_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-10 18:40:30 krylon>

package corpus

import (
	"strings"
	"testing"

	"github.com/blicero/gazetteer/model"
)

func TestConvertViMQ(t *testing.T) {
	const input = `[
  {"sentence": "tôi bị đau đầu ở hà nội", "seq_label": [[2, 3, "SYMPTOM_AND_DISEASE"], [5, 6, "LOCATION"]]},
  {"sentence": "", "seq_label": [[0, 0, "X"]]}
]`

	var (
		err  error
		freq *Frequency
		buf  strings.Builder
	)

	if freq, err = ConvertViMQ(strings.NewReader(input), &buf); err != nil {
		t.Fatalf("ConvertViMQ failed: %s", err.Error())
	}

	const expected = "đau đầu SYMPTOM_AND_DISEASE\nhà nội LOCATION\n"

	if buf.String() != expected {
		t.Errorf("Unexpected output: %q", buf.String())
	} else if freq.Len() != 2 {
		t.Errorf("Expected 2 tags, got %d", freq.Len())
	}
} // func TestConvertViMQ(t *testing.T)

func TestConvertViMQOutOfRange(t *testing.T) {
	const input = `[{"sentence": "one two", "seq_label": [[1, 4, "X"]]}]`
	var buf strings.Builder

	if _, err := ConvertViMQ(strings.NewReader(input), &buf); err == nil {
		t.Error("A span beyond the end of the sentence should be an error")
	}
} // func TestConvertViMQOutOfRange(t *testing.T)

const rdrsSample = `[
  {
    "text_id": 1426094,
    "text": "сильная головная боль и тошнота",
    "entities": {
      "2": {"MedEntityType": "ADR", "spans": [{"begin": 8, "end": 22}]},
      "1": {"MedEntityType": "Disease", "spans": [{"begin": 24, "end": 31}]},
      "3": {"spans": [{"begin": 0, "end": 7}]}
    }
  }
]`

func withFieldTokenizer(t *testing.T) {
	var saved = WordTokenize
	WordTokenize = strings.Fields
	t.Cleanup(func() { WordTokenize = saved })
} // func withFieldTokenizer(t *testing.T)

func TestConvertRDRS(t *testing.T) {
	withFieldTokenizer(t)

	var (
		err  error
		freq *Frequency
		buf  strings.Builder
	)

	if freq, err = ConvertRDRS(strings.NewReader(rdrsSample), &buf); err != nil {
		t.Fatalf("ConvertRDRS failed: %s", err.Error())
	}

	// Entities must come out in document order, and the one without a
	// type is dropped.
	const expected = "головная боль ADR\nтошнота Disease\n"

	if buf.String() != expected {
		t.Errorf("Unexpected output: %q", buf.String())
	} else if freq.Get("ADR") != 1 || freq.Get("Disease") != 1 {
		t.Errorf("Unexpected frequencies: %v", freq.Map())
	}
} // func TestConvertRDRS(t *testing.T)

func TestRDRSToCoNLL(t *testing.T) {
	withFieldTokenizer(t)

	var buf strings.Builder

	if err := RDRSToCoNLL(strings.NewReader(rdrsSample), &buf, "med"); err != nil {
		t.Fatalf("RDRSToCoNLL failed: %s", err.Error())
	}

	const expected = "# id 1426094\tdomain=med\n" +
		"сильная _ _ O\n" +
		"головная _ _ B-ADR\n" +
		"боль _ _ I-ADR\n" +
		"и _ _ O\n" +
		"тошнота _ _ B-Disease"

	if buf.String() != expected {
		t.Errorf("Unexpected output:\n%s\nExpected:\n%s",
			buf.String(),
			expected)
	}
} // func TestRDRSToCoNLL(t *testing.T)

func TestConvertRDRSEmptySpan(t *testing.T) {
	withFieldTokenizer(t)

	const sample = `[
  {
    "text_id": 7,
    "text": "сильная головная боль и тошнота",
    "entities": {
      "1": {"MedEntityType": "Drugname", "spans": [{"begin": 40, "end": 45}]},
      "2": {"MedEntityType": "Disease", "spans": [{"begin": 24, "end": 31}]}
    }
  }
]`

	var (
		err      error
		freq     *Frequency
		mentions []model.Mention
		buf      strings.Builder
	)

	if freq, err = ConvertRDRS(strings.NewReader(sample), &buf); err != nil {
		t.Fatalf("ConvertRDRS failed: %s", err.Error())
	} else if buf.String() != "тошнота Disease\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	} else if freq.Get("Drugname") != 0 {
		t.Errorf("Entity without words should not be counted: %v", freq.Map())
	}

	if mentions, err = ReadMentions(strings.NewReader(buf.String())); err != nil {
		t.Fatalf("Cannot read converted corpus: %s", err.Error())
	} else if len(mentions) != 1 || mentions[0].Entity != "тошнота" {
		t.Errorf("Unexpected mentions: %v", mentions)
	}
} // func TestConvertRDRSEmptySpan(t *testing.T)
