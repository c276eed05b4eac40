// /home/krylon/go/src/github.com/blicero/gazetteer/augment/00_augment_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 06. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-15 17:02:29 krylon>

package augment

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/gazetteer_augment_test_20060102_150405")
	)

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		fmt.Printf("Removing BaseDir %s\n",
			baseDir)
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)

const conll = `# id 42 domain=en
the _ _ O
new _ _ B-LOC
york _ _ I-LOC
times _ _ I-LOC
hired _ _ O
john _ _ B-PER

# id 43 domain=en
hello _ _ O
`

const expectedTemplate = `# id 42 domain=en
the _ _ O
entity _ _ T-LOC
hired _ _ O
entity _ _ T-PER

# id 43 domain=en
hello _ _ O
`

func TestMakeTemplate(t *testing.T) {
	var (
		err error
		cnt int
		buf bytes.Buffer
	)

	if cnt, err = MakeTemplate(strings.NewReader(conll), &buf); err != nil {
		t.Fatalf("MakeTemplate failed: %s", err.Error())
	} else if cnt != 2 {
		t.Errorf("Expected 2 placeholders, got %d", cnt)
	} else if buf.String() != expectedTemplate {
		t.Errorf("Unexpected template:\n%s", buf.String())
	}

	if _, err = MakeTemplate(strings.NewReader("word _ _ LOC\n"), &buf); err == nil {
		t.Error("A tag without prefix should be an error")
	}
} // func TestMakeTemplate(t *testing.T)

func TestLoadTemplates(t *testing.T) {
	var (
		err       error
		templates []Template
	)

	if templates, err = LoadTemplates(strings.NewReader(expectedTemplate)); err != nil {
		t.Fatalf("Cannot load templates: %s", err.Error())
	} else if len(templates) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(templates))
	}

	var fields = strings.Fields(templates[0].Metadata)

	if len(fields) != 4 {
		t.Errorf("Unexpected metadata: %q", templates[0].Metadata)
	} else if _, err = uuid.Parse(fields[2]); err != nil {
		t.Errorf("Document ID %q is not a UUID: %s", fields[2], err.Error())
	} else if fields[3] != "domain=en" {
		t.Errorf("Metadata lost its domain: %q", templates[0].Metadata)
	} else if len(templates[0].Lines) != 4 {
		t.Errorf("Expected 4 lines, got %v", templates[0].Lines)
	} else if templates[0].Metadata == templates[1].Metadata {
		t.Error("Templates should get distinct IDs")
	}
} // func TestLoadTemplates(t *testing.T)

func TestReplace(t *testing.T) {
	var (
		err   error
		lines []string
		tmpl  = &Template{
			Metadata: "# id x",
			Lines: []string{
				"the _ _ O",
				"entity _ _ T-LOC",
				"hired _ _ O",
				"entity _ _ T-PER",
			},
		}
		gzt = Gazetteer{
			"LOC": {"new york"},
			"PER": {"john"},
		}
		rng = rand.New(rand.NewPCG(1, 2))
	)

	if lines, err = Replace(gzt, tmpl, rng); err != nil {
		t.Fatalf("Replace failed: %s", err.Error())
	}

	var expected = []string{
		"# id x",
		"the _ _ O",
		"new _ _ B-LOC",
		"york _ _ I-LOC",
		"hired _ _ O",
		"john _ _ B-PER",
	}

	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %v", len(expected), lines)
	}

	for i, l := range expected {
		if lines[i] != l {
			t.Errorf("Line %d: expected %q, got %q", i, l, lines[i])
		}
	}

	delete(gzt, "PER")

	if _, err = Replace(gzt, tmpl, rng); !errors.Is(err, ErrNoEntries) {
		t.Errorf("Expected ErrNoEntries, got %v", err)
	}
} // func TestReplace(t *testing.T)

func TestAugmenter(t *testing.T) {
	var (
		err  error
		aug  *Augmenter
		buf  bytes.Buffer
		dir  = t.TempDir()
		tpth = filepath.Join(dir, "template.txt")
		gdir = filepath.Join(dir, "gzt")
	)

	if err = os.MkdirAll(gdir, 0755); err != nil {
		t.Fatalf("Cannot create %s: %s", gdir, err.Error())
	} else if err = os.WriteFile(tpth, []byte(expectedTemplate), 0644); err != nil {
		t.Fatalf("Cannot write template: %s", err.Error())
	} else if err = os.WriteFile(filepath.Join(gdir, "LOC.txt"), []byte("berlin\n\nrio de janeiro\n"), 0644); err != nil {
		t.Fatalf("Cannot write gazetteer: %s", err.Error())
	} else if err = os.WriteFile(filepath.Join(gdir, "PER.txt"), []byte("ada lovelace\n"), 0644); err != nil {
		t.Fatalf("Cannot write gazetteer: %s", err.Error())
	} else if aug, err = Load(gdir, tpth, 42); err != nil {
		t.Fatalf("Cannot create Augmenter: %s", err.Error())
	}

	if len(aug.gzt["LOC"]) != 2 {
		t.Errorf("Empty lines should be skipped: %v", aug.gzt["LOC"])
	}

	if err = aug.ReplaceAll(&buf); err != nil {
		t.Fatalf("ReplaceAll failed: %s", err.Error())
	}

	var out = buf.String()

	if n := strings.Count(out, "\n\n"); n != 2 {
		t.Errorf("Expected 2 sentences, got %d:\n%s", n, out)
	} else if !strings.Contains(out, "ada _ _ B-PER\nlovelace _ _ I-PER\n") {
		t.Errorf("PER placeholder was not filled:\n%s", out)
	} else if strings.Contains(out, "T-") {
		t.Errorf("Placeholders left in output:\n%s", out)
	}

	buf.Reset()

	if err = aug.ReplaceRandom(&buf, 5); err != nil {
		t.Fatalf("ReplaceRandom failed: %s", err.Error())
	} else if n := strings.Count(buf.String(), "\n\n"); n != 5 {
		t.Errorf("Expected 5 sentences, got %d", n)
	}

	if aug, err = New(Gazetteer{}, nil, 1); err != nil {
		t.Fatalf("Cannot create Augmenter: %s", err.Error())
	} else if err = aug.ReplaceRandom(&buf, 1); !errors.Is(err, ErrNoTemplates) {
		t.Errorf("Expected ErrNoTemplates, got %v", err)
	}
} // func TestAugmenter(t *testing.T)

func TestMultiDashTag(t *testing.T) {
	const conll = "# id 1\tdomain=en\n" +
		"ann _ _ B-PER-other\n" +
		"lee _ _ I-PER-other\n" +
		"left _ _ O\n"

	var (
		err       error
		buf       bytes.Buffer
		templates []Template
		lines     []string
		gzt       = Gazetteer{"PER-other": {"bob"}}
		rng       = rand.New(rand.NewPCG(3, 4))
	)

	if _, err = MakeTemplate(strings.NewReader(conll), &buf); err != nil {
		t.Fatalf("MakeTemplate failed: %s", err.Error())
	} else if templates, err = LoadTemplates(&buf); err != nil {
		t.Fatalf("Cannot load templates: %s", err.Error())
	} else if len(templates) != 1 {
		t.Fatalf("Expected 1 template, got %d", len(templates))
	} else if lines, err = Replace(gzt, &templates[0], rng); err != nil {
		t.Fatalf("Replace failed: %s", err.Error())
	} else if len(lines) != 3 || lines[1] != "bob _ _ B-PER-other" {
		t.Errorf("Unexpected sentence: %v", lines)
	}
} // func TestMultiDashTag(t *testing.T)
