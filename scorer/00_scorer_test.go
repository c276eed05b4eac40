// /home/krylon/go/src/github.com/blicero/gazetteer/scorer/00_scorer_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 27. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-13 18:51:07 krylon>

package scorer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/gazetteer/vector"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/gazetteer_scorer_test_20060102_150405")
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

func testEmbedder(t *testing.T) *vector.Embedder {
	var (
		err error
		mdl *vector.Memory
		emb *vector.Embedder
	)

	if mdl, err = vector.NewMemory(map[string][]float64{
		"city":   {1.0, 0.0, 0.0},
		"town":   {0.9, 0.1, 0.0},
		"person": {0.0, 1.0, 0.0},
		"river":  {0.0, 0.0, 1.0},
	}); err != nil {
		t.Fatalf("Cannot create model: %s", err.Error())
	} else if emb, err = vector.NewEmbedder(mdl, 64); err != nil {
		t.Fatalf("Cannot create Embedder: %s", err.Error())
	}

	emb.SetTokenizer(strings.Fields)
	return emb
} // func testEmbedder(t *testing.T) *vector.Embedder

func writeSynonyms(t *testing.T, files map[string]string) string {
	var dir = t.TempDir()

	for name, content := range files {
		var p = filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Cannot write %s: %s", p, err.Error())
		}
	}

	return dir
} // func writeSynonyms(t *testing.T, files map[string]string) string

func TestLoadSynonyms(t *testing.T) {
	var (
		err error
		s   *Scorer
		emb = testEmbedder(t)
		dir = writeSynonyms(t, map[string]string{
			"PER.txt":   "person\n",
			"LOC.txt":   "city\n\ntown\n",
			"notes.md":  "not a label\n",
			"GRP.txt":   "",
			"README":    "whatever",
			"CORP.txt":  "company\n",
			"extra.txt": "river\n",
		})
	)

	if s, err = LoadSynonyms(emb, dir); err != nil {
		t.Fatalf("Cannot load synonyms: %s", err.Error())
	}

	var (
		labels   = s.Labels()
		expected = []string{"CORP", "GRP", "LOC", "PER", "extra"}
	)

	if len(labels) != len(expected) {
		t.Fatalf("Expected labels %v, got %v", expected, labels)
	}

	for i, l := range expected {
		if labels[i] != l {
			t.Errorf("Label #%d: expected %s, got %s", i, l, labels[i])
		}
	}

	if !s.HasLabel("LOC") {
		t.Error("Scorer should know label LOC")
	} else if s.HasLabel("MISC") {
		t.Error("Scorer should not know label MISC")
	}

	for _, l := range s.labels {
		if l.Name == "LOC" && len(l.Synonyms) != 2 {
			t.Errorf("Expected 2 synonyms for LOC, got %d", len(l.Synonyms))
		}
	}

	if _, err = LoadSynonyms(emb, t.TempDir()); !errors.Is(err, ErrNoLabels) {
		t.Errorf("Expected ErrNoLabels for empty directory, got %v", err)
	}
} // func TestLoadSynonyms(t *testing.T)

func TestAssign(t *testing.T) {
	var (
		err error
		s   *Scorer
		dir = writeSynonyms(t, map[string]string{
			"LOC.txt": "city\ntown\n",
			"PER.txt": "person\n",
		})
		topics = []model.Topic{
			{Label: "mountain", QID: "Q8502"},
			{Label: "town", QID: "Q3957"},
		}
	)

	if s, err = LoadSynonyms(testEmbedder(t), dir); err != nil {
		t.Fatalf("Cannot load synonyms: %s", err.Error())
	}

	var res = s.Assign(topics, 0.99)

	if len(res) != 1 {
		t.Fatalf("Expected 1 assignment, got %d: %v", len(res), res)
	} else if res[0].Label != "LOC" {
		t.Errorf("Expected label LOC, got %s", res[0].Label)
	} else if res[0].Topic.QID != "Q3957" {
		t.Errorf("Expected topic Q3957, got %s", res[0].Topic.QID)
	} else if res[0].Synonym != "town" {
		t.Errorf("Expected synonym town, got %s", res[0].Synonym)
	} else if res[0].Score < 0.99 {
		t.Errorf("Score %f is below the threshold", res[0].Score)
	}

	// With a threshold of zero, every label gets the first topic that
	// has a vector.
	res = s.Assign(topics, 0)

	if len(res) != 2 {
		t.Fatalf("Expected 2 assignments, got %d: %v", len(res), res)
	}

	for _, a := range res {
		if a.Topic.Label != "town" {
			t.Errorf("Label %s was assigned via %s, expected town",
				a.Label,
				a.Topic.Label)
		}
	}

	if res = s.Assign([]model.Topic{{Label: "mountain"}}, 0); len(res) != 0 {
		t.Errorf("Topics without vectors should not be assigned: %v", res)
	}

	if res = s.Assign(nil, 0.5); len(res) != 0 {
		t.Errorf("No topics should yield no assignments: %v", res)
	}
} // func TestAssign(t *testing.T)
