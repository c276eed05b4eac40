// /home/krylon/go/src/github.com/blicero/gazetteer/builder/00_builder_main_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 31. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 19:02:46 krylon>

package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/gazetteer/vector"
)

var (
	db      *database.Database
	baseDir string
)

const testCorpus = `# id d1
berlin LOC
angela merkel PER

# id d2
berlin LOC
danube LOC
broken LOC

# id d3
angela merkel PER
`

var errLookup = errors.New("lookup failed")

// fakeSource serves canned topics and counts the lookups.
type fakeSource struct {
	lock   sync.Mutex
	calls  map[string]int
	topics map[string][]model.Topic
	fail   map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls: make(map[string]int),
		topics: map[string][]model.Topic{
			"berlin": {
				{Label: "city", QID: "Q515"},
				{Label: "capital", QID: "Q5119"},
			},
			"angela merkel": {{Label: "human", QID: "Q5"}},
			"danube":        {{Label: "river", QID: "Q4022"}},
			"broken":        {{Label: "town", QID: "Q3957"}},
		},
		fail: map[string]bool{"broken": true},
	}
} // func newFakeSource() *fakeSource

func (f *fakeSource) SearchTopics(_ context.Context, query, _ string, _ int) ([]model.Topic, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls[query]++

	if f.fail[query] {
		return f.topics[query], errLookup
	}

	return f.topics[query], nil
} // func (f *fakeSource) SearchTopics(_ context.Context, query, _ string, _ int) ([]model.Topic, error)

func (f *fakeSource) total() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	var n int
	for _, c := range f.calls {
		n += c
	}

	return n
} // func (f *fakeSource) total() int

func TestMain(m *testing.M) {
	var (
		err    error
		result int
	)

	baseDir = time.Now().Format("/tmp/gazetteer_builder_test_20060102_150405")

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	}

	common.SetWorkDir(baseDir)

	if db, err = database.Open(common.Path(path.Database)); err != nil {
		fmt.Printf("Cannot open database: %s\n", err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		db.Close() // nolint: errcheck
		fmt.Printf("Removing BaseDir %s\n",
			baseDir)
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)

func writeFile(t *testing.T, p, content string) {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Cannot create directory for %s: %s", p, err.Error())
	} else if err = os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Cannot write %s: %s", p, err.Error())
	}
} // func writeFile(t *testing.T, p, content string)

func readLines(t *testing.T, p string) []string {
	var raw, err = os.ReadFile(p)

	if err != nil {
		t.Fatalf("Cannot read %s: %s", p, err.Error())
	}

	return strings.Split(strings.TrimSpace(string(raw)), "\n")
} // func readLines(t *testing.T, p string) []string

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
		"human":  {0.0, 1.0, 0.05},
		"river":  {0.0, 0.0, 1.0},
	}); err != nil {
		t.Fatalf("Cannot create model: %s", err.Error())
	} else if emb, err = vector.NewEmbedder(mdl, 64); err != nil {
		t.Fatalf("Cannot create Embedder: %s", err.Error())
	}

	emb.SetTokenizer(strings.Fields)
	return emb
} // func testEmbedder(t *testing.T) *vector.Embedder
