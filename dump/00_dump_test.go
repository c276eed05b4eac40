// /home/krylon/go/src/github.com/blicero/gazetteer/dump/00_dump_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 16:04:51 krylon>

package dump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/dsnet/compress/bzip2"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/gazetteer_dump_test_20060102_150405")
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

func item(id, class string, labels map[string]string) string {
	var parts = make([]string, 0, len(labels))

	for lang, val := range labels {
		parts = append(parts, fmt.Sprintf(`%q: {"language": %q, "value": %q}`, lang, lang, val))
	}

	return fmt.Sprintf(`{"id": %q, "type": "item", "labels": {%s}, "claims": {"P31": [{"mainsnak": {"snaktype": "value", "property": "P31", "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": %q}}}}]}}`,
		id,
		strings.Join(parts, ", "),
		class)
} // func item(id, class string, labels map[string]string) string

func testDump() string {
	var lines = []string{
		"[",
		item("Q64", "Q515", map[string]string{"en": "Berlin", "de": "Berlin"}) + ",",
		item("Q1055", "Q515", map[string]string{"de": "Hamburg"}) + ",",
		"{this is not json},",
		item("Q5", "Q16521", map[string]string{"en": "human"}) + ",",
		item("Q1726", "Q515", map[string]string{"en": "Munich", "fr": "Munich"}),
		"]",
	}

	return strings.Join(lines, "\n") + "\n"
} // func testDump() string

func readLines(t *testing.T, p string) []string {
	var raw, err = os.ReadFile(p)

	if err != nil {
		t.Fatalf("Cannot read %s: %s", p, err.Error())
	}

	return strings.Split(strings.TrimSpace(string(raw)), "\n")
} // func readLines(t *testing.T, p string) []string

func TestScan(t *testing.T) {
	var (
		err error
		s   *Scanner
		res Labels
		st  Stats
	)

	if s, err = New(t.TempDir(), []string{"Q515"}, []string{"en", "de"}); err != nil {
		t.Fatalf("Cannot create Scanner: %s", err.Error())
	} else if res, st, err = s.Scan(context.Background(), strings.NewReader(testDump())); err != nil {
		t.Fatalf("Scan failed: %s", err.Error())
	}

	if st.Entities != 4 {
		t.Errorf("Expected 4 entities, got %d", st.Entities)
	} else if st.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", st.Errors)
	} else if st.Labels != 4 {
		t.Errorf("Expected 4 labels, got %d", st.Labels)
	}

	if en := res["en"]["Q515"]; len(en) != 2 || en[0] != "Berlin" || en[1] != "Munich" {
		t.Errorf("Unexpected English labels: %v", en)
	} else if de := res["de"]["Q515"]; len(de) != 2 || de[1] != "Hamburg" {
		t.Errorf("Unexpected German labels: %v", de)
	} else if _, ok := res["en"]["Q16521"]; ok {
		t.Error("Labels of unwanted classes should not be collected")
	}
} // func TestScan(t *testing.T)

func TestScanFile(t *testing.T) {
	var (
		err    error
		s      *Scanner
		st     Stats
		fh     *os.File
		bw     *bzip2.Writer
		dir    = t.TempDir()
		outDir = filepath.Join(dir, "out")
		dpath  = filepath.Join(dir, "dump.json.bz2")
	)

	if fh, err = os.Create(dpath); err != nil {
		t.Fatalf("Cannot create %s: %s", dpath, err.Error())
	} else if bw, err = bzip2.NewWriter(fh, &bzip2.WriterConfig{Level: bzip2.BestSpeed}); err != nil {
		t.Fatalf("Cannot create bzip2 writer: %s", err.Error())
	} else if _, err = bw.Write([]byte(testDump())); err != nil {
		t.Fatalf("Cannot write dump: %s", err.Error())
	} else if err = bw.Close(); err != nil {
		t.Fatalf("Cannot close bzip2 writer: %s", err.Error())
	} else if err = fh.Close(); err != nil {
		t.Fatalf("Cannot close %s: %s", dpath, err.Error())
	}

	if s, err = New(outDir, []string{"Q515"}, []string{"en", "de"}); err != nil {
		t.Fatalf("Cannot create Scanner: %s", err.Error())
	} else if st, err = s.ScanFile(context.Background(), dpath); err != nil {
		t.Fatalf("ScanFile failed: %s", err.Error())
	} else if st.Skipped || st.Labels != 4 {
		t.Errorf("Unexpected stats: %#v", st)
	}

	var lines = readLines(t, filepath.Join(outDir, "de", "Q515.txt"))
	if len(lines) != 2 || lines[0] != "Berlin" || lines[1] != "Hamburg" {
		t.Errorf("Unexpected German labels: %v", lines)
	}

	if st, err = s.ScanFile(context.Background(), dpath); err != nil {
		t.Fatalf("Second ScanFile failed: %s", err.Error())
	} else if !st.Skipped {
		t.Error("A file that was processed before should be skipped")
	}

	if lines = readLines(t, filepath.Join(outDir, "en", "Q515.txt")); len(lines) != 2 {
		t.Errorf("Labels should not be written twice: %v", lines)
	}
} // func TestScanFile(t *testing.T)
