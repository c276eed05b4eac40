// /home/krylon/go/src/github.com/blicero/gazetteer/taxonomy/00_taxonomy_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 09. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 17:41:19 krylon>

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/gazetteer_taxonomy_test_20060102_150405")
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

var errTimeout = errors.New("query timed out")

type fakeSource map[string][]string

func (f fakeSource) InstancesOf(_ context.Context, classID, _ string, _ int) ([]string, error) {
	if items, ok := f[classID]; ok {
		return items, nil
	}

	return nil, errTimeout
} // func (f fakeSource) InstancesOf(_ context.Context, classID, _ string, _ int) ([]string, error)

func TestMake(t *testing.T) {
	var (
		err     error
		mk      *Maker
		results []*Result
		dir     = t.TempDir()
		taxDir  = filepath.Join(dir, "taxonomy")
		outDir  = filepath.Join(dir, "gzt")
		src     = fakeSource{
			"Q12136":  {"Influenza", "Measles", "influenza"},
			"Q169872": {"Fever", "Measles"},
		}
	)

	if err = os.MkdirAll(taxDir, 0755); err != nil {
		t.Fatalf("Cannot create %s: %s", taxDir, err.Error())
	} else if err = os.WriteFile(
		filepath.Join(taxDir, "Disease.txt"),
		[]byte("disease Q12136\nsymptom Q169872\nbroken class Q404\n"),
		0644); err != nil {
		t.Fatalf("Cannot write taxonomy: %s", err.Error())
	} else if mk, err = New(src, "en", 1000); err != nil {
		t.Fatalf("Cannot create Maker: %s", err.Error())
	} else if results, err = mk.Make(context.Background(), taxDir, outDir); err != nil {
		t.Fatalf("Make failed: %s", err.Error())
	} else if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	var res = results[0]

	if res.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", res.Entries)
	} else if len(res.Failed) != 1 || res.Failed[0] != "Q404" {
		t.Errorf("Expected Q404 to fail, got %v", res.Failed)
	}

	var raw []byte

	if raw, err = os.ReadFile(filepath.Join(outDir, "Disease.txt")); err != nil {
		t.Fatalf("Cannot read gazetteer: %s", err.Error())
	} else if s := string(raw); s != "influenza\nmeasles\nfever\n" {
		t.Errorf("Unexpected gazetteer:\n%s", s)
	}

	if _, err = mk.Make(context.Background(), t.TempDir(), outDir); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}

	if lbl, err := ReadLabel(filepath.Join(taxDir, "Disease.txt")); err != nil {
		t.Errorf("Cannot read taxonomy: %s", err.Error())
	} else if strings.Join(lbl.Classes, ",") != "Q12136,Q169872,Q404" {
		t.Errorf("Unexpected classes: %v", lbl.Classes)
	}
} // func TestMake(t *testing.T)
