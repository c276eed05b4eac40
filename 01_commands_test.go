// /home/krylon/go/src/github.com/blicero/gazetteer/01_commands_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-19 19:20:44 krylon>

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	fold1 = "# id d1\nberlin LOC\nangela merkel PER\n"
	fold2 = "# id d2\ndanube LOC\n"
)

func prepareWorkDir(t *testing.T) {
	var corpora = filepath.Join(workDir, "corpora")

	writeFile(t, filepath.Join(corpora, "rdrs"), fold1+"\n"+fold2)
	writeFile(t, filepath.Join(corpora, "rdrs1"), fold1)
	writeFile(t, filepath.Join(corpora, "rdrs2"), fold2)
	for _, n := range []string{"rdrs3", "rdrs4", "rdrs5"} {
		writeFile(t, filepath.Join(corpora, n), fold1)
	}

	writeFile(t, filepath.Join(workDir, "label_synonyms", "rdrs", "LOC.txt"), "city\nriver\n")
	writeFile(t, filepath.Join(workDir, "label_synonyms", "rdrs", "PER.txt"), "human\n")
	writeFile(t, filepath.Join(workDir, "vectors.txt"),
		"city 1 0 0\nriver 0 0 1\nhuman 0 1 0\n")
} // func prepareWorkDir(t *testing.T)

func TestCommands(t *testing.T) {
	prepareWorkDir(t)

	var (
		corpus  = filepath.Join(workDir, "corpora", "rdrs")
		vectors = filepath.Join(workDir, "vectors.txt")
		gzt1    = filepath.Join(workDir, "gazetteers", "gzt_rdrs1_thr_0_90_lim_3")
		gzt2    = filepath.Join(workDir, "gazetteers", "gzt_rdrs2_thr_0_90_lim_3")
	)

	type testCase struct {
		name string
		args []string
		err  string
		out  []string
	}

	var testCases = []testCase{
		{
			name: "collect without data",
			args: []string{"collect"},
			err:  `"data"`,
		},
		{
			name: "collect with zero limit",
			args: []string{"collect", "--data", corpus, "--limit", "0"},
			err:  "Invalid limit",
		},
		{
			name: "collect with bad language",
			args: []string{"collect", "--data", corpus, "--lang", "not a language"},
			err:  "Invalid language",
		},
		{
			name: "collect",
			args: []string{"collect", "--data", corpus, "--nocache"},
		},
		{
			name: "build with zero limit",
			args: []string{"build", "--data", corpus, "--vectors", vectors, "--limit", "0"},
			err:  "Invalid limit",
		},
		{
			name: "build with bad threshold",
			args: []string{"build", "--data", corpus, "--vectors", vectors, "--threshold", "1.5"},
			err:  "Invalid threshold",
		},
		{
			name: "build",
			args: []string{"build", "--data", corpus, "--vectors", vectors, "--threshold", "0.9"},
			out: []string{
				"gzt_rdrs1_thr_0_90_lim_3: 2 entities processed",
				"gzt_rdrs2_thr_0_90_lim_3: 1 entities processed",
				"gzt_rdrs5_thr_0_90_lim_3",
			},
		},
		{
			name: "coverage",
			args: []string{"coverage", "--data", corpus + "1", "--gazetteer", gzt1},
			out:  []string{"LABEL", "LOC", "PER", "1.000"},
		},
	}

	for _, c := range testCases {
		var out, err = run(c.args...)

		if c.err != "" {
			if err == nil {
				t.Errorf("%s: expected an error containing %q", c.name, c.err)
			} else if !strings.Contains(err.Error(), c.err) {
				t.Errorf("%s: expected an error containing %q, got %q",
					c.name,
					c.err,
					err.Error())
			}
			continue
		} else if err != nil {
			t.Fatalf("%s failed: %s", c.name, err.Error())
		}

		for _, s := range c.out {
			if !strings.Contains(out, s) {
				t.Errorf("%s: output lacks %q:\n%s", c.name, s, out)
			}
		}
	}

	var dsFile = filepath.Join(workDir, "datasets", "rdrs", "rdrs_ners_dict.json")

	if _, err := os.Stat(dsFile); err != nil {
		t.Errorf("collect did not save the dataset: %s", err.Error())
	}

	var expected = map[string]string{
		filepath.Join(gzt1, "LOC.txt"): "berlin\n",
		filepath.Join(gzt1, "PER.txt"): "angela merkel\n",
		filepath.Join(gzt2, "LOC.txt"): "danube\n",
	}

	for p, content := range expected {
		if raw, err := os.ReadFile(p); err != nil {
			t.Errorf("Cannot read %s: %s", p, err.Error())
		} else if string(raw) != content {
			t.Errorf("Unexpected content of %s: %q", p, raw)
		}
	}

	if _, err := os.Stat(filepath.Join(gzt2, "PER.txt")); !os.IsNotExist(err) {
		t.Errorf("rdrs2 has no PER entities, yet PER.txt exists (%v)", err)
	}
} // func TestCommands(t *testing.T)

func TestCheckParams(t *testing.T) {
	if err := checkLimit(1); err != nil {
		t.Errorf("Limit 1 should be accepted: %s", err.Error())
	} else if err = checkLimit(-3); err == nil {
		t.Error("A negative limit should be rejected")
	}

	for _, thr := range []float64{-1, 0, 0.75, 1} {
		if err := checkThreshold(thr); err != nil {
			t.Errorf("Threshold %g should be accepted: %s", thr, err.Error())
		}
	}

	for _, thr := range []float64{-1.01, 1.5} {
		if err := checkThreshold(thr); err == nil {
			t.Errorf("Threshold %g should be rejected", thr)
		}
	}
} // func TestCheckParams(t *testing.T)
