// /home/krylon/go/src/github.com/blicero/gazetteer/builder/02_collect_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 01. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 19:10:37 krylon>

package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/model"
)

var (
	collected bool
	src       = newFakeSource()
)

func corpusPath(name string) string {
	return filepath.Join(baseDir, "corpora", name)
} // func corpusPath(name string) string

func TestCollect(t *testing.T) {
	var (
		err error
		b   *Builder
		ds  *Dataset
	)

	writeFile(t, corpusPath("testset"), testCorpus)

	if b, err = New(db, src, nil); err != nil {
		t.Fatalf("Cannot create Builder: %s", err.Error())
	}

	b.PauseEvery = 0
	b.CheckpointEvery = 2

	if ds, err = b.Collect(context.Background(), corpusPath("testset"), 3, "en"); err != nil {
		t.Fatalf("Collect failed: %s", err.Error())
	} else if len(ds.Entities) != 4 {
		t.Errorf("Expected 4 entities, got %d", len(ds.Entities))
	} else if n := src.total(); n != 4 {
		t.Errorf("Expected 4 lookups, got %d", n)
	}

	if rec := ds.Entities["berlin"]; rec == nil {
		t.Error("berlin is missing from the dataset")
	} else if len(rec.Docs) != 2 || rec.Docs[0] != "d1" || rec.Docs[1] != "d2" {
		t.Errorf("Unexpected documents for berlin: %v", rec.Docs)
	} else if rec.Tag != "LOC" {
		t.Errorf("Unexpected tag for berlin: %s", rec.Tag)
	} else if len(rec.Topics) != 2 || rec.Topics[0].Label != "city" {
		t.Errorf("Unexpected topics for berlin: %v", rec.Topics)
	}

	if docs := ds.Docs["d2"]; len(docs) != 3 {
		t.Errorf("Expected 3 mentions in d2, got %v", docs)
	}

	if rec := ds.Entities["broken"]; rec == nil || len(rec.Topics) != 1 {
		t.Error("Partial topics of broken should be kept")
	}

	var dir = filepath.Join(common.Path(path.Datasets), "testset")

	for _, f := range []string{NersFile("testset"), DocsFile("testset")} {
		if _, err = os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("Cannot stat %s: %s", f, err.Error())
		}
	}

	var loaded *Dataset

	if loaded, err = LoadDataset(dir, "testset"); err != nil {
		t.Fatalf("Cannot load dataset: %s", err.Error())
	} else if len(loaded.Entities) != 4 {
		t.Errorf("Expected 4 entities in saved dataset, got %d", len(loaded.Entities))
	} else if rec := loaded.Entities["berlin"]; rec == nil || rec.Topics[1].QID != "Q5119" {
		t.Errorf("Topics of berlin were not saved properly: %v", rec)
	}

	var (
		ent *model.Entity
		occ []model.Occurrence
	)

	if ent, err = db.EntityGetByName("berlin", "en"); err != nil {
		t.Fatalf("Cannot look up berlin: %s", err.Error())
	} else if ent == nil {
		t.Fatal("berlin was not stored in the database")
	} else if !ent.HasTopics() {
		t.Error("berlin should be marked as fetched")
	} else if occ, err = db.MentionGetByEntity(ent); err != nil {
		t.Errorf("Cannot load mentions of berlin: %s", err.Error())
	} else if len(occ) != 2 {
		t.Errorf("Expected 2 mentions of berlin, got %d", len(occ))
	}

	if ent, err = db.EntityGetByName("broken", "en"); err != nil || ent == nil {
		t.Errorf("broken was not stored in the database: %v", err)
	} else if ent.HasTopics() {
		t.Error("broken should not be marked as fetched")
	}

	collected = true
} // func TestCollect(t *testing.T)

func TestCollectResume(t *testing.T) {
	if !collected {
		t.SkipNow()
	}

	var (
		err    error
		b      *Builder
		before = src.total()
	)

	if b, err = New(db, src, nil); err != nil {
		t.Fatalf("Cannot create Builder: %s", err.Error())
	}

	b.PauseEvery = 0

	if _, err = b.Collect(context.Background(), corpusPath("testset"), 3, "en"); err != nil {
		t.Fatalf("Collect failed: %s", err.Error())
	}

	// Only the entity whose lookup failed is looked up again.
	if n := src.total() - before; n != 1 {
		t.Errorf("Expected 1 lookup, got %d", n)
	}
} // func TestCollectResume(t *testing.T)

func TestCollectCancel(t *testing.T) {
	var (
		err         error
		b           *Builder
		ctx, cancel = context.WithCancel(context.Background())
	)

	cancel()

	if b, err = New(db, src, nil); err != nil {
		t.Fatalf("Cannot create Builder: %s", err.Error())
	}

	writeFile(t, corpusPath("cancelled"), testCorpus)

	if _, err = b.Collect(ctx, corpusPath("cancelled"), 3, "en"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if b, err = New(db, nil, nil); err != nil {
		t.Fatalf("Cannot create Builder: %s", err.Error())
	} else if _, err = b.Collect(context.Background(), corpusPath("testset"), 3, "en"); !errors.Is(err, ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
} // func TestCollectCancel(t *testing.T)
