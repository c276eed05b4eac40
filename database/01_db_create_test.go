// /home/krylon/go/src/github.com/blicero/gazetteer/database/01_db_create_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 19:53:02 krylon>

package database

import (
	"testing"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
)

func TestDBOpen(t *testing.T) {
	var (
		err    error
		dbpath string
	)

	dbpath = common.Path(path.Database)

	if db, err = Open(dbpath); err != nil {
		db = nil
		t.Fatalf("Failed to open database at %s: %s",
			dbpath,
			err.Error())
	}
} // func TestDBOpen(t *testing.T)

func TestDBQueryPrepare(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err error
	)

	for qid := range dbQueries {
		if _, err = db.getQuery(qid); err != nil {
			t.Errorf("Failed to prepare query %s: %s",
				qid,
				err.Error())
		}
	}
} // func TestDBQueryPrepare(t *testing.T)
