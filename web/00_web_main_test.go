// /home/krylon/go/src/github.com/blicero/gazetteer/web/00_web_main_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-17 18:50:29 krylon>

package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/model"
)

const testPort = 4523

var (
	srv    *Server
	addr   string
	gzt    *model.Gazetteer
	berlin *model.Entity
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/gazetteer_web_test_20060102_150405")
	)

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	} else if err = prepareDB(); err != nil {
		fmt.Printf("Cannot prepare test database: %s\n",
			err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		// If any test failed, we keep the test directory (and the
		// database inside it) around, so we can manually inspect it
		// if needed.
		// If all tests pass, OTOH, we can safely remove the directory.
		fmt.Printf("Removing BaseDir %s\n",
			baseDir)
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)

func prepareDB() error {
	var (
		err error
		db  *database.Database
	)

	if db, err = database.Open(common.Path(path.Database)); err != nil {
		return err
	}

	defer db.Close() // nolint: errcheck

	gzt = &model.Gazetteer{
		Dataset:   "testset1",
		Threshold: 0.75,
		Limit:     3,
	}

	berlin = &model.Entity{
		Name: "berlin",
		Lang: "en",
		Tag:  "LOC",
	}

	var topics = []model.Topic{
		{Label: "city", QID: "Q515"},
		{Label: "capital", QID: "Q5119"},
	}

	if err = db.GazetteerAdd(gzt); err != nil {
		return err
	} else if err = db.EntityAdd(berlin); err != nil {
		return err
	} else if err = db.TopicSet(berlin, topics, time.Now()); err != nil {
		return err
	} else if err = db.MentionAdd(berlin, "testset1", "d1", "LOC"); err != nil {
		return err
	}

	return db.EntryAdd(&model.Entry{
		GazetteerID: gzt.ID,
		EntityID:    berlin.ID,
		Entity:      berlin.Name,
		Label:       "LOC",
		Topic:       "city",
		Synonym:     "town",
		Score:       0.93,
	})
} // func prepareDB() error

// get fetches a page from the test server and returns its status and body.
func get(t *testing.T, p string) (int, string) {
	t.Helper()

	var (
		err  error
		res  *http.Response
		body []byte
	)

	if res, err = http.Get(fmt.Sprintf("http://%s%s", addr, p)); err != nil {
		t.Fatalf("GET %s failed: %s", p, err.Error())
	}

	defer res.Body.Close() // nolint: errcheck

	if body, err = io.ReadAll(res.Body); err != nil {
		t.Fatalf("Cannot read response to %s: %s", p, err.Error())
	}

	return res.StatusCode, string(body)
} // func get(t *testing.T, p string) (int, string)
