// /home/krylon/go/src/github.com/blicero/gazetteer/database/02_db_entity_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 20:04:17 krylon>

package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/blicero/gazetteer/model"
)

func TestEntityAdd(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	type testCase struct {
		e           model.Entity
		expectError bool
	}

	var testCases = make([]testCase, entityCnt*2)

	for i := 0; i < entityCnt; i++ {
		testCases[i] = testCase{
			e: model.Entity{
				Name: fmt.Sprintf("entity %03d", i+1),
				Lang: "en",
				Tag:  "LOC",
			},
		}

		testCases[i+entityCnt] = testCase{
			e:           testCases[i].e,
			expectError: true,
		}
	}

	entities = make([]*model.Entity, 0, entityCnt)

	for _, c := range testCases {
		var e = c.e

		if err := db.EntityAdd(&e); err != nil {
			if !c.expectError {
				t.Fatalf("Unexpected error while adding Entity %s: %s",
					e.Name,
					err.Error())
			}
		} else if c.expectError {
			t.Errorf("Adding Entity %s a second time should have failed",
				e.Name)
		} else if e.ID == 0 {
			t.Errorf("Entity %s has no ID after being added", e.Name)
		} else {
			entities = append(entities, &e)
		}
	}

	// The same name in a different language is a different Entity.
	var other = &model.Entity{Name: "entity 001", Lang: "vi", Tag: "LOCATION"}

	if err := db.EntityAdd(other); err != nil {
		t.Errorf("Cannot add Entity %s (%s): %s",
			other.Name,
			other.Lang,
			err.Error())
	}
} // func TestEntityAdd(t *testing.T)

func TestEntityGet(t *testing.T) {
	if db == nil || len(entities) == 0 {
		t.SkipNow()
	}

	for _, e := range entities {
		var (
			err error
			res *model.Entity
		)

		if res, err = db.EntityGetByName(e.Name, e.Lang); err != nil {
			t.Fatalf("Cannot look up Entity %s: %s", e.Name, err.Error())
		} else if res == nil {
			t.Fatalf("Entity %s was not found", e.Name)
		} else if res.ID != e.ID || res.Tag != e.Tag {
			t.Errorf("Unexpected Entity: %d/%s, expected %d/%s",
				res.ID,
				res.Tag,
				e.ID,
				e.Tag)
		} else if res.HasTopics() {
			t.Errorf("Entity %s should not have been fetched, yet", e.Name)
		}

		if res, err = db.EntityGetByID(e.ID); err != nil {
			t.Fatalf("Cannot load Entity %d: %s", e.ID, err.Error())
		} else if res == nil || res.Name != e.Name {
			t.Errorf("Unexpected result for Entity %d: %v", e.ID, res)
		}
	}

	if res, err := db.EntityGetByName("no such entity", "en"); err != nil {
		t.Errorf("Looking up a missing Entity failed: %s", err.Error())
	} else if res != nil {
		t.Errorf("Looking up a missing Entity returned %d", res.ID)
	}

	if all, err := db.EntityGetAll(); err != nil {
		t.Errorf("Cannot load all Entities: %s", err.Error())
	} else if len(all) != entityCnt+1 {
		t.Errorf("Expected %d Entities, got %d", entityCnt+1, len(all))
	}
} // func TestEntityGet(t *testing.T)

func TestMentionAdd(t *testing.T) {
	if db == nil || len(entities) == 0 {
		t.SkipNow()
	}

	var e = entities[0]

	for i := 0; i < docCnt; i++ {
		var docID = fmt.Sprintf("doc%02d", i)

		if err := db.MentionAdd(e, "multiconer", docID, e.Tag); err != nil {
			t.Fatalf("Cannot add mention: %s", err.Error())
		} else if err = db.MentionAdd(e, "multiconer", docID, e.Tag); err != nil {
			t.Errorf("Adding the same mention twice failed: %s", err.Error())
		}
	}

	if occ, err := db.MentionGetByEntity(e); err != nil {
		t.Fatalf("Cannot load mentions: %s", err.Error())
	} else if len(occ) != docCnt {
		t.Errorf("Expected %d mentions, got %d", docCnt, len(occ))
	} else if occ[1].DocID != "doc01" || occ[1].Dataset != "multiconer" {
		t.Errorf("Unexpected mention: %#v", occ[1])
	}
} // func TestMentionAdd(t *testing.T)

func TestTopicSet(t *testing.T) {
	if db == nil || len(entities) == 0 {
		t.SkipNow()
	}

	var (
		err    error
		e      = entities[1]
		stamp  = time.Unix(time.Now().Unix(), 0)
		topics = []model.Topic{
			{Label: "city", QID: "Q515"},
			{Label: "capital", QID: "Q5119"},
		}
	)

	if err = db.TopicSet(e, topics, stamp); err != nil {
		t.Fatalf("Cannot set Topics: %s", err.Error())
	} else if err = db.TopicSet(e, topics[:1], stamp); err != nil {
		t.Fatalf("Cannot replace Topics: %s", err.Error())
	}

	var res []model.Topic

	if res, err = db.TopicGetByEntity(e); err != nil {
		t.Fatalf("Cannot load Topics: %s", err.Error())
	} else if len(res) != 1 || res[0] != topics[0] {
		t.Errorf("Unexpected Topics: %v", res)
	}

	var ent *model.Entity

	if ent, err = db.EntityGetByID(e.ID); err != nil {
		t.Fatalf("Cannot load Entity: %s", err.Error())
	} else if !ent.HasTopics() {
		t.Error("Entity should be marked as fetched")
	} else if !ent.Fetched.Equal(stamp) {
		t.Errorf("Unexpected fetch time %s, expected %s",
			ent.Fetched,
			stamp)
	}

	var fetched []*model.Entity

	if fetched, err = db.EntityGetFetched(); err != nil {
		t.Fatalf("Cannot load fetched Entities: %s", err.Error())
	} else if len(fetched) != 1 || fetched[0].ID != e.ID {
		t.Errorf("Unexpected fetched Entities: %v", fetched)
	}

	// An empty topic set still counts as fetched.
	if err = db.TopicSet(entities[2], nil, stamp); err != nil {
		t.Fatalf("Cannot set empty topic set: %s", err.Error())
	} else if fetched, err = db.EntityGetFetched(); err != nil {
		t.Fatalf("Cannot load fetched Entities: %s", err.Error())
	} else if len(fetched) != 2 {
		t.Errorf("Expected 2 fetched Entities, got %d", len(fetched))
	}
} // func TestTopicSet(t *testing.T)

func TestTopicSetRollback(t *testing.T) {
	if db == nil || len(entities) < 4 {
		t.SkipNow()
	}

	var (
		err error
		e   = entities[3]
	)

	if err = db.Begin(); err != nil {
		t.Fatalf("Cannot begin transaction: %s", err.Error())
	} else if err = db.TopicSet(e, []model.Topic{{Label: "river", QID: "Q4022"}}, time.Now()); err != nil {
		db.Rollback() // nolint: errcheck
		t.Fatalf("Cannot set Topics: %s", err.Error())
	} else if err = db.Rollback(); err != nil {
		t.Fatalf("Cannot roll back transaction: %s", err.Error())
	}

	var topics []model.Topic

	if topics, err = db.TopicGetByEntity(e); err != nil {
		t.Fatalf("Cannot load Topics: %s", err.Error())
	} else if len(topics) != 0 {
		t.Errorf("Topics should have been rolled back: %v", topics)
	}
} // func TestTopicSetRollback(t *testing.T)
