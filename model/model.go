// /home/krylon/go/src/github.com/blicero/gazetteer/model/model.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-09 17:51:20 krylon>

// Package model provides the data types used across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mention is a single occurrence of an entity in an annotated corpus.
type Mention struct {
	Entity string
	Tag    string
	DocID  string
}

func (m *Mention) String() string {
	return fmt.Sprintf(`{ Entity: %q, Tag: %q, DocID: %q }`,
		m.Entity,
		m.Tag,
		m.DocID)
} // func (m *Mention) String() string

// Topic is a Wikidata class an entity is an instance (P31) or subclass (P279) of.
type Topic struct {
	Label string
	QID   string
}

// Entity is a distinct surface string mined from a corpus, along with the
// documents it appears in and the Topics Wikidata associates with it.
type Entity struct {
	ID      int64
	Name    string
	Lang    string
	Tag     string
	Docs    []string
	Topics  []Topic
	Fetched time.Time
}

// IDString returns the Entity's database ID as a string.
func (e *Entity) IDString() string {
	return strconv.FormatInt(e.ID, 10)
} // func (e *Entity) IDString() string

// HasTopics returns true if Wikidata has been queried for the Entity.
func (e *Entity) HasTopics() bool {
	return !e.Fetched.IsZero()
} // func (e *Entity) HasTopics() bool

// HasDoc returns true if the Entity is known to appear in the given document.
func (e *Entity) HasDoc(id string) bool {
	for _, d := range e.Docs {
		if d == id {
			return true
		}
	}

	return false
} // func (e *Entity) HasDoc(id string) bool

// TopicMap returns the Entity's Topics as a map of labels to QIDs.
func (e *Entity) TopicMap() map[string]string {
	var m = make(map[string]string, len(e.Topics))

	for _, t := range e.Topics {
		m[t.Label] = t.QID
	}

	return m
} // func (e *Entity) TopicMap() map[string]string

// TopicText joins the labels of all Topics into a single string.
func (e *Entity) TopicText() string {
	var labels = make([]string, len(e.Topics))

	for i, t := range e.Topics {
		labels[i] = t.Label
	}

	return strings.Join(labels, " ")
} // func (e *Entity) TopicText() string

// Gazetteer is a set of per-label entity lists built from one dataset
// with one set of parameters.
type Gazetteer struct {
	ID        int64
	Name      string
	Dataset   string
	Threshold float64
	Limit     int
	Created   time.Time
}

// Dirname returns the name of the directory the Gazetteer's files are written to.
func (g *Gazetteer) Dirname() string {
	var name = fmt.Sprintf("gzt_%s_thr_%.2f_lim_%d",
		g.Dataset,
		g.Threshold,
		g.Limit)

	return strings.ReplaceAll(name, ".", "_")
} // func (g *Gazetteer) Dirname() string

// Occurrence records that an Entity appeared in a document of a dataset.
type Occurrence struct {
	Dataset string
	DocID   string
	Tag     string
}

// Entry records that an Entity was added to a label of a Gazetteer, and why.
type Entry struct {
	ID          int64
	GazetteerID int64
	EntityID    int64
	Entity      string
	Label       string
	Topic       string
	Synonym     string
	Score       float64
}

// Suggestion is a label the advisor considers likely for an Entity.
type Suggestion struct {
	Label string
	Score float64
}
