// /home/krylon/go/src/github.com/blicero/gazetteer/database/qinit.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 18:04:10 krylon>

package database

var initQueries = []string{
	`
CREATE TABLE entity (
    id                  INTEGER PRIMARY KEY,
    name                TEXT NOT NULL,
    lang                TEXT NOT NULL DEFAULT 'en',
    tag                 TEXT NOT NULL DEFAULT '',
    fetched             INTEGER,
    UNIQUE (name, lang),
    CHECK (name <> '')
) STRICT
`,
	"CREATE INDEX entity_name_idx ON entity (name)",
	"CREATE INDEX entity_fetched_idx ON entity (fetched IS NOT NULL)",

	`
CREATE TABLE mention (
    id                  INTEGER PRIMARY KEY,
    entity_id           INTEGER NOT NULL,
    dataset             TEXT NOT NULL,
    doc_id              TEXT NOT NULL,
    tag                 TEXT NOT NULL,
    FOREIGN KEY (entity_id) REFERENCES entity (id)
        ON UPDATE RESTRICT
        ON DELETE CASCADE,
    UNIQUE (entity_id, dataset, doc_id)
) STRICT
`,
	"CREATE INDEX mention_entity_idx ON mention (entity_id)",
	"CREATE INDEX mention_dataset_idx ON mention (dataset)",

	`
CREATE TABLE topic (
    id                  INTEGER PRIMARY KEY,
    entity_id           INTEGER NOT NULL,
    label               TEXT NOT NULL,
    qid                 TEXT NOT NULL,
    FOREIGN KEY (entity_id) REFERENCES entity (id)
        ON UPDATE RESTRICT
        ON DELETE CASCADE,
    UNIQUE (entity_id, label)
) STRICT
`,
	"CREATE INDEX topic_entity_idx ON topic (entity_id)",

	`
CREATE TABLE gazetteer (
    id                  INTEGER PRIMARY KEY,
    name                TEXT UNIQUE NOT NULL,
    dataset             TEXT NOT NULL,
    threshold           REAL NOT NULL,
    lim                 INTEGER NOT NULL,
    created             INTEGER NOT NULL,
    CHECK (threshold BETWEEN -1.0 AND 1.0),
    CHECK (lim > 0)
) STRICT
`,

	`
CREATE TABLE entry (
    id                  INTEGER PRIMARY KEY,
    gazetteer_id        INTEGER NOT NULL,
    entity_id           INTEGER NOT NULL,
    label               TEXT NOT NULL,
    topic               TEXT NOT NULL DEFAULT '',
    synonym             TEXT NOT NULL DEFAULT '',
    score               REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (gazetteer_id) REFERENCES gazetteer (id)
        ON UPDATE RESTRICT
        ON DELETE CASCADE,
    FOREIGN KEY (entity_id) REFERENCES entity (id)
        ON UPDATE RESTRICT
        ON DELETE CASCADE,
    UNIQUE (gazetteer_id, entity_id, label)
) STRICT
`,
	"CREATE INDEX entry_gzt_idx ON entry (gazetteer_id)",
	"CREATE INDEX entry_label_idx ON entry (gazetteer_id, label)",
	"CREATE INDEX entry_entity_idx ON entry (entity_id)",
}
