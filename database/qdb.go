// /home/krylon/go/src/github.com/blicero/gazetteer/database/qdb.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 18:11:37 krylon>

package database

import "github.com/blicero/gazetteer/database/query"

var dbQueries = map[query.ID]string{
	query.EntityAdd: `
INSERT INTO entity (name, lang, tag)
            VALUES (   ?,    ?,   ?)
RETURNING id
`,
	query.EntityGetByID: `
SELECT
    name,
    lang,
    tag,
    COALESCE(fetched, 0)
FROM entity
WHERE id = ?
`,
	query.EntityGetByName: `
SELECT
    id,
    tag,
    COALESCE(fetched, 0)
FROM entity
WHERE name = ? AND lang = ?
`,
	query.EntityGetAll: `
SELECT
    id,
    name,
    lang,
    tag,
    COALESCE(fetched, 0)
FROM entity
ORDER BY name
`,
	query.EntityGetFetched: `
SELECT
    id,
    name,
    lang,
    tag,
    fetched
FROM entity
WHERE fetched IS NOT NULL
ORDER BY id
`,
	query.EntitySetFetched: `
UPDATE entity
SET fetched = ?
WHERE id = ?
`,
	query.EntitySetTag: `
UPDATE entity
SET tag = ?
WHERE id = ?
`,
	query.MentionAdd: `
INSERT OR IGNORE INTO mention (entity_id, dataset, doc_id, tag)
                       VALUES (        ?,       ?,      ?,   ?)
`,
	query.MentionGetByEntity: `
SELECT
    dataset,
    doc_id,
    tag
FROM mention
WHERE entity_id = ?
ORDER BY id
`,
	query.TopicAdd: `
INSERT OR IGNORE INTO topic (entity_id, label, qid)
                     VALUES (        ?,     ?,   ?)
`,
	query.TopicDeleteByEntity: "DELETE FROM topic WHERE entity_id = ?",
	query.TopicGetByEntity: `
SELECT
    label,
    qid
FROM topic
WHERE entity_id = ?
ORDER BY id
`,
	query.GazetteerAdd: `
INSERT INTO gazetteer (name, dataset, threshold, lim, created)
               VALUES (   ?,       ?,         ?,   ?,       ?)
RETURNING id
`,
	query.GazetteerGetByID: `
SELECT
    name,
    dataset,
    threshold,
    lim,
    created
FROM gazetteer
WHERE id = ?
`,
	query.GazetteerGetByName: `
SELECT
    id,
    dataset,
    threshold,
    lim,
    created
FROM gazetteer
WHERE name = ?
`,
	query.GazetteerGetAll: `
SELECT
    id,
    name,
    dataset,
    threshold,
    lim,
    created
FROM gazetteer
ORDER BY name
`,
	query.GazetteerDelete: "DELETE FROM gazetteer WHERE id = ?",
	query.EntryAdd: `
INSERT OR IGNORE INTO entry (gazetteer_id, entity_id, label, topic, synonym, score)
                     VALUES (           ?,         ?,     ?,     ?,       ?,     ?)
`,
	query.EntryGetByGazetteer: `
SELECT
    e.id,
    e.entity_id,
    n.name,
    e.label,
    e.topic,
    e.synonym,
    e.score
FROM entry e
INNER JOIN entity n ON e.entity_id = n.id
WHERE e.gazetteer_id = ?
ORDER BY e.label, e.id
`,
	query.EntryGetByLabel: `
SELECT
    e.id,
    e.entity_id,
    n.name,
    e.topic,
    e.synonym,
    e.score
FROM entry e
INNER JOIN entity n ON e.entity_id = n.id
WHERE e.gazetteer_id = ? AND e.label = ?
ORDER BY e.id
`,
	query.EntryGetLabels: `
SELECT
    label,
    COUNT(id)
FROM entry
WHERE gazetteer_id = ?
GROUP BY label
ORDER BY label
`,
	query.EntryGetByEntity: `
SELECT
    id,
    gazetteer_id,
    label,
    topic,
    synonym,
    score
FROM entry
WHERE entity_id = ?
ORDER BY gazetteer_id, label
`,
}
