// /home/krylon/go/src/github.com/blicero/gazetteer/database/query/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 18:02:44 krylon>

// Package query provides symbolic constants to identify database queries.
package query

//go:generate stringer -type=ID

// ID represents a database query
type ID uint8

const (
	EntityAdd ID = iota
	EntityGetByID
	EntityGetByName
	EntityGetAll
	EntityGetFetched
	EntitySetFetched
	EntitySetTag
	MentionAdd
	MentionGetByEntity
	TopicAdd
	TopicDeleteByEntity
	TopicGetByEntity
	GazetteerAdd
	GazetteerGetByID
	GazetteerGetByName
	GazetteerGetAll
	GazetteerDelete
	EntryAdd
	EntryGetByGazetteer
	EntryGetByLabel
	EntryGetLabels
	EntryGetByEntity
)

// AllQueries returns a slice of all queries.
func AllQueries() []ID {
	return []ID{
		EntityAdd,
		EntityGetByID,
		EntityGetByName,
		EntityGetAll,
		EntityGetFetched,
		EntitySetFetched,
		EntitySetTag,
		MentionAdd,
		MentionGetByEntity,
		TopicAdd,
		TopicDeleteByEntity,
		TopicGetByEntity,
		GazetteerAdd,
		GazetteerGetByID,
		GazetteerGetByName,
		GazetteerGetAll,
		GazetteerDelete,
		EntryAdd,
		EntryGetByGazetteer,
		EntryGetByLabel,
		EntryGetLabels,
		EntryGetByEntity,
	}
} // func AllQueries() []ID
