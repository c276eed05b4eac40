// /home/krylon/go/src/github.com/blicero/gazetteer/web/ajax_data.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-17 18:21:40 krylon>

package web

import (
	"encoding/json"
	"time"

	"github.com/blicero/gazetteer/model"
)

// Reply is the format used to reply to AJAX requests.
type Reply struct {
	Timestamp   time.Time
	Status      bool
	Message     string
	Payload     map[string]string  `json:",omitempty"`
	Suggestions []model.Suggestion `json:",omitempty"`
}

// errJSON returns a minimal Reply for when the real one cannot be serialized.
func errJSON(msg string) []byte {
	var buf, _ = json.Marshal(map[string]any{
		"Status":  false,
		"Message": msg,
	})

	return buf
} // func errJSON(msg string) []byte
