// /home/krylon/go/src/github.com/blicero/gazetteer/wikidata/entity.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-12 18:20:57 krylon>

package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/blicero/gazetteer/model"
)

// Properties used to find the classes of an item.
const (
	PropInstanceOf = "P31"
	PropSubclassOf = "P279"
)

// batchSize is the maximum number of IDs wbgetentities accepts per request.
const batchSize = 50

// LangValue is a string in a particular language.
type LangValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// DataValue is the value of a Snak.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Snak is the main assertion of a Claim.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// Claim is a statement about an Entity.
type Claim struct {
	MainSnak Snak `json:"mainsnak"`
}

// EntityID returns the ID of the item the Claim refers to, or an empty string
// if its value is not an item.
func (c *Claim) EntityID() string {
	if c.MainSnak.DataValue == nil || c.MainSnak.DataValue.Type != "wikibase-entityid" {
		return ""
	}

	var v struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(c.MainSnak.DataValue.Value, &v); err != nil {
		return ""
	}

	return v.ID
} // func (c *Claim) EntityID() string

// Entity is a Wikidata item, as returned by wbgetentities and as found in
// the JSON dumps.
type Entity struct {
	ID      string               `json:"id"`
	Type    string               `json:"type"`
	Missing *string              `json:"missing,omitempty"`
	Labels  map[string]LangValue `json:"labels"`
	Claims  map[string][]Claim   `json:"claims"`
}

// Label returns the Entity's label in the given language, or an empty
// string.
func (e *Entity) Label(lang string) string {
	if lv, ok := e.Labels[lang]; ok {
		return lv.Value
	}

	return ""
} // func (e *Entity) Label(lang string) string

// Targets returns the IDs of the items the Entity's claims for the given
// properties point to, in order.
func (e *Entity) Targets(props ...string) []string {
	var ids = make([]string, 0, 8)

	for _, p := range props {
		for _, c := range e.Claims[p] {
			if id := c.EntityID(); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return ids
} // func (e *Entity) Targets(props ...string) []string

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type entitiesResponse struct {
	Entities map[string]*Entity `json:"entities"`
	Error    *apiError          `json:"error,omitempty"`
}

// entities fetches the given IDs in batches.
func (c *Client) entities(ctx context.Context, ids []string, props, lang string) (map[string]*Entity, error) {
	var result = make(map[string]*Entity, len(ids))

	for start := 0; start < len(ids); start += batchSize {
		var (
			err   error
			body  []byte
			res   entitiesResponse
			end   = min(start+batchSize, len(ids))
			batch = ids[start:end]
			p     = url.Values{
				"action": []string{"wbgetentities"},
				"format": []string{"json"},
				"ids":    []string{strings.Join(batch, "|")},
			}
		)

		if props != "" {
			p.Set("props", props)
		}

		if lang != "" {
			p.Set("languages", lang)
		}

		if body, err = c.fetch(ctx, c.APIURL, p, fetchOpts{cache: true, retry: true}); err != nil {
			return nil, err
		} else if err = json.Unmarshal(body, &res); err != nil {
			c.log.Printf("[ERROR] Cannot decode response for %s: %s\n",
				strings.Join(batch, "|"),
				err.Error())
			return nil, err
		} else if res.Error != nil {
			return nil, fmt.Errorf("wbgetentities: %s: %s",
				res.Error.Code,
				res.Error.Info)
		}

		for id, e := range res.Entities {
			if e.Missing == nil {
				result[id] = e
			}
		}
	}

	return result, nil
} // func (c *Client) entities(ctx context.Context, ids []string, props, lang string) (map[string]*Entity, error)

// Entity fetches the labels and claims of an item.
func (c *Client) Entity(ctx context.Context, id string) (*Entity, error) {
	var (
		err  error
		ents map[string]*Entity
	)

	if ents, err = c.entities(ctx, []string{id}, "labels|claims", ""); err != nil {
		return nil, err
	} else if e, ok := ents[id]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
} // func (c *Client) Entity(ctx context.Context, id string) (*Entity, error)

// Label returns an item's label in the given language, or an empty string
// if it has none.
func (c *Client) Label(ctx context.Context, id, lang string) (string, error) {
	var (
		err  error
		ents map[string]*Entity
	)

	if ents, err = c.entities(ctx, []string{id}, "labels", lang); err != nil {
		return "", err
	} else if e, ok := ents[id]; ok {
		return e.Label(lang), nil
	}

	return "", nil
} // func (c *Client) Label(ctx context.Context, id, lang string) (string, error)

// RelatedTopics returns the classes an item is a subclass (P279) or an
// instance (P31) of, in that order, as far as they have a label in lang.
func (c *Client) RelatedTopics(ctx context.Context, id, lang string) ([]model.Topic, error) {
	var (
		err    error
		item   *Entity
		labels map[string]*Entity
		ids    []string
	)

	if item, err = c.Entity(ctx, id); err != nil {
		return nil, err
	} else if ids = item.Targets(PropSubclassOf, PropInstanceOf); len(ids) == 0 {
		return nil, nil
	} else if labels, err = c.entities(ctx, uniq(ids), "labels", lang); err != nil {
		return nil, err
	}

	var topics = make([]model.Topic, 0, len(ids))

	for _, qid := range ids {
		var e, ok = labels[qid]

		if !ok {
			continue
		} else if lbl := e.Label(lang); lbl != "" {
			topics = append(topics, model.Topic{Label: lbl, QID: qid})
		}
	}

	return topics, nil
} // func (c *Client) RelatedTopics(ctx context.Context, id, lang string) ([]model.Topic, error)

func uniq(ids []string) []string {
	var (
		seen = make(map[string]bool, len(ids))
		res  = make([]string, 0, len(ids))
	)

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			res = append(res, id)
		}
	}

	return res
} // func uniq(ids []string) []string
