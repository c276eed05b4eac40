// /home/krylon/go/src/github.com/blicero/gazetteer/wikidata/sparql.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-12 19:02:33 krylon>

package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// ErrGaveUp is returned by InstancesOf when the query failed even with the
// smallest limit.
var ErrGaveUp = errors.New("giving up after repeated failures")

var (
	qidPat  = regexp.MustCompile(`^Q[0-9]+$`)
	langPat = regexp.MustCompile(`^[a-z]{2,3}(?:-[a-z0-9]+)*$`)
)

const instanceQuery = `
SELECT DISTINCT ?item ?itemLabel
WHERE {
    SERVICE wikibase:label { bd:serviceParam wikibase:language "%[3]s". }
    {
        SELECT DISTINCT ?item WHERE {
            ?item p:P31 ?statement0.
            ?statement0 (ps:P31/(wdt:P279*)) wd:%[2]s.
        }
        LIMIT %[1]d
    }
    FILTER EXISTS {
        ?item rdfs:label ?label .
        FILTER(LANG(?label) = '%[3]s')
    }
}
`

// Binding is a single value in a SPARQL result.
type Binding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
}

// Query runs a SPARQL query and returns the result bindings.
func (c *Client) Query(ctx context.Context, q string) ([]map[string]Binding, error) {
	var (
		err  error
		body []byte
		res  sparqlResponse
		p    = url.Values{
			"query":  []string{q},
			"format": []string{"json"},
		}
	)

	if body, err = c.fetch(ctx, c.SPARQLURL, p, fetchOpts{accept: "application/sparql-results+json"}); err != nil {
		return nil, err
	} else if err = json.Unmarshal(body, &res); err != nil {
		c.log.Printf("[ERROR] Cannot decode SPARQL response: %s\n",
			err.Error())
		return nil, err
	}

	return res.Results.Bindings, nil
} // func (c *Client) Query(ctx context.Context, q string) ([]map[string]Binding, error)

// shrink returns the limit to use after a query with the given limit
// failed.
func shrink(limit int) int {
	if limit <= 500000 {
		return limit - 10000
	}

	return limit / 2
} // func shrink(limit int) int

// InstancesOf returns the labels of up to limit items that are instances of
// the class or of one of its subclasses and have a label in lang.
// The endpoint tends to time out on large classes, so each time a query
// fails, it is repeated with a smaller limit until it succeeds or the
// limit drops to zero.
func (c *Client) InstancesOf(ctx context.Context, classID, lang string, limit int) ([]string, error) {
	if !qidPat.MatchString(classID) {
		return nil, fmt.Errorf("invalid class ID %q", classID)
	} else if !langPat.MatchString(lang) {
		return nil, fmt.Errorf("invalid language code %q", lang)
	}

	for cur := limit; cur > 0; cur = shrink(cur) {
		var (
			err      error
			bindings []map[string]Binding
			q        = fmt.Sprintf(instanceQuery, cur, classID, lang)
		)

		if bindings, err = c.Query(ctx, q); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			c.log.Printf("[INFO] Query for instances of %s with limit %d failed: %s\n",
				classID,
				cur,
				err.Error())
			continue
		}

		var labels = make([]string, 0, len(bindings))

		for _, b := range bindings {
			if v, ok := b["itemLabel"]; ok {
				labels = append(labels, v.Value)
			}
		}

		return labels, nil
	}

	c.log.Printf("[ERROR] Failed to fetch instances of %s\n", classID)
	return nil, fmt.Errorf("%w: instances of %s", ErrGaveUp, classID)
} // func (c *Client) InstancesOf(ctx context.Context, classID, lang string, limit int) ([]string, error)
