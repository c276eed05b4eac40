// /home/krylon/go/src/github.com/blicero/gazetteer/wikidata/search.go
// -*- mode: go; coding: utf-8; -*-
// Created on 23. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-12 18:41:09 krylon>

package wikidata

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/blicero/gazetteer/model"
	"github.com/jaytaylor/html2text"
)

// Hit is a single result of the full text search.
type Hit struct {
	ID      string
	Title   string
	Snippet string
}

// Search runs a query through Special:Search and returns up to limit hits,
// in the order Wikidata ranks them.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	var (
		err  error
		body []byte
		doc  *goquery.Document
		p    = url.Values{
			"title":  []string{"Special:Search"},
			"limit":  []string{strconv.Itoa(limit)},
			"offset": []string{"0"},
			"ns0":    []string{"1"},
			"ns120":  []string{"1"},
			"search": []string{query},
		}
	)

	if body, err = c.fetch(ctx, c.SearchURL, p, fetchOpts{cache: true, retry: true}); err != nil {
		return nil, err
	} else if doc, err = goquery.NewDocumentFromReader(bytes.NewReader(body)); err != nil {
		c.log.Printf("[ERROR] Cannot parse search results for %q: %s\n",
			query,
			err.Error())
		return nil, err
	}

	var hits = make([]Hit, 0, limit)

	doc.Find("div.mw-search-result-heading").Each(func(_ int, sel *goquery.Selection) {
		var (
			href string
			ok   bool
			a    = sel.Find("a").First()
		)

		if a.Length() == 0 {
			return
		} else if href, ok = a.Attr("href"); !ok {
			return
		}

		var h = Hit{
			ID:    path.Base(href),
			Title: strings.TrimSpace(a.Text()),
		}

		if raw, herr := sel.Closest("li").Find("div.searchresult").Html(); herr == nil && raw != "" {
			if txt, terr := html2text.FromString(raw); terr == nil {
				h.Snippet = txt
			}
		}

		hits = append(hits, h)
	})

	return hits, nil
} // func (c *Client) Search(ctx context.Context, query string, limit int) ([]Hit, error)

// SearchIDs returns the IDs of the items found by the full text search.
func (c *Client) SearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	var (
		err  error
		hits []Hit
	)

	if hits, err = c.Search(ctx, query, limit); err != nil {
		return nil, err
	}

	var ids = make([]string, len(hits))

	for i, h := range hits {
		ids[i] = h.ID
	}

	return ids, nil
} // func (c *Client) SearchIDs(ctx context.Context, query string, limit int) ([]string, error)

// SearchTopics searches for query and collects the related topics of all
// hits. If several hits share a topic label, the first QID wins.
//
// Errors do not discard what has been found so far: SearchTopics always
// returns the topics collected before the failure, along with the error.
func (c *Client) SearchTopics(ctx context.Context, query, lang string, limit int) ([]model.Topic, error) {
	var (
		err    error
		ids    []string
		errs   []error
		seen   = make(map[string]bool)
		topics = make([]model.Topic, 0, 16)
	)

	if ids, err = c.SearchIDs(ctx, query, limit); err != nil {
		c.log.Printf("[ERROR] Search for %q failed: %s\n",
			query,
			err.Error())
		return topics, err
	}

	for _, id := range ids {
		var related []model.Topic

		if related, err = c.RelatedTopics(ctx, id, lang); err != nil {
			c.log.Printf("[ERROR] Cannot get topics for %s (%q): %s\n",
				id,
				query,
				err.Error())
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		for _, t := range related {
			if !seen[t.Label] {
				seen[t.Label] = true
				topics = append(topics, t)
			}
		}
	}

	return topics, errors.Join(errs...)
} // func (c *Client) SearchTopics(ctx context.Context, query, lang string, limit int) ([]model.Topic, error)
