// /home/krylon/go/src/github.com/blicero/gazetteer/wikidata/client.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-12 17:48:20 krylon>

// Package wikidata talks to Wikidata: the full text search, the
// MediaWiki API, and the SPARQL endpoint.
package wikidata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/cenkalti/backoff/v4"
	"github.com/faabiosr/cachego"
	"github.com/faabiosr/cachego/bolt"
	bt "go.etcd.io/bbolt"
	"golang.org/x/time/rate"
)

// Default endpoints
const (
	DefaultSearchURL = "https://www.wikidata.org/w/index.php"
	DefaultAPIURL    = "https://www.wikidata.org/w/api.php"
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
)

const (
	defaultTimeout    = time.Second * 60
	defaultInterval   = time.Millisecond * 250
	defaultMaxRetries = 5
	defaultCacheTTL   = time.Hour * 24 * 30
	maxBodySize       = 256 * 1024 * 1024
)

// ErrNotFound indicates that Wikidata does not know the requested entity.
var ErrNotFound = errors.New("entity not found")

// StatusError is returned when a server responds with a status other than 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s",
		e.URL,
		e.Code,
		http.StatusText(e.Code))
} // func (e *StatusError) Error() string

// Temporary returns true for responses that are worth another attempt.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
} // func (e *StatusError) Temporary() bool

// Client fetches data from Wikidata. Requests are throttled, transient
// failures are retried with exponential backoff, and responses from the
// search and the API can be cached on disk.
type Client struct {
	SearchURL  string
	APIURL     string
	SPARQLURL  string
	UserAgent  string
	MaxRetries uint64
	CacheTTL   time.Duration
	log        *log.Logger
	hc         *http.Client
	limiter    *rate.Limiter
	cdb        *bt.DB
	cache      cachego.Cache
}

// Create creates a new Client. If cachePath is not empty, responses are
// cached in a bbolt database at that location.
func Create(cachePath string) (*Client, error) {
	var (
		err error
		c   = &Client{
			SearchURL:  DefaultSearchURL,
			APIURL:     DefaultAPIURL,
			SPARQLURL:  DefaultSPARQLURL,
			UserAgent:  common.UserAgent,
			MaxRetries: defaultMaxRetries,
			CacheTTL:   defaultCacheTTL,
			hc:         &http.Client{Timeout: defaultTimeout},
			limiter:    rate.NewLimiter(rate.Every(defaultInterval), 1),
		}
	)

	if c.log, err = common.GetLogger(logdomain.Wikidata); err != nil {
		return nil, err
	} else if cachePath == "" {
		return c, nil
	} else if c.cdb, err = bt.Open(cachePath, 0600, &bt.Options{Timeout: time.Second * 5}); err != nil {
		c.log.Printf("[ERROR] Cannot open cache at %s: %s\n",
			cachePath,
			err.Error())
		return nil, err
	}

	c.cache = bolt.New(c.cdb)
	return c, nil
} // func Create(cachePath string) (*Client, error)

// Close releases the Client's cache.
func (c *Client) Close() error {
	if c.cdb == nil {
		return nil
	}

	var err = c.cdb.Close()
	c.cdb = nil
	c.cache = nil
	return err
} // func (c *Client) Close() error

// SetInterval sets the minimum interval between two requests.
func (c *Client) SetInterval(d time.Duration) {
	if d <= 0 {
		c.limiter.SetLimit(rate.Inf)
	} else {
		c.limiter.SetLimit(rate.Every(d))
	}
} // func (c *Client) SetInterval(d time.Duration)

// SetTimeout sets the timeout for a single request.
func (c *Client) SetTimeout(d time.Duration) {
	c.hc.Timeout = d
} // func (c *Client) SetTimeout(d time.Duration)

// FlushCache removes all cached responses.
func (c *Client) FlushCache() error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Flush()
} // func (c *Client) FlushCache() error

type fetchOpts struct {
	cache  bool
	retry  bool
	accept string
}

// fetch performs a GET request for base + params and returns the body of
// the response.
func (c *Client) fetch(ctx context.Context, base string, params url.Values, opts fetchOpts) ([]byte, error) {
	var (
		err  error
		body []byte
		addr = base + "?" + params.Encode()
	)

	if opts.cache && c.cache != nil {
		var s string

		if s, err = c.cache.Fetch(addr); err == nil {
			c.log.Printf("[TRACE] Cache hit for %s\n", addr)
			return []byte(s), nil
		}
	}

	var op = func() error {
		var (
			ferr error
			req  *http.Request
			res  *http.Response
		)

		if ferr = c.limiter.Wait(ctx); ferr != nil {
			return backoff.Permanent(ferr)
		} else if req, ferr = http.NewRequestWithContext(ctx, http.MethodGet, addr, nil); ferr != nil {
			return backoff.Permanent(ferr)
		}

		req.Header.Set("User-Agent", c.UserAgent)
		if opts.accept != "" {
			req.Header.Set("Accept", opts.accept)
		}

		if res, ferr = c.hc.Do(req); ferr != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ferr)
			}
			c.log.Printf("[INFO] Request to %s failed: %s\n",
				addr,
				ferr.Error())
			return ferr
		}

		defer res.Body.Close() // nolint: errcheck

		if res.StatusCode != http.StatusOK {
			io.Copy(io.Discard, res.Body) // nolint: errcheck
			var serr = &StatusError{URL: addr, Code: res.StatusCode}
			if serr.Temporary() {
				c.log.Printf("[INFO] %s\n", serr.Error())
				return serr
			}
			return backoff.Permanent(serr)
		} else if body, ferr = io.ReadAll(io.LimitReader(res.Body, maxBodySize)); ferr != nil {
			return ferr
		}

		return nil
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}

	if opts.retry {
		var exp = backoff.NewExponentialBackOff()
		exp.InitialInterval = time.Second
		exp.MaxInterval = time.Minute
		policy = backoff.WithMaxRetries(exp, c.MaxRetries)
	}

	if err = backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		c.log.Printf("[ERROR] GET %s failed: %s\n",
			addr,
			err.Error())
		return nil, err
	}

	if opts.cache && c.cache != nil {
		if err = c.cache.Save(addr, string(body), c.CacheTTL); err != nil {
			c.log.Printf("[ERROR] Cannot cache response from %s: %s\n",
				addr,
				err.Error())
		}
	}

	return body, nil
} // func (c *Client) fetch(ctx context.Context, base string, params url.Values, opts fetchOpts) ([]byte, error)
