// /home/krylon/go/src/github.com/blicero/gazetteer/blacklist/blacklist.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-17 20:02:18 krylon>

// Package blacklist keeps entities out of gazetteers by matching their names
// against regular expressions.
package blacklist

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/logdomain"
)

// Pattern is a single entry of the Blacklist. It counts how many entity
// names it matched, so frequently matching Patterns can be moved to the front
// of the list.
type Pattern struct {
	Pattern *regexp.Regexp
	Cnt     atomic.Int64
}

// Match checks if the Pattern matches the given entity name.
func (p *Pattern) Match(name string) bool {
	if p.Pattern.MatchString(name) {
		p.Cnt.Add(1)
		return true
	}
	return false
} // func (p *Pattern) Match(name string) bool

// MarshalJSON encodes the Pattern as an object holding the expression and
// its match count.
func (p *Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pattern string `json:"pattern"`
		Cnt     int64  `json:"cnt"`
	}{
		Pattern: p.Pattern.String(),
		Cnt:     p.Cnt.Load(),
	})
} // func (p *Pattern) MarshalJSON() ([]byte, error)

// UnmarshalJSON decodes a Pattern and compiles its expression.
func (p *Pattern) UnmarshalJSON(b []byte) error {
	var (
		err error
		d   struct {
			Pattern string `json:"pattern"`
			Cnt     int64  `json:"cnt"`
		}
	)

	if err = json.Unmarshal(b, &d); err != nil {
		return err
	} else if p.Pattern, err = regexp.Compile(d.Pattern); err != nil {
		return err
	}

	p.Cnt.Store(d.Cnt)
	return nil
} // func (p *Pattern) UnmarshalJSON(b []byte) error

// Blacklist is a collection of Patterns.
type Blacklist struct {
	lock    sync.RWMutex
	log     *log.Logger
	changed atomic.Bool
	List    []*Pattern
}

// New creates an empty Blacklist.
func New() (*Blacklist, error) {
	var (
		err error
		bl  = &Blacklist{List: make([]*Pattern, 0, 8)}
	)

	if bl.log, err = common.GetLogger(logdomain.Blacklist); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to create Logger for Blacklist: %s\n",
			err.Error(),
		)
		return nil, err
	}

	return bl, nil
} // func New() (*Blacklist, error)

// NewFromFile restores a Blacklist from a JSON file. If the file does not
// exist, the Blacklist is empty.
func NewFromFile(path string) (*Blacklist, error) {
	var (
		err  error
		data []byte
		bl   *Blacklist
	)

	if bl, err = New(); err != nil {
		return nil, err
	}

	bl.log.Printf("[INFO] Restore Blacklist from %s\n",
		path)

	if data, err = os.ReadFile(path); err != nil {
		if os.IsNotExist(err) {
			return bl, nil
		}
		bl.log.Printf("[ERROR] Cannot read Blacklist from %s: %s\n",
			path,
			err.Error())
		return nil, err
	} else if err = json.Unmarshal(data, &bl.List); err != nil {
		bl.log.Printf("[ERROR] Failed to de-serialize Blacklist: %s\n",
			err.Error())
		return nil, err
	}

	return bl, nil
} // func NewFromFile(path string) (*Blacklist, error)

func (bl *Blacklist) Len() int           { return len(bl.List) }
func (bl *Blacklist) Swap(i, j int)      { bl.List[i], bl.List[j] = bl.List[j], bl.List[i] }
func (bl *Blacklist) Less(i, j int) bool { return bl.List[i].Cnt.Load() > bl.List[j].Cnt.Load() }

// Changed returns true if the contents of the Blacklist have changed since
// it was created or last saved to disk.
func (bl *Blacklist) Changed() bool { return bl.changed.Load() }

// Match checks if any of the Patterns in the Blacklist matches the name.
// An empty or nil Blacklist matches nothing.
func (bl *Blacklist) Match(name string) bool {
	if bl == nil {
		return false
	}

	bl.lock.RLock()
	defer bl.lock.RUnlock()

	for _, p := range bl.List {
		if p.Match(name) {
			bl.log.Printf("[DEBUG] Blacklist pattern %q matches %q\n",
				p.Pattern,
				name)
			bl.changed.Store(true)
			return true
		}
	}

	return false
} // func (bl *Blacklist) Match(name string) bool

// Sort moves the Patterns with the most matches to the front.
func (bl *Blacklist) Sort() {
	bl.lock.Lock()
	defer bl.lock.Unlock()

	sort.Stable(bl)
} // func (bl *Blacklist) Sort()

// Dump sorts the Blacklist and writes it to a JSON file at the given path.
func (bl *Blacklist) Dump(path string) error {
	var (
		err  error
		data []byte
		tmp  = path + ".tmp"
	)

	bl.Sort()
	bl.lock.RLock()
	defer bl.lock.RUnlock()

	bl.log.Printf("[INFO] Dumping Blacklist to %s\n",
		path)

	if data, err = json.MarshalIndent(bl.List, "", "  "); err != nil {
		bl.log.Printf("[ERROR] Failed to serialize Blacklist: %s\n",
			err.Error())
		return err
	} else if err = os.WriteFile(tmp, data, 0644); err != nil {
		bl.log.Printf("[ERROR] Failed to write Blacklist to %s: %s\n",
			tmp,
			err.Error())
		return err
	} else if err = os.Rename(tmp, path); err != nil {
		bl.log.Printf("[ERROR] Cannot rename %s to %s: %s\n",
			tmp,
			path,
			err.Error())
		return err
	}

	bl.changed.Store(false)

	return nil
} // func (bl *Blacklist) Dump(path string) error

// Add creates a new Pattern from the given expression and adds it to the
// Blacklist.
func (bl *Blacklist) Add(s string) error {
	var (
		err error
		p   = new(Pattern)
	)

	if p.Pattern, err = regexp.Compile(s); err != nil {
		return err
	}

	bl.lock.Lock()
	defer bl.lock.Unlock()
	bl.changed.Store(true)
	bl.List = append(bl.List, p)
	return nil
} // func (bl *Blacklist) Add(s string) error
