// /home/krylon/go/src/github.com/blicero/gazetteer/database/pool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 21. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 19:40:03 krylon>

package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/logdomain"
)

// ErrPoolClosed is returned by Pool methods after the Pool has been closed.
var ErrPoolClosed = errors.New("database pool is closed")

// Pool is a fixed-size pool of database connections. It allows several
// goroutines, e.g. the handlers of the web interface, to use the database
// concurrently.
type Pool struct {
	path string
	cnt  int
	log  *log.Logger
	idle chan *Database
}

// NewPool creates a Pool of cnt connections to the default database.
func NewPool(cnt int) (*Pool, error) {
	return NewPoolPath(common.Path(path.Database), cnt)
} // func NewPool(cnt int) (*Pool, error)

// NewPoolPath creates a Pool of cnt connections to the database at dbpath.
func NewPoolPath(dbpath string, cnt int) (*Pool, error) {
	var (
		err  error
		pool = &Pool{
			path: dbpath,
			cnt:  cnt,
			idle: make(chan *Database, cnt),
		}
	)

	if cnt <= 0 {
		return nil, fmt.Errorf("%w: pool size must be positive, not %d",
			ErrInvalidValue,
			cnt)
	} else if pool.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	}

	for i := 0; i < cnt; i++ {
		var db *Database

		if db, err = Open(dbpath); err != nil {
			pool.log.Printf("[ERROR] Cannot open database %s: %s\n",
				dbpath,
				err.Error())
			pool.Close() // nolint: errcheck
			return nil, err
		}

		pool.idle <- db
	}

	return pool, nil
} // func NewPoolPath(dbpath string, cnt int) (*Pool, error)

// Get takes a connection from the Pool, blocking until one is available.
func (p *Pool) Get() *Database {
	return <-p.idle
} // func (p *Pool) Get() *Database

// Put returns a connection to the Pool.
func (p *Pool) Put(db *Database) {
	if db.InTx() {
		p.log.Printf("[ERROR] Database#%d was returned to the pool with a pending transaction\n",
			db.id)
		db.Rollback() // nolint: errcheck
	}

	p.idle <- db
} // func (p *Pool) Put(db *Database)

// Close closes every connection in the Pool. All connections must have been
// returned to the Pool before.
func (p *Pool) Close() error {
	var err error

	close(p.idle)

	for db := range p.idle {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
} // func (p *Pool) Close() error
