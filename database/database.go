// /home/krylon/go/src/github.com/blicero/gazetteer/database/database.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-11 19:26:52 krylon>

// Package database provides persistence for entities, the topics Wikidata
// associates with them, and the gazetteers built from them.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/database/query"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/krylib"
	_ "github.com/mattn/go-sqlite3" // Import the database driver
)

var (
	openLock sync.Mutex
	idCnt    int64
)

// ErrTxInProgress indicates that an attempt to initiate a transaction failed
// because there is already one in progress.
var ErrTxInProgress = errors.New("A Transaction is already in progress")

// ErrNoTxInProgress indicates that an attempt was made to finish a
// transaction when none was active.
var ErrNoTxInProgress = errors.New("There is no transaction in progress")

// ErrInvalidValue indicates that one or more parameters passed to a method
// had values that are invalid for that operation.
var ErrInvalidValue = errors.New("Invalid value for parameter")

// If a query returns an error and the error text is matched by this regex, we
// consider the error as transient and try again after a short delay.
var retryPat = regexp.MustCompile("(?i)database is (?:locked|busy)")

// worthARetry returns true if an error returned from the database
// is matched by the retryPat regex.
func worthARetry(e error) bool {
	return retryPat.MatchString(e.Error())
} // func worthARetry(e error) bool

// retryDelay is the amount of time we wait before we repeat a database
// operation that failed due to a transient error.
const retryDelay = 25 * time.Millisecond

func waitForRetry() {
	time.Sleep(retryDelay)
} // func waitForRetry()

// Database wraps a database connection and associated state.
type Database struct {
	id      int64
	db      *sql.DB
	tx      *sql.Tx
	log     *log.Logger
	path    string
	queries map[query.ID]*sql.Stmt
}

// Open opens a Database. If the database specified by the path does not exist,
// yet, it is created and initialized.
func Open(path string) (*Database, error) {
	var (
		err      error
		dbExists bool
		db       = &Database{
			path:    path,
			queries: make(map[query.ID]*sql.Stmt),
		}
	)

	openLock.Lock()
	defer openLock.Unlock()
	idCnt++
	db.id = idCnt

	if db.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	} else if common.Debug {
		db.log.Printf("[DEBUG] Open database %s\n", path)
	}

	var connstring = fmt.Sprintf("%s?_locking=NORMAL&_journal=WAL&_fk=true&recursive_triggers=true",
		path)

	if dbExists, err = krylib.Fexists(path); err != nil {
		db.log.Printf("[ERROR] Failed to check if %s already exists: %s\n",
			path,
			err.Error())
		return nil, err
	} else if db.db, err = sql.Open("sqlite3", connstring); err != nil {
		db.log.Printf("[ERROR] Failed to open %s: %s\n",
			path,
			err.Error())
		return nil, err
	}

	if !dbExists {
		if err = db.initialize(); err != nil {
			var e2 error
			if e2 = db.db.Close(); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to close database: %s\n",
					e2.Error())
				return nil, e2
			} else if e2 = os.Remove(path); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to remove database file %s: %s\n",
					db.path,
					e2.Error())
			}
			return nil, err
		}
		db.log.Printf("[INFO] Database at %s has been initialized\n",
			path)
	}

	return db, nil
} // func Open(path string) (*Database, error)

func (db *Database) initialize() error {
	var err error
	var tx *sql.Tx

	if common.Debug {
		db.log.Printf("[DEBUG] Initialize fresh database at %s\n",
			db.path)
	}

	if tx, err = db.db.Begin(); err != nil {
		db.log.Printf("[ERROR] Cannot begin transaction: %s\n",
			err.Error())
		return err
	}

	for _, q := range initQueries {
		db.log.Printf("[TRACE] Execute init query:\n%s\n",
			q)
		if _, err = tx.Exec(q); err != nil {
			db.log.Printf("[ERROR] Cannot execute init query: %s\n%s\n",
				err.Error(),
				q)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Printf("[CANTHAPPEN] Cannot rollback transaction: %s\n",
					rbErr.Error())
				return rbErr
			}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		db.log.Printf("[CANTHAPPEN] Failed to commit init transaction: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) initialize() error

// Close closes the database.
// If there is a pending transaction, it is rolled back.
func (db *Database) Close() error {
	var err error

	if db.tx != nil {
		if err = db.tx.Rollback(); err != nil {
			db.log.Printf("[CRITICAL] Cannot roll back pending transaction: %s\n",
				err.Error())
			return err
		}
		db.tx = nil
	}

	for key, stmt := range db.queries {
		if err = stmt.Close(); err != nil {
			db.log.Printf("[CRITICAL] Cannot close statement handle %s: %s\n",
				key,
				err.Error())
			return err
		}
		delete(db.queries, key)
	}

	if err = db.db.Close(); err != nil {
		db.log.Printf("[CRITICAL] Cannot close database: %s\n",
			err.Error())
	}

	db.db = nil
	return nil
} // func (db *Database) Close() error

func (db *Database) getQuery(id query.ID) (*sql.Stmt, error) {
	var (
		stmt  *sql.Stmt
		found bool
		err   error
	)

	if stmt, found = db.queries[id]; found {
		return stmt, nil
	} else if _, found = dbQueries[id]; !found {
		return nil, fmt.Errorf("Unknown Query %d",
			id)
	}

	db.log.Printf("[TRACE] Prepare query %s\n", id)

PREPARE_QUERY:
	if stmt, err = db.db.Prepare(dbQueries[id]); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto PREPARE_QUERY
		}

		db.log.Printf("[ERROR] Cannot parse query %s: %s\n%s\n",
			id,
			err.Error(),
			dbQueries[id])
		return nil, err
	}

	db.queries[id] = stmt
	return stmt, nil
} // func (db *Database) getQuery(query.ID) (*sql.Stmt, error)

// PerformMaintenance performs some maintenance operations on the database.
// It cannot be called while a transaction is in progress and will block
// pretty much all access to the database while it is running.
func (db *Database) PerformMaintenance() error {
	var mQueries = []string{
		"PRAGMA wal_checkpoint(TRUNCATE)",
		"VACUUM",
		"REINDEX",
		"ANALYZE",
	}
	var err error

	if db.tx != nil {
		return ErrTxInProgress
	}

	for _, q := range mQueries {
		if _, err = db.db.Exec(q); err != nil {
			db.log.Printf("[ERROR] Failed to execute %s: %s\n",
				q,
				err.Error())
		}
	}

	return nil
} // func (db *Database) PerformMaintenance() error

// Begin begins an explicit database transaction.
// Only one transaction can be in progress at once, attempting to start one,
// while another transaction is already in progress will yield ErrTxInProgress.
func (db *Database) Begin() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Begin Transaction\n",
		db.id)

	if db.tx != nil {
		return ErrTxInProgress
	}

BEGIN_TX:
	for db.tx == nil {
		if db.tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				continue BEGIN_TX
			} else {
				db.log.Printf("[ERROR] Failed to start transaction: %s\n",
					err.Error())
				return err
			}
		}
	}

	return nil
} // func (db *Database) Begin() error

// Rollback terminates a pending transaction, undoing any changes to the
// database made during that transaction.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Rollback() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Roll back Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Rollback(); err != nil {
		return fmt.Errorf("Cannot roll back database transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Rollback() error

// Commit ends the active transaction, making any changes made during that
// transaction permanent and visible to other connections.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Commit() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Commit Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Commit(); err != nil {
		return fmt.Errorf("Cannot commit transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Commit() error

// InTx returns true if an explicit transaction is in progress.
func (db *Database) InTx() bool {
	return db.tx != nil
} // func (db *Database) InTx() bool

// withTx runs fn inside the pending transaction, if there is one. Otherwise
// it starts an ad-hoc transaction that is committed if fn succeeds and
// rolled back if it does not.
func (db *Database) withTx(fn func(tx *sql.Tx) error) error {
	var (
		err error
		tx  *sql.Tx
	)

	if db.tx != nil {
		return fn(db.tx)
	}

BEGIN_AD_HOC:
	if tx, err = db.db.Begin(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto BEGIN_AD_HOC
		}

		err = fmt.Errorf("Error starting transaction: %w", err)
		db.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

	if err = fn(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			db.log.Printf("[ERROR] Rollback of ad-hoc transaction failed: %s\n",
				err2.Error())
		}
		return err
	} else if err = tx.Commit(); err != nil {
		db.log.Printf("[ERROR] Failed to commit ad-hoc transaction: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) withTx(fn func(tx *sql.Tx) error) error

// execWrite runs a query that does not return any rows.
func (db *Database) execWrite(qid query.ID, args ...any) (int64, error) {
	var (
		err  error
		stmt *sql.Stmt
		cnt  int64
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return 0, err
	}

	err = db.withTx(func(tx *sql.Tx) error {
		var (
			res  sql.Result
			xerr error
			s    = tx.Stmt(stmt)
		)

	EXEC_QUERY:
		if res, xerr = s.Exec(args...); xerr != nil {
			if worthARetry(xerr) {
				waitForRetry()
				goto EXEC_QUERY
			}

			return xerr
		}

		cnt, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		db.log.Printf("[ERROR] Query %s failed: %s\n",
			qid,
			err.Error())
	}

	return cnt, err
} // func (db *Database) execWrite(qid query.ID, args ...any) (int64, error)

// insertReturningID runs a query that inserts a row and returns its ID.
func (db *Database) insertReturningID(qid query.ID, args ...any) (int64, error) {
	var (
		err  error
		stmt *sql.Stmt
		id   int64
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return 0, err
	}

	err = db.withTx(func(tx *sql.Tx) error {
		var (
			rows *sql.Rows
			xerr error
			s    = tx.Stmt(stmt)
		)

	EXEC_QUERY:
		if rows, xerr = s.Query(args...); xerr != nil {
			if worthARetry(xerr) {
				waitForRetry()
				goto EXEC_QUERY
			}

			return xerr
		}

		defer rows.Close() // nolint: errcheck

		if !rows.Next() {
			// CANTHAPPEN
			return fmt.Errorf("Query %s did not return a value", qid)
		}

		return rows.Scan(&id)
	})

	if err != nil {
		db.log.Printf("[ERROR] Query %s failed: %s\n",
			qid,
			err.Error())
	}

	return id, err
} // func (db *Database) insertReturningID(qid query.ID, args ...any) (int64, error)

// query runs a query that returns rows. The statement is bound to the
// pending transaction if there is one.
func (db *Database) query(qid query.ID, args ...any) (*sql.Rows, error) {
	var (
		err  error
		stmt *sql.Stmt
		rows *sql.Rows
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if rows, err = stmt.Query(args...); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Query %s failed: %s\n",
			qid,
			err.Error())
		return nil, err
	}

	return rows, nil
} // func (db *Database) query(qid query.ID, args ...any) (*sql.Rows, error)

func fromUnix(stamp int64) time.Time {
	if stamp == 0 {
		return time.Time{}
	}

	return time.Unix(stamp, 0)
} // func fromUnix(stamp int64) time.Time

//////////////////////////////////////////////////////////////////////////////
// Entity ////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// EntityAdd adds an Entity to the database.
func (db *Database) EntityAdd(e *model.Entity) error {
	var (
		err error
		id  int64
	)

	if e.Name == "" {
		return ErrInvalidValue
	} else if id, err = db.insertReturningID(query.EntityAdd, e.Name, e.Lang, e.Tag); err != nil {
		return fmt.Errorf("Cannot add Entity %q to database: %w",
			e.Name,
			err)
	}

	e.ID = id
	return nil
} // func (db *Database) EntityAdd(e *model.Entity) error

// EntityGetByID loads an Entity by its ID. If no such Entity exists, it
// returns nil, nil.
func (db *Database) EntityGetByID(id int64) (*model.Entity, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.EntityGetByID, id); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			stamp int64
			e     = &model.Entity{ID: id}
		)

		if err = rows.Scan(&e.Name, &e.Lang, &e.Tag, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row for Entity %d: %s\n",
				id,
				err.Error())
			return nil, err
		}

		e.Fetched = fromUnix(stamp)
		return e, nil
	}

	db.log.Printf("[DEBUG] Entity %d was not found in database\n", id)
	return nil, nil
} // func (db *Database) EntityGetByID(id int64) (*model.Entity, error)

// EntityGetByName looks up an Entity by its name and language. If no such
// Entity exists, it returns nil, nil.
func (db *Database) EntityGetByName(name, lang string) (*model.Entity, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.EntityGetByName, name, lang); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			stamp int64
			e     = &model.Entity{Name: name, Lang: lang}
		)

		if err = rows.Scan(&e.ID, &e.Tag, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row for Entity %q: %s\n",
				name,
				err.Error())
			return nil, err
		}

		e.Fetched = fromUnix(stamp)
		return e, nil
	}

	return nil, nil
} // func (db *Database) EntityGetByName(name, lang string) (*model.Entity, error)

func (db *Database) scanEntities(rows *sql.Rows) ([]*model.Entity, error) {
	var (
		err  error
		list = make([]*model.Entity, 0, 64)
	)

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var (
			stamp int64
			e     = new(model.Entity)
		)

		if err = rows.Scan(&e.ID, &e.Name, &e.Lang, &e.Tag, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		e.Fetched = fromUnix(stamp)
		list = append(list, e)
	}

	return list, rows.Err()
} // func (db *Database) scanEntities(rows *sql.Rows) ([]*model.Entity, error)

// EntityGetAll loads all Entities, ordered by name.
func (db *Database) EntityGetAll() ([]*model.Entity, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.EntityGetAll); err != nil {
		return nil, err
	}

	return db.scanEntities(rows)
} // func (db *Database) EntityGetAll() ([]*model.Entity, error)

// EntityGetFetched loads all Entities Wikidata has been queried for.
func (db *Database) EntityGetFetched() ([]*model.Entity, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.EntityGetFetched); err != nil {
		return nil, err
	}

	return db.scanEntities(rows)
} // func (db *Database) EntityGetFetched() ([]*model.Entity, error)

// EntitySetFetched records the time the Entity's topics were fetched.
func (db *Database) EntitySetFetched(e *model.Entity, stamp time.Time) error {
	var err error

	if _, err = db.execWrite(query.EntitySetFetched, stamp.Unix(), e.ID); err != nil {
		return err
	}

	e.Fetched = stamp
	return nil
} // func (db *Database) EntitySetFetched(e *model.Entity, stamp time.Time) error

// EntitySetTag updates the Entity's tag.
func (db *Database) EntitySetTag(e *model.Entity, tag string) error {
	var err error

	if _, err = db.execWrite(query.EntitySetTag, tag, e.ID); err != nil {
		return err
	}

	e.Tag = tag
	return nil
} // func (db *Database) EntitySetTag(e *model.Entity, tag string) error

//////////////////////////////////////////////////////////////////////////////
// Mention ///////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// MentionAdd records that the Entity was seen in the given document of a
// dataset. Adding the same mention twice is not an error.
func (db *Database) MentionAdd(e *model.Entity, dataset, docID, tag string) error {
	var err error

	if e.ID == 0 {
		return ErrInvalidValue
	} else if _, err = db.execWrite(query.MentionAdd, e.ID, dataset, docID, tag); err != nil {
		return fmt.Errorf("Cannot add mention of %q in %s/%s: %w",
			e.Name,
			dataset,
			docID,
			err)
	}

	return nil
} // func (db *Database) MentionAdd(e *model.Entity, dataset, docID, tag string) error

// MentionGetByEntity returns all recorded occurrences of the Entity.
func (db *Database) MentionGetByEntity(e *model.Entity) ([]model.Occurrence, error) {
	var (
		err  error
		rows *sql.Rows
		occ  = make([]model.Occurrence, 0, 8)
	)

	if rows, err = db.query(query.MentionGetByEntity, e.ID); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var o model.Occurrence

		if err = rows.Scan(&o.Dataset, &o.DocID, &o.Tag); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		occ = append(occ, o)
	}

	return occ, rows.Err()
} // func (db *Database) MentionGetByEntity(e *model.Entity) ([]model.Occurrence, error)

//////////////////////////////////////////////////////////////////////////////
// Topic /////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// TopicAdd attaches a Topic to an Entity.
func (db *Database) TopicAdd(e *model.Entity, t model.Topic) error {
	var err error

	if _, err = db.execWrite(query.TopicAdd, e.ID, t.Label, t.QID); err != nil {
		return fmt.Errorf("Cannot add Topic %s (%s) to %q: %w",
			t.Label,
			t.QID,
			e.Name,
			err)
	}

	return nil
} // func (db *Database) TopicAdd(e *model.Entity, t model.Topic) error

// TopicDeleteByEntity removes all Topics from an Entity.
func (db *Database) TopicDeleteByEntity(e *model.Entity) error {
	var err error

	if _, err = db.execWrite(query.TopicDeleteByEntity, e.ID); err != nil {
		return err
	}

	return nil
} // func (db *Database) TopicDeleteByEntity(e *model.Entity) error

// TopicGetByEntity loads the Topics of an Entity, in the order they were added.
func (db *Database) TopicGetByEntity(e *model.Entity) ([]model.Topic, error) {
	var (
		err    error
		rows   *sql.Rows
		topics = make([]model.Topic, 0, 8)
	)

	if rows, err = db.query(query.TopicGetByEntity, e.ID); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var t model.Topic

		if err = rows.Scan(&t.Label, &t.QID); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		topics = append(topics, t)
	}

	return topics, rows.Err()
} // func (db *Database) TopicGetByEntity(e *model.Entity) ([]model.Topic, error)

// TopicSet replaces the Topics of an Entity and marks it as fetched at the
// given time. If no transaction is in progress, it runs in a transaction
// of its own.
func (db *Database) TopicSet(e *model.Entity, topics []model.Topic, stamp time.Time) (err error) {
	var (
		status bool
		own    = db.tx == nil
	)

	if own {
		if err = db.Begin(); err != nil {
			return err
		}

		defer func() {
			if status {
				if err = db.Commit(); err != nil {
					db.log.Printf("[ERROR] Cannot commit transaction: %s\n",
						err.Error())
				}
			} else if rbErr := db.Rollback(); rbErr != nil {
				db.log.Printf("[ERROR] Cannot roll back transaction: %s\n",
					rbErr.Error())
			}
		}()
	}

	if err = db.TopicDeleteByEntity(e); err != nil {
		return err
	}

	for _, t := range topics {
		if err = db.TopicAdd(e, t); err != nil {
			return err
		}
	}

	if err = db.EntitySetFetched(e, stamp); err != nil {
		return err
	}

	e.Topics = topics
	status = true
	return nil
} // func (db *Database) TopicSet(e *model.Entity, topics []model.Topic, stamp time.Time) (err error)

//////////////////////////////////////////////////////////////////////////////
// Gazetteer /////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// GazetteerAdd adds a Gazetteer to the database.
func (db *Database) GazetteerAdd(g *model.Gazetteer) error {
	var (
		err error
		id  int64
	)

	if g.Created.IsZero() {
		g.Created = time.Now()
	}

	if g.Name == "" {
		g.Name = g.Dirname()
	}

	if id, err = db.insertReturningID(
		query.GazetteerAdd,
		g.Name,
		g.Dataset,
		g.Threshold,
		g.Limit,
		g.Created.Unix()); err != nil {
		return fmt.Errorf("Cannot add Gazetteer %s to database: %w",
			g.Name,
			err)
	}

	g.ID = id
	return nil
} // func (db *Database) GazetteerAdd(g *model.Gazetteer) error

// GazetteerGetByID loads a Gazetteer by its ID. If it does not exist, it
// returns nil, nil.
func (db *Database) GazetteerGetByID(id int64) (*model.Gazetteer, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.GazetteerGetByID, id); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			stamp int64
			g     = &model.Gazetteer{ID: id}
		)

		if err = rows.Scan(&g.Name, &g.Dataset, &g.Threshold, &g.Limit, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row for Gazetteer %d: %s\n",
				id,
				err.Error())
			return nil, err
		}

		g.Created = time.Unix(stamp, 0)
		return g, nil
	}

	return nil, nil
} // func (db *Database) GazetteerGetByID(id int64) (*model.Gazetteer, error)

// GazetteerGetByName loads a Gazetteer by its name. If it does not exist, it
// returns nil, nil.
func (db *Database) GazetteerGetByName(name string) (*model.Gazetteer, error) {
	var (
		err  error
		rows *sql.Rows
	)

	if rows, err = db.query(query.GazetteerGetByName, name); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	if rows.Next() {
		var (
			stamp int64
			g     = &model.Gazetteer{Name: name}
		)

		if err = rows.Scan(&g.ID, &g.Dataset, &g.Threshold, &g.Limit, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row for Gazetteer %s: %s\n",
				name,
				err.Error())
			return nil, err
		}

		g.Created = time.Unix(stamp, 0)
		return g, nil
	}

	return nil, nil
} // func (db *Database) GazetteerGetByName(name string) (*model.Gazetteer, error)

// GazetteerGetAll loads all Gazetteers, ordered by name.
func (db *Database) GazetteerGetAll() ([]*model.Gazetteer, error) {
	var (
		err  error
		rows *sql.Rows
		list = make([]*model.Gazetteer, 0, 16)
	)

	if rows, err = db.query(query.GazetteerGetAll); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var (
			stamp int64
			g     = new(model.Gazetteer)
		)

		if err = rows.Scan(&g.ID, &g.Name, &g.Dataset, &g.Threshold, &g.Limit, &stamp); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		g.Created = time.Unix(stamp, 0)
		list = append(list, g)
	}

	return list, rows.Err()
} // func (db *Database) GazetteerGetAll() ([]*model.Gazetteer, error)

// GazetteerDelete removes a Gazetteer along with all its Entries.
func (db *Database) GazetteerDelete(g *model.Gazetteer) error {
	var err error

	if _, err = db.execWrite(query.GazetteerDelete, g.ID); err != nil {
		return fmt.Errorf("Cannot delete Gazetteer %s: %w",
			g.Name,
			err)
	}

	return nil
} // func (db *Database) GazetteerDelete(g *model.Gazetteer) error

//////////////////////////////////////////////////////////////////////////////
// Entry /////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// EntryAdd adds an Entry to its Gazetteer. Adding an Entity to the same
// label twice is silently ignored.
func (db *Database) EntryAdd(e *model.Entry) error {
	var err error

	if e.GazetteerID == 0 || e.EntityID == 0 || e.Label == "" {
		return ErrInvalidValue
	} else if _, err = db.execWrite(
		query.EntryAdd,
		e.GazetteerID,
		e.EntityID,
		e.Label,
		e.Topic,
		e.Synonym,
		e.Score); err != nil {
		return fmt.Errorf("Cannot add %q to label %s: %w",
			e.Entity,
			e.Label,
			err)
	}

	return nil
} // func (db *Database) EntryAdd(e *model.Entry) error

// EntryGetByGazetteer loads all Entries of a Gazetteer, ordered by label.
func (db *Database) EntryGetByGazetteer(g *model.Gazetteer) ([]model.Entry, error) {
	var (
		err     error
		rows    *sql.Rows
		entries = make([]model.Entry, 0, 256)
	)

	if rows, err = db.query(query.EntryGetByGazetteer, g.ID); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var e = model.Entry{GazetteerID: g.ID}

		if err = rows.Scan(&e.ID, &e.EntityID, &e.Entity, &e.Label, &e.Topic, &e.Synonym, &e.Score); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
} // func (db *Database) EntryGetByGazetteer(g *model.Gazetteer) ([]model.Entry, error)

// EntryGetByLabel loads the Entries of one label of a Gazetteer.
func (db *Database) EntryGetByLabel(g *model.Gazetteer, label string) ([]model.Entry, error) {
	var (
		err     error
		rows    *sql.Rows
		entries = make([]model.Entry, 0, 64)
	)

	if rows, err = db.query(query.EntryGetByLabel, g.ID, label); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var e = model.Entry{GazetteerID: g.ID, Label: label}

		if err = rows.Scan(&e.ID, &e.EntityID, &e.Entity, &e.Topic, &e.Synonym, &e.Score); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
} // func (db *Database) EntryGetByLabel(g *model.Gazetteer, label string) ([]model.Entry, error)

// EntryGetLabels returns the number of Entries for each label of the
// Gazetteer.
func (db *Database) EntryGetLabels(g *model.Gazetteer) (map[string]int64, error) {
	var (
		err    error
		rows   *sql.Rows
		labels = make(map[string]int64)
	)

	if rows, err = db.query(query.EntryGetLabels, g.ID); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var (
			label string
			cnt   int64
		)

		if err = rows.Scan(&label, &cnt); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		labels[label] = cnt
	}

	return labels, rows.Err()
} // func (db *Database) EntryGetLabels(g *model.Gazetteer) (map[string]int64, error)

// EntryGetByEntity loads all Entries referring to the given Entity, across
// all Gazetteers.
func (db *Database) EntryGetByEntity(ent *model.Entity) ([]model.Entry, error) {
	var (
		err     error
		rows    *sql.Rows
		entries = make([]model.Entry, 0, 8)
	)

	if rows, err = db.query(query.EntryGetByEntity, ent.ID); err != nil {
		return nil, err
	}

	defer rows.Close() // nolint: errcheck,gosec

	for rows.Next() {
		var e = model.Entry{EntityID: ent.ID, Entity: ent.Name}

		if err = rows.Scan(&e.ID, &e.GazetteerID, &e.Label, &e.Topic, &e.Synonym, &e.Score); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n", err.Error())
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
} // func (db *Database) EntryGetByEntity(ent *model.Entity) ([]model.Entry, error)
