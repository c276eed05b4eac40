// /home/krylon/go/src/github.com/blicero/gazetteer/builder/builder.go
// -*- mode: go; coding: utf-8; -*-
// Created on 28. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 18:31:40 krylon>

// Package builder collects the Wikidata topics of the entities of an
// annotated corpus and turns them into gazetteers.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/corpus"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/gazetteer/vector"
	"github.com/endeveit/guesslanguage"
)

// LangAuto causes Collect to guess the language of each entity.
const LangAuto = "auto"

const defaultLang = "en"

// Errors returned by the Builder.
var (
	ErrNoSource   = errors.New("no topic source was configured")
	ErrNoEmbedder = errors.New("no embedder was configured")
	ErrNoSynonyms = errors.New("no label synonyms for dataset")
)

// TopicSource looks up the Wikidata topics of an entity.
type TopicSource interface {
	SearchTopics(ctx context.Context, query, lang string, limit int) ([]model.Topic, error)
}

// Suggester suggests labels for an entity with the given topics.
type Suggester interface {
	Suggest(topics []model.Topic, lang string, n int) []model.Suggestion
}

// Filter decides which entities are kept out of gazetteers.
type Filter interface {
	Match(name string) bool
}

// Builder collects entities and builds gazetteers from them.
type Builder struct {
	// Pause is how long Collect rests after every PauseEvery entities.
	Pause           time.Duration
	PauseEvery      int
	CheckpointEvery int
	// Lang is used for entities whose language cannot be determined.
	Lang           string
	AdviceMinScore float64
	// Blacklist, if set, keeps matching entities out of the gazetteers.
	Blacklist Filter
	log       *log.Logger
	db        *database.Database
	src       TopicSource
	emb       *vector.Embedder
	adv       Suggester
}

// New creates a Builder. src is only needed by Collect, emb only by Build.
func New(db *database.Database, src TopicSource, emb *vector.Embedder) (*Builder, error) {
	var (
		err error
		b   = &Builder{
			Pause:           common.PauseDuration,
			PauseEvery:      common.PauseEvery,
			CheckpointEvery: common.CheckpointEvery,
			Lang:            defaultLang,
			db:              db,
			src:             src,
			emb:             emb,
		}
	)

	if b.log, err = common.GetLogger(logdomain.Builder); err != nil {
		return nil, err
	}

	return b, nil
} // func New(db *database.Database, src TopicSource, emb *vector.Embedder) (*Builder, error)

// SetAdvisor enables the advisor fallback of Build: entities the scorer
// cannot assign to any label get the advisor's top suggestion, if its
// score is at least minScore.
func (b *Builder) SetAdvisor(s Suggester, minScore float64) {
	b.adv = s
	b.AdviceMinScore = minScore
} // func (b *Builder) SetAdvisor(s Suggester, minScore float64)

func (b *Builder) guessLang(text string) (lang string) {
	var err error

	defer func() {
		if x := recover(); x != nil {
			var buf [2048]byte
			var cnt = runtime.Stack(buf[:], false)
			b.log.Printf("[CRITICAL] Panic while guessing language of %q: %s\n%s",
				text,
				x,
				string(buf[:cnt]))
			lang = b.Lang
		}
	}()

	if lang, err = guesslanguage.Guess(text); err != nil || lang == "UNKNOWN" {
		b.log.Printf("[DEBUG] Cannot determine language of %q, using %s\n",
			text,
			b.Lang)
		lang = b.Lang
	}

	return lang
} // func (b *Builder) guessLang(text string) string

func (b *Builder) rest(ctx context.Context) error {
	b.log.Printf("[INFO] Sleeping for %s\n", b.Pause)

	var timer = time.NewTimer(b.Pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
} // func (b *Builder) rest(ctx context.Context) error

// lookup returns the Record for a newly encountered entity. Topics already
// stored in the database are reused, otherwise they are fetched from the
// TopicSource. The second return value is true if the TopicSource was asked.
func (b *Builder) lookup(ctx context.Context, m *model.Mention, lang string, limit int) (*Record, bool, error) {
	var (
		err    error
		ent    *model.Entity
		topics []model.Topic
		rec    = &Record{Tag: m.Tag, Lang: lang}
	)

	if ent, err = b.db.EntityGetByName(m.Entity, lang); err != nil {
		return nil, false, err
	} else if ent == nil {
		ent = &model.Entity{Name: m.Entity, Lang: lang, Tag: m.Tag}
		if err = b.db.EntityAdd(ent); err != nil {
			return nil, false, err
		}
	}

	rec.ent = ent

	if ent.HasTopics() {
		if topics, err = b.db.TopicGetByEntity(ent); err != nil {
			return nil, false, err
		}

		b.log.Printf("[TRACE] Found %d cached topics for %q\n",
			len(topics),
			m.Entity)
		rec.Topics = topics
		return rec, false, nil
	}

	if topics, err = b.src.SearchTopics(ctx, m.Entity, lang, limit); err != nil {
		if ctx.Err() != nil {
			return nil, true, ctx.Err()
		}

		b.log.Printf("[ERROR] Lookup of %q was incomplete, keeping %d topics: %s\n",
			m.Entity,
			len(topics),
			err.Error())
		rec.Topics = topics
		return rec, true, nil
	} else if err = b.db.TopicSet(ent, topics, time.Now()); err != nil {
		return nil, true, err
	}

	rec.Topics = topics
	return rec, true, nil
} // func (b *Builder) lookup(ctx context.Context, m *model.Mention, lang string, limit int) (*Record, bool, error)

func readMentions(corpusPath string) ([]model.Mention, error) {
	var (
		err error
		fh  io.ReadCloser
	)

	if fh, err = corpus.OpenFile(corpusPath); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	return corpus.ReadMentions(fh)
} // func readMentions(corpusPath string) ([]model.Mention, error)

// Collect reads a processed corpus and looks up the topics of every entity
// in it. The results are saved to the datasets directory as
// <name>_ners_dict.json and <name>_docs_dict.json, every CheckpointEvery
// entities and once more at the end.
//
// Entities whose topics are in the database already are not looked up
// again, which allows an interrupted run to be resumed.
func (b *Builder) Collect(ctx context.Context, corpusPath string, limit int, lang string) (*Dataset, error) {
	var (
		err      error
		mentions []model.Mention
		cnt      int
		fetched  int
		name     = DatasetName(corpusPath)
		dir      = filepath.Join(common.Path(path.Datasets), name)
		ds       = NewDataset(name)
	)

	if b.src == nil {
		return nil, ErrNoSource
	} else if mentions, err = readMentions(corpusPath); err != nil {
		b.log.Printf("[ERROR] Cannot read corpus %s: %s\n",
			corpusPath,
			err.Error())
		return nil, err
	} else if err = os.MkdirAll(dir, 0755); err != nil {
		b.log.Printf("[ERROR] Cannot create directory %s: %s\n",
			dir,
			err.Error())
		return nil, err
	}

	b.log.Printf("[INFO] Collecting topics for %d mentions from %s\n",
		len(mentions),
		name)

	var checkpoint = func() error {
		if serr := ds.Save(dir); serr != nil {
			b.log.Printf("[ERROR] %s\n", serr.Error())
			return serr
		}
		return nil
	}

	for i := range mentions {
		var m = &mentions[i]

		if err = ctx.Err(); err != nil {
			checkpoint() // nolint: errcheck
			return ds, err
		}

		cnt++
		ds.AddMention(m.DocID, m.Entity)

		var rec, known = ds.Entities[m.Entity]

		if !known || !rec.HasDoc(m.DocID) {
			if !known {
				var (
					asked bool
					elang = lang
				)

				if lang == LangAuto {
					elang = b.guessLang(m.Entity)
				}

				if rec, asked, err = b.lookup(ctx, m, elang, limit); err != nil {
					b.log.Printf("[ERROR] Cannot process %q: %s\n",
						m.Entity,
						err.Error())
					checkpoint() // nolint: errcheck
					return ds, err
				} else if asked {
					fetched++
				}

				ds.AddEntity(m.Entity, rec)
			}

			rec.Docs = append(rec.Docs, m.DocID)

			if err = b.db.MentionAdd(rec.ent, name, m.DocID, m.Tag); err != nil {
				b.log.Printf("[ERROR] %s\n", err.Error())
				checkpoint() // nolint: errcheck
				return ds, err
			}

			if b.PauseEvery > 0 && cnt%b.PauseEvery == 0 && fetched > 0 {
				fetched = 0
				if err = b.rest(ctx); err != nil {
					checkpoint() // nolint: errcheck
					return ds, err
				}
			}
		}

		if b.CheckpointEvery > 0 && cnt%b.CheckpointEvery == 0 {
			if err = checkpoint(); err != nil {
				return ds, err
			}
		}
	}

	if b.CheckpointEvery <= 0 || cnt%b.CheckpointEvery != 0 {
		if err = checkpoint(); err != nil {
			return ds, err
		}
	}

	b.log.Printf("[INFO] Collected %d entities in %d documents from %s\n",
		len(ds.Entities),
		len(ds.Docs),
		name)

	return ds, nil
} // func (b *Builder) Collect(ctx context.Context, corpusPath string, limit int, lang string) (*Dataset, error)

func isDir(p string) bool {
	var st, err = os.Stat(p)

	return err == nil && st.IsDir()
} // func isDir(p string) bool

func errNoSynonyms(name string) error {
	return fmt.Errorf("%w %s in %s",
		ErrNoSynonyms,
		name,
		common.Path(path.LabelSynonyms))
} // func errNoSynonyms(name string) error
