// /home/krylon/go/src/github.com/blicero/gazetteer/advisor/advisor.go
// -*- mode: go; coding: utf-8; -*-
// Created on 03. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 19:12:08 krylon>

// Package advisor suggests labels for entities based on their Wikidata
// topics, using a Bayesian classifier trained on the tags of entities
// whose topics have been fetched before.
package advisor

import (
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/krylib"
	"github.com/blicero/shield"
	"github.com/endeveit/guesslanguage"
)

const defaultLang = "en"

// Advisor can suggest labels for Entities.
type Advisor struct {
	db     *database.Database
	log    *log.Logger
	shield map[string]shield.Shield
}

// NewAdvisor returns a new Advisor, but it does not train it, yet.
func NewAdvisor(db *database.Database) (*Advisor, error) {
	var (
		err error
		adv = &Advisor{
			db: db,
			shield: map[string]shield.Shield{
				"de": shield.New(
					shield.NewGermanTokenizer(),
					shield.NewLevelDBStore(filepath.Join(
						common.Path(path.Advisor),
						"de")),
				),
				"en": shield.New(
					shield.NewEnglishTokenizer(),
					shield.NewLevelDBStore(
						filepath.Join(
							common.Path(path.Advisor),
							"en",
						),
					),
				),
			},
		}
	)

	if adv.log, err = common.GetLogger(logdomain.Advisor); err != nil {
		return nil, err
	}

	return adv, nil
} // func NewAdvisor(db *database.Database) (*Advisor, error)

func (adv *Advisor) classifier(lang string) shield.Shield {
	if s := adv.shield[lang]; s != nil {
		return s
	}

	return adv.shield[defaultLang]
} // func (adv *Advisor) classifier(lang string) shield.Shield

// Train resets the Advisor and trains it on all tagged Entities in the
// database that have topics.
func (adv *Advisor) Train() (int, error) {
	var (
		err      error
		cnt      int
		entities []*model.Entity
	)

	for k, v := range adv.shield {
		adv.log.Printf("[DEBUG] Reset Shield instance for %s\n",
			k)
		if err = v.Reset(); err != nil {
			adv.log.Printf("[ERROR] Cannot reset Shield/%s: %s\n",
				k,
				err.Error())
			return 0, err
		}
	}

	if entities, err = adv.db.EntityGetFetched(); err != nil {
		adv.log.Printf("[ERROR] Failed to load Entities: %s\n",
			err.Error())
		return 0, err
	}

	for _, e := range entities {
		if e.Tag == "" {
			continue
		} else if e.Topics, err = adv.db.TopicGetByEntity(e); err != nil {
			adv.log.Printf("[ERROR] Failed to load Topics for Entity %q: %s\n",
				e.Name,
				err.Error())
			return cnt, err
		} else if len(e.Topics) == 0 {
			continue
		} else if err = adv.Learn(e); err != nil {
			return cnt, err
		}

		cnt++
	}

	adv.log.Printf("[INFO] Advisor was trained on %d Entities\n", cnt)

	return cnt, nil
} // func (adv *Advisor) Train() (int, error)

// Learn adds a single Entity to the Advisor's training corpus.
func (adv *Advisor) Learn(e *model.Entity) error {
	var (
		err       error
		lng, body string
	)

	lng, body = adv.getLanguage(e.Lang, e.Topics)

	if err = adv.classifier(lng).Learn(e.Tag, body); err != nil {
		adv.log.Printf("[ERROR] Failed to learn Entity %q (%s): %s\n",
			e.Name,
			e.Tag,
			err.Error())
		return err
	}

	return nil
} // func (adv *Advisor) Learn(e *model.Entity) error

// Unlearn removes the association between an Entity and its tag from the
// Advisor's corpus.
func (adv *Advisor) Unlearn(e *model.Entity) error {
	var (
		err       error
		lng, body string
	)

	lng, body = adv.getLanguage(e.Lang, e.Topics)

	if err = adv.classifier(lng).Forget(e.Tag, body); err != nil {
		adv.log.Printf("[ERROR] Failed to unlearn Entity %q (%s): %s\n",
			e.Name,
			e.Tag,
			err.Error())
		return err
	}

	return nil
} // func (adv *Advisor) Unlearn(e *model.Entity) error

type suggList []model.Suggestion

func (s suggList) Len() int           { return len(s) }
func (s suggList) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s suggList) Less(i, j int) bool { return s[j].Score < s[i].Score }

// Suggest returns up to n labels for an Entity with the given topics,
// the most likely first. If lang is empty, the language of the topics is
// guessed.
func (adv *Advisor) Suggest(topics []model.Topic, lang string, n int) []model.Suggestion {
	var (
		err  error
		res  map[string]float64
		body string
	)

	if len(topics) == 0 {
		return nil
	}

	lang, body = adv.getLanguage(lang, topics)

	if res, err = adv.classifier(lang).Score(body); err != nil {
		adv.log.Printf("[ERROR] Failed to score %q: %s\n",
			body,
			err.Error())
		return nil
	}

	var list = make(suggList, 0, len(res))

	for c, r := range res {
		if c == "unknown" {
			continue
		}

		list = append(list, model.Suggestion{Label: c, Score: r})
	}

	var cnt = krylib.Min(len(list), n)
	sort.Sort(list)

	return list[:cnt]
} // func (adv *Advisor) Suggest(topics []model.Topic, lang string, n int) []model.Suggestion

func topicText(topics []model.Topic) string {
	var labels = make([]string, len(topics))

	for i, t := range topics {
		labels[i] = t.Label
	}

	return strings.Join(labels, " ")
} // func topicText(topics []model.Topic) string

func (adv *Advisor) getLanguage(lang string, topics []model.Topic) (lng, fullText string) {
	var (
		err  error
		body = topicText(topics)
	)

	if lang != "" {
		return lang, body
	}

	defer func() {
		if x := recover(); x != nil {
			var buf [2048]byte
			var cnt = runtime.Stack(buf[:], false)
			adv.log.Printf("[CRITICAL] Panic in getLanguage for %q: %s\n%s",
				body,
				x,
				string(buf[:cnt]))
			lng = defaultLang
			fullText = body
		}
	}()

	if lng, err = guesslanguage.Guess(body); err != nil {
		adv.log.Printf("[ERROR] Cannot determine language of %q: %s\n",
			body,
			err.Error())
		lng = defaultLang
	}

	return lng, body
} // func (adv *Advisor) getLanguage(lang string, topics []model.Topic) (string, string)
