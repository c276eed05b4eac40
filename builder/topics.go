// /home/krylon/go/src/github.com/blicero/gazetteer/builder/topics.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 18:12:40 krylon>

package builder

import (
	"context"
	"io"

	"github.com/blicero/gazetteer/corpus"
)

// DumpTopics looks up the topics of every distinct entity of a processed
// corpus, ignoring mentions tagged with one of skip, and saves them to
// outPath as a JSON object mapping each entity to its topics. The file is
// rewritten every CheckpointEvery entities. It returns the number of
// entities processed.
func (b *Builder) DumpTopics(ctx context.Context, corpusPath, lang string, limit int, outPath string, skip ...string) (int, error) {
	var (
		err    error
		fh     io.ReadCloser
		dist   *corpus.Distinct
		cnt    int
		topics = make(map[string]TopicList)
	)

	if b.src == nil {
		return 0, ErrNoSource
	} else if fh, err = corpus.OpenFile(corpusPath); err != nil {
		b.log.Printf("[ERROR] Cannot open %s: %s\n",
			corpusPath,
			err.Error())
		return 0, err
	}

	dist, err = corpus.DistinctEntities(fh, skip...)
	fh.Close() // nolint: errcheck

	if err != nil {
		b.log.Printf("[ERROR] Cannot read %s: %s\n",
			corpusPath,
			err.Error())
		return 0, err
	}

	var save = func() error {
		if serr := writeJSON(outPath, topics); serr != nil {
			b.log.Printf("[ERROR] Cannot save topics to %s: %s\n",
				outPath,
				serr.Error())
			return serr
		}
		return nil
	}

	for _, name := range dist.Names {
		var list TopicList

		if list, err = b.src.SearchTopics(ctx, name, lang, limit); err != nil {
			if ctx.Err() != nil {
				save() // nolint: errcheck
				return cnt, ctx.Err()
			}

			b.log.Printf("[ERROR] Lookup of %q was incomplete: %s\n",
				name,
				err.Error())
		}

		topics[name] = list
		cnt++

		if b.PauseEvery > 0 && cnt%b.PauseEvery == 0 {
			if err = b.rest(ctx); err != nil {
				save() // nolint: errcheck
				return cnt, err
			}
		}

		if b.CheckpointEvery > 0 && cnt%b.CheckpointEvery == 0 {
			if err = save(); err != nil {
				return cnt, err
			}
		}
	}

	if b.CheckpointEvery <= 0 || cnt%b.CheckpointEvery != 0 {
		if err = save(); err != nil {
			return cnt, err
		}
	}

	return cnt, nil
} // func (b *Builder) DumpTopics(ctx context.Context, corpusPath, lang string, limit int, outPath string, skip ...string) (int, error)
