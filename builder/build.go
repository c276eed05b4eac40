// /home/krylon/go/src/github.com/blicero/gazetteer/builder/build.go
// -*- mode: go; coding: utf-8; -*-
// Created on 30. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 18:52:19 krylon>

package builder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/corpus"
	"github.com/blicero/gazetteer/model"
	"github.com/blicero/gazetteer/scorer"
)

// CoverageFile is the name of the file Build writes the number of entities
// that were added to their own tag's list to.
const CoverageFile = "coverage.txt"

// rdrsFolds is the number of folds the RDRS corpus is split into.
const rdrsFolds = 5

// Result summarizes a run of Build.
type Result struct {
	Gazetteer   *model.Gazetteer
	Dir         string
	Processed   int
	Blacklisted int
	Labels      *corpus.Frequency
	Coverage    *corpus.Frequency
}

// labelFiles appends entities to the per-label files of a gazetteer. Each
// file is created when it is first written to.
type labelFiles struct {
	dir   string
	files map[string]*os.File
	bufs  map[string]*bufio.Writer
}

func newLabelFiles(dir string) *labelFiles {
	return &labelFiles{
		dir:   dir,
		files: make(map[string]*os.File),
		bufs:  make(map[string]*bufio.Writer),
	}
} // func newLabelFiles(dir string) *labelFiles

func (lf *labelFiles) add(label, entity string) error {
	var w, ok = lf.bufs[label]

	if !ok {
		var (
			err error
			fh  *os.File
			p   = filepath.Join(lf.dir, label+".txt")
		)

		if fh, err = os.Create(p); err != nil {
			return err
		}

		w = bufio.NewWriter(fh)
		lf.files[label] = fh
		lf.bufs[label] = w
	}

	var _, err = io.WriteString(w, entity+"\n")
	return err
} // func (lf *labelFiles) add(label, entity string) error

func (lf *labelFiles) Close() error {
	var res error

	for label, fh := range lf.files {
		if err := lf.bufs[label].Flush(); err != nil && res == nil {
			res = err
		}
		if err := fh.Close(); err != nil && res == nil {
			res = err
		}
	}

	lf.files = nil
	lf.bufs = nil
	return res
} // func (lf *labelFiles) Close() error

// clearLabels removes the label files an earlier run left in dir.
func clearLabels(dir string) error {
	var (
		err   error
		files []string
	)

	if files, err = filepath.Glob(filepath.Join(dir, "*.txt")); err != nil {
		return err
	}

	for _, f := range files {
		if err = os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
} // func clearLabels(dir string) error

func uniq(names []string) []string {
	var (
		seen = make(map[string]bool, len(names))
		res  = make([]string, 0, len(names))
	)

	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			res = append(res, n)
		}
	}

	return res
} // func uniq(names []string) []string

func readDocIDs(corpusPath string) ([]string, error) {
	var (
		err error
		fh  io.ReadCloser
	)

	if fh, err = corpus.OpenFile(corpusPath); err != nil {
		return nil, err
	}

	defer fh.Close() // nolint: errcheck

	return corpus.ReadDocIDs(fh)
} // func readDocIDs(corpusPath string) ([]string, error)

// advise asks the advisor for a label when the scorer found none.
func (b *Builder) advise(sc *scorer.Scorer, rec *Record) []scorer.Assignment {
	var sugg = b.adv.Suggest(rec.Topics, rec.Lang, 1)

	if len(sugg) == 0 ||
		sugg[0].Score < b.AdviceMinScore ||
		!sc.HasLabel(sugg[0].Label) {
		return nil
	}

	return []scorer.Assignment{{Label: sugg[0].Label, Score: sugg[0].Score}}
} // func (b *Builder) advise(sc *scorer.Scorer, rec *Record) []scorer.Assignment

// entity returns the database Entity for a Record, creating it if needed.
func (b *Builder) entity(name string, rec *Record) (*model.Entity, error) {
	var (
		err  error
		ent  *model.Entity
		lang = rec.Lang
	)

	if lang == "" {
		lang = b.Lang
	}

	if ent, err = b.db.EntityGetByName(name, lang); err != nil {
		return nil, err
	} else if ent != nil {
		return ent, nil
	}

	ent = &model.Entity{Name: name, Lang: lang, Tag: rec.Tag}
	if err = b.db.EntityAdd(ent); err != nil {
		return nil, err
	}

	return ent, nil
} // func (b *Builder) entity(name string, rec *Record) (*model.Entity, error)

// Build creates a gazetteer from a corpus whose entities were collected
// before. The dataset name without digits selects both the collected
// entities and the directory of label synonyms, so all folds of a corpus
// share them.
//
// Each entity is assigned to all labels one of its topics is similar
// enough to, and appended to that label's file in the gazetteer directory.
// The number of entities that were assigned to their own tag is written to
// coverage.txt. Assignments are stored in the database, replacing any
// earlier gazetteer built with the same parameters.
func (b *Builder) Build(ctx context.Context, corpusPath string, threshold float64, limit int) (res *Result, err error) {
	var (
		ds      *Dataset
		sc      *scorer.Scorer
		docIDs  []string
		old     *model.Gazetteer
		out     *labelFiles
		status  bool
		name    = DatasetName(corpusPath)
		base    = BaseName(name)
		synDir  = filepath.Join(common.Path(path.LabelSynonyms), base)
		gzt     = &model.Gazetteer{Dataset: name, Threshold: threshold, Limit: limit}
		seen    = make(map[string]bool)
		dataDir = filepath.Join(common.Path(path.Datasets), base)
	)

	if b.emb == nil {
		return nil, ErrNoEmbedder
	} else if !isDir(synDir) {
		err = errNoSynonyms(base)
		b.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if ds, err = LoadDataset(dataDir, base); err != nil {
		b.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if sc, err = scorer.LoadSynonyms(b.emb, synDir); err != nil {
		return nil, err
	} else if docIDs, err = readDocIDs(corpusPath); err != nil {
		b.log.Printf("[ERROR] Cannot read corpus %s: %s\n",
			corpusPath,
			err.Error())
		return nil, err
	}

	gzt.Name = gzt.Dirname()
	res = &Result{
		Gazetteer: gzt,
		Dir:       filepath.Join(common.Path(path.Gazetteers), gzt.Name),
		Labels:    corpus.NewFrequency(),
		Coverage:  corpus.NewFrequency(),
	}

	b.log.Printf("[INFO] Building %s from %d documents\n",
		gzt.Name,
		len(docIDs))

	if err = os.MkdirAll(res.Dir, 0755); err != nil {
		b.log.Printf("[ERROR] Cannot create directory %s: %s\n",
			res.Dir,
			err.Error())
		return nil, err
	} else if err = clearLabels(res.Dir); err != nil {
		b.log.Printf("[ERROR] Cannot clear label files in %s: %s\n",
			res.Dir,
			err.Error())
		return nil, err
	} else if err = b.db.Begin(); err != nil {
		return nil, err
	}

	out = newLabelFiles(res.Dir)

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
			status = false
		}

		if status {
			if err = b.db.Commit(); err != nil {
				b.log.Printf("[ERROR] %s\n", err.Error())
			}
		} else if rerr := b.db.Rollback(); rerr != nil {
			b.log.Printf("[ERROR] %s\n", rerr.Error())
		}

		if err != nil {
			res = nil
		}
	}()

	if old, err = b.db.GazetteerGetByName(gzt.Name); err != nil {
		return nil, err
	} else if old != nil {
		b.log.Printf("[INFO] Replacing Gazetteer %s (%d)\n",
			old.Name,
			old.ID)
		if err = b.db.GazetteerDelete(old); err != nil {
			return nil, err
		}
	}

	if err = b.db.GazetteerAdd(gzt); err != nil {
		return nil, err
	}

	for _, id := range docIDs {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		for _, ename := range uniq(ds.Docs[id]) {
			if seen[ename] {
				continue
			}

			seen[ename] = true
			res.Processed++

			var rec = ds.Entities[ename]

			if rec == nil || rec.Tag == "" {
				continue
			} else if b.Blacklist != nil && b.Blacklist.Match(ename) {
				b.log.Printf("[DEBUG] %q is blacklisted\n", ename)
				res.Blacklisted++
				continue
			}

			var assigned = sc.Assign(rec.Topics, threshold)

			if len(assigned) == 0 && b.adv != nil {
				assigned = b.advise(sc, rec)
			}

			if len(assigned) == 0 {
				continue
			}

			var (
				ent *model.Entity
				hit bool
			)

			if ent, err = b.entity(ename, rec); err != nil {
				return nil, err
			}

			for _, a := range assigned {
				var entry = &model.Entry{
					GazetteerID: gzt.ID,
					EntityID:    ent.ID,
					Entity:      ename,
					Label:       a.Label,
					Topic:       a.Topic.Label,
					Synonym:     a.Synonym,
					Score:       a.Score,
				}

				if err = out.add(a.Label, ename); err != nil {
					b.log.Printf("[ERROR] Cannot add %q to %s: %s\n",
						ename,
						a.Label,
						err.Error())
					return nil, err
				} else if err = b.db.EntryAdd(entry); err != nil {
					return nil, err
				}

				res.Labels.Inc(a.Label)
				if a.Label == rec.Tag {
					hit = true
				}
			}

			if hit {
				res.Coverage.Inc(rec.Tag)
			}
		}
	}

	if err = corpus.WriteFrequencyFile(filepath.Join(res.Dir, CoverageFile), res.Coverage); err != nil {
		b.log.Printf("[ERROR] Cannot write coverage of %s: %s\n",
			gzt.Name,
			err.Error())
		return nil, err
	}

	b.log.Printf("[INFO] %s: %d entities, %d assignments\n",
		gzt.Name,
		res.Processed,
		res.Labels.Total())

	status = true
	return res, nil
} // func (b *Builder) Build(ctx context.Context, corpusPath string, threshold float64, limit int) (*Result, error)

// BuildAll runs Build for a corpus. The RDRS corpus comes in folds, rdrs1
// to rdrs5, which are built one by one.
func (b *Builder) BuildAll(ctx context.Context, corpusPath string, threshold float64, limit int) ([]*Result, error) {
	var paths = []string{corpusPath}

	if DatasetName(corpusPath) == "rdrs" {
		paths = make([]string, rdrsFolds)
		for i := range paths {
			paths[i] = fmt.Sprintf("%s%d", corpusPath, i+1)
		}
	}

	var results = make([]*Result, 0, len(paths))

	for _, p := range paths {
		var (
			err error
			res *Result
		)

		if res, err = b.Build(ctx, p, threshold, limit); err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
} // func (b *Builder) BuildAll(ctx context.Context, corpusPath string, threshold float64, limit int) ([]*Result, error)
