// /home/krylon/go/src/github.com/blicero/gazetteer/commands.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-18 19:12:45 krylon>

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/blicero/gazetteer/advisor"
	"github.com/blicero/gazetteer/augment"
	"github.com/blicero/gazetteer/blacklist"
	"github.com/blicero/gazetteer/builder"
	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/common/path"
	"github.com/blicero/gazetteer/corpus"
	"github.com/blicero/gazetteer/coverage"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/dump"
	"github.com/blicero/gazetteer/taxonomy"
	"github.com/blicero/gazetteer/translate"
	"github.com/blicero/gazetteer/vector"
	"github.com/blicero/gazetteer/web"
	"github.com/blicero/gazetteer/wikidata"
	"github.com/urfave/cli/v2"
)

const (
	blacklistFile  = "blacklist.json"
	embedCacheSize = 8192
)

var (
	dataFlag = &cli.StringFlag{
		Name:     "data",
		Usage:    "Processed corpus to work on",
		Required: true,
	}
	langFlag = &cli.StringFlag{
		Name:  "lang",
		Value: defaultLang,
		Usage: "Language of the Wikidata labels, auto to guess it per entity",
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Value: defaultLimit,
		Usage: "Number of Wikidata search results to consider per entity",
	}
	noCacheFlag = &cli.BoolFlag{
		Name:  "nocache",
		Usage: "Do not cache responses from Wikidata",
	}
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "convert",
			Usage: "Convert a raw corpus (multiconer, vimq, rdrs, conll) into a processed corpus",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Usage: "multiconer, vimq, rdrs or conll", Required: true},
				&cli.StringFlag{Name: "in", Usage: "Input file", Required: true},
				&cli.StringFlag{Name: "out", Usage: "Output directory (output file for conll)", Required: true},
				&cli.StringFlag{Name: "name", Usage: "Name of the output for rdrs", Value: "rdrs"},
				&cli.StringFlag{Name: "domain", Usage: "Domain written to the conll headers", Value: "rdrs"},
			},
			Action: cmdConvert,
		},
		{
			Name:  "extract",
			Usage: "Write the distinct entities of a corpus tagged with one of the given labels",
			Flags: []cli.Flag{
				dataFlag,
				&cli.StringFlag{Name: "out", Usage: "Output file", Required: true},
				&cli.StringSliceFlag{Name: "label", Usage: "Labels to extract", Required: true},
			},
			Action: cmdExtract,
		},
		{
			Name:  "collect",
			Usage: "Look up the Wikidata topics of the entities of a corpus",
			Flags: []cli.Flag{
				dataFlag,
				langFlag,
				limitFlag,
				noCacheFlag,
				&cli.DurationFlag{Name: "pause", Value: common.PauseDuration, Usage: "How long to rest every 1000 entities"},
			},
			Action: cmdCollect,
		},
		{
			Name:  "topics",
			Usage: "Dump the Wikidata topics of the distinct entities of a corpus",
			Flags: []cli.Flag{
				dataFlag,
				langFlag,
				limitFlag,
				noCacheFlag,
				&cli.StringFlag{Name: "out", Usage: "Output file", Required: true},
				&cli.StringSliceFlag{Name: "skip", Usage: "Tags to skip", Value: cli.NewStringSlice("Note")},
			},
			Action: cmdTopics,
		},
		{
			Name:  "build",
			Usage: "Build a gazetteer from a collected corpus",
			Flags: []cli.Flag{
				dataFlag,
				limitFlag,
				&cli.Float64Flag{Name: "threshold", Value: defaultThreshold, Usage: "Minimum similarity of topic and label synonym"},
				&cli.StringFlag{Name: "vectors", Usage: "Word vectors in text format", Required: true},
				&cli.BoolFlag{Name: "advisor", Usage: "Ask the advisor about entities the scorer cannot place"},
				&cli.Float64Flag{Name: "advice-min", Value: 0.5, Usage: "Minimum score of the advisor's suggestion"},
				&cli.StringFlag{Name: "blacklist", Usage: "Blacklist of entity name patterns"},
			},
			Action: cmdBuild,
		},
		{
			Name:  "template",
			Usage: "Turn a CoNLL file into augmentation templates",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "in", Usage: "CoNLL file", Required: true},
				&cli.StringFlag{Name: "out", Usage: "Template file", Required: true},
			},
			Action: cmdTemplate,
		},
		{
			Name:  "augment",
			Usage: "Fill augmentation templates with entities from a gazetteer",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "gazetteer", Usage: "Gazetteer directory", Required: true},
				&cli.StringFlag{Name: "template", Usage: "Template file", Required: true},
				&cli.StringFlag{Name: "out", Usage: "Output file", Required: true},
				&cli.IntFlag{Name: "count", Usage: "Number of random sentences, 0 to fill every template once"},
				&cli.Uint64Flag{Name: "seed", Usage: "Seed for the random number generator, 0 for the current time"},
			},
			Action: cmdAugment,
		},
		{
			Name:  "coverage",
			Usage: "Measure how well a gazetteer covers the entities of a corpus",
			Flags: []cli.Flag{
				dataFlag,
				&cli.StringFlag{Name: "gazetteer", Usage: "Gazetteer directory", Required: true},
			},
			Action: cmdCoverage,
		},
		{
			Name:      "dump",
			Usage:     "Collect the labels of instances of classes from Wikidata JSON dumps",
			ArgsUsage: "dump files...",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Usage: "Output directory", Required: true},
				&cli.StringFlag{Name: "classes", Usage: "File listing the class QIDs", Required: true},
				&cli.StringSliceFlag{Name: "lang", Usage: "Languages of the labels", Value: cli.NewStringSlice(defaultLang)},
			},
			Action: cmdDump,
		},
		{
			Name:  "taxonomy",
			Usage: "Build a gazetteer from a taxonomy of Wikidata classes",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Name of the taxonomy", Value: "rdrs"},
				langFlag,
				noCacheFlag,
				&cli.IntFlag{Name: "limit", Value: 1000000, Usage: "Maximum number of instances per class"},
			},
			Action: cmdTaxonomy,
		},
		{
			Name:  "translate",
			Usage: "Translate a gazetteer file into another language",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "in", Usage: "Gazetteer file", Required: true},
				&cli.StringFlag{Name: "out", Usage: "Output file", Required: true},
				&cli.StringFlag{Name: "from", Value: defaultLang, Usage: "Source language"},
				&cli.StringFlag{Name: "to", Usage: "Target language", Required: true},
				&cli.StringFlag{Name: "key", Usage: "OpenAI API key", EnvVars: []string{translate.EnvAPIKey}},
			},
			Action: cmdTranslate,
		},
		{
			Name:   "train",
			Usage:  "Train the label advisor on the tagged entities in the database",
			Action: cmdTrain,
		},
		{
			Name:  "serve",
			Usage: "Run the web interface",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "addr", Value: fmt.Sprintf("[::1]:%d", defaultPort), Usage: "Address to listen on"},
				&cli.BoolFlag{Name: "advisor", Usage: "Offer label suggestions"},
			},
			Action: cmdServe,
		},
		{
			Name:  "blacklist",
			Usage: "Add patterns to the blacklist or list it",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "Blacklist file"},
			},
			ArgsUsage: "patterns...",
			Action:    cmdBlacklist,
		},
		{
			Name:  "maintenance",
			Usage: "Perform database maintenance",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "flush", Usage: "Flush the Wikidata response cache"},
			},
			Action: cmdMaintenance,
		},
	}
} // func commands() []*cli.Command

// convertFile opens in, creates out and runs fn on them.
func convertFile(in, out string, fn func(io.Reader, io.Writer) error) error {
	var (
		err error
		src io.ReadCloser
		dst *os.File
	)

	if src, err = corpus.OpenFile(in); err != nil {
		return err
	}

	defer src.Close() // nolint: errcheck

	if err = os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	} else if dst, err = os.Create(out); err != nil {
		return err
	} else if err = fn(src, dst); err != nil {
		dst.Close() // nolint: errcheck
		return err
	}

	return dst.Close()
} // func convertFile(in, out string, fn func(io.Reader, io.Writer) error) error

func cmdConvert(c *cli.Context) error {
	var (
		err    error
		freq   *corpus.Frequency
		outDir = c.String("out")
		conv   func(io.Reader, io.Writer) (*corpus.Frequency, error)
		name   string
		fname  = "frequency.txt"
	)

	switch c.String("format") {
	case "multiconer":
		conv, name = corpus.ConvertMultiCoNER, "multiconer"
	case "vimq":
		conv, name = corpus.ConvertViMQ, "vimq"
	case "rdrs":
		conv, name = corpus.ConvertRDRS, c.String("name")
		fname = name + "_frequency.txt"
	case "conll":
		return convertFile(c.String("in"), outDir, func(r io.Reader, w io.Writer) error {
			return corpus.RDRSToCoNLL(r, w, c.String("domain"))
		})
	default:
		return fmt.Errorf("Unknown corpus format %q", c.String("format"))
	}

	if err = convertFile(c.String("in"), filepath.Join(outDir, name), func(r io.Reader, w io.Writer) error {
		var cerr error
		freq, cerr = conv(r, w)
		return cerr
	}); err != nil {
		logger.Printf("[ERROR] Cannot convert %s: %s\n",
			c.String("in"),
			err.Error())
		return err
	} else if err = corpus.WriteFrequencyFile(filepath.Join(outDir, fname), freq); err != nil {
		return err
	}

	logger.Printf("[INFO] Converted %s: %d entities with %d tags\n",
		c.String("in"),
		freq.Total(),
		freq.Len())
	return nil
} // func cmdConvert(c *cli.Context) error

func cmdExtract(c *cli.Context) error {
	var cnt int

	if err := convertFile(c.String("data"), c.String("out"), func(r io.Reader, w io.Writer) error {
		var eerr error
		cnt, eerr = corpus.ExtractLabel(r, w, c.StringSlice("label")...)
		return eerr
	}); err != nil {
		return err
	}

	logger.Printf("[INFO] Extracted %d entities to %s\n",
		cnt,
		c.String("out"))
	return nil
} // func cmdExtract(c *cli.Context) error

func cmdCollect(c *cli.Context) error {
	var (
		err  error
		db   *database.Database
		wd   *wikidata.Client
		b    *builder.Builder
		ds   *builder.Dataset
		lang = c.String("lang")
	)

	if err = checkLang(lang, true); err != nil {
		return err
	} else if err = checkLimit(c.Int("limit")); err != nil {
		return err
	} else if db, err = openDB(); err != nil {
		return err
	}

	defer closeAll(db)

	if wd, err = openClient(c.Bool("nocache")); err != nil {
		return err
	}

	defer closeAll(wd)

	if b, err = builder.New(db, wd, nil); err != nil {
		return err
	}

	b.Pause = c.Duration("pause")

	if ds, err = b.Collect(c.Context, c.String("data"), c.Int("limit"), lang); err != nil {
		return err
	}

	logger.Printf("[INFO] Collected %d entities from %d documents of %s\n",
		len(ds.Entities),
		len(ds.Docs),
		ds.Name)
	return nil
} // func cmdCollect(c *cli.Context) error

func cmdTopics(c *cli.Context) error {
	var (
		err  error
		cnt  int
		db   *database.Database
		wd   *wikidata.Client
		b    *builder.Builder
		lang = c.String("lang")
	)

	if err = checkLang(lang, false); err != nil {
		return err
	} else if err = checkLimit(c.Int("limit")); err != nil {
		return err
	} else if db, err = openDB(); err != nil {
		return err
	}

	defer closeAll(db)

	if wd, err = openClient(c.Bool("nocache")); err != nil {
		return err
	}

	defer closeAll(wd)

	if b, err = builder.New(db, wd, nil); err != nil {
		return err
	} else if cnt, err = b.DumpTopics(
		c.Context,
		c.String("data"),
		lang,
		c.Int("limit"),
		c.String("out"),
		c.StringSlice("skip")...); err != nil {
		return err
	}

	logger.Printf("[INFO] Dumped topics of %d entities to %s\n",
		cnt,
		c.String("out"))
	return nil
} // func cmdTopics(c *cli.Context) error

func cmdBuild(c *cli.Context) error {
	var (
		err     error
		db      *database.Database
		vecs    *vector.Memory
		emb     *vector.Embedder
		b       *builder.Builder
		bl      *blacklist.Blacklist
		results []*builder.Result
		blPath  = c.String("blacklist")
	)

	if blPath == "" {
		blPath = filepath.Join(filepath.Dir(common.Path(path.Datasets)), blacklistFile)
	}

	if err = checkLimit(c.Int("limit")); err != nil {
		return err
	} else if err = checkThreshold(c.Float64("threshold")); err != nil {
		return err
	} else if vecs, err = vector.LoadFile(c.String("vectors")); err != nil {
		logger.Printf("[ERROR] Cannot load vectors from %s: %s\n",
			c.String("vectors"),
			err.Error())
		return err
	} else if emb, err = vector.NewEmbedder(vecs, embedCacheSize); err != nil {
		return err
	} else if bl, err = blacklist.NewFromFile(blPath); err != nil {
		return err
	} else if db, err = openDB(); err != nil {
		return err
	}

	defer closeAll(db)

	if b, err = builder.New(db, nil, emb); err != nil {
		return err
	}

	b.Blacklist = bl

	if c.Bool("advisor") {
		var adv *advisor.Advisor

		if adv, err = advisor.NewAdvisor(db); err != nil {
			return err
		}

		b.SetAdvisor(adv, c.Float64("advice-min"))
	}

	if results, err = b.BuildAll(c.Context, c.String("data"), c.Float64("threshold"), c.Int("limit")); err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintf(c.App.Writer, "%s: %d entities processed, %d blacklisted\n",
			res.Gazetteer.Name,
			res.Processed,
			res.Blacklisted)
		for _, lbl := range res.Labels.Keys() {
			fmt.Fprintf(c.App.Writer, "\t%-16s %6d entries, %6d covered\n",
				lbl,
				res.Labels.Get(lbl),
				res.Coverage.Get(lbl))
		}
	}

	if bl.Changed() {
		return bl.Dump(blPath)
	}

	return nil
} // func cmdBuild(c *cli.Context) error

func cmdTemplate(c *cli.Context) error {
	var cnt int

	if err := convertFile(c.String("in"), c.String("out"), func(r io.Reader, w io.Writer) error {
		var terr error
		cnt, terr = augment.MakeTemplate(r, w)
		return terr
	}); err != nil {
		return err
	}

	logger.Printf("[INFO] Wrote %d templates to %s\n",
		cnt,
		c.String("out"))
	return nil
} // func cmdTemplate(c *cli.Context) error

func cmdAugment(c *cli.Context) error {
	var (
		err  error
		aug  *augment.Augmenter
		fh   *os.File
		seed = c.Uint64("seed")
	)

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	if aug, err = augment.Load(c.String("gazetteer"), c.String("template"), seed); err != nil {
		return err
	} else if fh, err = os.Create(c.String("out")); err != nil {
		return err
	}

	if n := c.Int("count"); n > 0 {
		err = aug.ReplaceRandom(fh, n)
	} else {
		err = aug.ReplaceAll(fh)
	}

	if err != nil {
		fh.Close() // nolint: errcheck
		return err
	}

	return fh.Close()
} // func cmdAugment(c *cli.Context) error

func cmdCoverage(c *cli.Context) error {
	var (
		err    error
		fh     io.ReadCloser
		labels []coverage.Label
		dict   = coverage.NewNERDict()
	)

	if fh, err = corpus.OpenFile(c.String("data")); err != nil {
		return err
	}

	err = coverage.BuildNERDict(fh, dict)
	fh.Close() // nolint: errcheck

	if err != nil {
		return err
	} else if labels, err = coverage.Measure(dict, c.String("gazetteer")); err != nil {
		return err
	}

	coverage.WriteReport(c.App.Writer, coverage.TagFrequency(dict), labels)
	return nil
} // func cmdCoverage(c *cli.Context) error

func cmdDump(c *cli.Context) error {
	var (
		err     error
		classes []string
		scn     *dump.Scanner
		langs   = c.StringSlice("lang")
	)

	for _, l := range langs {
		if err = checkLang(l, false); err != nil {
			return err
		}
	}

	if c.NArg() == 0 {
		return errors.New("No dump files were given")
	} else if classes, err = dump.ReadList(c.String("classes")); err != nil {
		return err
	} else if scn, err = dump.New(c.String("out"), classes, langs); err != nil {
		return err
	}

	for _, p := range c.Args().Slice() {
		var st dump.Stats

		if st, err = scn.ScanFile(c.Context, p); err != nil {
			return err
		} else if st.Skipped {
			fmt.Fprintf(c.App.Writer, "%s: already done\n", p)
			continue
		}

		fmt.Fprintf(c.App.Writer, "%s: %d lines, %d entities, %d labels, %d errors\n",
			p,
			st.Lines,
			st.Entities,
			st.Labels,
			st.Errors)
	}

	return nil
} // func cmdDump(c *cli.Context) error

func cmdTaxonomy(c *cli.Context) error {
	var (
		err     error
		wd      *wikidata.Client
		mk      *taxonomy.Maker
		results []*taxonomy.Result
		name    = c.String("name")
		lang    = c.String("lang")
	)

	if err = checkLang(lang, false); err != nil {
		return err
	} else if err = checkLimit(c.Int("limit")); err != nil {
		return err
	} else if wd, err = openClient(c.Bool("nocache")); err != nil {
		return err
	}

	defer closeAll(wd)

	if mk, err = taxonomy.New(wd, lang, c.Int("limit")); err != nil {
		return err
	} else if results, err = mk.Make(
		c.Context,
		filepath.Join(common.Path(path.Taxonomy), name),
		filepath.Join(common.Path(path.Gazetteers), name)); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "%-16s %8d entries, %d classes failed\n",
			r.Label,
			r.Entries,
			len(r.Failed))
	}

	return nil
} // func cmdTaxonomy(c *cli.Context) error

func cmdTranslate(c *cli.Context) error {
	var (
		err error
		tr  *translate.OpenAI
		cnt int
	)

	if err = checkLang(c.String("from"), false); err != nil {
		return err
	} else if err = checkLang(c.String("to"), false); err != nil {
		return err
	} else if tr, err = translate.NewOpenAI(c.String("key")); err != nil {
		return err
	} else if err = convertFile(c.String("in"), c.String("out"), func(r io.Reader, w io.Writer) error {
		var terr error
		cnt, terr = translate.TranslateFile(c.Context, tr, r, w, c.String("from"), c.String("to"))
		return terr
	}); err != nil {
		return err
	}

	logger.Printf("[INFO] Translated %d entries of %s\n",
		cnt,
		c.String("in"))
	return nil
} // func cmdTranslate(c *cli.Context) error

func cmdTrain(c *cli.Context) error {
	var (
		err error
		cnt int
		db  *database.Database
		adv *advisor.Advisor
	)

	if db, err = openDB(); err != nil {
		return err
	}

	defer closeAll(db)

	if adv, err = advisor.NewAdvisor(db); err != nil {
		return err
	} else if cnt, err = adv.Train(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Trained the advisor on %d entities\n", cnt)
	return nil
} // func cmdTrain(c *cli.Context) error

func cmdServe(c *cli.Context) error {
	var (
		err  error
		srv  *web.Server
		errq = make(chan error, 1)
	)

	if srv, err = web.Create(c.String("addr")); err != nil {
		return err
	}

	if c.Bool("advisor") {
		var (
			db  *database.Database
			adv *advisor.Advisor
		)

		if db, err = openDB(); err != nil {
			return err
		}

		defer closeAll(db)

		if adv, err = advisor.NewAdvisor(db); err != nil {
			return err
		}

		srv.SetAdvisor(adv)
	}

	go func() {
		errq <- srv.ListenAndServe()
	}()

	select {
	case err = <-errq:
		return err
	case <-c.Context.Done():
		logger.Printf("[INFO] Shutting down web server\n")
	}

	var ctx, cancel = context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	return srv.Shutdown(ctx)
} // func cmdServe(c *cli.Context) error

func cmdBlacklist(c *cli.Context) error {
	var (
		err    error
		bl     *blacklist.Blacklist
		blPath = c.String("file")
	)

	if blPath == "" {
		blPath = filepath.Join(filepath.Dir(common.Path(path.Datasets)), blacklistFile)
	}

	if bl, err = blacklist.NewFromFile(blPath); err != nil {
		return err
	}

	for _, p := range c.Args().Slice() {
		if err = bl.Add(p); err != nil {
			return fmt.Errorf("Invalid pattern %q: %w", p, err)
		}
	}

	var w = bufio.NewWriter(c.App.Writer)
	for _, p := range bl.List {
		fmt.Fprintf(w, "%6d %s\n", p.Cnt.Load(), p.Pattern) // nolint: errcheck
	}

	if err = w.Flush(); err != nil {
		return err
	} else if bl.Changed() {
		return bl.Dump(blPath)
	}

	return nil
} // func cmdBlacklist(c *cli.Context) error

func cmdMaintenance(c *cli.Context) error {
	var (
		err error
		db  *database.Database
	)

	if c.Bool("flush") {
		var wd *wikidata.Client

		if wd, err = openClient(false); err != nil {
			return err
		}

		err = wd.FlushCache()
		closeAll(wd)

		if err != nil {
			return err
		}
	}

	if db, err = openDB(); err != nil {
		return err
	}

	defer closeAll(db)

	return db.PerformMaintenance()
} // func cmdMaintenance(c *cli.Context) error
