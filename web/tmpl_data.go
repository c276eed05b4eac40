// /home/krylon/go/src/github.com/blicero/gazetteer/web/tmpl_data.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-17 18:30:12 krylon>
//
// This file contains data structures to be passed to HTML templates.

package web

import (
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/model"
)

var funcmap = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format(common.TimestampFormat)
	},
	"fmtScore": func(f float64) string {
		return fmt.Sprintf("%.3f", f)
	},
	"pathEscape": url.PathEscape,
	"wikidata": func(qid string) string {
		return "https://www.wikidata.org/wiki/" + url.PathEscape(qid)
	},
}

type tmplDataBase struct {
	Title string
	Debug bool
	URL   string
}

type tmplDataIndex struct {
	tmplDataBase
	Gazetteers []*model.Gazetteer
}

type labelCount struct {
	Name  string
	Count int64
}

type tmplDataGazetteer struct {
	tmplDataBase
	Gazetteer *model.Gazetteer
	Labels    []labelCount
	Total     int64
}

type tmplDataLabel struct {
	tmplDataBase
	Gazetteer *model.Gazetteer
	Label     string
	Entries   []model.Entry
}

type tmplDataEntity struct {
	tmplDataBase
	Entity      *model.Entity
	Occurrences []model.Occurrence
	Entries     []model.Entry
	Gazetteers  map[int64]*model.Gazetteer
}

// Local Variables:  //
// compile-command: "go generate && go vet && go build -v -p 16 && gometalinter && go test -v" //
// End: //
