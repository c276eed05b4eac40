// /home/krylon/go/src/github.com/blicero/gazetteer/web/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-17 18:44:02 krylon>

// Package web provides a read-only web interface to browse the gazetteers
// in the database and the entities they were built from.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/database"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/blicero/gazetteer/model"
	"github.com/gorilla/mux"
)

const (
	poolSize     = 4
	suggestCount = 3
)

//go:embed assets
var assets embed.FS

// Suggester guesses labels for an Entity from its topics.
type Suggester interface {
	Suggest(topics []model.Topic, lang string, n int) []model.Suggestion
}

// Server wraps the state required for the web interface
type Server struct {
	Addr      string
	log       *log.Logger
	pool      *database.Pool
	router    *mux.Router
	tmpl      *template.Template
	web       http.Server
	mimeTypes map[string]string
	adv       Suggester
}

// Create creates and returns a new Server.
func Create(addr string) (*Server, error) {
	var (
		err error
		msg string
		srv = &Server{
			Addr: addr,
			mimeTypes: map[string]string{
				".css":  "text/css",
				".js":   "text/javascript",
				".png":  "image/png",
				".json": "application/json",
				".html": "text/html",
			},
		}
	)

	if srv.log, err = common.GetLogger(logdomain.Web); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Error creating Logger: %s\n",
			err.Error())
		return nil, err
	} else if srv.pool, err = database.NewPool(poolSize); err != nil {
		srv.log.Printf("[ERROR] Cannot allocate database connection pool: %s\n",
			err.Error())
		return nil, err
	} else if srv.pool == nil {
		srv.log.Printf("[CANTHAPPEN] Database pool is nil!\n")
		return nil, errors.New("Database pool is nil")
	}

	const tmplFolder = "assets/templates"
	var templates []fs.DirEntry
	var tmplRe = regexp.MustCompile("[.]tmpl$")

	if templates, err = assets.ReadDir(tmplFolder); err != nil {
		srv.log.Printf("[ERROR] Cannot read embedded templates: %s\n",
			err.Error())
		return nil, err
	}

	srv.tmpl = template.New("").Funcs(funcmap)
	for _, entry := range templates {
		var (
			content []byte
			path    = filepath.Join(tmplFolder, entry.Name())
		)

		if !tmplRe.MatchString(entry.Name()) {
			continue
		} else if content, err = assets.ReadFile(path); err != nil {
			msg = fmt.Sprintf("Cannot read embedded file %s: %s",
				path,
				err.Error())
			srv.log.Printf("[CRITICAL] %s\n", msg)
			return nil, errors.New(msg)
		} else if srv.tmpl, err = srv.tmpl.Parse(string(content)); err != nil {
			msg = fmt.Sprintf("Could not parse template %s: %s",
				entry.Name(),
				err.Error())
			srv.log.Println("[CRITICAL] " + msg)
			return nil, errors.New(msg)
		} else if common.Debug {
			srv.log.Printf("[TRACE] Template \"%s\" was parsed successfully.\n",
				entry.Name())
		}
	}

	srv.router = mux.NewRouter()
	srv.web.Addr = addr
	srv.web.ErrorLog = srv.log
	srv.web.Handler = srv.router

	// Web interface handlers
	srv.router.HandleFunc("/static/{file}", srv.handleStaticFile)
	srv.router.HandleFunc("/{page:(?:index|main|start)?$}", srv.handleMain)
	srv.router.HandleFunc("/gazetteer/{id:(?:\\d+)}", srv.handleGazetteer)
	srv.router.HandleFunc("/gazetteer/{id:(?:\\d+)}/{label}", srv.handleLabel)
	srv.router.HandleFunc("/entity/{id:(?:\\d+)}", srv.handleEntity)

	// AJAX Handlers
	srv.router.HandleFunc("/ajax/beacon", srv.handleBeacon)
	srv.router.HandleFunc("/ajax/suggest/{id:(?:\\d+)}", srv.handleAjaxSuggest)

	return srv, nil
} // func Create(addr string) (*Server, error)

// SetAdvisor sets the Suggester used to guess labels for entities.
func (srv *Server) SetAdvisor(adv Suggester) {
	srv.adv = adv
} // func (srv *Server) SetAdvisor(adv Suggester)

// ListenAndServe runs the server's  ListenAndServe method
func (srv *Server) ListenAndServe() error {
	srv.log.Printf("[DEBUG] Server start listening on %s.\n", srv.Addr)
	defer srv.log.Println("[DEBUG] Server has quit.")

	if err := srv.web.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		srv.log.Printf("[ERROR] Server failed: %s\n", err.Error())
		return err
	}

	return nil
} // func (srv *Server) ListenAndServe() error

// Shutdown stops the server and closes its database connections.
func (srv *Server) Shutdown(ctx context.Context) error {
	var err = srv.web.Shutdown(ctx)

	if perr := srv.pool.Close(); perr != nil {
		srv.log.Printf("[ERROR] Cannot close database pool: %s\n",
			perr.Error())
		err = errors.Join(err, perr)
	}

	return err
} // func (srv *Server) Shutdown(ctx context.Context) error

func (srv *Server) handleStaticFile(w http.ResponseWriter, request *http.Request) {
	vars := mux.Vars(request)
	filename := vars["file"]
	path := filepath.Join("assets", "static", filename)

	var mimeType = "text/plain"

	srv.log.Printf("[TRACE] Delivering static file %s to client\n", filename)

	if mime, ok := srv.mimeTypes[filepath.Ext(filename)]; ok {
		mimeType = mime
	} else {
		srv.log.Printf("[ERROR] Did not find MIME type for %s\n", filename)
	}

	var (
		err error
		fh  fs.File
	)

	if fh, err = assets.Open(path); err != nil {
		srv.log.Printf("[ERROR] Cannot find file %s\n", path)
		http.NotFound(w, request)
		return
	}

	defer fh.Close()

	w.Header().Set("Content-Type", mimeType)

	if common.Debug {
		w.Header().Set("Cache-Control", "no-store, max-age=0")
	} else {
		w.Header().Set("Cache-Control", "max-age=7200")
	}

	w.WriteHeader(200)
	io.Copy(w, fh) // nolint: errcheck
} // func (srv *Server) handleStaticFile(w http.ResponseWriter, request *http.Request)

func (srv *Server) sendErrorMessage(w http.ResponseWriter, status int, msg string) {
	html := `
<!DOCTYPE html>
<html>
  <head>
    <title>Error</title>
  </head>
  <body>
    <h1>Error</h1>
    <hr />
    We are sorry to inform you an error has occured:<br />
    %s
    <p>
    Back to <a href="/index">Homepage</a>
    <hr />
    &copy; 2025 <a href="mailto:krylon@gmx.net">Benjamin Walkenhorst</a>
  </body>
</html>
`

	srv.log.Printf("[ERROR] %s\n", msg)

	output := fmt.Sprintf(html, template.HTMLEscapeString(msg))
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(output)) // nolint: gosec
} // func (srv *Server) sendErrorMessage(w http.ResponseWriter, status int, msg string)

// render executes the named template and sends the result to the client.
// The page is rendered into a buffer first, so a failing template does not
// leave the client with half a page.
func (srv *Server) render(w http.ResponseWriter, tmplName string, data any) {
	var (
		err  error
		buf  bytes.Buffer
		tmpl *template.Template
	)

	if tmpl = srv.tmpl.Lookup(tmplName); tmpl == nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Could not find template %q", tmplName))
		return
	} else if err = tmpl.Execute(&buf, data); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Error rendering template %q: %s",
			tmplName,
			err.Error()))
		return
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(200)
	if _, err = buf.WriteTo(w); err != nil {
		srv.log.Printf("[ERROR] Failed to send page %q: %s\n",
			tmplName,
			err.Error())
	}
} // func (srv *Server) render(w http.ResponseWriter, tmplName string, data any)

func (srv *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle request for %s from %s\n",
		r.URL.EscapedPath(),
		r.RemoteAddr)
	var (
		err  error
		db   *database.Database
		data = tmplDataIndex{
			tmplDataBase: tmplDataBase{
				Title: "Gazetteers",
				Debug: common.Debug,
				URL:   r.URL.EscapedPath(),
			},
		}
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if data.Gazetteers, err = db.GazetteerGetAll(); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load Gazetteers: %s", err.Error()))
		return
	}

	srv.render(w, "main", &data)
} // func (srv *Server) handleMain(w http.ResponseWriter, r *http.Request)

// gazetteer loads the Gazetteer whose ID is in the request path.
func (srv *Server) gazetteer(db *database.Database, r *http.Request) (*model.Gazetteer, int, error) {
	var (
		err error
		id  int64
		g   *model.Gazetteer
	)

	if id, err = strconv.ParseInt(mux.Vars(r)["id"], 10, 64); err != nil {
		return nil, 400, fmt.Errorf("Cannot parse Gazetteer ID %q: %w",
			mux.Vars(r)["id"],
			err)
	} else if g, err = db.GazetteerGetByID(id); err != nil {
		return nil, 500, fmt.Errorf("Failed to load Gazetteer %d: %w", id, err)
	} else if g == nil {
		return nil, 404, fmt.Errorf("Gazetteer %d does not exist", id)
	}

	return g, 200, nil
} // func (srv *Server) gazetteer(db *database.Database, r *http.Request) (*model.Gazetteer, int, error)

func (srv *Server) handleGazetteer(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle request for %s from %s\n",
		r.URL.EscapedPath(),
		r.RemoteAddr)
	var (
		err    error
		status int
		db     *database.Database
		labels map[string]int64
		data   = tmplDataGazetteer{
			tmplDataBase: tmplDataBase{
				Debug: common.Debug,
				URL:   r.URL.EscapedPath(),
			},
		}
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if data.Gazetteer, status, err = srv.gazetteer(db, r); err != nil {
		srv.sendErrorMessage(w, status, err.Error())
		return
	} else if labels, err = db.EntryGetLabels(data.Gazetteer); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load labels of %s: %s",
			data.Gazetteer.Name,
			err.Error()))
		return
	}

	data.Title = data.Gazetteer.Name
	data.Labels = make([]labelCount, 0, len(labels))

	for name, cnt := range labels {
		data.Labels = append(data.Labels, labelCount{Name: name, Count: cnt})
		data.Total += cnt
	}

	sort.Slice(data.Labels, func(i, j int) bool { return data.Labels[i].Name < data.Labels[j].Name })

	srv.render(w, "gazetteer", &data)
} // func (srv *Server) handleGazetteer(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle request for %s from %s\n",
		r.URL.EscapedPath(),
		r.RemoteAddr)
	var (
		err    error
		status int
		db     *database.Database
		data   = tmplDataLabel{
			tmplDataBase: tmplDataBase{
				Debug: common.Debug,
				URL:   r.URL.EscapedPath(),
			},
			Label: mux.Vars(r)["label"],
		}
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if data.Gazetteer, status, err = srv.gazetteer(db, r); err != nil {
		srv.sendErrorMessage(w, status, err.Error())
		return
	} else if data.Entries, err = db.EntryGetByLabel(data.Gazetteer, data.Label); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load entries for %s/%s: %s",
			data.Gazetteer.Name,
			data.Label,
			err.Error()))
		return
	} else if len(data.Entries) == 0 {
		srv.sendErrorMessage(w, 404, fmt.Sprintf("Gazetteer %s has no label %s",
			data.Gazetteer.Name,
			data.Label))
		return
	}

	data.Title = data.Gazetteer.Name + " - " + data.Label

	srv.render(w, "label", &data)
} // func (srv *Server) handleLabel(w http.ResponseWriter, r *http.Request)

// entity loads the Entity whose ID is in the request path.
func (srv *Server) entity(db *database.Database, r *http.Request) (*model.Entity, int, error) {
	var (
		err error
		id  int64
		e   *model.Entity
	)

	if id, err = strconv.ParseInt(mux.Vars(r)["id"], 10, 64); err != nil {
		return nil, 400, fmt.Errorf("Cannot parse Entity ID %q: %w",
			mux.Vars(r)["id"],
			err)
	} else if e, err = db.EntityGetByID(id); err != nil {
		return nil, 500, fmt.Errorf("Failed to load Entity %d: %w", id, err)
	} else if e == nil {
		return nil, 404, fmt.Errorf("Entity %d does not exist", id)
	} else if e.Topics, err = db.TopicGetByEntity(e); err != nil {
		return nil, 500, fmt.Errorf("Failed to load topics of %s: %w", e.Name, err)
	}

	return e, 200, nil
} // func (srv *Server) entity(db *database.Database, r *http.Request) (*model.Entity, int, error)

func (srv *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle request for %s from %s\n",
		r.URL.EscapedPath(),
		r.RemoteAddr)
	var (
		err    error
		status int
		db     *database.Database
		gzt    []*model.Gazetteer
		data   = tmplDataEntity{
			tmplDataBase: tmplDataBase{
				Debug: common.Debug,
				URL:   r.URL.EscapedPath(),
			},
		}
	)

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if data.Entity, status, err = srv.entity(db, r); err != nil {
		srv.sendErrorMessage(w, status, err.Error())
		return
	} else if data.Occurrences, err = db.MentionGetByEntity(data.Entity); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load occurrences of %s: %s",
			data.Entity.Name,
			err.Error()))
		return
	} else if data.Entries, err = db.EntryGetByEntity(data.Entity); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load entries of %s: %s",
			data.Entity.Name,
			err.Error()))
		return
	} else if gzt, err = db.GazetteerGetAll(); err != nil {
		srv.sendErrorMessage(w, 500, fmt.Sprintf("Failed to load Gazetteers: %s", err.Error()))
		return
	}

	data.Title = data.Entity.Name
	data.Gazetteers = make(map[int64]*model.Gazetteer, len(gzt))
	for _, g := range gzt {
		data.Gazetteers[g.ID] = g
	}

	srv.render(w, "entity", &data)
} // func (srv *Server) handleEntity(w http.ResponseWriter, r *http.Request)

////////////////////////////////////////////////////////////////////////////////
//// Ajax handlers /////////////////////////////////////////////////////////////
////////////////////////////////////////////////////////////////////////////////

func (srv *Server) handleBeacon(w http.ResponseWriter, r *http.Request) {
	var timestamp = time.Now().Format(common.TimestampFormat)
	const appName = common.AppName + " " + common.Version
	var jstr = fmt.Sprintf(`{ "Status": true, "Message": "%s", "Timestamp": "%s", "Hostname": "%s" }`,
		appName,
		timestamp,
		hostname())
	var response = []byte(jstr)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(200)
	w.Write(response) // nolint: errcheck,gosec
} // func (srv *Server) handleBeacon(w http.ResponseWriter, r *http.Request)

func (srv *Server) handleAjaxSuggest(w http.ResponseWriter, r *http.Request) {
	srv.log.Printf("[TRACE] Handle request for %s from %s\n",
		r.URL.EscapedPath(),
		r.RemoteAddr)

	var (
		err     error
		rbuf    []byte
		db      *database.Database
		ent     *model.Entity
		res     Reply
		hstatus = 200
	)

	if srv.adv == nil {
		res.Message = "No advisor is available"
		hstatus = 503
		goto SEND_RESPONSE
	}

	db = srv.pool.Get()
	defer srv.pool.Put(db)

	if ent, hstatus, err = srv.entity(db, r); err != nil {
		res.Message = err.Error()
		srv.log.Printf("[ERROR] %s\n", res.Message)
		goto SEND_RESPONSE
	}

	res.Suggestions = srv.adv.Suggest(ent.Topics, ent.Lang, suggestCount)
	res.Payload = map[string]string{
		"entity": ent.Name,
		"count":  strconv.Itoa(len(res.Suggestions)),
	}
	res.Status = true

SEND_RESPONSE:
	res.Timestamp = time.Now()
	if rbuf, err = json.Marshal(&res); err != nil {
		srv.log.Printf("[ERROR] Error serializing response: %s\n",
			err.Error())
		rbuf = errJSON(err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(hstatus)
	if _, err = w.Write(rbuf); err != nil {
		srv.log.Printf("[ERROR] Failed to send result: %s\n",
			err.Error())
	}
} // func (srv *Server) handleAjaxSuggest(w http.ResponseWriter, r *http.Request)

func hostname() string {
	if name, err := os.Hostname(); err == nil {
		return name
	}

	return "localhost"
} // func hostname() string
