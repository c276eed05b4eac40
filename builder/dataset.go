// /home/krylon/go/src/github.com/blicero/gazetteer/builder/dataset.go
// -*- mode: go; coding: utf-8; -*-
// Created on 28. 01. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-14 17:58:13 krylon>

package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/blicero/gazetteer/model"
)

// TopicList is a list of Topics that is encoded as a JSON object mapping
// labels to QIDs. Unlike a map, it keeps the Topics in order.
type TopicList []model.Topic

// MarshalJSON implements json.Marshaler.
func (tl TopicList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, t := range tl {
		var (
			err      error
			key, val []byte
		)

		if key, err = json.Marshal(t.Label); err != nil {
			return nil, err
		} else if val, err = json.Marshal(t.QID); err != nil {
			return nil, err
		}

		if i > 0 {
			buf.WriteByte(',')
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
} // func (tl TopicList) MarshalJSON() ([]byte, error)

// UnmarshalJSON implements json.Unmarshaler.
func (tl *TopicList) UnmarshalJSON(b []byte) error {
	var (
		err  error
		tok  json.Token
		list TopicList
		dec  = json.NewDecoder(bytes.NewReader(b))
	)

	if string(bytes.TrimSpace(b)) == "null" {
		*tl = nil
		return nil
	} else if tok, err = dec.Token(); err != nil {
		return err
	} else if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		var (
			label string
			qid   string
			ok    bool
		)

		if tok, err = dec.Token(); err != nil {
			return err
		} else if label, ok = tok.(string); !ok {
			return fmt.Errorf("expected topic label, got %v", tok)
		} else if err = dec.Decode(&qid); err != nil {
			return fmt.Errorf("cannot decode QID of topic %q: %w", label, err)
		}

		list = append(list, model.Topic{Label: label, QID: qid})
	}

	if _, err = dec.Token(); err != nil {
		return err
	}

	*tl = list
	return nil
} // func (tl *TopicList) UnmarshalJSON(b []byte) error

// Record is what we know about an entity of a dataset.
type Record struct {
	Docs   []string  `json:"txt_id_list"`
	Topics TopicList `json:"wiki_topics"`
	Tag    string    `json:"tag"`
	Lang   string    `json:"lang,omitempty"`
	ent    *model.Entity
}

// HasDoc returns true if the entity was seen in the given document.
func (r *Record) HasDoc(id string) bool {
	for _, d := range r.Docs {
		if d == id {
			return true
		}
	}

	return false
} // func (r *Record) HasDoc(id string) bool

// Dataset holds the entities of a corpus along with their topics, and the
// entities of each document. When saved, entities and documents are
// written in the order they were added.
type Dataset struct {
	Name     string
	Entities map[string]*Record
	Docs     map[string][]string
	order    []string
	docOrder []string
}

// AddEntity adds the Record for an entity.
func (ds *Dataset) AddEntity(name string, rec *Record) {
	if _, ok := ds.Entities[name]; !ok {
		ds.order = append(ds.order, name)
	}

	ds.Entities[name] = rec
} // func (ds *Dataset) AddEntity(name string, rec *Record)

// AddMention appends an entity to the list of a document.
func (ds *Dataset) AddMention(docID, entity string) {
	if _, ok := ds.Docs[docID]; !ok {
		ds.docOrder = append(ds.docOrder, docID)
	}

	ds.Docs[docID] = append(ds.Docs[docID], entity)
} // func (ds *Dataset) AddMention(docID, entity string)

// EntityNames returns the names of the Dataset's entities in the order they
// were added.
func (ds *Dataset) EntityNames() []string {
	return orderedKeys(ds.Entities, ds.order)
} // func (ds *Dataset) EntityNames() []string

// orderedKeys returns the keys of m in the given order. Keys that are
// missing from order follow in sorted order.
func orderedKeys[V any](m map[string]V, order []string) []string {
	var (
		keys = make([]string, 0, len(m))
		seen = make(map[string]bool, len(m))
		rest []string
	)

	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}

	sort.Strings(rest)
	return append(keys, rest...)
} // func orderedKeys[V any](m map[string]V, order []string) []string

// orderedMap is a map that is encoded as a JSON object with its keys in
// order.
type orderedMap[V any] struct {
	keys []string
	m    map[string]V
}

func encodeValue(v any) ([]byte, error) {
	var (
		buf bytes.Buffer
		enc = json.NewEncoder(&buf)
	)

	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
} // func encodeValue(v any) ([]byte, error)

// MarshalJSON implements json.Marshaler.
func (om orderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range orderedKeys(om.m, om.keys) {
		var (
			err      error
			key, val []byte
		)

		if key, err = encodeValue(k); err != nil {
			return nil, err
		} else if val, err = encodeValue(om.m[k]); err != nil {
			return nil, fmt.Errorf("cannot encode %q: %w", k, err)
		}

		if i > 0 {
			buf.WriteByte(',')
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
} // func (om orderedMap[V]) MarshalJSON() ([]byte, error)

// UnmarshalJSON implements json.Unmarshaler.
func (om *orderedMap[V]) UnmarshalJSON(b []byte) error {
	var (
		err error
		tok json.Token
		dec = json.NewDecoder(bytes.NewReader(b))
	)

	om.keys = nil
	om.m = make(map[string]V)

	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	} else if tok, err = dec.Token(); err != nil {
		return err
	} else if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		var (
			key string
			val V
			ok  bool
		)

		if tok, err = dec.Token(); err != nil {
			return err
		} else if key, ok = tok.(string); !ok {
			return fmt.Errorf("expected key, got %v", tok)
		} else if err = dec.Decode(&val); err != nil {
			return fmt.Errorf("cannot decode %q: %w", key, err)
		}

		if _, ok = om.m[key]; !ok {
			om.keys = append(om.keys, key)
		}
		om.m[key] = val
	}

	_, err = dec.Token()
	return err
} // func (om *orderedMap[V]) UnmarshalJSON(b []byte) error

// NewDataset creates an empty Dataset.
func NewDataset(name string) *Dataset {
	return &Dataset{
		Name:     name,
		Entities: make(map[string]*Record, 1024),
		Docs:     make(map[string][]string, 256),
	}
} // func NewDataset(name string) *Dataset

// NersFile returns the name of the file the entities of a dataset are
// stored in.
func NersFile(name string) string {
	return name + "_ners_dict.json"
} // func NersFile(name string) string

// DocsFile returns the name of the file the documents of a dataset are
// stored in.
func DocsFile(name string) string {
	return name + "_docs_dict.json"
} // func DocsFile(name string) string

func writeJSON(path string, v any) error {
	var (
		err error
		fh  *os.File
		tmp = path + ".tmp"
	)

	if fh, err = os.Create(tmp); err != nil {
		return err
	}

	var enc = json.NewEncoder(fh)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err = enc.Encode(v); err != nil {
		fh.Close() // nolint: errcheck
		os.Remove(tmp)
		return err
	} else if err = fh.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
} // func writeJSON(path string, v any) error

func readJSON(path string, v any) error {
	var (
		err error
		fh  *os.File
	)

	if fh, err = os.Open(path); err != nil {
		return err
	}

	defer fh.Close() // nolint: errcheck

	return json.NewDecoder(fh).Decode(v)
} // func readJSON(path string, v any) error

// Save writes the Dataset to dir. Each file is replaced atomically, so a
// crash in the middle of a checkpoint leaves the previous one intact.
func (ds *Dataset) Save(dir string) error {
	var err error

	var (
		ents = orderedMap[*Record]{keys: ds.order, m: ds.Entities}
		docs = orderedMap[[]string]{keys: ds.docOrder, m: ds.Docs}
	)

	if err = writeJSON(filepath.Join(dir, NersFile(ds.Name)), ents); err != nil {
		return fmt.Errorf("Cannot save entities of %s: %w", ds.Name, err)
	} else if err = writeJSON(filepath.Join(dir, DocsFile(ds.Name)), docs); err != nil {
		return fmt.Errorf("Cannot save documents of %s: %w", ds.Name, err)
	}

	return nil
} // func (ds *Dataset) Save(dir string) error

// LoadDataset reads a Dataset previously saved to dir.
func LoadDataset(dir, name string) (*Dataset, error) {
	var (
		err  error
		ents orderedMap[*Record]
		docs orderedMap[[]string]
	)

	if err = readJSON(filepath.Join(dir, NersFile(name)), &ents); err != nil {
		return nil, fmt.Errorf("Cannot load entities of %s: %w", name, err)
	} else if err = readJSON(filepath.Join(dir, DocsFile(name)), &docs); err != nil {
		return nil, fmt.Errorf("Cannot load documents of %s: %w", name, err)
	}

	var ds = &Dataset{
		Name:     name,
		Entities: ents.m,
		Docs:     docs.m,
		order:    ents.keys,
		docOrder: docs.keys,
	}

	return ds, nil
} // func LoadDataset(dir, name string) (*Dataset, error)

var digits = regexp.MustCompile(`\d+`)

// DatasetName derives the name of a dataset from the path of its corpus.
func DatasetName(corpusPath string) string {
	return strings.TrimSuffix(filepath.Base(corpusPath), ".gz")
} // func DatasetName(corpusPath string) string

// BaseName strips all digits from a dataset name, so the folds of a
// dataset share their entities and label synonyms.
func BaseName(name string) string {
	return digits.ReplaceAllString(name, "")
} // func BaseName(name string) string
