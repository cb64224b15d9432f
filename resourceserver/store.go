package resourceserver

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/dataproxy/observability"
)

// Document is one stored item. Its key is the "ID" or "id" field.
type Document = map[string]any

// Field names the store manages.
const (
	FieldID      = "ID"
	FieldVersion = "Version"
)

// Messages returned as plain-text bodies.
const (
	MsgNotFound       = "the item was not found"
	MsgConflict       = "this item was changed by another user"
	MsgExists         = "an item with this id already exists"
	MsgNotImplemented = "Method not implemented"
)

type storeError struct {
	status int
	msg    string
}

func (e *storeError) Error() string { return e.msg }

// Collection is an ordered in-memory set of documents with optimistic
// concurrency on the Version field.
type Collection struct {
	name     string
	readOnly bool

	mu    sync.RWMutex
	order []string
	docs  map[string]Document
}

func newCollection(name string, readOnly bool) *Collection {
	return &Collection{name: name, readOnly: readOnly, docs: make(map[string]Document)}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// ReadOnly reports whether writes are rejected with 501.
func (c *Collection) ReadOnly() bool { return c.readOnly }

// List returns copies of all documents in insertion order.
func (c *Collection) List() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, maps.Clone(c.docs[id]))
	}
	return out
}

// Get returns a copy of the document with id.
func (c *Collection) Get(id string) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(doc), true
}

// Insert stores doc, assigning a uuid when it has no key, and sets its
// Version to 1.
func (c *Collection) Insert(doc Document) (Document, error) {
	doc = maps.Clone(doc)
	if doc == nil {
		doc = Document{}
	}
	id, ok := KeyOf(doc)
	if !ok {
		id = uuid.NewString()
		doc[FieldID] = id
	}
	doc[FieldVersion] = int64(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return nil, &storeError{status: 409, msg: MsgExists}
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return maps.Clone(doc), nil
}

// Update replaces the document with id. A submitted Version that differs
// from the stored one is a conflict; on success the version is incremented.
func (c *Collection) Update(id string, doc Document) (Document, error) {
	doc = maps.Clone(doc)
	if key, ok := KeyOf(doc); ok && key != id {
		return nil, &storeError{status: 400, msg: fmt.Sprintf("id %q does not match the addressed item %q", key, id)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.docs[id]
	if !ok {
		return nil, &storeError{status: 404, msg: MsgNotFound}
	}
	current, _ := versionOf(stored[FieldVersion])
	if raw, present := versionField(doc); present {
		submitted, valid := versionOf(raw)
		if !valid {
			return nil, &storeError{status: 400, msg: "Version must be an integer"}
		}
		if submitted != current {
			return nil, &storeError{status: 409, msg: MsgConflict}
		}
	}
	if _, hasKey := KeyOf(doc); !hasKey {
		f := keyField(stored)
		doc[f] = stored[f]
	}
	delete(doc, "version")
	doc[FieldVersion] = current + 1
	c.docs[id] = doc
	return maps.Clone(doc), nil
}

// Delete removes the document with id.
func (c *Collection) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return &storeError{status: 404, msg: MsgNotFound}
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	return nil
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Store holds named collections. Unknown names are created on first use.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
	readOnly    map[string]bool
}

// NewStore creates a store in which the named collections reject writes.
func NewStore(readOnly ...string) *Store {
	s := &Store{collections: make(map[string]*Collection), readOnly: make(map[string]bool)}
	for _, name := range readOnly {
		s.readOnly[name] = true
	}
	return s
}

// Collection returns the named collection, creating it if needed.
func (s *Store) Collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = newCollection(name, s.readOnly[name])
		s.collections[name] = c
	}
	return c
}

// Seed inserts docs into the named collection, bypassing the read-only check.
func (s *Store) Seed(name string, docs ...Document) error {
	c := s.Collection(name)
	for _, d := range docs {
		if _, err := c.Insert(d); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

// CheckHealth reports the store as up with the size of each collection.
func (s *Store) CheckHealth(context.Context) observability.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	details := make(map[string]string, len(s.collections))
	for name, c := range s.collections {
		size := strconv.Itoa(c.Len())
		if c.readOnly {
			size += " (read-only)"
		}
		details[name] = size
	}
	return observability.Health{Name: "store", Status: observability.HealthStatusUp, Details: details}
}

// KeyOf returns the document key from "ID" or "id" as text.
func KeyOf(doc Document) (string, bool) {
	for _, f := range []string{FieldID, "id"} {
		v, ok := doc[f]
		if !ok || v == nil {
			continue
		}
		s := keyString(v)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

func keyField(doc Document) string {
	if _, ok := doc[FieldID]; ok {
		return FieldID
	}
	return "id"
}

func keyString(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case float64:
		if k == float64(int64(k)) {
			return strconv.FormatInt(int64(k), 10)
		}
		return strconv.FormatFloat(k, 'f', -1, 64)
	default:
		return fmt.Sprint(k)
	}
}

func versionField(doc Document) (any, bool) {
	for _, f := range []string{FieldVersion, "version"} {
		if v, ok := doc[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// versionOf normalizes the numeric types produced by the codecs.
func versionOf(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
