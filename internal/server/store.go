package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Store errors, mapped to HTTP status codes by the router
var (
	ErrUnknownRoot       = errors.New("unknown root")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("not found")
	ErrExists            = errors.New("already exists")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrIDMismatch        = errors.New("id does not match path")
)

// CollectionSpec declares one collection of a root
type CollectionSpec struct {
	Name    string `yaml:"name"`
	IDField string `yaml:"id_field"`
}

// RootSpec declares one root of the service
type RootSpec struct {
	Name        string           `yaml:"name"`
	ApplyPath   string           `yaml:"apply_path"`
	Collections []CollectionSpec `yaml:"collections"`
}

// DefaultLayout returns the roots served by the installer: network with its
// devices and connections, software with its patterns.
func DefaultLayout() []RootSpec {
	return []RootSpec{
		{
			Name:      "network",
			ApplyPath: "system/apply",
			Collections: []CollectionSpec{
				{Name: "devices", IDField: "name"},
				{Name: "connections", IDField: "id"},
			},
		},
		{
			Name:      "software",
			ApplyPath: "apply",
			Collections: []CollectionSpec{
				{Name: "patterns", IDField: "name"},
			},
		},
	}
}

type collection struct {
	idField string
	order   []string
	items   map[string]json.RawMessage
}

type root struct {
	applyPath   string
	collections map[string]*collection
	pending     int
	generation  uint64
}

// Store is the in-memory state of the service. Writes accumulate as pending
// changes of their root until Apply is called. Store is safe for concurrent
// use.
type Store struct {
	mu    sync.RWMutex
	roots map[string]*root
}

// NewStore creates an empty store with the given layout.
func NewStore(layout []RootSpec) (*Store, error) {
	s := &Store{roots: make(map[string]*root)}
	for _, rs := range layout {
		name := strings.Trim(rs.Name, "/")
		if name == "" {
			return nil, fmt.Errorf("root with empty name")
		}
		if _, dup := s.roots[name]; dup {
			return nil, fmt.Errorf("duplicate root %q", name)
		}
		applyPath := strings.Trim(rs.ApplyPath, "/")
		if applyPath == "" {
			applyPath = "apply"
		}
		r := &root{applyPath: applyPath, collections: make(map[string]*collection)}
		for _, cs := range rs.Collections {
			if cs.Name == "" || strings.Contains(cs.Name, "/") {
				return nil, fmt.Errorf("root %q: invalid collection name %q", name, cs.Name)
			}
			if cs.Name == applyPath || strings.HasPrefix(applyPath, cs.Name+"/") {
				return nil, fmt.Errorf("root %q: collection %q shadows apply path %q", name, cs.Name, applyPath)
			}
			idField := cs.IDField
			if idField == "" {
				idField = "id"
			}
			r.collections[cs.Name] = &collection{idField: idField, items: make(map[string]json.RawMessage)}
		}
		s.roots[name] = r
	}
	return s, nil
}

// Roots returns the root names in sorted order
func (s *Store) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.roots))
	for name := range s.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPath returns the commit path of a root
func (s *Store) ApplyPath(rootName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roots[rootName]
	if !ok {
		return "", false
	}
	return r.applyPath, true
}

// HasCollection reports whether rootName has the named collection
func (s *Store) HasCollection(rootName, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.collectionLocked(rootName, name)
	return err == nil
}

// List returns the records of a collection as a JSON array, in insertion order.
func (s *Store) List(rootName, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collectionLocked(rootName, name)
	if err != nil {
		return nil, err
	}
	items := make([]json.RawMessage, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return json.Marshal(items)
}

// Get returns one record
func (s *Store) Get(rootName, name, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collectionLocked(rootName, name)
	if err != nil {
		return nil, err
	}
	item, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", strings.TrimSuffix(name, "s"), id, ErrNotFound)
	}
	return item, nil
}

// Create adds a record. It fails with ErrExists when the id is taken.
func (s *Store) Create(rootName, name string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collectionLocked(rootName, name)
	if err != nil {
		return "", err
	}
	id, err := recordID(body, c.idField)
	if err != nil {
		return "", err
	}
	if _, ok := c.items[id]; ok {
		return "", fmt.Errorf("%s %q: %w", strings.TrimSuffix(name, "s"), id, ErrExists)
	}
	c.items[id] = append(json.RawMessage(nil), body...)
	c.order = append(c.order, id)
	s.roots[rootName].pending++
	return id, nil
}

// Replace overwrites an existing record. The id in the body must equal id.
func (s *Store) Replace(rootName, name, id string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collectionLocked(rootName, name)
	if err != nil {
		return err
	}
	bodyID, err := recordID(body, c.idField)
	if err != nil {
		return err
	}
	if bodyID != id {
		return fmt.Errorf("%q vs %q: %w", bodyID, id, ErrIDMismatch)
	}
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%s %q: %w", strings.TrimSuffix(name, "s"), id, ErrNotFound)
	}
	c.items[id] = append(json.RawMessage(nil), body...)
	s.roots[rootName].pending++
	return nil
}

// Apply commits the pending changes of a root and returns the new generation.
func (s *Store) Apply(rootName string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.roots[rootName]
	if !ok {
		return 0, fmt.Errorf("%q: %w", rootName, ErrUnknownRoot)
	}
	r.pending = 0
	r.generation++
	return r.generation, nil
}

// State returns the pending change count and generation of a root
func (s *Store) State(rootName string) (pending int, generation uint64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roots[rootName]
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", rootName, ErrUnknownRoot)
	}
	return r.pending, r.generation, nil
}

// Seed inserts records without counting them as pending changes.
// Existing ids are overwritten.
func (s *Store) Seed(rootName, name string, records [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collectionLocked(rootName, name)
	if err != nil {
		return err
	}
	for _, body := range records {
		id, err := recordID(body, c.idField)
		if err != nil {
			return fmt.Errorf("seeding %s/%s: %w", rootName, name, err)
		}
		if _, ok := c.items[id]; !ok {
			c.order = append(c.order, id)
		}
		c.items[id] = append(json.RawMessage(nil), body...)
	}
	return nil
}

func (s *Store) collectionLocked(rootName, name string) (*collection, error) {
	r, ok := s.roots[rootName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", rootName, ErrUnknownRoot)
	}
	c, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", rootName, name, ErrUnknownCollection)
	}
	return c, nil
}

// recordID extracts the id field of a JSON object
func recordID(body []byte, idField string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("body is not a JSON object: %w", ErrInvalidRecord)
	}
	raw, ok := fields[idField]
	if !ok {
		return "", fmt.Errorf("missing %q field: %w", idField, ErrInvalidRecord)
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil || id == "" {
		return "", fmt.Errorf("field %q must be a non-empty string: %w", idField, ErrInvalidRecord)
	}
	return id, nil
}
