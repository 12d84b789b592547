package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryCollection struct {
	docs  map[string]Document
	order []string
}

// MemoryDocuments is an in-process Documents implementation. Documents are
// stored as JSON-normalized copies, so callers never share maps with it.
type MemoryDocuments struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	Now         func() time.Time
	NewKey      func() string
}

// NewMemoryDocuments creates an empty store holding every known collection
func NewMemoryDocuments() *MemoryDocuments {
	m := &MemoryDocuments{
		collections: map[string]*memoryCollection{},
		Now:         time.Now,
		NewKey:      func() string { return uuid.New().String() },
	}
	for _, name := range CollectionNames {
		m.collections[name] = &memoryCollection{docs: map[string]Document{}}
	}
	return m
}

func (m *MemoryDocuments) collection(name string) (*memoryCollection, error) {
	col, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %s: %w", name, ErrInvalidDocument)
	}
	return col, nil
}

func normalize(doc Document) (Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

func copyDocument(doc Document) Document {
	out, _ := normalize(doc)
	return out
}

// List scans a collection, optionally sorted and limited
func (m *MemoryDocuments) List(_ context.Context, collection string, opts *ListOptions) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, err := m.collection(collection)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(col.order))
	for _, key := range col.order {
		docs = append(docs, copyDocument(col.docs[key]))
	}

	if opts != nil && opts.SortBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareValues(docs[i][opts.SortBy], docs[j][opts.SortBy]) < 0
			if opts.Descending {
				return compareValues(docs[i][opts.SortBy], docs[j][opts.SortBy]) > 0
			}
			return less
		})
	}
	if opts != nil && opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

// Get reads one document by key
func (m *MemoryDocuments) Get(_ context.Context, collection, key string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, err := m.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := col.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

// Create stores a new document under a generated key
func (m *MemoryDocuments) Create(_ context.Context, collection string, doc Document) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, err := m.collection(collection)
	if err != nil {
		return nil, err
	}

	stored, err := normalize(resolveTimestamps(doc, m.Now()))
	if err != nil {
		return nil, err
	}
	key := m.NewKey()
	stored["_key"] = key

	col.docs[key] = stored
	col.order = append(col.order, key)
	return copyDocument(stored), nil
}

// Update merges patch into an existing document
func (m *MemoryDocuments) Update(_ context.Context, collection, key string, patch Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	doc, ok := col.docs[key]
	if !ok {
		return ErrNotFound
	}

	normalized, err := normalize(resolveTimestamps(patch, m.Now()))
	if err != nil {
		return err
	}
	for k, v := range normalized {
		doc[k] = v
	}
	return nil
}

// Put creates or replaces the document stored under key
func (m *MemoryDocuments) Put(_ context.Context, collection, key string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, err := m.collection(collection)
	if err != nil {
		return err
	}

	stored, err := normalize(resolveTimestamps(doc, m.Now()))
	if err != nil {
		return err
	}
	stored["_key"] = key

	if _, exists := col.docs[key]; !exists {
		col.order = append(col.order, key)
	}
	col.docs[key] = stored
	return nil
}

// Remove deletes one document by key
func (m *MemoryDocuments) Remove(_ context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	if _, ok := col.docs[key]; !ok {
		return ErrNotFound
	}
	col.remove(key)
	return nil
}

// Batch validates every op before applying any of them
func (m *MemoryDocuments) Batch(_ context.Context, ops []Op) error {
	if err := validateBatch(ops); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	patches := make([]Document, len(ops))
	for i, op := range ops {
		if _, err := m.collection(op.Collection); err != nil {
			return err
		}
		if op.Kind == OpUpdateWhere {
			patch, err := normalize(resolveTimestamps(op.Patch, now))
			if err != nil {
				return err
			}
			patches[i] = patch
		}
	}

	for i, op := range ops {
		col := m.collections[op.Collection]
		switch op.Kind {
		case OpRemove:
			col.remove(op.Key)
		case OpRemoveWhere:
			for _, key := range col.match(op.Field, op.Value) {
				col.remove(key)
			}
		case OpUpdateWhere:
			for _, key := range col.match(op.Field, op.Value) {
				for k, v := range patches[i] {
					col.docs[key][k] = v
				}
			}
		}
	}
	return nil
}

func (c *memoryCollection) remove(key string) {
	if _, ok := c.docs[key]; !ok {
		return
	}
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *memoryCollection) match(field string, value interface{}) []string {
	want := copyValue(value)
	var keys []string
	for _, key := range c.order {
		if v, ok := c.docs[key][field]; ok && reflect.DeepEqual(v, want) {
			keys = append(keys, key)
		}
	}
	return keys
}

// copyValue gives value the same JSON-normalized form stored documents have.
func copyValue(value interface{}) interface{} {
	doc, err := normalize(Document{"v": value})
	if err != nil {
		return value
	}
	return doc["v"]
}

// compareValues orders numbers numerically and everything else by its
// string form. Stored timestamps use TimestampLayout, so they sort in time
// order as strings.
func compareValues(a, b interface{}) int {
	fa, okA := a.(float64)
	fb, okB := b.(float64)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

var _ Documents = (*MemoryDocuments)(nil)
