package database

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by every Documents implementation.
var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidDocument = errors.New("invalid document")
)

// TimestampLayout is the fixed-width UTC layout used for stored timestamps,
// so that string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is a stored document. The database key is held under "_key".
type Document = map[string]interface{}

type serverTimestamp struct{}

// ServerTimestamp is a field value the backend replaces with its own clock
// when the document is written.
var ServerTimestamp = serverTimestamp{}

// ListOptions narrows a collection scan.
type ListOptions struct {
	SortBy     string
	Descending bool
	Limit      int
}

// OpKind is the kind of write inside a batch.
type OpKind int

// Batch operation kinds
const (
	OpRemove OpKind = iota
	OpRemoveWhere
	OpUpdateWhere
)

// Op is one write in an atomic batch.
type Op struct {
	Kind       OpKind
	Collection string
	Key        string
	Field      string
	Value      interface{}
	Patch      Document
}

// RemoveOp removes the document with the given key. A missing document is
// not an error.
func RemoveOp(collection, key string) Op {
	return Op{Kind: OpRemove, Collection: collection, Key: key}
}

// RemoveWhereOp removes every document whose field equals value.
func RemoveWhereOp(collection, field string, value interface{}) Op {
	return Op{Kind: OpRemoveWhere, Collection: collection, Field: field, Value: value}
}

// UpdateWhereOp merges patch into every document whose field equals value.
func UpdateWhereOp(collection, field string, value interface{}, patch Document) Op {
	return Op{Kind: OpUpdateWhere, Collection: collection, Field: field, Value: value, Patch: patch}
}

// Documents is the document database used by the entity services.
type Documents interface {
	// List scans a collection. A nil opts returns every document in
	// storage order.
	List(ctx context.Context, collection string, opts *ListOptions) ([]Document, error)
	Get(ctx context.Context, collection, key string) (Document, error)
	// Create stores doc under a generated key and returns the stored form.
	Create(ctx context.Context, collection string, doc Document) (Document, error)
	Update(ctx context.Context, collection, key string, patch Document) error
	// Put creates or replaces the document stored under key.
	Put(ctx context.Context, collection, key string, doc Document) error
	Remove(ctx context.Context, collection, key string) error
	// Batch applies every op or none of them. Each collection may appear in
	// at most one op.
	Batch(ctx context.Context, ops []Op) error
}

// resolveTimestamps returns a copy of doc with ServerTimestamp values
// replaced by now.
func resolveTimestamps(doc Document, now time.Time) Document {
	out := make(Document, len(doc))
	stamp := now.UTC().Format(TimestampLayout)
	for k, v := range doc {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = stamp
			continue
		}
		out[k] = v
	}
	return out
}

func validateBatch(ops []Op) error {
	seen := map[string]bool{}
	for _, op := range ops {
		if op.Collection == "" {
			return ErrInvalidDocument
		}
		if seen[op.Collection] {
			return errors.New("batch touches collection " + op.Collection + " more than once")
		}
		seen[op.Collection] = true

		switch op.Kind {
		case OpRemove:
			if op.Key == "" {
				return ErrInvalidDocument
			}
		case OpRemoveWhere, OpUpdateWhere:
			if op.Field == "" {
				return ErrInvalidDocument
			}
		default:
			return errors.New("unknown batch operation")
		}
	}
	return nil
}
