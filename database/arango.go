package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
)

// ArangoDocuments implements Documents on top of an ArangoDB connection.
// Every write goes through AQL so a batch runs as one atomic statement.
type ArangoDocuments struct {
	conn DBConnection
	Now  func() time.Time
}

// NewArangoDocuments wraps an initialized connection
func NewArangoDocuments(conn DBConnection) *ArangoDocuments {
	return &ArangoDocuments{conn: conn, Now: time.Now}
}

func (a *ArangoDocuments) query(ctx context.Context, aql string, bindVars map[string]interface{}) ([]Document, error) {
	cursor, err := a.conn.Database.Query(ctx, aql, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	docs := []Document{}
	for cursor.HasMore() {
		var doc Document
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// List scans a collection, optionally sorted and limited
func (a *ArangoDocuments) List(ctx context.Context, collection string, opts *ListOptions) ([]Document, error) {
	var aql strings.Builder
	bindVars := map[string]interface{}{"@collection": collection}

	aql.WriteString("FOR d IN @@collection")
	if opts != nil && opts.SortBy != "" {
		aql.WriteString(" SORT d.@sortBy")
		if opts.Descending {
			aql.WriteString(" DESC")
		}
		bindVars["sortBy"] = opts.SortBy
	}
	if opts != nil && opts.Limit > 0 {
		aql.WriteString(" LIMIT @limit")
		bindVars["limit"] = opts.Limit
	}
	aql.WriteString(" RETURN d")

	docs, err := a.query(ctx, aql.String(), bindVars)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// Get reads one document by key
func (a *ArangoDocuments) Get(ctx context.Context, collection, key string) (Document, error) {
	docs, err := a.query(ctx, `
		FOR d IN @@collection
			FILTER d._key == @key
			LIMIT 1
			RETURN d
	`, map[string]interface{}{"@collection": collection, "key": key})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

// Create stores a new document and returns it with its generated key
func (a *ArangoDocuments) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	col, ok := a.conn.Collections[collection]
	if !ok {
		return nil, fmt.Errorf("create in unknown collection %s: %w", collection, ErrInvalidDocument)
	}

	stored := resolveTimestamps(doc, a.Now())
	delete(stored, "_key")

	meta, err := col.CreateDocument(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("create in %s: %w", collection, err)
	}

	stored["_key"] = meta.Key
	return stored, nil
}

// Update merges patch into an existing document
func (a *ArangoDocuments) Update(ctx context.Context, collection, key string, patch Document) error {
	docs, err := a.query(ctx, `
		FOR d IN @@collection
			FILTER d._key == @key
			UPDATE d WITH @patch IN @@collection
			RETURN NEW
	`, map[string]interface{}{
		"@collection": collection,
		"key":         key,
		"patch":       resolveTimestamps(patch, a.Now()),
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, key, err)
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	return nil
}

// Put creates or replaces the document stored under key
func (a *ArangoDocuments) Put(ctx context.Context, collection, key string, doc Document) error {
	stored := resolveTimestamps(doc, a.Now())
	stored["_key"] = key

	_, err := a.query(ctx, `
		UPSERT { _key: @key }
		INSERT @doc
		REPLACE @doc
		IN @@collection
		RETURN NEW
	`, map[string]interface{}{
		"@collection": collection,
		"key":         key,
		"doc":         stored,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// Remove deletes one document by key
func (a *ArangoDocuments) Remove(ctx context.Context, collection, key string) error {
	docs, err := a.query(ctx, `
		FOR d IN @@collection
			FILTER d._key == @key
			REMOVE d IN @@collection
			RETURN OLD
	`, map[string]interface{}{"@collection": collection, "key": key})
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, key, err)
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	return nil
}

// Batch runs every op as a subquery of a single AQL statement, which
// ArangoDB executes as one transaction.
func (a *ArangoDocuments) Batch(ctx context.Context, ops []Op) error {
	if err := validateBatch(ops); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	now := a.Now()
	bindVars := map[string]interface{}{}
	lets := make([]string, 0, len(ops))
	names := make([]string, 0, len(ops))

	for i, op := range ops {
		name := fmt.Sprintf("op%d", i)
		col := fmt.Sprintf("c%d", i)
		bindVars["@"+col] = op.Collection

		switch op.Kind {
		case OpRemove:
			bindVars[name+"key"] = op.Key
			lets = append(lets, fmt.Sprintf(
				"LET %s = (FOR d IN @@%s FILTER d._key == @%skey REMOVE d IN @@%s RETURN 1)",
				name, col, name, col))
		case OpRemoveWhere:
			bindVars[name+"field"] = op.Field
			bindVars[name+"value"] = op.Value
			lets = append(lets, fmt.Sprintf(
				"LET %s = (FOR d IN @@%s FILTER d.@%sfield == @%svalue REMOVE d IN @@%s RETURN 1)",
				name, col, name, name, col))
		case OpUpdateWhere:
			bindVars[name+"field"] = op.Field
			bindVars[name+"value"] = op.Value
			bindVars[name+"patch"] = resolveTimestamps(op.Patch, now)
			lets = append(lets, fmt.Sprintf(
				"LET %s = (FOR d IN @@%s FILTER d.@%sfield == @%svalue UPDATE d WITH @%spatch IN @@%s RETURN 1)",
				name, col, name, name, name, col))
		}
		names = append(names, fmt.Sprintf("%s: LENGTH(%s)", name, name))
	}

	aql := strings.Join(lets, "\n") + "\nRETURN { " + strings.Join(names, ", ") + " }"

	if _, err := a.query(ctx, aql, bindVars); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}

var _ Documents = (*ArangoDocuments)(nil)
