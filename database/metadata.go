package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/arangodb/go-driver/v2/arangodb"
)

// SchemaVersion is the collection and index layout this binary expects.
const SchemaVersion = "1.1.0"

const schemaKey = "schema"

// SchemaMetadata records the layout version in the metadata collection
type SchemaMetadata struct {
	Key     string `json:"_key"`
	Version string `json:"version"`
	Type    string `json:"type"`
}

// NeedsMigration reports whether the stored schema version is older than
// SchemaVersion. Missing or unparsable versions always migrate.
func NeedsMigration(stored string) bool {
	if stored == "" {
		return true
	}
	have, err := semver.NewVersion(stored)
	if err != nil {
		return true
	}
	want := semver.MustParse(SchemaVersion)
	return have.LessThan(want)
}

// GetSchemaVersion retrieves the stored schema version, "" when none is recorded
func GetSchemaVersion(ctx context.Context, db arangodb.Database) (string, error) {
	query := `RETURN DOCUMENT("metadata", @key)`
	bindVars := map[string]interface{}{"key": schemaKey}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	var meta *SchemaMetadata
	if _, err := cursor.ReadDocument(ctx, &meta); err != nil {
		return "", err
	}
	if meta == nil {
		return "", nil
	}
	return meta.Version, nil
}

// SaveSchemaVersion records the schema version after a successful migration
func SaveSchemaVersion(ctx context.Context, db arangodb.Database, version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("invalid schema version %q: %w", version, err)
	}

	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, version: @version, type: "schema_metadata" }
		UPDATE { version: @version }
		IN metadata
	`

	bindVars := map[string]interface{}{
		"key":     schemaKey,
		"version": version,
	}

	_, err := db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	return err
}
