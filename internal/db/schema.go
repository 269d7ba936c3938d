package db

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates missing tables and indexes. Every statement is
// idempotent, so it is safe to run on each deploy.
func ApplySchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schemaSQL)
	return err
}
