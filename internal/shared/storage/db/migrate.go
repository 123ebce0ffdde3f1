package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed schema/*/*.sql
var schemaFiles embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

var gooseDialects = map[string]string{
	"sqlite":   "sqlite3",
	"postgres": "postgres",
}

// EnsureSchema applies the embedded baseline schema for dialect ("sqlite" or
// "postgres"). Running it against an initialized database is a no-op.
func EnsureSchema(ctx context.Context, database *sql.DB, dialect string) error {
	if database == nil {
		return fmt.Errorf("ensure schema: nil database")
	}
	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("ensure schema: unsupported dialect %q", dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(schemaFiles)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, path.Join("schema", dialect))
}
