// Package migrate installs the Postgres and ClickHouse schemas.
// Every statement is idempotent so Install can run on each start.
package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:embed sql
var schemas embed.FS

// PgExecer is the subset of pgxpool.Pool the installer needs
type PgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Install applies every schema file for both stores in file-name order
func Install(ctx context.Context, pg PgExecer, ch driver.Conn, logger *zap.SugaredLogger) error {
	pgFiles, err := schemaFiles("postgres")
	if err != nil {
		return err
	}
	for _, f := range pgFiles {
		if err := executePostgresSQL(ctx, pg, f); err != nil {
			logger.Errorw("failed to execute schema", "db", "PostgreSQL", "file", f, "error", err)
			return err
		}
	}
	logger.Infow("successfully installed schema", "db", "PostgreSQL", "files", len(pgFiles))

	chFiles, err := schemaFiles("clickhouse")
	if err != nil {
		return err
	}
	for _, f := range chFiles {
		if err := executeClickHouseSQL(ctx, ch, f); err != nil {
			logger.Errorw("failed to execute schema", "db", "ClickHouse", "file", f, "error", err)
			return err
		}
	}
	logger.Infow("successfully installed schema", "db", "ClickHouse", "files", len(chFiles))
	return nil
}

func schemaFiles(db string) ([]string, error) {
	entries, err := fs.ReadDir(schemas, path.Join("sql", db))
	if err != nil {
		return nil, fmt.Errorf("list %s schema: %w", db, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, path.Join("sql", db, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// executePostgresSQL runs a whole file; Postgres accepts multi-statement strings
func executePostgresSQL(ctx context.Context, pg PgExecer, file string) error {
	content, err := schemas.ReadFile(file)
	if err != nil {
		return err
	}
	_, err = pg.Exec(ctx, string(content))
	return err
}

// executeClickHouseSQL runs a file statement by statement; the driver
// rejects multi-statement queries
func executeClickHouseSQL(ctx context.Context, ch driver.Conn, file string) error {
	content, err := schemas.ReadFile(file)
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(content)) {
		if err := ch.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt[:min(len(stmt), 50)], err)
		}
	}
	return nil
}

func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
