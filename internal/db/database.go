package db

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// ErrMissingDSN is returned when no data source name is configured.
var ErrMissingDSN = errors.New("DATABASE_DSN is not set")

//go:embed schema.sql
var schema string

// Connect opens a MySQL connection pool and verifies it with a ping. The DSN
// must include parseTime=true so DATE and DATETIME columns scan into time.Time.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "DB: error opening database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "DB: error connecting to database")
	}
	return db, nil
}

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var stmts []string
	for _, part := range strings.Split(schema, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// EnsureSchema creates the clients, accounts and transactions tables when
// they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "EnsureSchema")
		}
	}
	return nil
}
