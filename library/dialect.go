package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

var ErrUnknownDriver = errors.New("unknown database driver")

// Dialect holds what differs between the supported databases.
type Dialect struct {
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	Schema      []string

	// Returning is set when generated ids come back through RETURNING
	// instead of LastInsertId.
	Returning bool
	// SingleConn limits the pool to one connection.
	SingleConn bool
}

var SQLite = Dialect{
	Driver:      "sqlite3",
	Placeholder: squirrel.Question,
	SingleConn:  true,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS author (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			firstname TEXT NOT NULL,
			lastname TEXT NOT NULL,
			birthdate DATE NOT NULL,
			birthplace TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS book (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			number_of_pages INTEGER NOT NULL,
			release_date DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS author_book (
			author_id INTEGER NOT NULL REFERENCES author(id),
			book_id INTEGER NOT NULL REFERENCES book(id),
			PRIMARY KEY (author_id, book_id)
		)`,
	},
}

var Postgres = Dialect{
	Driver:      "postgres",
	Placeholder: squirrel.Dollar,
	Returning:   true,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS author (
			id SERIAL PRIMARY KEY,
			firstname TEXT NOT NULL,
			lastname TEXT NOT NULL,
			birthdate DATE NOT NULL,
			birthplace TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS book (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			number_of_pages INTEGER NOT NULL,
			release_date DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS author_book (
			author_id INTEGER NOT NULL REFERENCES author(id),
			book_id INTEGER NOT NULL REFERENCES book(id),
			PRIMARY KEY (author_id, book_id)
		)`,
	},
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Driver, "sqlite":
		return SQLite, nil
	case Postgres.Driver, "postgresql":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// DSN adapts a data source name to the dialect. For SQLite, a bare file
// path gets foreign key enforcement switched on.
func (d Dialect) DSN(dsn string) string {
	if d.Driver != SQLite.Driver || strings.Contains(dsn, "?") {
		return dsn
	}
	return "file:" + strings.TrimPrefix(dsn, "file:") + "?_foreign_keys=on"
}

// insert runs ib and returns the generated id.
func (d Dialect) insert(ctx context.Context, ib squirrel.InsertBuilder) (int64, error) {
	if d.Returning {
		var id int64
		if err := ib.Suffix("RETURNING id").QueryRowContext(ctx).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := ib.ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
