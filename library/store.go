package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"pollex.nl/bookshelf/orm"
)

// Store is the handle on the library database. Acquire it with Open and
// release it with Close.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database and creates the schema if it is missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, dialect.DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect.Driver, err)
	}
	if dialect.SingleConn {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect.Driver, err)
	}

	store := &Store{db: db, dialect: dialect}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("driver", dialect.Driver).Msg("database opened")

	return store, nil
}

// Migrate creates the author, book and author_book tables when absent.
func (store *Store) Migrate(ctx context.Context) error {
	for _, stmt := range store.dialect.Schema {
		if _, err := store.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (store *Store) Close() error {
	if err := store.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Dialect reports which database the store talks to.
func (store *Store) Dialect() Dialect {
	return store.dialect
}

// Builder returns a statement builder running directly on the database.
func (store *Store) Builder() squirrel.StatementBuilderType {
	return store.builder(store.db)
}

func (store *Store) builder(runner squirrel.BaseRunner) squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(store.dialect.Placeholder).RunWith(runner)
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (store *Store) WithTx(ctx context.Context, fn func(sq squirrel.StatementBuilderType) error) (err error) {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			zerolog.Ctx(ctx).Error().Err(rbErr).Msg("rollback failed")
		}
	}()

	if err = fn(store.builder(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Count returns the number of rows in table.
func (store *Store) Count(ctx context.Context, table string) (int, error) {
	n, err := orm.Scalar[int](ctx, store.Builder().Select("COUNT(*)").From(table))
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}
