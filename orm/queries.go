package orm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Collect runs q and scans every row into a new T.
func Collect[T any](ctx context.Context, q Q, scans RowScan[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("collect: failed to close rows")
		}
	}()

	var collection []T
	for rows.Next() {
		var t T
		pointers, actions := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		if actions != nil {
			actions()
		}
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collection, nil
}

// Scalar runs a single-value query such as an aggregate. Use a nullable V
// (sql.NullInt64, sql.NullFloat64, ...) when the table may be empty.
func Scalar[V any](ctx context.Context, q Q) (V, error) {
	var v V
	if err := q.QueryRowContext(ctx).Scan(&v); err != nil {
		sql, _, _ := q.ToSql()
		return v, fmt.Errorf("scalar %q: %w", sql, err)
	}

	return v, nil
}
