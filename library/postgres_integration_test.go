//go:build integration

package library_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"pollex.nl/bookshelf/library"
)

func openPostgres(t *testing.T) *library.Store {
	t.Helper()
	ctx := testContext(t)

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("library"),
		postgres.WithUsername("library"),
		postgres.WithPassword("library"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := library.Open(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestPostgresSeedAndReport(t *testing.T) {
	ctx := testContext(t)
	store := openPostgres(t)
	seeder := library.NewSeeder(store, library.NewGenerator(8))

	require.NoError(t, seeder.Seed(ctx, 40, 120))
	assert.Equal(t, 40, count(t, store, "author"))
	assert.Equal(t, 120, count(t, store, "book"))

	reporter := library.NewReporter(store, nil)

	books, err := reporter.BooksWithMaxPages(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, books)

	youngest, err := reporter.YoungestAuthors(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, youngest)

	prolific, err := reporter.ProlificAuthors(ctx, library.ProlificMinBooks, library.ProlificLimit)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(prolific), library.ProlificLimit)
	for _, a := range prolific {
		assert.Greater(t, len(a.Books), library.ProlificMinBooks)
	}

	var out bytes.Buffer
	require.NoError(t, library.NewReporter(store, &out).Run(ctx))
	assert.Contains(t, out.String(), "The average number of pages is ")
}

func TestPostgresSchemaIsIdempotent(t *testing.T) {
	store := openPostgres(t)
	require.NoError(t, store.Migrate(testContext(t)))
}
