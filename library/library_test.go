package library_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/library"
)

func testContext(t testing.TB) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func openStore(t testing.TB) *library.Store {
	t.Helper()

	store, err := library.Open(testContext(t), "sqlite3", filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func date(t testing.TB, s string) library.Date {
	t.Helper()
	d, err := library.ParseDate(s)
	require.NoError(t, err)
	return d
}

// insertAuthor stores an author with a fixed id.
func insertAuthor(t testing.TB, sq squirrel.StatementBuilderType, id int64, first, last, born string) {
	t.Helper()
	_, err := sq.Insert("author").
		Columns("id", "firstname", "lastname", "birthdate", "birthplace").
		Values(id, first, last, date(t, born), "Springfield").
		Exec()
	require.NoError(t, err)
}

// insertBook stores a book with a fixed id and links it to authorIDs.
func insertBook(t testing.TB, sq squirrel.StatementBuilderType, id int64, title string, pages int, authorIDs ...int64) {
	t.Helper()
	_, err := sq.Insert("book").
		Columns("id", "title", "category", "number_of_pages", "release_date").
		Values(id, title, library.Fiction, pages, date(t, "1999-09-09")).
		Exec()
	require.NoError(t, err)

	for _, authorID := range authorIDs {
		_, err := sq.Insert("author_book").Columns("author_id", "book_id").Values(authorID, id).Exec()
		require.NoError(t, err)
	}
}

func count(t testing.TB, store *library.Store, table string) int {
	t.Helper()
	n, err := store.Count(context.Background(), table)
	require.NoError(t, err)
	return n
}
