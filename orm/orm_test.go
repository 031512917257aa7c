package orm_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Writer struct {
	ID      int64
	Name    string
	Pseudos []string
	Novels  []Novel
	Genres  []Genre
}

type Novel struct {
	ID       int64
	Title    string
	WriterID int64
	Reviews  []Review
	Writer   *Writer
}

type Review struct {
	ID      int64
	Body    string
	NovelID int64
	Novel   *Novel
}

type Genre struct {
	ID      int64
	Name    string
	Writers []Writer
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "orm.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

// seed fills the tables with three writers, four novels, one review each and a
// writer_genres link table where writer 3 has no genre.
//
//nolint:errcheck
func seed(sq squirrel.StatementBuilderType) {
	sq.Insert("writers").
		Values(1, "Ursula", "UKL,Le Guin").
		Values(2, "Octavia", "OEB").
		Values(3, "Gene", "GW").Exec()
	sq.Insert("novels").
		Values(1, "The Dispossessed", 1).
		Values(2, "The Lathe of Heaven", 1).
		Values(3, "Kindred", 2).
		Values(4, "Dawn", 2).Exec()
	sq.Insert("reviews").
		Values(1, "Ambiguous utopia", 1).
		Values(2, "Dreams reshape the world", 2).
		Values(3, "Haunting", 3).
		Values(4, "Strange and good", 4).Exec()
	sq.Insert("genres").
		Values(1, "Sci-Fi").
		Values(2, "Fantasy").
		Values(3, "History").Exec()
	sq.Insert("writer_genres").
		Values(1, 1).
		Values(1, 2).
		Values(2, 1).
		Values(2, 3).Exec()
}

const migrate = `
	create table writers (
		id integer not null primary key,
		name text not null,
		pseudos text not null
	);
	create table novels (
		id integer not null primary key,
		title text not null,
		writer_id integer
	);
	create table reviews (
		id integer not null primary key,
		body text not null,
		novel_id integer
	);
	create table genres (
		id integer not null primary key,
		name text not null
	);
	create table writer_genres (
		writer_id integer not null,
		genre_id integer not null,
		primary key (writer_id, genre_id)
	);
	`
