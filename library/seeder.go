package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var ErrInvalidCount = errors.New("count must not be negative")

// Seeder fills the store with generated authors and books. Authors must be
// seeded before books; Seed does both in that order.
type Seeder struct {
	store *Store
	gen   *Generator

	// Progress, when set, gets one bar per seeding phase.
	Progress *mpb.Progress
}

func NewSeeder(store *Store, gen *Generator) *Seeder {
	return &Seeder{store: store, gen: gen}
}

// Seed inserts authors, then books linked to the authors now in the store.
func (s *Seeder) Seed(ctx context.Context, authors, books int) error {
	if _, err := s.InsertAuthors(ctx, authors); err != nil {
		return err
	}
	if _, err := s.InsertBooks(ctx, books); err != nil {
		return err
	}
	return nil
}

// InsertAuthors commits n new authors in a single transaction.
func (s *Seeder) InsertAuthors(ctx context.Context, n int) ([]Author, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d authors", ErrInvalidCount, n)
	}

	authors := s.gen.Authors(n)
	bar := s.bar("authors", n)

	err := s.store.WithTx(ctx, func(sq squirrel.StatementBuilderType) error {
		for i := range authors {
			id, err := s.store.dialect.insert(ctx, sq.Insert(authorTable).
				Columns("firstname", "lastname", "birthdate", "birthplace").
				Values(authors[i].FirstName, authors[i].LastName, authors[i].BirthDate, authors[i].BirthPlace))
			if err != nil {
				return fmt.Errorf("inserting author: %w", err)
			}
			authors[i].ID = id
			bar.Increment()
		}
		return nil
	})
	if err != nil {
		bar.Abort(false)
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("count", humanize.Comma(int64(n))).Msg("authors inserted")
	return authors, nil
}

// InsertBooks commits m new books in a single transaction, each linked to
// 1 to 3 authors taken from every author currently stored. It fails with
// ErrNoAuthors when there are none.
func (s *Seeder) InsertBooks(ctx context.Context, m int) ([]Book, error) {
	if m < 0 {
		return nil, fmt.Errorf("%w: %d books", ErrInvalidCount, m)
	}

	var books []Book
	bar := s.bar("books", m)

	err := s.store.WithTx(ctx, func(sq squirrel.StatementBuilderType) error {
		pool, err := AuthorSchema.Query().Collect(ctx, sq)
		if err != nil {
			return fmt.Errorf("loading authors: %w", err)
		}

		books, err = s.gen.Books(m, pool)
		if err != nil {
			return err
		}

		for i := range books {
			b := &books[i]
			b.ID, err = s.store.dialect.insert(ctx, sq.Insert(bookTable).
				Columns("title", "category", "number_of_pages", "release_date").
				Values(b.Title, b.Category, b.Pages, b.ReleaseDate))
			if err != nil {
				return fmt.Errorf("inserting book: %w", err)
			}

			link := sq.Insert(authorshipTable).Columns(Authorship.ParentCol, Authorship.ChildCol)
			for _, a := range b.Authors {
				link = link.Values(a.ID, b.ID)
			}
			if _, err := link.ExecContext(ctx); err != nil {
				return fmt.Errorf("linking book %d to its authors: %w", b.ID, err)
			}
			bar.Increment()
		}
		return nil
	})
	if err != nil {
		bar.Abort(false)
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("count", humanize.Comma(int64(m))).Msg("books inserted")
	return books, nil
}

type progressBar interface {
	Increment()
	Abort(drop bool)
}

type noBar struct{}

func (noBar) Increment() {}
func (noBar) Abort(bool) {}

func (s *Seeder) bar(name string, total int) progressBar {
	if s.Progress == nil || total == 0 {
		return noBar{}
	}
	return s.Progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
}
