package library

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/Masterminds/squirrel"
	"pollex.nl/bookshelf/orm"
)

const (
	ProlificMinBooks = 3
	ProlificLimit    = 5
)

// Reporter runs the read-only reports against a store and prints them.
type Reporter struct {
	store *Store
	out   io.Writer
}

func NewReporter(store *Store, out io.Writer) *Reporter {
	return &Reporter{store: store, out: out}
}

// Run prints every report in order.
func (r *Reporter) Run(ctx context.Context) error {
	maxPages, err := r.BooksWithMaxPages(ctx)
	if err != nil {
		return err
	}
	r.printBooksWithMaxPages(maxPages)

	avg, ok, err := r.AveragePages(ctx)
	if err != nil {
		return err
	}
	r.printAveragePages(avg, ok)

	youngest, err := r.YoungestAuthors(ctx)
	if err != nil {
		return err
	}
	r.printYoungestAuthors(youngest)

	bookless, err := r.AuthorsWithoutBooks(ctx)
	if err != nil {
		return err
	}
	r.printAuthors("Authors without books:", bookless)

	prolific, err := r.ProlificAuthors(ctx, ProlificMinBooks, ProlificLimit)
	if err != nil {
		return err
	}
	r.printAuthors(fmt.Sprintf("Authors with more than %d books:", ProlificMinBooks), prolific)

	return nil
}

// BooksWithMaxPages returns every book whose page count equals the largest one.
func (r *Reporter) BooksWithMaxPages(ctx context.Context) ([]Book, error) {
	sq := r.store.Builder()

	maxPages, err := orm.Scalar[sql.NullInt64](ctx, BookSchema.Aggregate(sq, "MAX(number_of_pages)"))
	if err != nil {
		return nil, fmt.Errorf("books with max pages: %w", err)
	}
	if !maxPages.Valid {
		return nil, nil
	}

	books, err := BookSchema.Query().
		ModifyQuery(orm.WhereCol("number_of_pages", maxPages.Int64), orm.OrderBy("id")).
		Collect(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("books with max pages: %w", err)
	}
	return books, nil
}

// AveragePages returns the mean page count. ok is false when there are no books.
func (r *Reporter) AveragePages(ctx context.Context) (avg float64, ok bool, err error) {
	v, err := orm.Scalar[sql.NullFloat64](ctx, BookSchema.Aggregate(r.store.Builder(), "AVG(number_of_pages)"))
	if err != nil {
		return 0, false, fmt.Errorf("average pages: %w", err)
	}
	return v.Float64, v.Valid, nil
}

// YoungestAuthors returns every author born on the latest birth date.
func (r *Reporter) YoungestAuthors(ctx context.Context) ([]Author, error) {
	sq := r.store.Builder()

	latest, err := orm.Scalar[sql.Null[Date]](ctx, AuthorSchema.Aggregate(sq, "MAX(birthdate)"))
	if err != nil {
		return nil, fmt.Errorf("youngest authors: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}

	authors, err := AuthorSchema.Query().
		ModifyQuery(orm.WhereCol("birthdate", latest.V), orm.OrderBy("id")).
		Collect(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("youngest authors: %w", err)
	}
	return authors, nil
}

// AuthorsWithoutBooks returns the authors no book is linked to.
func (r *Reporter) AuthorsWithoutBooks(ctx context.Context) ([]Author, error) {
	authors, err := AuthorSchema.Query().
		ModifyQuery(
			orm.LeftJoin(r.authorshipJoin()),
			orm.Where(squirrel.Eq{orm.TableCol(authorshipTable, Authorship.ChildCol): nil}),
			orm.OrderBy("id"),
		).
		Collect(ctx, r.store.Builder())
	if err != nil {
		return nil, fmt.Errorf("authors without books: %w", err)
	}
	return authors, nil
}

// ProlificAuthors returns up to limit authors linked to more than minBooks
// books, lowest id first, with their books resolved.
func (r *Reporter) ProlificAuthors(ctx context.Context, minBooks int, limit uint64) ([]Author, error) {
	authors, err := AuthorSchema.Query("*", "books").
		ModifyQuery(
			orm.Join(r.authorshipJoin()),
			orm.GroupBy("id"),
			orm.Having(fmt.Sprintf("COUNT(%s) > ?", orm.TableCol(authorshipTable, Authorship.ChildCol)), minBooks),
			orm.OrderBy("id"),
			orm.Limit(limit),
		).
		Collect(ctx, r.store.Builder())
	if err != nil {
		return nil, fmt.Errorf("prolific authors: %w", err)
	}
	return authors, nil
}

func (r *Reporter) authorshipJoin() string {
	return fmt.Sprintf("%s ON %s = %s",
		authorshipTable,
		orm.TableCol(authorshipTable, Authorship.ParentCol),
		AuthorSchema.Col("id"),
	)
}

func (r *Reporter) printBooksWithMaxPages(books []Book) {
	fmt.Fprintln(r.out, "\nBooks with max pages:")
	for _, b := range books {
		fmt.Fprintln(r.out, b.Title, b.Pages)
	}
}

func (r *Reporter) printAveragePages(avg float64, ok bool) {
	if !ok {
		fmt.Fprintln(r.out, "\nThe average number of pages is n/a")
		return
	}
	fmt.Fprintf(r.out, "\nThe average number of pages is %.2f\n", avg)
}

func (r *Reporter) printYoungestAuthors(authors []Author) {
	fmt.Fprintln(r.out, "\nThe youngest author(s):")
	for _, a := range authors {
		fmt.Fprintf(r.out, "%s, born %s\n", a.FullName(), a.BirthDate)
	}
}

func (r *Reporter) printAuthors(title string, authors []Author) {
	fmt.Fprintln(r.out, "\n"+title)
	for _, a := range authors {
		fmt.Fprintln(r.out, a.FullName())
	}
}
