package library

import (
	"pollex.nl/bookshelf/orm"
)

const (
	authorTable     = "author"
	bookTable       = "book"
	authorshipTable = "author_book"
)

// Authorship is the author_book association between authors and books.
var Authorship = orm.Through{Table: authorshipTable, ParentCol: "author_id", ChildCol: "book_id"}

var AuthorSchema = orm.New[Author](authorTable).
	AddSimpleField("id", func(t *Author) any { return &t.ID }).
	AddSimpleField("firstname", func(t *Author) any { return &t.FirstName }).
	AddSimpleField("lastname", func(t *Author) any { return &t.LastName }).
	AddSimpleField("birthdate", func(t *Author) any { return &t.BirthDate }).
	AddSimpleField("birthplace", func(t *Author) any { return &t.BirthPlace })

var BookSchema = orm.New[Book](bookTable).
	AddSimpleField("id", func(t *Book) any { return &t.ID }).
	AddSimpleField("title", func(t *Book) any { return &t.Title }).
	AddSimpleField("category", func(t *Book) any { return &t.Category }).
	AddField(
		"number_of_pages",
		orm.Col("number_of_pages"),
		orm.Convert(func(t *Book, pages int64) { t.Pages = int(pages) }),
	).
	AddSimpleField("release_date", func(t *Book) any { return &t.ReleaseDate }).
	AddRelation("authors",
		orm.ManyToMany(
			AuthorSchema,
			orm.Through{Table: authorshipTable, ParentCol: Authorship.ChildCol, ChildCol: Authorship.ParentCol},
			func(b Book) int64 { return b.ID },
			func(a Author) int64 { return a.ID },
			"id",
			func(b *Book, authors []Author) { b.Authors = authors },
			orm.DependsOn("id"),
		),
	)

func init() {
	AuthorSchema.AddRelation("books",
		orm.ManyToMany(
			BookSchema,
			Authorship,
			func(a Author) int64 { return a.ID },
			func(b Book) int64 { return b.ID },
			"id",
			func(a *Author, books []Book) { a.Books = books },
			orm.DependsOn("id"),
		),
	)
}
