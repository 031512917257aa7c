package library

import (
	"errors"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
)

const (
	MinPages      = 100
	MaxPages      = 1200
	MinBookAuthor = 1
	MaxBookAuthor = 3

	maxAuthorAge   = 115
	releaseHorizon = 150
)

var ErrNoAuthors = errors.New("no authors to assign books to")

// Generator produces plausible random authors and books.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator seeded with seed. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

func (g *Generator) Authors(n int) []Author {
	now := g.now()
	authors := make([]Author, 0, n)
	for range n {
		authors = append(authors, Author{
			FirstName:  g.faker.FirstName(),
			LastName:   g.faker.LastName(),
			BirthDate:  NewDate(g.faker.DateRange(now.AddDate(-maxAuthorAge, 0, 0), now)),
			BirthPlace: g.faker.City(),
		})
	}
	return authors
}

// Books generates m books, each credited to 1 to 3 distinct authors drawn
// from pool without replacement.
func (g *Generator) Books(m int, pool []Author) ([]Book, error) {
	if len(pool) == 0 {
		return nil, ErrNoAuthors
	}

	now := g.now()
	books := make([]Book, 0, m)
	for range m {
		books = append(books, Book{
			Title:       g.faker.BookTitle(),
			Category:    Categories[g.faker.Number(0, len(Categories)-1)],
			Pages:       g.faker.Number(MinPages, MaxPages),
			ReleaseDate: NewDate(g.faker.DateRange(now.AddDate(-releaseHorizon, 0, 0), now)),
			Authors:     g.sample(pool, g.faker.Number(MinBookAuthor, MaxBookAuthor)),
		})
	}
	return books, nil
}

// sample picks k distinct authors with a partial Fisher-Yates shuffle over
// the pool indexes.
func (g *Generator) sample(pool []Author, k int) []Author {
	k = min(k, len(pool))
	idx := lo.Range(len(pool))
	for i := range k {
		j := g.faker.Number(i, len(idx)-1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return lo.Map(idx[:k], func(i, _ int) Author { return pool[i] })
}
