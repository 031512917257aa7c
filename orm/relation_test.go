package orm_test

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/orm"
)

func TestManyToManyRelation(t *testing.T) {
	_, sq := setupDB(t)
	seed(sq)
	ctx := context.Background()

	t.Run("parents are bound to every linked child", func(t *testing.T) {
		writers, err := writer.Query("name", "genres").
			ModifyQuery(orm.OrderBy("id")).
			Collect(ctx, sq)
		require.NoError(t, err)
		require.Len(t, writers, 3)

		names := func(genres []Genre) []string {
			return lo.Map(genres, func(g Genre, _ int) string { return g.Name })
		}
		assert.ElementsMatch(t, []string{"Sci-Fi", "Fantasy"}, names(writers[0].Genres))
		assert.ElementsMatch(t, []string{"Sci-Fi", "History"}, names(writers[1].Genres))
		assert.Empty(t, writers[2].Genres)
	})

	t.Run("child key is selected even when not asked for", func(t *testing.T) {
		writers, err := writer.Query("genres.name").
			ModifyQuery(orm.WhereCol("id", 1)).
			Collect(ctx, sq)
		require.NoError(t, err)
		require.Len(t, writers, 1)
		require.Len(t, writers[0].Genres, 2)
		for _, g := range writers[0].Genres {
			assert.NotEmpty(t, g.ID)
			assert.NotEmpty(t, g.Name)
		}
	})

	t.Run("reverse direction", func(t *testing.T) {
		genres, err := genre.Query("*", "writers.name").
			ModifyQuery(orm.WhereCol("name", "Sci-Fi")).
			Collect(ctx, sq)
		require.NoError(t, err)
		require.Len(t, genres, 1)
		assert.ElementsMatch(t,
			[]string{"Ursula", "Octavia"},
			lo.Map(genres[0].Writers, func(w Writer, _ int) string { return w.Name }),
		)
	})

	t.Run("single link", func(t *testing.T) {
		g, err := genre.Query("id", "writers").
			ModifyQuery(orm.WhereCol("id", 2)).
			CollectOne(ctx, sq)
		require.NoError(t, err)
		require.Len(t, g.Writers, 1)
		assert.Equal(t, "Ursula", g.Writers[0].Name)
	})

	t.Run("join and having on the link table", func(t *testing.T) {
		writers, err := writer.Query("name").
			ModifyQuery(
				orm.Join("writer_genres ON writer_genres.writer_id = writers.id"),
				orm.GroupBy("id"),
				orm.Having("COUNT(writer_genres.genre_id) > ?", 1),
				orm.OrderBy("id"),
				orm.Limit(1),
			).
			Collect(ctx, sq)
		require.NoError(t, err)
		require.Len(t, writers, 1)
		assert.Equal(t, "Ursula", writers[0].Name)
	})

	t.Run("left join keeps unmatched parents", func(t *testing.T) {
		writers, err := writer.Query("name").
			ModifyQuery(
				orm.LeftJoin("writer_genres ON writer_genres.writer_id = writers.id"),
				orm.Where(squirrel.Eq{"writer_genres.genre_id": nil}),
			).
			Collect(ctx, sq)
		require.NoError(t, err)
		require.Len(t, writers, 1)
		assert.Equal(t, "Gene", writers[0].Name)
	})
}
