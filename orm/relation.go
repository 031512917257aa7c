package orm

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any]            func(ctx context.Context, sq squirrel.StatementBuilderType, parents []M, fields []string) error
	FieldCheck                func(fields string) error
	Binder[M, N any]          func(parents []M, children []N)
	ModelQueryModifier[M any] func(model ModelQuery[M]) ModelQuery[M]
)

type Relation[M any] struct {
	Resolve       Resolve[M]
	Check         FieldCheck
	ModelQueryMod ModelQueryModifier[M]
}

type link[K comparable] struct {
	parent K
	child  K
}

// Through names an association table linking two models.
type Through struct {
	Table     string
	ParentCol string
	ChildCol  string
}

func HasMany[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindBy(belongTogether, assign),
		wherer,
		selectDepends[M](depends),
	)
}

func HasOne[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindByOne(belongTogether, assign),
		wherer,
		selectDepends[M](depends),
	)
}

// ManyToMany links parents to children through an association table. The
// link rows are read first, then the children are collected by key and bound
// to every parent that references them. childKey names the child field that
// holds the key; it is always selected.
func ManyToMany[M, N any, K comparable](
	child *ModelSchema[N],
	through Through,
	parentID func(M) K,
	childID func(N) K,
	childKey string,
	assign func(*M, []N),
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, sq squirrel.StatementBuilderType, parents []M, fields []string) error {
			q := sq.Select(
				TableCol(through.Table, through.ParentCol),
				TableCol(through.Table, through.ChildCol),
			).
				From(through.Table).
				Where(squirrel.Eq{
					TableCol(through.Table, through.ParentCol): lo.Uniq(lo.Map(
						parents,
						func(parent M, _ int) K { return parentID(parent) },
					)),
				})

			links, err := Collect[link[K]](ctx, q, func(l *link[K]) (Ptrs, Action) {
				return Ptrs{&l.parent, &l.child}, nil
			})
			if err != nil {
				return fmt.Errorf("reading %s: %w", through.Table, err)
			}

			var children []N
			if len(links) > 0 {
				children, err = child.Query(slices.Concat(fields, []string{childKey})...).
					ModifyQuery(WhereCol(childKey, lo.Uniq(lo.Map(
						links,
						func(l link[K], _ int) K { return l.child },
					)))).
					Collect(ctx, sq)
				if err != nil {
					return err
				}
			}

			byID := lo.KeyBy(children, childID)
			byParent := lo.GroupBy(links, func(l link[K]) K { return l.parent })

			for ix := range parents {
				parent := &parents[ix]
				var collection []N

				for _, l := range byParent[parentID(*parent)] {
					if c, ok := byID[l.child]; ok {
						collection = append(collection, c)
					}
				}

				assign(parent, collection)
			}

			return nil
		},
		ModelQueryMod: selectDepends[M](depends),
	}
}

// selectDepends selects the parent fields a relation needs. An empty list
// selects nothing extra rather than every field.
func selectDepends[M any](depends []string) ModelQueryModifier[M] {
	return func(model ModelQuery[M]) ModelQuery[M] {
		if len(depends) == 0 {
			return model
		}
		return model.Select(depends...)
	}
}

func CreateRelation[M, N any](
	child *ModelSchema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends ModelQueryModifier[M],
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, sq squirrel.StatementBuilderType, parents []M, fields []string) error {
			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, sq)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		ModelQueryMod: depends,
	}
}

func BindBy[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, []N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]
			var collection []N

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				collection = append(collection, child)
			}

			assign(parent, collection)
		}
	}
}

func BindByOne[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				assign(parent, child)
				break
			}
		}
	}
}

func WhereIDs[M any, K any](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return func(q Q, table string) Q {
			return q.Where(
				squirrel.Eq{
					TableCol(table, col): lo.Map(
						parents,
						func(parent M, _ int) K { return getID(parent) },
					),
				},
			)
		}
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
