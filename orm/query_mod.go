package orm

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

// Col selects one or more columns of the model table.
func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.Column(TableCol(table, name))
		}
		return q
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

// Where adds a predicate. pred is anything squirrel accepts: a string with args, squirrel.Eq, squirrel.Expr...
func Where(pred any, args ...any) QueryMod {
	return func(q Q, _ string) Q { return q.Where(pred, args...) }
}

// WhereCol compares a column of the model table for equality. A slice value becomes an IN list.
func WhereCol(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

func Join(join string, args ...any) QueryMod {
	return func(q Q, _ string) Q { return q.Join(join, args...) }
}

func LeftJoin(join string, args ...any) QueryMod {
	return func(q Q, _ string) Q { return q.LeftJoin(join, args...) }
}

// GroupBy groups by columns of the model table.
func GroupBy(cols ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, col := range cols {
			q = q.GroupBy(TableCol(table, col))
		}
		return q
	}
}

func Having(pred any, args ...any) QueryMod {
	return func(q Q, _ string) Q { return q.Having(pred, args...) }
}

// OrderBy orders by columns of the model table, e.g. OrderBy("id", "name DESC").
func OrderBy(cols ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, col := range cols {
			q = q.OrderBy(TableCol(table, col))
		}
		return q
	}
}

func Limit(n uint64) QueryMod {
	return func(q Q, _ string) Q { return q.Limit(n) }
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
