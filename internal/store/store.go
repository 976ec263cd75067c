// Package store issues the parameterized queries the repository layer asks for.
//
// Queries are described as plain values (table, columns, equality predicate,
// limit) so the repository never builds SQL itself, and executed through bun
// against whatever bun.IDB the caller hands in (pool, connection or tx).
package store

// Predicate is an equality condition on a single column.
type Predicate struct {
	Column string
	Value  any
}

// Eq builds a Predicate matching rows whose column equals value.
func Eq(column string, value any) Predicate {
	return Predicate{Column: column, Value: value}
}

// SelectQuery describes a SELECT. A nil Where selects every row and a
// Limit of zero means no limit.
type SelectQuery struct {
	Table   string
	Columns []string
	Where   *Predicate
	Limit   int
}

// UpdateQuery describes an UPDATE ... RETURNING.
type UpdateQuery struct {
	Table     string
	Set       map[string]any
	Where     Predicate
	Returning []string
}

// DeleteQuery describes a DELETE ... RETURNING.
type DeleteQuery struct {
	Table     string
	Where     Predicate
	Returning []string
}
