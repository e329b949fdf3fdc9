package db

import (
	"fmt"
	"strings"
)

// queryBuilder accumulates independent, order-insensitive clauses with
// positional arguments and compiles them once into SQL. It replaces ad-hoc
// string concatenation of query fragments: columns are always literals from
// this package, values always travel as parameters.
type queryBuilder struct {
	conds []string
	sets  []string
	args  []any
}

// arg registers a parameter and returns its placeholder.
func (qb *queryBuilder) arg(value any) string {
	qb.args = append(qb.args, value)
	return fmt.Sprintf("$%d", len(qb.args))
}

// equals adds an equality condition to the WHERE clause.
func (qb *queryBuilder) equals(column string, value any) {
	qb.conds = append(qb.conds, column+" = "+qb.arg(value))
}

// set adds an assignment to the SET clause of an UPDATE.
func (qb *queryBuilder) set(column string, value any) {
	qb.sets = append(qb.sets, column+" = "+qb.arg(value))
}

func (qb *queryBuilder) whereClause() string {
	return strings.Join(qb.conds, " AND ")
}

func (qb *queryBuilder) setClause() string {
	return strings.Join(qb.sets, ", ")
}
