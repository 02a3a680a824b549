// Package sqlxrepos implements the domain Repository interfaces on PostgreSQL
// via sqlx. Queries are built with "?" bindvars and rebound per driver.
package sqlxrepos

import (
	"fmt"
	"strings"

	"github.com/trezcool/darasa/core"
)

// queryBuilder accumulates WHERE conditions (ANDed) and their args.
type queryBuilder struct {
	conds []string
	args  []interface{}
}

func (qb *queryBuilder) where(cond string, args ...interface{}) {
	qb.conds = append(qb.conds, cond)
	qb.args = append(qb.args, args...)
}

func (qb *queryBuilder) whereClause() string {
	if len(qb.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.conds, " AND ")
}

func orderingClause(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

func pagingClause(paging *core.DBPaging) string {
	if paging == nil || paging.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", paging.Limit, paging.Offset)
}
