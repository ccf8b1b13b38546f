package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// likeEscape is the escape character used in LIKE patterns. It is accepted
// by both SQLite and MySQL without further quoting.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// searchColumns are the columns a list filter is matched against.
var searchColumns = []string{"name", "phone", "email"}

// listQuery builds the SELECT statement for List. The filter is trimmed and
// lowered with strings.ToLower; fold names the SQL function that lowers the
// columns the same way. Rows are ordered by name, and by id among equal names
// so that the order is stable.
func listQuery(fold, filter string) (string, []interface{}, error) {
	query := sq.Select("id", "name", "phone", "email").
		From("contacts").
		OrderBy("name ASC", "id ASC")
	if filter = strings.TrimSpace(filter); filter != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter)) + "%"
		anyColumn := sq.Or{}
		for _, column := range searchColumns {
			anyColumn = append(anyColumn, sq.Expr(fold+"("+column+") LIKE ? ESCAPE '"+likeEscape+"'", pattern))
		}
		query = query.Where(anyColumn)
	}
	return query.ToSql()
}
