package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrUnknownColumn is returned for search or order keys outside a definition's allow-list.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidPaging is returned for negative page or rows values, or an offset
	// that does not fit in an int.
	ErrInvalidPaging = errors.New("invalid paging")
)

// Request is the generic listing body accepted by every table endpoint.
type Request struct {
	Order  Order             `json:"order,omitempty"`
	Page   int               `json:"page,omitempty"`
	Rows   *int              `json:"rows"`
	Search map[string]string `json:"search,omitempty"`
}

// Result is one page of rows plus the filtered total.
type Result struct {
	Count int64                    `json:"count"`
	Data  []map[string]interface{} `json:"data"`
}

// Definition describes a listable resource: an opaque base SELECT plus the columns
// callers may search and sort on.
type Definition struct {
	Name    string
	Base    string
	Columns []string
}

// Allows reports whether column is in the allow-list.
func (d Definition) Allows(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Query holds the statements produced for a request. Both share Args; Count takes
// only the filter arguments.
type Query struct {
	Select    string
	Count     string
	Args      []interface{}
	CountArgs []interface{}
}

// Build turns req into a data query and a count query over def.Base. Column names
// are allow-listed and quoted; every value is a bound parameter.
func Build(def Definition, req Request) (Query, error) {
	if req.Page < 0 {
		return Query{}, fmt.Errorf("%w: page must be >= 0", ErrInvalidPaging)
	}
	if req.Rows != nil && *req.Rows < 0 {
		return Query{}, fmt.Errorf("%w: rows must be >= 0", ErrInvalidPaging)
	}
	if req.Rows != nil && *req.Rows > 0 && req.Page > math.MaxInt/(*req.Rows) {
		return Query{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidPaging, req.Page)
	}

	where, args, err := buildWhere(def, req.Search)
	if err != nil {
		return Query{}, err
	}
	orderBy, err := buildOrder(def, req.Order)
	if err != nil {
		return Query{}, err
	}

	from := "FROM (" + strings.TrimSpace(def.Base) + ") AS t"
	count := "SELECT COUNT(*) " + from + where

	var sb strings.Builder
	sb.WriteString("SELECT * ")
	sb.WriteString(from)
	sb.WriteString(where)
	sb.WriteString(orderBy)

	selectArgs := append([]interface{}(nil), args...)
	if req.Rows != nil && *req.Rows > 0 {
		rows := *req.Rows
		fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(selectArgs)+1, len(selectArgs)+2)
		selectArgs = append(selectArgs, rows, req.Page*rows)
	}

	return Query{Select: sb.String(), Count: count, Args: selectArgs, CountArgs: args}, nil
}

func buildWhere(def Definition, search map[string]string) (string, []interface{}, error) {
	if len(search) == 0 {
		return "", nil, nil
	}
	columns := make([]string, 0, len(search))
	for column := range search {
		if !def.Allows(column) {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var conditions []string
	var args []interface{}
	for _, column := range columns {
		value := search[column]
		if value == "" {
			continue
		}
		args = append(args, "%"+EscapeLike(value)+"%")
		conditions = append(conditions, fmt.Sprintf("CAST(t.%s AS TEXT) ILIKE $%d", pq.QuoteIdentifier(column), len(args)))
	}
	if len(conditions) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func buildOrder(def Definition, order Order) (string, error) {
	entries := order.Filtered()
	if len(entries) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !def.Allows(entry.Column) {
			return "", fmt.Errorf("%w: %s", ErrUnknownColumn, entry.Column)
		}
		parts = append(parts, "t."+pq.QuoteIdentifier(entry.Column)+" "+strings.ToUpper(string(entry.Direction)))
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// EscapeLike escapes LIKE wildcards so value matches literally.
func EscapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
