package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/pkg/table"
)

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// TableRepository executes generic table listings.
type TableRepository struct {
	db      *sqlx.DB
	metrics queryObserver
}

// NewTableRepository creates a new TableRepository. metrics may be nil.
func NewTableRepository(db *sqlx.DB, metrics queryObserver) *TableRepository {
	return &TableRepository{db: db, metrics: metrics}
}

// Query runs the page query and the count query for req over def.
func (r *TableRepository) Query(ctx context.Context, def table.Definition, req table.Request) (*table.Result, error) {
	q, err := table.Build(def, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := r.db.QueryxContext(ctx, q.Select, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("query %s table: %w", def.Name, err)
	}
	defer rows.Close()

	data := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s table: %w", def.Name, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s table: %w", def.Name, err)
	}
	r.observe(def.Name+"_table", start)

	start = time.Now()
	var count int64
	if err := r.db.GetContext(ctx, &count, q.Count, q.CountArgs...); err != nil {
		return nil, fmt.Errorf("count %s table: %w", def.Name, err)
	}
	r.observe(def.Name+"_count", start)

	return &table.Result{Count: count, Data: data}, nil
}

func (r *TableRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}
