package dataset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source supplies raw tabular rows (column name -> cell value).
type Source interface {
	Rows(ctx context.Context) ([]map[string]any, error)
	String() string
}

// Dataset is the immutable, normalized enrollment table plus its catalog.
// It is safe for concurrent use; nothing mutates it after Build returns.
type Dataset struct {
	ID       string
	Source   string
	LoadedAt time.Time

	schema  Schema
	records []Record
	catalog Catalog
}

// Build normalizes raw rows into a Dataset.
func Build(source string, rows []map[string]any) *Dataset {
	records, schema := Normalize(rows)
	return &Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		schema:   schema,
		records:  records,
		catalog:  NewCatalog(records),
	}
}

// Empty returns a dataset with no records and an empty catalog.
func Empty(source string) *Dataset {
	return Build(source, nil)
}

// Load fetches rows from src and builds a Dataset. Any source failure is logged
// and degrades to an empty dataset; Load never returns an error.
func Load(ctx context.Context, src Source, logger *zap.Logger) *Dataset {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	rows, err := src.Rows(ctx)
	if err != nil {
		logger.Warn("dataset load failed, continuing with empty dataset",
			zap.String("source", src.String()),
			zap.Error(err),
		)
		return Empty(src.String())
	}
	ds := Build(src.String(), rows)
	logger.Info("dataset loaded",
		zap.String("source", ds.Source),
		zap.String("dataset_id", ds.ID),
		zap.Int("records", ds.Len()),
		zap.Int("years", len(ds.catalog.Years)),
		zap.Int("departments", len(ds.catalog.Departments)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// IsEmpty reports whether the dataset holds no records.
func (d *Dataset) IsEmpty() bool { return len(d.records) == 0 }

// Catalog returns a copy of the dimension catalog computed at build time.
func (d *Dataset) Catalog() Catalog {
	c := Catalog{
		Years:       make([]int, len(d.catalog.Years)),
		Departments: make([]string, len(d.catalog.Departments)),
	}
	copy(c.Years, d.catalog.Years)
	copy(c.Departments, d.catalog.Departments)
	return c
}

// Schema returns the optional column layout.
func (d *Dataset) Schema() Schema { return d.schema }

// View returns an unfiltered view over all records.
func (d *Dataset) View() View {
	return View{schema: d.schema, records: d.records}
}
