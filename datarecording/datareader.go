package datarecording

import (
	"context"
	"database/sql"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/structs"
)

// QueryParams narrows a query. Zero values select every row in storage
// order.
type QueryParams struct {
	// Where is an SQL condition on the columns, e.g. "Severity = ?".
	Where string
	Args  []any

	// OrderBy lists the sort columns, e.g. "Cycle DESC".
	OrderBy string

	// Limit caps the number of rows returned, 0 for no cap. Offset skips
	// rows and is ignored without a Limit.
	Limit  int
	Offset int
}

// DataReader reads tables written by a DataRecorder.
type DataReader interface {
	// MapTable tells the reader which struct the rows of a table decode
	// into. A table must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// Tables lists the tables stored in the database, sorted.
	Tables(ctx context.Context) ([]string, error)

	// Query returns the selected rows, as pointers to the mapped struct, and
	// the number of rows that match params.Where regardless of the limit.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

// QueryAs runs a query on a table mapped to T and returns typed rows.
func QueryAs[T any](
	ctx context.Context,
	r DataReader,
	tableName string,
	params QueryParams,
) ([]*T, error) {
	results, _, err := r.Query(ctx, tableName, params)
	if err != nil {
		return nil, err
	}

	rows := make([]*T, 0, len(results))
	for _, res := range results {
		row, ok := res.(*T)
		if !ok {
			return nil, errors.Newf("table %s is not mapped to %T", tableName, *new(T))
		}

		rows = append(rows, row)
	}

	return rows, nil
}

type mapping struct {
	structType reflect.Type
	columns    []string
}

type sqliteReader struct {
	db       *sql.DB
	mappings map[string]mapping
}

// NewReader opens a database file for reading. The file must exist.
func NewReader(path string) (DataReader, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader on an open database. Closing the
// reader closes db.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{db: db, mappings: map[string]mapping{}}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	r.mappings[tableName] = mapping{
		structType: reflect.TypeOf(sampleEntry),
		columns:    structs.Names(sampleEntry),
	}
}

func (r *sqliteReader) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "list tables")
		}

		names = append(names, name)
	}

	return names, errors.Wrap(rows.Err(), "list tables")
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	m, ok := r.mappings[tableName]
	if !ok {
		return nil, 0, errors.Newf("table %s is not mapped", tableName)
	}

	var total int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+where(params), params.Args...).
		Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "count %s", tableName)
	}

	rows, err := r.db.QueryContext(ctx, selectStatement(tableName, m, params),
		params.Args...)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "query %s", tableName)
	}
	defer rows.Close()

	results, err := m.scan(rows)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "query %s", tableName)
	}

	return results, total, nil
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}

func where(params QueryParams) string {
	if params.Where == "" {
		return ""
	}

	return " WHERE " + params.Where
}

func selectStatement(tableName string, m mapping, params QueryParams) string {
	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(m.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(tableName)
	b.WriteString(where(params))

	if params.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(params.OrderBy)
	}

	if params.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(params.Limit))

		if params.Offset > 0 {
			b.WriteString(" OFFSET ")
			b.WriteString(strconv.Itoa(params.Offset))
		}
	}

	return b.String()
}

// scan decodes rows selected in column order into new structs.
func (m mapping) scan(rows *sql.Rows) ([]any, error) {
	var results []any

	for rows.Next() {
		ptr := reflect.New(m.structType)
		targets := make([]any, len(m.columns))

		for i, col := range m.columns {
			targets[i] = ptr.Elem().FieldByName(col).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, ptr.Interface())
	}

	return results, rows.Err()
}
