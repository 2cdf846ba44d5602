package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

// QueryParams narrows a table query.
type QueryParams struct {
	// Where is a WHERE clause without the keyword, with ? placeholders
	// filled from Args. Empty selects the whole table.
	Where string
	Args  []any

	// OrderBy is an ORDER BY clause without the keywords, such as
	// "StartTime DESC". Empty leaves the order unspecified.
	OrderBy string
}

// A DataReader reads recorded rows back as structs.
type DataReader interface {
	// MapTable declares the struct type that a table's rows decode into.
	// A table must be mapped before it can be queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the names of the mapped tables.
	ListTables() []string

	// Query returns the rows of a table matching params, as pointers to
	// the table's mapped struct type.
	Query(ctx context.Context, tableName string, params QueryParams) (
		[]any, error)

	// Close closes the underlying database.
	Close() error
}

type sqliteReader struct {
	db *sql.DB

	typeMap map[string]reflect.Type
}

// NewReader creates a DataReader on a SQLite database file.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader on an already-open database
// connection.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// MapTable declares the struct type that a table's rows decode into.
func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

// ListTables returns the names of the mapped tables.
func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.typeMap))
	for name := range r.typeMap {
		names = append(names, name)
	}

	return names
}

// Query returns the rows of a table matching params.
func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	query := "SELECT * FROM " + tableName
	if params.Where != "" {
		query += " WHERE " + params.Where
	}
	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	rows, err := r.db.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return decodeRows(rows, structType)
}

// decodeRows scans every row into a new struct of the mapped type, matching
// columns to fields by name. Columns without a field are discarded.
func decodeRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndexByName := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		fieldIndexByName[structType.Field(i).Name] = i
	}

	var results []any
	for rows.Next() {
		entryPtr := reflect.New(structType)
		entry := entryPtr.Elem()

		targets := make([]any, len(columns))
		for i, column := range columns {
			if fieldIndex, ok := fieldIndexByName[column]; ok {
				targets[i] = entry.Field(fieldIndex).Addr().Interface()
			} else {
				targets[i] = new(any)
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entryPtr.Interface())
	}

	return results, rows.Err()
}

// Close closes the underlying database.
func (r *sqliteReader) Close() error {
	return r.db.Close()
}
