// Package datarecording persists structured simulation records in SQLite
// databases, one table per record type.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A DataRecorder stores flat structs as database rows.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry, of the table's sample type, for
	// insertion.
	InsertData(tableName string, entry any)

	// ListTables returns the names of the created tables.
	ListTables() []string

	// Flush writes all buffered entries out.
	Flush()
}

// Entries are buffered in memory and written in batches of this size.
const writerBatchSize = 100000

// New creates a DataRecorder backed by a new SQLite file at path. An empty
// path picks a unique generated name. The recorder flushes at exit.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		tables: make(map[string]*recorderTable),
	}
	w.openFile(path)

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a DataRecorder on an already-open database connection.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		db:     db,
		tables: make(map[string]*recorderTable),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

type recorderTable struct {
	structType reflect.Type
	pending    []any
}

type sqliteWriter struct {
	db *sql.DB

	tables     map[string]*recorderTable
	totalCount int
}

func (w *sqliteWriter) openFile(path string) {
	if path == "" {
		path = "bramsim_data_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.db = db
}

// entryMustBeFlat panics unless every field of the entry is a scalar or a
// string. Nested structs, slices, and maps have no column representation.
func entryMustBeFlat(entry any) {
	t := reflect.TypeOf(entry)

	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
		default:
			panic(errors.New("entry is invalid"))
		}
	}
}

// CreateTable creates a table whose columns are the fields of the sample
// entry.
func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	entryMustBeFlat(sampleEntry)

	columns := strings.Join(structs.Names(sampleEntry), ", \n\t")
	w.mustExecute(
		"CREATE TABLE " + tableName + " (\n\t" + columns + "\n);")

	w.tables[tableName] = &recorderTable{
		structType: reflect.TypeOf(sampleEntry),
	}
}

// InsertData buffers an entry for insertion into the named table.
func (w *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.pending = append(table.pending, entry)

	w.totalCount++
	if w.totalCount >= writerBatchSize {
		w.Flush()
	}
}

// ListTables returns the names of the created tables.
func (w *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	return names
}

// Flush writes all buffered entries into the database in one transaction.
func (w *sqliteWriter) Flush() {
	if w.totalCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for name, table := range w.tables {
		w.flushTable(name, table)
	}

	w.totalCount = 0
}

func (w *sqliteWriter) flushTable(name string, table *recorderTable) {
	if len(table.pending) == 0 {
		return
	}

	stmt, err := w.db.Prepare(insertSQL(name, table.pending[0]))
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, entry := range table.pending {
		v := reflect.ValueOf(entry)

		args := make([]any, v.NumField())
		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}

	table.pending = nil
}

func insertSQL(tableName string, sampleEntry any) string {
	placeholders := make([]string, len(structs.Names(sampleEntry)))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	return "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.db.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
