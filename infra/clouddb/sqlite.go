package clouddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/factory"
	"github.com/kilianp07/skycloud/core/model"
	_ "modernc.org/sqlite"
)

// DefaultPath is the location of the bundled cloud database relative to the
// working directory.
const DefaultPath = "data/cloud.db"

// Schema of the cloud table.
const (
	Table      = "Cloud"
	DateColumn = "c_date"
	ValueCol   = "cloud"
)

// SQLiteSource reads cloud samples from a SQLite database holding a
// Cloud(cloudId INTEGER PRIMARY KEY, c_date INTEGER, cloud DOUBLE) table.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource returns a Source for the database at path. An empty path
// selects DefaultPath.
func NewSQLiteSource(path string) *SQLiteSource {
	if path == "" {
		path = DefaultPath
	}
	return &SQLiteSource{path: path}
}

// Path returns the database location.
func (s *SQLiteSource) Path() string { return s.path }

// Name implements cloud.Source.
func (s *SQLiteSource) Name() string { return "sqlite:" + s.path }

// Load opens the database read-only, scans every row and closes it again.
func (s *SQLiteSource) Load(ctx context.Context) (_ []model.Sample, err error) {
	// The driver creates missing files, so existence is checked first.
	if _, err := os.Stat(s.path); err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "stat", err)
	}
	db, err := sql.Open("sqlite", dsn(s.path, "ro"))
	if err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "open", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cloud.NewDataSourceError(s.Name(), "close", cerr)
		}
	}()

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s", DateColumn, ValueCol, Table, DateColumn)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "query", err)
	}
	defer func() { _ = rows.Close() }()

	var res []model.Sample
	for rows.Next() {
		var date sql.NullInt64
		var value sql.NullFloat64
		if err := rows.Scan(&date, &value); err != nil {
			return nil, cloud.NewDataSourceError(s.Name(), "scan", err)
		}
		if !date.Valid || !value.Valid {
			return nil, cloud.NewDataSourceError(s.Name(), "scan", errors.New("null date or value"))
		}
		res = append(res, model.Sample{Date: date.Int64, Value: value.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, cloud.NewDataSourceError(s.Name(), "scan", err)
	}
	return res, nil
}

// CreateTable writes samples into a fresh Cloud table at path. It is used to
// build alternate databases and test fixtures; the resolver never writes.
func CreateTable(ctx context.Context, path string, samples []model.Sample) (err error) {
	db, err := sql.Open("sqlite", dsn(path, "rwc"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Table); err != nil {
		return err
	}
	schema := fmt.Sprintf(`CREATE TABLE %s (
        cloudId INTEGER PRIMARY KEY,
        %s INTEGER,
        %s DOUBLE
    );`, Table, DateColumn, ValueCol)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (?, ?, ?)", Table))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for i, smp := range samples {
		if _, err := stmt.ExecContext(ctx, i+1, smp.Date, smp.Value); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// dsn builds a SQLite URI for path. Characters with a meaning in URIs
// (?, #, %) are percent-encoded so they stay part of the file name.
func dsn(path, mode string) string {
	u := url.URL{Scheme: "file", Opaque: (&url.URL{Path: path}).EscapedPath(), RawQuery: "mode=" + mode}
	return u.String()
}

func init() {
	_ = cloud.RegisterSource("sqlite", func(conf map[string]any) (cloud.Source, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteSource(c.Path), nil
	})
}
