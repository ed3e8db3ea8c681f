package cloud

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSource reports a missing, unreadable or malformed backing store.
	ErrDataSource = errors.New("cloud data source error")
	// ErrNotLoaded is returned when a query is issued before Load succeeded.
	ErrNotLoaded = errors.New("cloud data not loaded")
	// ErrInsufficientData is returned when the loaded series cannot support
	// nearest-neighbour lookups (fewer than two samples or a zero time span).
	ErrInsufficientData = errors.New("insufficient cloud data")
	// ErrConfigType is returned when a value that is not a cloud
	// configuration is supplied where one is required.
	ErrConfigType = errors.New("not a cloud model configuration")
)

// DataSourceError describes a failure while reading a backing store.
type DataSourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cloud data source %s: %s failed", e.Source, e.Op)
	}
	return fmt.Sprintf("cloud data source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Is reports ErrDataSource so callers can match on the sentinel.
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// NewDataSourceError wraps err for the given source and operation.
func NewDataSourceError(source, op string, err error) error {
	return &DataSourceError{Source: source, Op: op, Err: err}
}
