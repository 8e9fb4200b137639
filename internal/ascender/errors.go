package ascender

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnCount is returned when a row does not match the column schema.
	ErrColumnCount = errors.New("row column count does not match schema")

	// ErrUnsupportedValue is returned for raw values no parse rule understands.
	ErrUnsupportedValue = errors.New("unsupported column value")

	// ErrEmployeeIDEmpty is returned for rows without an employee number.
	ErrEmployeeIDEmpty = errors.New("employee number is empty")
)

// ParseError isolates a malformed column of a single row.
type ParseError struct {
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d column %s value %v: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
