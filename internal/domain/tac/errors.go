package tac

import (
	"errors"
	"strings"
)

var (
	// ErrSchemaMismatch indicates the source table lacks expected columns.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidPolicy indicates an unknown exclusion policy name.
	ErrInvalidPolicy = errors.New("invalid exclusion policy")
)

// SchemaError names the columns missing from a source header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "schema mismatch: missing columns " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is match ErrSchemaMismatch.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
