package errors

import (
	"fmt"
)

// SchemaError reports that column resolution failed for an uploaded table.
// It is fatal to the current pipeline run but never to the session: the
// next upload starts from a clean slate.
type SchemaError struct {
	Column  string
	Ordinal int
	Have    int
	Reason  string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Ordinal >= 0 {
		return fmt.Sprintf("schema: %s column expected at position %d but sheet has only %d columns", e.Column, e.Ordinal, e.Have)
	}
	return fmt.Sprintf("schema: %s column could not be resolved: %s", e.Column, e.Reason)
}

// NewSchemaOrdinalError reports a missing fixed-position column.
func NewSchemaOrdinalError(column string, ordinal, have int) *SchemaError {
	return &SchemaError{Column: column, Ordinal: ordinal, Have: have}
}

// NewSchemaNameError reports a failed name-based column search.
func NewSchemaNameError(column, reason string) *SchemaError {
	return &SchemaError{Column: column, Ordinal: -1, Reason: reason}
}

// ParseError reports that a single cell failed to coerce. Parse errors are
// row-level: the cleaner drops the row and the pipeline continues, so this
// type is used for accounting, never for aborting a run.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Cause  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %s value %q: %v", e.Row, e.Column, e.Value, e.Cause)
}

// Unwrap allows errors.Is and errors.As to work with ParseError
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WorkbookError reports a file that is not a readable xlsx workbook.
type WorkbookError struct {
	Cause error
}

// Error implements the error interface
func (e *WorkbookError) Error() string {
	return fmt.Sprintf("workbook could not be opened: %v", e.Cause)
}

// Unwrap allows errors.Is and errors.As to work with WorkbookError
func (e *WorkbookError) Unwrap() error {
	return e.Cause
}

// SheetError reports a missing or unreadable worksheet.
type SheetError struct {
	Sheet  string
	Reason string
}

// Error implements the error interface
func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Reason)
}
