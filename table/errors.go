package table

import "errors"

// Common errors returned by the table package.
var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrParse is returned when the file has no header row or rows with
	// inconsistent field counts.
	ErrParse = errors.New("parse error")

	// ErrEmptyData is returned when zero data rows remain after parsing.
	ErrEmptyData = errors.New("data is empty")

	// ErrUnknownColumn is returned when a column name is not found.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidColumn is returned when a column index is out of range.
	ErrInvalidColumn = errors.New("invalid column index")

	// ErrInvalidRow is returned when a row index is out of range.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrTypeMismatch is returned when typed access does not match the
	// column's kind.
	ErrTypeMismatch = errors.New("type mismatch")
)
