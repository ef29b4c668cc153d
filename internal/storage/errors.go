package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned by Open for a storage kind that is not registered.
	ErrUnknownKind = errors.New("unknown storage kind")
	// ErrWrongExtension is returned by Open when the path does not carry the kind's extension.
	ErrWrongExtension = errors.New("wrong file format")
	// ErrInvalidState is returned for a record header that is neither TODO nor DONE.
	ErrInvalidState = errors.New("unknown completed state")
	// ErrInvalidPeriod is returned for a :period: value other than Daily or Weekly.
	ErrInvalidPeriod = errors.New("unknown period")
	// ErrIncompleteRecord is returned under RejectIncomplete for a record missing fields.
	ErrIncompleteRecord = errors.New("incomplete record")
)

// ParseError reports the line of the habit file that could not be decoded.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
