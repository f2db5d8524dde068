package repository

import (
	stderrors "errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned by mutations that address a missing row.
	ErrNotFound = stderrors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = stderrors.New("duplicate record")
	// ErrInsufficientStock is returned by Decrement when the row holds fewer units than requested.
	ErrInsufficientStock = stderrors.New("insufficient stock")
	// ErrQuantityOverflow is returned by Increment when the sum would not fit in an int64.
	ErrQuantityOverflow = stderrors.New("quantity overflow")
)

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if stderrors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint && se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
