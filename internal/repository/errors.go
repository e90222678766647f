package repository

import "errors"

var (
	ErrNotFound    = errors.New("note not found")
	ErrDuplicateID = errors.New("duplicate note id")
)
