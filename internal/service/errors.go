package service

import "fmt"

// ValidationError is a rejected input. It maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrTitleEmpty       = &ValidationError{Message: "title must not be empty"}
	ErrTitleTooShort    = &ValidationError{Message: "title must not be less than 2 characters"}
	ErrTitleExists      = &ValidationError{Message: "note with this title already exists"}
	ErrDescriptionEmpty = &ValidationError{Message: "description must not be empty"}
	ErrIDEmpty          = &ValidationError{Message: "id must not be empty"}
	ErrIDFormat         = &ValidationError{Message: "id format invalid"}
)

// NotFoundError is returned when no note has the requested id. It maps to 404.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note with id %s not found", e.ID)
}
