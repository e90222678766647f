package domain

type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Request bodies use pointers so a missing field can be told apart from an
// empty string. Missing fields fail validation; empty strings are checked by
// the service in a fixed order.

type CreateNoteRequest struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type UpdateNoteRequest struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type DeleteNoteRequest struct {
	NoteID *string `json:"noteId" validate:"required"`
}
