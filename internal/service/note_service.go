package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"notes-api/internal/domain"
	"notes-api/internal/repository"
	"notes-api/pkg/objectid"
)

const minTitleLength = 2

type NoteService struct {
	repo  repository.NoteRepository
	newID func() string
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{
		repo:  repo,
		newID: objectid.New,
	}
}

// Create checks title, title uniqueness, then description, in that order.
// The uniqueness check is a plain lookup, so concurrent creates with the
// same title can both succeed.
func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error) {
	title := *req.Title
	description := *req.Description

	if len(title) == 0 {
		return nil, ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) < minTitleLength {
		return nil, ErrTitleTooShort
	}

	existing, err := s.repo.FindByTitle(ctx, title)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTitleExists
	}

	if len(description) == 0 {
		return nil, ErrDescriptionEmpty
	}

	note := &domain.Note{
		ID:          s.newID(),
		Title:       title,
		Description: description,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *NoteService) List(ctx context.Context) ([]*domain.Note, error) {
	return s.repo.List(ctx)
}

func (s *NoteService) GetByID(ctx context.Context, noteID string) (*domain.Note, error) {
	return s.findByID(ctx, noteID)
}

// Update replaces title and description wholesale. The new title is not
// checked against other notes.
func (s *NoteService) Update(ctx context.Context, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.findByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if len(*req.Title) == 0 {
		return nil, ErrTitleEmpty
	}
	if len(*req.Description) == 0 {
		return nil, ErrDescriptionEmpty
	}

	note.Title = *req.Title
	note.Description = *req.Description

	if err := s.repo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{ID: noteID}
		}
		return nil, err
	}

	return note, nil
}

// Delete looks the note up before validating the id, so a malformed id still
// reaches the datastore and a datastore failure wins over validation.
func (s *NoteService) Delete(ctx context.Context, noteID string) (*domain.Note, error) {
	note, lookupErr := s.repo.FindByID(ctx, noteID)
	if lookupErr != nil && !errors.Is(lookupErr, repository.ErrNotFound) {
		return nil, lookupErr
	}

	if len(noteID) == 0 {
		return nil, ErrIDEmpty
	}
	if utf8.RuneCountInString(noteID) < objectid.Length {
		return nil, ErrIDFormat
	}
	if note == nil {
		return nil, &NotFoundError{ID: noteID}
	}

	if err := s.repo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{ID: noteID}
		}
		return nil, err
	}

	return note, nil
}

func (s *NoteService) findByID(ctx context.Context, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{ID: noteID}
		}
		return nil, err
	}
	return note, nil
}
