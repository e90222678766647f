package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"notes-api/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	FindByTitle(ctx context.Context, title string) (*domain.Note, error)
	List(ctx context.Context) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
}

const noteDocType = "note"

// Mango queries default to 25 results.
const maxFindLimit = 1 << 30

type noteDocument struct {
	ID          string    `json:"_id"`
	Rev         string    `json:"_rev,omitempty"`
	DocType     string    `json:"doc_type"`
	NoteID      string    `json:"note_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *noteDocument) toNote() *domain.Note {
	return &domain.Note{
		ID:          d.NoteID,
		Title:       d.Title,
		Description: d.Description,
	}
}

type couchNoteRepository struct {
	client *kivik.Client
	dbName string
}

func NewCouchNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &couchNoteRepository{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id string) string {
	return fmt.Sprintf("note:%s", id)
}

func isCouchNotFound(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusNotFound
}

func (r *couchNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	doc := &noteDocument{
		ID:          noteDocID(note.ID),
		DocType:     noteDocType,
		NoteID:      note.ID,
		Title:       note.Title,
		Description: note.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := db.Put(ctx, doc.ID, doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return fmt.Errorf("failed to create note: %w: %v", ErrDuplicateID, err)
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *couchNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	var doc noteDocument
	if err := db.Get(ctx, noteDocID(id)).ScanDoc(&doc); err != nil {
		if isCouchNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return doc.toNote(), nil
}

func (r *couchNoteRepository) FindByTitle(ctx context.Context, title string) (*domain.Note, error) {
	notes, err := r.find(ctx, map[string]interface{}{
		"doc_type": noteDocType,
		"title":    title,
	}, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to find note by title: %w", err)
	}
	if len(notes) == 0 {
		return nil, ErrNotFound
	}

	return notes[0], nil
}

func (r *couchNoteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	notes, err := r.find(ctx, map[string]interface{}{
		"doc_type": noteDocType,
	}, maxFindLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

func (r *couchNoteRepository) find(ctx context.Context, selector map[string]interface{}, limit int) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": selector,
		"limit":    limit,
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var doc noteDocument
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, err
		}
		notes = append(notes, doc.toNote())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *couchNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(note.ID)

	var existingDoc map[string]interface{}
	if err := db.Get(ctx, docID).ScanDoc(&existingDoc); err != nil {
		if isCouchNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch existing note for update: %w", err)
	}

	existingDoc["title"] = note.Title
	existingDoc["description"] = note.Description

	if _, err := db.Put(ctx, docID, existingDoc); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *couchNoteRepository) Delete(ctx context.Context, id string) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(id)

	rev, err := db.GetRev(ctx, docID)
	if err != nil {
		if isCouchNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note revision: %w", err)
	}

	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
