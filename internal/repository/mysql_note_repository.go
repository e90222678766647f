package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notes-api/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const mysqlErrDuplicateEntry = 1062

// NotesTableDDL creates the notes table. Title is not unique: update may
// legitimately produce duplicates.
const NotesTableDDL = `
	CREATE TABLE IF NOT EXISTS notes (
		id CHAR(24) NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (id)
	) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin
`

type mysqlNoteRepository struct {
	db *sql.DB
}

func NewMySQLNoteRepository(db *sql.DB) NoteRepository {
	return &mysqlNoteRepository{
		db: db,
	}
}

// EnsureSchema creates the notes table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, NotesTableDDL); err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}
	return nil
}

func (r *mysqlNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `INSERT INTO notes (id, title, description, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, note.ID, note.Title, note.Description, time.Now().UTC())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return fmt.Errorf("failed to create note: %w: %v", ErrDuplicateID, err)
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *mysqlNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `SELECT id, title, description FROM notes WHERE id = ?`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return note, nil
}

func (r *mysqlNoteRepository) FindByTitle(ctx context.Context, title string) (*domain.Note, error) {
	query := `SELECT id, title, description FROM notes WHERE BINARY title = ? LIMIT 1`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note by title: %w", err)
	}

	return note, nil
}

func (r *mysqlNoteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	query := `SELECT id, title, description FROM notes ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

func (r *mysqlNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	query := `UPDATE notes SET title = ?, description = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, note.Title, note.Description, note.ID); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *mysqlNoteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM notes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	if err := row.Scan(&note.ID, &note.Title, &note.Description); err != nil {
		return nil, err
	}
	return &note, nil
}
