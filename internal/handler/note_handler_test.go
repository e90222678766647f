package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"notes-api/internal/config"
	"notes-api/internal/domain"
	"notes-api/internal/repository"
	"notes-api/internal/service"
	"notes-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryNoteRepo struct {
	mu    sync.Mutex
	notes map[string]domain.Note
	order []string
	err   error
}

func newMemoryNoteRepo() *memoryNoteRepo {
	return &memoryNoteRepo{notes: make(map[string]domain.Note)}
}

func (m *memoryNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notes[note.ID] = *note
	m.order = append(m.order, note.ID)
	return nil
}

func (m *memoryNoteRepo) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if n, ok := m.notes[id]; ok {
		return &n, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryNoteRepo) FindByTitle(ctx context.Context, title string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok && n.Title == title {
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryNoteRepo) List(ctx context.Context) ([]*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var notes []*domain.Note
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok {
			n := n
			notes = append(notes, &n)
		}
	}
	return notes, nil
}

func (m *memoryNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[note.ID]; !ok {
		return repository.ErrNotFound
	}
	m.notes[note.ID] = *note
	return nil
}

func (m *memoryNoteRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, repo repository.NoteRepository) *httptest.Server {
	t.Helper()

	log := logger.NewWithOutput("notes-api-test", "error", "json", io.Discard)
	router := NewRouter(RouterDeps{
		Notes:  NewNoteHandler(service.NewNoteService(repo), log),
		Logger: log,
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PATCH,OPTIONS",
			AllowedHeaders: "Content-Type",
		},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestShoppingScenario(t *testing.T) {
	srv := newTestServer(t, newMemoryNoteRepo())

	code, env := do(t, srv, http.MethodPost, "/createNote", `{"title":"Shopping","description":"Milk, eggs"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.Code)
	assert.Empty(t, env.Data)

	code, env = do(t, srv, http.MethodGet, "/getAllNote", "")
	require.Equal(t, http.StatusOK, code)

	var notes []domain.Note
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Shopping", notes[0].Title)
	assert.Equal(t, "Milk, eggs", notes[0].Description)
	assert.Len(t, notes[0].ID, 24)

	id := notes[0].ID

	code, env = do(t, srv, http.MethodGet, "/getNoteById/"+id, "")
	require.Equal(t, http.StatusOK, code)
	var got domain.Note
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, notes[0], got)

	code, env = do(t, srv, http.MethodPost, "/deleteNoteById", `{"noteId":"`+id+`"}`)
	require.Equal(t, http.StatusOK, code)
	var deleted domain.Note
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, notes[0], deleted)

	code, env = do(t, srv, http.MethodGet, "/getNoteById/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, id)
}

func TestCreateNote(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "valid", body: `{"title":"Work","description":"Report"}`, wantStatus: http.StatusCreated},
		{name: "empty title", body: `{"title":"","description":""}`, wantStatus: http.StatusBadRequest, wantMessage: "title must not be empty"},
		{name: "short title", body: `{"title":"a","description":"x"}`, wantStatus: http.StatusBadRequest, wantMessage: "title must not be less than 2 characters"},
		{name: "duplicate title", body: `{"title":"Shopping","description":"x"}`, wantStatus: http.StatusBadRequest, wantMessage: "note with this title already exists"},
		{name: "empty description", body: `{"title":"Work","description":""}`, wantStatus: http.StatusBadRequest, wantMessage: "description must not be empty"},
		{name: "missing description", body: `{"title":"Work"}`, wantStatus: http.StatusBadRequest, wantMessage: "description is required"},
		{name: "wrong type", body: `{"title":12,"description":"x"}`, wantStatus: http.StatusBadRequest, wantMessage: "invalid request payload"},
		{name: "malformed json", body: `{"title":`, wantStatus: http.StatusBadRequest, wantMessage: "invalid request payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, newMemoryNoteRepo())
			code, _ := do(t, srv, http.MethodPost, "/createNote", `{"title":"Shopping","description":"Milk, eggs"}`)
			require.Equal(t, http.StatusCreated, code)

			code, env := do(t, srv, http.MethodPost, "/createNote", tt.body)
			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantStatus, env.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Message)
			}
		})
	}
}

func TestListNotesEmpty(t *testing.T) {
	srv := newTestServer(t, newMemoryNoteRepo())

	code, env := do(t, srv, http.MethodGet, "/getAllNote", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "no notes found", env.Message)
	assert.Empty(t, env.Data)
}

func TestUpdateNote(t *testing.T) {
	repo := newMemoryNoteRepo()
	srv := newTestServer(t, repo)

	do(t, srv, http.MethodPost, "/createNote", `{"title":"Shopping","description":"Milk, eggs"}`)
	id := repo.order[0]

	code, env := do(t, srv, http.MethodPatch, "/updateNoteById/"+id, `{"title":"Groceries","description":"Bread"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Data)

	_, env = do(t, srv, http.MethodGet, "/getNoteById/"+id, "")
	var got domain.Note
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, domain.Note{ID: id, Title: "Groceries", Description: "Bread"}, got)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{name: "unknown id", id: "65e1ca48a1b2c3d4e5f60718", body: `{"title":"","description":""}`, wantStatus: http.StatusNotFound},
		{name: "empty title", id: id, body: `{"title":"","description":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "empty description", id: id, body: `{"title":"x","description":""}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := do(t, srv, http.MethodPatch, "/updateNoteById/"+tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, code)
		})
	}
}

func TestDeleteNote(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "empty id", body: `{"noteId":""}`, wantStatus: http.StatusBadRequest, wantMessage: "id must not be empty"},
		{name: "short id", body: `{"noteId":"abc"}`, wantStatus: http.StatusBadRequest, wantMessage: "id format invalid"},
		{name: "unknown well formed id", body: `{"noteId":"65e1ca48a1b2c3d4e5f60718"}`, wantStatus: http.StatusNotFound},
		{name: "missing id", body: `{}`, wantStatus: http.StatusBadRequest, wantMessage: "noteId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, newMemoryNoteRepo())

			code, env := do(t, srv, http.MethodPost, "/deleteNoteById", tt.body)
			assert.Equal(t, tt.wantStatus, code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Message)
			}
		})
	}
}

func TestDatastoreErrors(t *testing.T) {
	repo := newMemoryNoteRepo()
	repo.err = errors.New("connection refused")
	srv := newTestServer(t, repo)

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/createNote", body: `{"title":"Shopping","description":"Milk"}`},
		{method: http.MethodGet, path: "/getAllNote"},
		{method: http.MethodGet, path: "/getNoteById/abc"},
		{method: http.MethodPatch, path: "/updateNoteById/abc", body: `{"title":"a","description":"b"}`},
		{method: http.MethodPost, path: "/deleteNoteById", body: `{"noteId":""}`},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			code, env := do(t, srv, req.method, req.path, req.body)
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.False(t, env.Success)
			assert.Equal(t, "connection refused", env.Message)
		})
	}
}

func TestWelcomeAndHealth(t *testing.T) {
	srv := newTestServer(t, newMemoryNoteRepo())

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Welcome"}`, string(body))

	code, _ := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newMemoryNoteRepo())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/deleteNoteById", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
