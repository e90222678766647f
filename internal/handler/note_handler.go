package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"notes-api/internal/domain"
	"notes-api/internal/middleware"
	"notes-api/internal/service"
	"notes-api/pkg/logger"
	"notes-api/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
	log      *logger.Logger
}

func NewNoteHandler(service *service.NoteService, log *logger.Logger) *NoteHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &NoteHandler{
		service:  service,
		validate: validate,
		log:      log,
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.service.Create(r.Context(), &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, "note created successfully")
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(notes) == 0 {
		response.Success(w, "no notes found", nil)
		return
	}

	response.Success(w, "", notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]

	note, err := h.service.GetByID(r.Context(), noteID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, "note retrieved successfully", note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]

	var req domain.UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.service.Update(r.Context(), noteID, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, "note updated successfully", nil)
}

// Delete takes the id from the body, unlike Get and Update.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.service.Delete(r.Context(), *req.NoteID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, "note deleted successfully", note)
}

// decode parses the JSON body into req and checks required fields. It writes
// a 400 and returns false on failure.
func (h *NoteHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "invalid request payload")
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return false
	}

	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}

func (h *NoteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, validationErr.Error())
	case errors.As(err, &notFoundErr):
		response.NotFound(w, notFoundErr.Error())
	default:
		h.log.WithRequestID(middleware.GetRequestID(r)).WithError(err).Error("datastore operation failed")
		response.InternalError(w, err.Error())
	}
}
