// Package http provides HTTP handlers for plain notes.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/inkleaf/internal/httputil"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	"github.com/allisson/inkleaf/internal/notes/http/dto"
	notesUseCase "github.com/allisson/inkleaf/internal/notes/usecase"
	customValidation "github.com/allisson/inkleaf/internal/validation"
)

// NoteHandler handles HTTP requests for plain notes.
type NoteHandler struct {
	noteUseCase notesUseCase.NoteUseCase
	logger      *slog.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteUseCase notesUseCase.NoteUseCase, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteUseCase: noteUseCase,
		logger:      logger,
	}
}

// ListHandler lists notes, newest first.
// GET /api/notes?notebookId=
func (h *NoteHandler) ListHandler(c *gin.Context) {
	notes, err := h.noteUseCase.List(c.Request.Context(), c.Query("notebookId"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNotesToResponse(notes))
}

// GetHandler returns one note.
// GET /api/notes/:id
func (h *NoteHandler) GetHandler(c *gin.Context) {
	note, err := h.noteUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNoteToResponse(note))
}

// CreateHandler creates a note.
// POST /api/notes - Returns 201 Created.
func (h *NoteHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateNoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.noteUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapNoteToResponse(note))
}

// UpdateHandler applies a partial update.
// PUT /api/notes/:id
func (h *NoteHandler) UpdateHandler(c *gin.Context) {
	var req dto.UpdateNoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.noteUseCase.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNoteToResponse(note))
}

// DeleteHandler deletes a note.
// DELETE /api/notes/:id - Returns {"success":true} or 404.
func (h *NoteHandler) DeleteHandler(c *gin.Context) {
	deleted, err := h.noteUseCase.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !deleted {
		httputil.HandleErrorGin(c, notesDomain.ErrNoteNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}
