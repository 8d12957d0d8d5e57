// Package http provides HTTP handlers for vault notes.
// Every route is served through the encrypting connection; the raw route reads
// the stored record through the plain connection instead.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/inkleaf/internal/httputil"
	customValidation "github.com/allisson/inkleaf/internal/validation"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
	"github.com/allisson/inkleaf/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/inkleaf/internal/vault/usecase"
)

// VaultNoteHandler handles HTTP requests for vault notes.
type VaultNoteHandler struct {
	vaultNoteUseCase vaultUseCase.VaultNoteUseCase
	logger           *slog.Logger
}

// NewVaultNoteHandler creates a new vault note handler.
func NewVaultNoteHandler(vaultNoteUseCase vaultUseCase.VaultNoteUseCase, logger *slog.Logger) *VaultNoteHandler {
	return &VaultNoteHandler{
		vaultNoteUseCase: vaultNoteUseCase,
		logger:           logger,
	}
}

// ListHandler returns all vault notes, most recently updated first.
// GET /api/vault
func (h *VaultNoteHandler) ListHandler(c *gin.Context) {
	notes, err := h.vaultNoteUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultNotesToResponse(notes))
}

// GetHandler returns one decrypted vault note.
// GET /api/vault/:id
func (h *VaultNoteHandler) GetHandler(c *gin.Context) {
	note, err := h.vaultNoteUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultNoteToResponse(note))
}

// CreateHandler creates a vault note.
// POST /api/vault - Returns 201 Created.
func (h *VaultNoteHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateVaultNoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.vaultNoteUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapVaultNoteToResponse(note))
}

// UpdateHandler applies a partial update to a vault note.
// PUT /api/vault/:id
func (h *VaultNoteHandler) UpdateHandler(c *gin.Context) {
	var req dto.UpdateVaultNoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.vaultNoteUseCase.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultNoteToResponse(note))
}

// DeleteHandler deletes a vault note.
// DELETE /api/vault/:id - Returns {"success":true} or 404.
func (h *VaultNoteHandler) DeleteHandler(c *gin.Context) {
	deleted, err := h.vaultNoteUseCase.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !deleted {
		httputil.HandleErrorGin(c, vaultDomain.ErrVaultNoteNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// GetRawHandler returns the stored record as relaxed Extended JSON.
// GET /api/vault/:id/raw - Encrypted fields appear as binary subtype 6.
func (h *VaultNoteHandler) GetRawHandler(c *gin.Context) {
	doc, err := h.vaultNoteUseCase.GetRaw(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.ExtendedJSONGin(c, http.StatusOK, doc, h.logger)
}
