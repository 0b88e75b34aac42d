package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/usecase"
	"telehealth-directory/pkg/response"
	"telehealth-directory/pkg/validator"

	"github.com/gorilla/mux"
)

type DirectoryHandler struct {
	directoryUsecase usecase.DirectorySessionUsecase
	validator        *validator.CustomValidator
}

func NewDirectoryHandler(directoryUsecase usecase.DirectorySessionUsecase, validator *validator.CustomValidator) *DirectoryHandler {
	return &DirectoryHandler{
		directoryUsecase: directoryUsecase,
		validator:        validator,
	}
}

func (h *DirectoryHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.directoryUsecase.OpenSession(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to open directory session")
		return
	}

	response.Success(w, http.StatusCreated, "Directory session opened", view)
}

func (h *DirectoryHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.directoryUsecase.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Failed to get directory session")
		return
	}

	response.Success(w, http.StatusOK, "Directory retrieved successfully", view)
}

func (h *DirectoryHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.directoryUsecase.RefreshSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Failed to refresh directory")
		return
	}

	response.Success(w, http.StatusOK, "Directory refreshed successfully", view)
}

func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.DirectorySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	view, err := h.directoryUsecase.Search(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		h.writeError(w, err, "Failed to search directory")
		return
	}

	response.Success(w, http.StatusOK, "Search completed", view)
}

func (h *DirectoryHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	view, err := h.directoryUsecase.ClearSearch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Failed to clear search")
		return
	}

	response.Success(w, http.StatusOK, "Search cleared", view)
}

func (h *DirectoryHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.directoryUsecase.CloseSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err, "Failed to close directory session")
		return
	}

	response.Success(w, http.StatusOK, "Directory session closed", nil)
}

func (h *DirectoryHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrSessionNotFound) {
		response.NotFound(w, "Directory session not found")
		return
	}
	response.InternalServerError(w, fallback)
}
