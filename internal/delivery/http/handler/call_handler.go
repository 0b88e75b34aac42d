package handler

import (
	"encoding/json"
	"net/http"

	"telehealth-directory/internal/delivery/dto"
	"telehealth-directory/internal/usecase"
	"telehealth-directory/pkg/response"
	"telehealth-directory/pkg/validator"

	"github.com/gorilla/mux"
)

type CallHandler struct {
	callUsecase usecase.CallUsecase
	validator   *validator.CustomValidator
}

func NewCallHandler(callUsecase usecase.CallUsecase, validator *validator.CustomValidator) *CallHandler {
	return &CallHandler{
		callUsecase: callUsecase,
		validator:   validator,
	}
}

func (h *CallHandler) JoinCall(w http.ResponseWriter, r *http.Request) {
	var req dto.JoinCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.callUsecase.JoinCall(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrInvalidCall {
			response.BadRequest(w, "Room, user and name must not be blank")
			return
		}
		if err == usecase.ErrCallUnavailable {
			response.ServiceUnavailable(w, "Video calling is not available")
			return
		}
		response.InternalServerError(w, "Failed to join call")
		return
	}

	response.Success(w, http.StatusOK, "Call session issued", session)
}

func (h *CallHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	var req dto.EndCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.callUsecase.EndCall(r.Context(), mux.Vars(r)["id"], &req); err != nil {
		if err == usecase.ErrInvalidCall {
			response.BadRequest(w, "Duration is out of range")
			return
		}
		response.InternalServerError(w, "Failed to record call end")
		return
	}

	response.Success(w, http.StatusOK, "Call end recorded", nil)
}
