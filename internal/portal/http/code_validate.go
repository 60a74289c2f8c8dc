package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// CodeValidateHandler answers "is this a real, usable code" for the
// anonymous pre-signup form. A match reveals only the student hint.
type CodeValidateHandler struct {
	CodeService *service.ParentCodeService
}

func (h *CodeValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Malformed input is indistinguishable from an unknown code.
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, codeRejected)
		return
	}

	student, code, err := h.CodeService.Validate(ctx, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, codeRejected)
			return
		}
		log.Error("code validation failed", "error", err)
		writeServerError(w)
		return
	}

	usable, err := h.CodeService.IsValid(ctx, code)
	if err != nil {
		log.Error("code usability check failed", "error", err)
		writeServerError(w)
		return
	}
	if !usable {
		// At capacity, expired, or revoked: same answer as not found.
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, codeRejected)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid:       true,
		StudentHint: service.StudentHint(student),
	})
}

func writeServerError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:            "server_error",
		ErrorDescription: "Something went wrong. Please try again later.",
	})
}
