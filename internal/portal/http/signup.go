package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// SignupHandler redeems a code for an anonymous caller, provisioning a
// parent account when the email is new.
type SignupHandler struct {
	LinkService *service.LinkService
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	result, err := h.LinkService.Signup(ctx, req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "A valid email address is required",
			})
		case errors.Is(err, service.ErrCodeNotFound),
			errors.Is(err, service.ErrLinkCapReached):
			// One response for both, so signup cannot be used to test
			// which codes exist but are full.
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, codeRejected)
		default:
			log.Error("signup failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SignupResponse{
		AccountCreated: result.AccountCreated,
		StudentHint:    service.StudentHint(result.Student),
	})
}
