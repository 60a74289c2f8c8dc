package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// AddChildHandler links an additional student to the authenticated
// parent's account.
type AddChildHandler struct {
	LinkService *service.LinkService
}

func (h *AddChildHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	parentID := httpx.UserIDFromContext(ctx)
	if parentID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	var req AddChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	student, err := h.LinkService.AddChild(ctx, parentID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParentNotFound):
			httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Unknown parent account",
			})
		case errors.Is(err, service.ErrCodeNotFound),
			errors.Is(err, service.ErrLinkCapReached):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, codeRejected)
		default:
			log.Error("add child failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AddChildResponse{
		StudentID:   student.ID,
		StudentHint: service.StudentHint(student),
	})
}
