package http

import (
	"errors"
	"net/http"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// CodeEmailHandler dispatches code emails on behalf of office staff.
type CodeEmailHandler struct {
	CodeMailService *service.CodeMailService
}

func (h *CodeEmailHandler) HandleSendStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	report, err := h.CodeMailService.SendToStudentContacts(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			writeNotFound(w, "Student not found")
		case errors.Is(err, service.ErrNoRecipients):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:            "no_recipients",
				ErrorDescription: "Student has no contact emails or linked parents",
			})
		default:
			log.Error("code send failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, report)
}

func (h *CodeEmailHandler) HandleSendGrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	report, err := h.CodeMailService.BulkSendForGrade(ctx, r.PathValue("id"))
	if err != nil {
		log.Error("bulk code send failed", "error", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, report)
}
