package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/pkg/httpx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// AdminCodeHandler serves the office-staff view of a student's code:
// status inspection, cap/expiry/status mutation, and regeneration.
// Admin responses may expose counts and expiry; the public surface
// never does.
type AdminCodeHandler struct {
	CodeService *service.ParentCodeService
}

func (h *AdminCodeHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	status, err := h.CodeService.ActiveCodeStatus(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			writeNotFound(w, "Student not found")
		case errors.Is(err, service.ErrNoActiveCode):
			writeNotFound(w, "Student has no active code")
		default:
			log.Error("code status lookup failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, status)
}

func (h *AdminCodeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req UpdateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	status, err := h.CodeService.ActiveCodeStatus(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			writeNotFound(w, "Student not found")
		case errors.Is(err, service.ErrNoActiveCode):
			writeNotFound(w, "Student has no active code")
		default:
			log.Error("code status lookup failed", "error", err)
			writeServerError(w)
		}
		return
	}

	updated, err := h.CodeService.Update(ctx, status.CodeID, service.UpdatePatch{
		MaxLinks:  req.MaxLinks,
		ExpiresAt: req.ExpiresAt,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMaxLinks):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "max_links must be between 1 and 50",
			})
		case errors.Is(err, service.ErrInvalidStatus):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "status must be active or revoked",
			})
		case errors.Is(err, service.ErrCodeNotFound):
			writeNotFound(w, "Code not found")
		default:
			log.Error("code update failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, service.CodeStatus{
		CodeID:    updated.ID,
		Status:    updated.Status,
		Last4:     updated.CodeLast4,
		MaxLinks:  updated.MaxLinks,
		LinkCount: status.LinkCount,
		CreatedAt: updated.CreatedAt,
		ExpiresAt: updated.ExpiresAt,
	})
}

func (h *AdminCodeHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Invalid JSON body",
			})
			return
		}
	}

	plain, code, err := h.CodeService.Issue(ctx, r.PathValue("id"), service.IssueOptions{
		MaxLinks:  req.MaxLinks,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			writeNotFound(w, "Student not found")
		case errors.Is(err, service.ErrInvalidMaxLinks):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "max_links must be between 1 and 50",
			})
		default:
			log.Error("code regeneration failed", "error", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, RegenerateResponse{
		Code:      plain,
		CodeLast4: code.CodeLast4,
		MaxLinks:  code.MaxLinks,
		ExpiresAt: code.ExpiresAt,
	})
}

func writeNotFound(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
		Error:            "not_found",
		ErrorDescription: desc,
	})
}
