package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/josphatwangui51-hash/survey-market/internal/access"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
)

func (h *Handler) IssueDirective(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Instruction string `json:"instruction" validate:"required,max=1000"`
		TargetRole  string `json:"targetRole" validate:"required,oneof=admin senior_admin finance_admin"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !access.CanIssueDirective(myInfo) {
		h.errorResponse(w, r, "permission denied")
		return
	}

	d := &domain.Directive{
		Instruction:    req.Instruction,
		IssuerID:       myInfo.ID,
		IssuerUsername: myInfo.Username,
		TargetRole:     domain.Role(req.TargetRole),
	}

	msg, err := h.repository.CreateDirective(d)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.hub.Broadcast(msg)
	h.notifyDirective(d)

	h.successResponse(w, r, "directive issued", d)
}

// notifyDirective mails every staff member holding the target role.
func (h *Handler) notifyDirective(d *domain.Directive) {
	staff, err := h.repository.GetStaffAccounts()
	if err != nil {
		slog.Error("failed to load directive recipients", "directiveID", d.ID, "error", err)
		return
	}

	for _, s := range staff {
		if s.Role != d.TargetRole {
			continue
		}
		if err := h.publishMail(domain.MailMessage{
			Type: domain.MailDirectiveIssued,
			To:   s.Email,
			Data: domain.DirectiveIssuedMailData{
				Username:    s.Username,
				Issuer:      d.IssuerUsername,
				Instruction: d.Instruction,
			},
		}); err != nil {
			slog.Error("failed to queue directive mail", "directiveID", d.ID, "to", s.Username, "error", err)
		}
	}
}

func (h *Handler) RetractDirective(w http.ResponseWriter, r *http.Request) {
	directiveID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid directive id")
		return
	}

	if err := h.repository.RetractDirective(directiveID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "directive does not exist")
		case errors.Is(err, repository.ErrDirectiveInactive):
			h.errorResponse(w, r, "directive has already been retracted")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "directive retracted", nil)
}

// GetMyDirectives lists active directives for the caller's role. The super admin
// sees every directive, retracted ones included.
func (h *Handler) GetMyDirectives(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var (
		directives []*domain.Directive
		err        error
	)
	if myInfo.Role == domain.RoleSuperAdmin {
		directives, err = h.repository.GetDirectives("", false)
	} else {
		directives, err = h.repository.GetDirectives(myInfo.Role, true)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "directives fetched", directives)
}
