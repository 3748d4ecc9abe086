package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/josphatwangui51-hash/survey-market/internal/access"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

// accessMessage turns an access error into a user-facing message.
func accessMessage(err error) string {
	detail := err.Error()
	if i := strings.LastIndex(detail, ": "); i >= 0 {
		detail = detail[i+2:]
	}

	if errors.Is(err, access.ErrAuthorizationDenied) {
		return "permission denied: " + detail
	}
	return detail
}

// mutationAllowed reports whether the caller may change target using capability,
// writing the refusal when it may not.
func (h *Handler) mutationAllowed(w http.ResponseWriter, r *http.Request, target *domain.Account, capability domain.Permission) bool {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	if !access.CanMutateAccount(myInfo, target, capability) {
		h.metrics.AuthorizationDenys.WithLabelValues(capability.String()).Inc()
		h.errorResponse(w, r, "permission denied")
		return false
	}
	return true
}

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllAccounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "users fetched", users)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.Account)
	h.successResponse(w, r, "user fetched", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email *string `json:"email" validate:"omitempty,email"`
		Phone *string `json:"phone" validate:"omitempty,phone"`
		Notes *string `json:"notes" validate:"omitempty,max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user := r.Context().Value(UserInfoCtx).(*domain.Account)
	if !h.mutationAllowed(w, r, user, domain.PermBlockUsers) {
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Notes != nil {
		user.Notes = *req.Notes
	}

	h.saveUser(w, r, user, "user updated")
}

func (h *Handler) UpdateUserBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Balance *int64 `json:"balance" validate:"required,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	user := r.Context().Value(UserInfoCtx).(*domain.Account)
	if err := access.CheckBalanceEdit(myInfo, user); err != nil {
		if errors.Is(err, access.ErrAuthorizationDenied) {
			h.metrics.AuthorizationDenys.WithLabelValues(domain.PermEditFunds.String()).Inc()
			h.errorResponse(w, r, "permission denied")
			return
		}
		h.errorResponse(w, r, accessMessage(err))
		return
	}

	user.Balance = *req.Balance
	h.saveUser(w, r, user, "balance updated")
}

func (h *Handler) ToggleUserBlock(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	user := r.Context().Value(UserInfoCtx).(*domain.Account)

	if user.ID == myInfo.ID {
		h.errorResponse(w, r, "you cannot block your own account")
		return
	}
	if !h.mutationAllowed(w, r, user, domain.PermBlockUsers) {
		return
	}

	user.IsBlocked = !user.IsBlocked
	msg := "user unblocked"
	if user.IsBlocked {
		msg = "user blocked"
	}
	h.saveUser(w, r, user, msg)
}

func (h *Handler) saveUser(w http.ResponseWriter, r *http.Request, user *domain.Account, msg string) {
	if err := h.repository.UpdateAccount(user); err != nil {
		if constraintMsg, ok := accountConstraintMessage(err); ok {
			h.errorResponse(w, r, constraintMsg)
			return
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "the account changed meanwhile, please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, msg, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	user := r.Context().Value(UserInfoCtx).(*domain.Account)

	if user.ID == myInfo.ID {
		h.errorResponse(w, r, "you cannot delete your own account")
		return
	}

	if err := h.repository.DeleteAccount(user.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "user does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "user deleted", nil)
}
