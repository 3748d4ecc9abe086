package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josphatwangui51-hash/survey-market/internal/access"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetStaffAccounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff fetched", staff)
}

func (h *Handler) TogglePermission(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	user := r.Context().Value(UserInfoCtx).(*domain.Account)

	permission, err := domain.ParsePermission(chi.URLParam(r, "permission"))
	if err != nil {
		h.errorResponse(w, r, "unknown permission")
		return
	}

	if err := access.CheckPermissionGrant(myInfo, user, permission); err != nil {
		h.errorResponse(w, r, accessMessage(err))
		return
	}

	user.Permissions = user.Permissions.Toggle(permission)
	h.saveUser(w, r, user, "permissions updated")
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	user := r.Context().Value(UserInfoCtx).(*domain.Account)

	var req struct {
		Role string `json:"role" validate:"required,oneof=user admin senior_admin finance_admin super_admin"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	superAdminExists, err := h.repository.SuperAdminExists()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	newRole := domain.Role(req.Role)
	if err := access.CheckRoleChange(myInfo, user, newRole, superAdminExists); err != nil {
		h.errorResponse(w, r, accessMessage(err))
		return
	}

	updated := access.ApplyRoleChange(*user, newRole)
	h.saveUser(w, r, &updated, "role updated")
}
