package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	h.successResponse(w, r, "account fetched", myInfo)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(myInfo.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.errorResponse(w, r, "current password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myInfo.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateAccount(myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "failed to update password, please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "password updated", nil)
}

// ActivateMyAccount accepts the pasted M-Pesa confirmation for the registration fee.
func (h *Handler) ActivateMyAccount(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Message string `json:"message" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if myInfo.IsActivated() {
		h.errorResponse(w, r, "account is already activated")
		return
	}

	code, err := utils.ExtractPaymentCode(req.Message)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.ActivateAccount(myInfo.ID, code); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "payment_codes_pkey":
			h.errorResponse(w, r, "this payment code has already been used")
		case errors.Is(err, repository.ErrAlreadyActivated):
			h.errorResponse(w, r, "account is already activated")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	myInfo.ActivationCode = code
	h.successResponse(w, r, "account activated", myInfo)
}

func (h *Handler) UpgradeMyPremium(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Tier    string `json:"tier" validate:"required,oneof=basic standard elite"`
		Message string `json:"message" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tier := domain.PremiumTier(req.Tier)
	if myInfo.IsPremium && myInfo.PremiumTier == tier {
		h.errorResponse(w, r, "you are already on this plan")
		return
	}

	code, err := utils.ExtractPaymentCode(req.Message)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpgradePremium(myInfo.ID, tier, code); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "payment_codes_pkey":
			h.errorResponse(w, r, "this payment code has already been used")
		case errors.Is(err, repository.ErrAccountBlocked):
			h.errorResponse(w, r, "your account has been suspended")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	t, _ := reward.LookupTier(tier)
	myInfo.IsPremium = true
	myInfo.PremiumTier = tier
	myInfo.PremiumCode = code
	h.successResponse(w, r, "upgraded to "+t.Label, myInfo)
}
