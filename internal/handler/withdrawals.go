package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

type withdrawalQuote struct {
	reward.Disbursement
	Minimum  int64  `json:"minimum"`
	Balance  int64  `json:"balance"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

func (h *Handler) withdrawalMessage(err error) string {
	switch {
	case errors.Is(err, reward.ErrBelowMinimum):
		return "minimum withdrawal is " + utils.FormatKES(h.config.Reward.MinimumWithdrawal)
	case errors.Is(err, reward.ErrInsufficientBalance), errors.Is(err, repository.ErrInsufficientBalance):
		return "insufficient balance"
	case errors.Is(err, reward.ErrInvalidArgument):
		return "invalid amount"
	}
	return err.Error()
}

// QuoteWithdrawal previews the deduction and payout without touching the balance.
func (h *Handler) QuoteWithdrawal(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Amount int64 `json:"amount" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	d, err := h.engine.ComputeWithdrawalDisbursement(req.Amount)
	if err != nil {
		h.errorResponse(w, r, h.withdrawalMessage(err))
		return
	}

	quote := withdrawalQuote{
		Disbursement: d,
		Minimum:      h.config.Reward.MinimumWithdrawal,
		Balance:      myInfo.Balance,
		Eligible:     true,
	}
	if err := reward.CheckWithdrawal(myInfo.Balance, req.Amount, h.config.Reward.MinimumWithdrawal); err != nil {
		quote.Eligible = false
		quote.Reason = h.withdrawalMessage(err)
	}

	h.successResponse(w, r, "withdrawal quote", quote)
}

func (h *Handler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Amount int64 `json:"amount" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := reward.CheckWithdrawal(myInfo.Balance, req.Amount, h.config.Reward.MinimumWithdrawal); err != nil {
		h.errorResponse(w, r, h.withdrawalMessage(err))
		return
	}

	d, err := h.engine.ComputeWithdrawalDisbursement(req.Amount)
	if err != nil {
		h.errorResponse(w, r, h.withdrawalMessage(err))
		return
	}

	wr := &domain.WithdrawalRequest{
		AccountID:    myInfo.ID,
		Amount:       d.Amount,
		Deduction:    d.Deduction,
		Disbursement: d.Disbursement,
	}
	if err := h.repository.CreateWithdrawal(wr); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			h.errorResponse(w, r, h.withdrawalMessage(err))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.metrics.WithdrawalsTotal.WithLabelValues(string(domain.WithdrawalPending)).Inc()
	h.metrics.WithdrawalsAmount.WithLabelValues(string(domain.WithdrawalPending)).Add(float64(wr.Amount))

	h.successResponse(w, r, "withdrawal requested", wr)
}

func (h *Handler) GetMyWithdrawals(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	withdrawals, err := h.repository.GetWithdrawalsByAccount(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "withdrawals fetched", withdrawals)
}

func (h *Handler) GetAllWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		h.errorResponse(w, r, "invalid status")
		return
	}

	withdrawals, err := h.repository.GetAllWithdrawals(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "withdrawals fetched", withdrawals)
}

func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.resolveWithdrawal(w, r, domain.WithdrawalApproved)
}

func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.resolveWithdrawal(w, r, domain.WithdrawalRejected)
}

func (h *Handler) resolveWithdrawal(w http.ResponseWriter, r *http.Request, status domain.WithdrawalStatus) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	wr := r.Context().Value(WithdrawalCtx).(*domain.WithdrawalRequest)

	if wr.Status != domain.WithdrawalPending {
		h.errorResponse(w, r, "withdrawal request has already been resolved")
		return
	}

	resolved, err := h.repository.ResolveWithdrawal(wr.ID, myInfo.ID, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalResolved):
			h.errorResponse(w, r, "withdrawal request has already been resolved")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.metrics.WithdrawalsTotal.WithLabelValues(string(status)).Inc()
	h.metrics.WithdrawalsAmount.WithLabelValues(string(status)).Add(float64(resolved.Amount))

	owner, err := h.repository.GetAccountByID(resolved.AccountID)
	if err != nil {
		slog.Error("failed to load withdrawal owner", "withdrawalID", resolved.ID, "error", err)
	} else if err := h.publishMail(domain.MailMessage{
		Type: domain.MailWithdrawalResolved,
		To:   owner.Email,
		Data: domain.WithdrawalResolvedMailData{
			Username:     owner.Username,
			Amount:       resolved.Amount,
			Disbursement: resolved.Disbursement,
			Status:       resolved.Status,
		},
	}); err != nil {
		slog.Error("failed to queue withdrawal mail", "withdrawalID", resolved.ID, "error", err)
	}

	h.successResponse(w, r, "withdrawal "+string(status), resolved)
}
