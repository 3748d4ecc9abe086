package handler

import (
	"net/http"

	"github.com/josphatwangui51-hash/survey-market/internal/access"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/finance"
)

type analyticsResponse struct {
	finance.Metrics
	PendingWithdrawals      int   `json:"pendingWithdrawals"`
	PendingWithdrawalAmount int64 `json:"pendingWithdrawalAmount"`
	RevenueVisible          bool  `json:"revenueVisible"`
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	accounts, err := h.repository.GetAllAccounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	pending, err := h.repository.GetAllWithdrawals(domain.WithdrawalPending)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp := analyticsResponse{
		Metrics:            finance.Summarize(accounts, h.config.Reward.RegistrationFee),
		PendingWithdrawals: len(pending),
		RevenueVisible:     access.HasCapability(myInfo, domain.PermViewRevenue),
	}
	for _, wr := range pending {
		resp.PendingWithdrawalAmount += wr.Amount
	}
	if !resp.RevenueVisible {
		resp.Metrics = resp.Metrics.Redacted()
	}

	h.successResponse(w, r, "analytics fetched", resp)
}
