package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
	"github.com/josphatwangui51-hash/survey-market/internal/survey"
)

type surveySummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	QuestionCount int    `json:"questionCount"`
	// Locked is set when a premium tier's question cap excludes the survey.
	Locked bool `json:"locked"`
}

func (h *Handler) GetAvailableSurveys(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	available := h.catalog.Available(myInfo.CompletedSurveys)
	summaries := make([]surveySummary, 0, len(available))
	for _, s := range available {
		summaries = append(summaries, surveySummary{
			ID:            s.ID,
			Title:         s.Title,
			Category:      s.Category,
			QuestionCount: len(s.Questions),
			Locked:        myInfo.IsPremium && !reward.AllowsQuestionCount(myInfo.PremiumTier, len(s.Questions)),
		})
	}

	h.successResponse(w, r, "surveys fetched", map[string]any{
		"surveys":        summaries,
		"dailyLimit":     h.config.Reward.DailySurveyLimit,
		"remainingToday": survey.RemainingToday(myInfo, h.config.Reward.DailySurveyLimit),
	})
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SurveyCtx).(*domain.Survey)
	h.successResponse(w, r, "survey fetched", s)
}

func eligibilityMessage(err error) string {
	switch {
	case errors.Is(err, survey.ErrBlocked):
		return "your account has been suspended"
	case errors.Is(err, survey.ErrNotActivated):
		return "activate your account first"
	case errors.Is(err, survey.ErrAlreadyCompleted):
		return "you have already completed this survey"
	case errors.Is(err, survey.ErrDailyLimitReached):
		return "daily survey limit reached, upgrade to premium for unlimited access"
	case errors.Is(err, survey.ErrTierCapExceeded):
		return "your premium tier does not cover a survey this long"
	}
	return err.Error()
}

func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)
	s := r.Context().Value(SurveyCtx).(*domain.Survey)

	var req struct {
		Answers map[string]string `json:"answers" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := survey.CheckEligibility(myInfo, s, h.config.Reward.DailySurveyLimit); err != nil {
		h.errorResponse(w, r, eligibilityMessage(err))
		return
	}

	result, err := survey.Score(s, req.Answers)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	sr, err := h.engine.ComputeSurveyReward(result.Accuracy)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	result.Gross = sr.Gross
	result.Net = sr.Net
	result.Tier = myInfo.PremiumTier

	// reserve today's slot before crediting; the count read by myInfo may be stale
	dailyCount, err := h.incrementDailyCount(r.Context(), myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !myInfo.IsPremium && dailyCount > h.config.Reward.DailySurveyLimit {
		h.releaseSlot(r, myInfo.ID)
		h.errorResponse(w, r, eligibilityMessage(survey.ErrDailyLimitReached))
		return
	}

	balance, err := h.repository.CreditSurveyReward(myInfo.ID, s.ID, result.Accuracy, result.Net)
	if err != nil {
		h.releaseSlot(r, myInfo.ID)

		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "survey_completions_account_survey_key":
			h.errorResponse(w, r, eligibilityMessage(survey.ErrAlreadyCompleted))
		case errors.Is(err, repository.ErrAccountBlocked):
			h.errorResponse(w, r, eligibilityMessage(survey.ErrBlocked))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.metrics.SurveysCompleted.WithLabelValues(s.ID).Inc()
	h.metrics.RewardsCredited.Add(float64(result.Net))

	h.successResponse(w, r, "survey completed", map[string]any{
		"result":     result,
		"balance":    balance,
		"dailyCount": dailyCount,
	})
}

func (h *Handler) releaseSlot(r *http.Request, accountID int64) {
	if err := h.releaseDailyCount(r.Context(), accountID); err != nil {
		slog.Error("failed to release daily survey slot", "accountID", accountID, "error", err)
	}
}
