package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

const tokenCookieName = "__survey_market_token"

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone" validate:"required,phone"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	account := &domain.Account{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		PremiumTier:  domain.TierNone,
	}

	if err := h.repository.CreateAccount(account); err != nil {
		if msg, ok := accountConstraintMessage(err); ok {
			h.errorResponse(w, r, msg)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailAccountCreated,
		To:   account.Email,
		Data: domain.AccountCreatedMailData{
			Username:        account.Username,
			Role:            account.Role,
			RegistrationFee: h.config.Reward.RegistrationFee,
		},
	}); err != nil {
		// the account exists already; a missing welcome mail is not fatal
		slog.Error("failed to queue welcome mail", "username", account.Username, "error", err)
	}

	if err := h.setTokenCookie(w, account); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "registration successful", account)
}

// accountConstraintMessage maps unique violations on accounts to a user message.
func accountConstraintMessage(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.ConstraintName {
	case "accounts_username_key":
		return "username is already taken", true
	case "accounts_email_key":
		return "email is already registered", true
	case "accounts_phone_key":
		return "phone number is already registered", true
	case "accounts_super_admin_key":
		return "a super admin already exists", true
	case "accounts_balance_check":
		return "balance cannot be negative", true
	}
	return "", false
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account, err := h.repository.GetAccountByIdentifier(req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setTokenCookie(w, account); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// blocked accounts may log in; the client shows the suspension notice
	h.successResponse(w, r, "login successful", account)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, account *domain.Account) error {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiration),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
		Subject:   strconv.FormatInt(account.ID, 10),
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "logout successful", nil)
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account, err := h.repository.GetAccountByIdentifier(req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// answer the same way so the endpoint cannot be used to probe accounts
			h.successResponse(w, r, "a verification code has been sent to your email", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	otp := utils.GenerateRandomOTP()

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Set(ctx, otpKey(account.Username), otp, time.Duration(h.config.OTP.Expiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailResetPassword,
		To:   account.Email,
		Data: domain.ResetPasswordMailData{
			Username:   account.Username,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60, // minutes in the mail, seconds in config
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "a verification code has been sent to your email", nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier" validate:"required"`
		OTP        string `json:"otp" validate:"required,len=6,numeric"`
		Password   string `json:"password" validate:"required,min=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	account, err := h.repository.GetAccountByIdentifier(req.Identifier)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "invalid verification code")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	otp, err := h.redisClient.Get(ctx, otpKey(account.Username)).Result()
	if err != nil || otp != req.OTP {
		h.errorResponse(w, r, "invalid verification code")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	account.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateAccount(account); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.redisClient.Del(ctx, otpKey(account.Username)).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "password reset successful", nil)
}
