package repository

import (
	"database/sql"
	"errors"

	"github.com/josphatwangui51-hash/survey-market/internal/config"
)

var (
	ErrAccountBlocked       = errors.New("account is blocked")
	ErrAlreadyActivated     = errors.New("account is already activated")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrWithdrawalResolved   = errors.New("withdrawal request has already been resolved")
	ErrDirectiveInactive    = errors.New("directive is not active")
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
