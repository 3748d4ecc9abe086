package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/josphatwangui51-hash/survey-market/internal/config"
	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/repository"
	"github.com/josphatwangui51-hash/survey-market/internal/reward"
	"github.com/josphatwangui51-hash/survey-market/internal/seed"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

func main() {
	var (
		op   int
		n    int
		file string
	)

	pflag.IntVarP(&op, "op", "o", 0, "operation (1: insert random accounts, 2: insert pending withdrawals, 3: import accounts from CSV)")
	pflag.IntVar(&n, "n", 5, "number of records to insert")
	pflag.StringVarP(&file, "file", "f", "./internal/seed/data/accounts.csv", "CSV file for the import operation")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("the number of accounts must be positive")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			account, err := utils.GenerateRandomAccount(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate account", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateAccount(account); err != nil {
				slog.Error("failed to insert account", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("accounts inserted", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("the number of withdrawals must be positive")
			return
		}
		insertWithdrawals(cfg, repo, n)
	case 3:
		importAccounts(cfg, repo, file)
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}

// insertWithdrawals files a minimum withdrawal for up to n eligible users.
func insertWithdrawals(cfg *config.Config, repo *repository.Repository, n int) {
	engine, err := reward.New(reward.Rates{
		RewardDeduction:     cfg.Reward.RewardDeductionRate,
		WithdrawalDeduction: cfg.Reward.WithdrawalDeductionRate,
	})
	if err != nil {
		slog.Error("invalid reward configuration", slog.String("error", err.Error()))
		return
	}

	accounts, err := repo.GetAllAccounts()
	if err != nil {
		slog.Error("failed to list accounts", slog.String("error", err.Error()))
		return
	}

	amount := cfg.Reward.MinimumWithdrawal
	cnt := 0
	for _, a := range accounts {
		if cnt == n {
			break
		}
		if a.Role != domain.RoleUser || a.IsBlocked || !a.IsActivated() {
			continue
		}
		if reward.CheckWithdrawal(a.Balance, amount, cfg.Reward.MinimumWithdrawal) != nil {
			continue
		}

		d, err := engine.ComputeWithdrawalDisbursement(amount)
		if err != nil {
			slog.Error("failed to compute disbursement", slog.String("error", err.Error()))
			return
		}

		wr := &domain.WithdrawalRequest{
			AccountID:    a.ID,
			Amount:       d.Amount,
			Deduction:    d.Deduction,
			Disbursement: d.Disbursement,
		}
		if err := repo.CreateWithdrawal(wr); err != nil {
			slog.Error("failed to insert withdrawal", slog.String("username", a.Username), slog.String("error", err.Error()))
			continue
		}

		cnt++
	}

	slog.Info("withdrawals inserted", slog.Int("count", cnt))
}

func importAccounts(cfg *config.Config, repo *repository.Repository, file string) {
	f, err := os.Open(file)
	if err != nil {
		slog.Error("failed to open file", slog.String("file", file), slog.String("error", err.Error()))
		return
	}
	defer f.Close()

	records, err := seed.ParseAccounts(f)
	if err != nil {
		slog.Error("failed to parse file", slog.String("error", err.Error()))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", slog.String("error", err.Error()))
		return
	}

	created := seed.ImportAccounts(repo, records, string(passwordHash))
	slog.Info("import finished", slog.Int("created", created), slog.Int("rows", len(records)))
}
