// Package reward turns survey accuracy and withdrawal amounts into KES values.
//
// All functions are pure. Arithmetic is done on exact decimals and rounded
// half-up so that values such as 2010 * 0.15 = 301.5 round to 302.
package reward

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument     = errors.New("reward: invalid argument")
	ErrBelowMinimum        = errors.New("reward: amount below minimum withdrawal")
	ErrInsufficientBalance = errors.New("reward: insufficient balance")
)

const (
	baseReward  = 10
	bonusReward = 40
)

type Rates struct {
	RewardDeduction     float64
	WithdrawalDeduction float64
}

type Engine struct {
	rewardDeduction     decimal.Decimal
	withdrawalDeduction decimal.Decimal
}

// Default uses the platform rates: 20% off survey rewards, 15% off withdrawals.
var Default = MustNew(Rates{RewardDeduction: 0.20, WithdrawalDeduction: 0.15})

func New(rates Rates) (*Engine, error) {
	if !validRate(rates.RewardDeduction) {
		return nil, fmt.Errorf("%w: reward deduction rate %v", ErrInvalidArgument, rates.RewardDeduction)
	}
	if !validRate(rates.WithdrawalDeduction) {
		return nil, fmt.Errorf("%w: withdrawal deduction rate %v", ErrInvalidArgument, rates.WithdrawalDeduction)
	}

	return &Engine{
		rewardDeduction:     decimal.NewFromFloat(rates.RewardDeduction),
		withdrawalDeduction: decimal.NewFromFloat(rates.WithdrawalDeduction),
	}, nil
}

func MustNew(rates Rates) *Engine {
	e, err := New(rates)
	if err != nil {
		panic(err)
	}
	return e
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}

func (e *Engine) Rates() Rates {
	return Rates{
		RewardDeduction:     e.rewardDeduction.InexactFloat64(),
		WithdrawalDeduction: e.withdrawalDeduction.InexactFloat64(),
	}
}

// SurveyReward is the outcome of a finished survey.
type SurveyReward struct {
	Gross int64 `json:"gross"`
	Net   int64 `json:"net"`
}

// Fee is the platform deduction taken from gross.
func (r SurveyReward) Fee() int64 {
	return r.Gross - r.Net
}

// ComputeSurveyReward returns gross = round(10 + 40*accuracy) and
// net = round(gross * (1 - rewardDeduction)).
func (e *Engine) ComputeSurveyReward(accuracy float64) (SurveyReward, error) {
	if math.IsNaN(accuracy) || accuracy < 0 || accuracy > 1 {
		return SurveyReward{}, fmt.Errorf("%w: accuracy %v outside [0,1]", ErrInvalidArgument, accuracy)
	}

	gross := decimal.NewFromFloat(accuracy).
		Mul(decimal.NewFromInt(bonusReward)).
		Add(decimal.NewFromInt(baseReward))
	grossUnits := roundHalfUp(gross)

	net := decimal.NewFromInt(grossUnits).Mul(decimal.NewFromInt(1).Sub(e.rewardDeduction))

	return SurveyReward{Gross: grossUnits, Net: roundHalfUp(net)}, nil
}

type Disbursement struct {
	Amount       int64 `json:"amount"`
	Deduction    int64 `json:"deduction"`
	Disbursement int64 `json:"disbursement"`
}

// ComputeWithdrawalDisbursement splits amount into the withdrawal deduction and
// what is paid out. It does not check minimums or balances; see CheckWithdrawal.
func (e *Engine) ComputeWithdrawalDisbursement(amount int64) (Disbursement, error) {
	if amount < 0 {
		return Disbursement{}, fmt.Errorf("%w: negative amount %d", ErrInvalidArgument, amount)
	}

	deduction := roundHalfUp(decimal.NewFromInt(amount).Mul(e.withdrawalDeduction))

	return Disbursement{
		Amount:       amount,
		Deduction:    deduction,
		Disbursement: amount - deduction,
	}, nil
}

// CheckWithdrawal enforces the caller-side rules that ComputeWithdrawalDisbursement
// leaves out.
func CheckWithdrawal(balance, amount, minimum int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidArgument, amount)
	}
	if amount < minimum {
		return ErrBelowMinimum
	}
	if amount > balance {
		return ErrInsufficientBalance
	}
	return nil
}

// Values handled here are never negative, so half-up and half-away-from-zero agree.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
