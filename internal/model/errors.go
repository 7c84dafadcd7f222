package model

import "errors"

var (
	ErrInvalidBet        = errors.New("bet must be positive")
	ErrInsufficientFunds = errors.New("not enough balance")
	ErrSpinInProgress    = errors.New("spin already in progress")

	ErrAnalysisFailure = errors.New("analysis failed")

	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrBonusInactive = errors.New("bonus is not active")
)
