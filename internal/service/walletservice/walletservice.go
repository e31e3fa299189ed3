package walletservice

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type WalletRepo interface {
	GetBalance(ctx context.Context, userID int) (float64, error)
	Debit(ctx context.Context, userID int, amount float64) (bool, error)
	Credit(ctx context.Context, userID int, amount float64) error
}

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Service is the wallet ledger: the lender wallet is debited by the loan
// principal at approval and credited with the contracted total at
// completion. Both calls run inside the transaction of the loan transition
// that triggered them, so a loan never changes state without the matching
// balance change.
type Service struct {
	walletRepo WalletRepo
}

func New(walletRepo WalletRepo) *Service {
	return &Service{
		walletRepo: walletRepo,
	}
}

func (s *Service) GetBalance(ctx context.Context, userID int) (float64, error) {
	balance, err := s.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (s *Service) Debit(ctx context.Context, userID int, amount float64) error {
	ok, err := s.walletRepo.Debit(ctx, userID, amount)
	if err != nil {
		zap.L().Error("failed to debit wallet", zap.Error(err))
		return err
	}
	if !ok {
		return ErrInsufficientBalance
	}
	return nil
}

func (s *Service) Credit(ctx context.Context, userID int, amount float64) error {
	if err := s.walletRepo.Credit(ctx, userID, amount); err != nil {
		zap.L().Error("failed to credit wallet", zap.Error(err))
		return err
	}
	return nil
}
