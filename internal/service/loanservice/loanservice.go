package loanservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/pg"
)

type LoanRepo interface {
	Save(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id int) (*domain.Loan, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Loan, error)
	FindByLender(ctx context.Context, lenderID int) ([]domain.Loan, error)
	FindByBorrower(ctx context.Context, borrowerID int) ([]domain.Loan, error)
	UpdateApproval(ctx context.Context, loan *domain.Loan) error
	UpdateStatus(ctx context.Context, loanID int, status string) error
	UpdateRepayment(ctx context.Context, loanID int, amountPaid float64, status string) error
}

type PaymentRepo interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetPaymentsByLoanID(ctx context.Context, loanID int) ([]domain.Payment, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	AddLendingStats(ctx context.Context, userID int, amount float64) error
}

type Wallet interface {
	Debit(ctx context.Context, userID int, amount float64) error
	Credit(ctx context.Context, userID int, amount float64) error
}

const (
	// PendingLoanStatus awaits the lender's decision.
	PendingLoanStatus string = "pending"
	// ApprovedLoanStatus exists in the status column but no transition
	// produces it: approval moves a loan straight to active.
	ApprovedLoanStatus string = "approved"
	// ActiveLoanStatus is disbursed and being repaid.
	ActiveLoanStatus string = "active"
	// CompletedLoanStatus is fully repaid; terminal.
	CompletedLoanStatus string = "completed"
	// DeclinedLoanStatus was rejected by the lender; terminal.
	DeclinedLoanStatus string = "declined"
)

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrLenderNotFound   = errors.New("lender not found")
	ErrInvalidLoanState = errors.New("loan is not in a valid state for this operation")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrAmountOutOfRange = errors.New("amount is outside the lender's loan range")
	ErrEmptyPurpose     = errors.New("purpose is required")
	ErrNotLoanOwner     = errors.New("loan belongs to another lender")
)

type Service struct {
	loanRepo    LoanRepo
	paymentRepo PaymentRepo
	userRepo    UserRepo
	wallet      Wallet
	txManager   pg.TXManager
}

func New(loanRepo LoanRepo, paymentRepo PaymentRepo, userRepo UserRepo, wallet Wallet, txManager pg.TXManager) *Service {
	return &Service{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		wallet:      wallet,
		txManager:   txManager,
	}
}

// CreateLoan opens a pending loan request against a lender. The lender's
// current rate and repayment period are frozen onto the loan together with
// the computed total repayment; later profile edits never change them.
func (s *Service) CreateLoan(ctx context.Context, lenderID, borrowerID int, amount float64, purpose string) (*domain.Loan, error) {
	if purpose == "" {
		return nil, ErrEmptyPurpose
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	lender, err := s.userRepo.FindByID(ctx, lenderID)
	if err != nil {
		zap.L().Error("can't find lender", zap.Error(err))
		return nil, err
	}
	if lender == nil || lender.Role != domain.RoleLender {
		return nil, ErrLenderNotFound
	}
	if amount < lender.MinLoan || amount > lender.MaxLoan {
		return nil, ErrAmountOutOfRange
	}

	loan := &domain.Loan{
		LenderID:       lenderID,
		BorrowerID:     borrowerID,
		Amount:         amount,
		InterestRate:   lender.InterestRate,
		TotalRepayment: amount * (1 + lender.InterestRate/100),
		RepaymentDays:  lender.RepaymentDays,
		Status:         PendingLoanStatus,
		Purpose:        purpose,
		AmountPaid:     0,
		RequestDate:    time.Now(),
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		zap.L().Error("can't save loan: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("loan requested",
		zap.Int("loan_id", loan.ID),
		zap.Int("lender_id", lenderID),
		zap.Float64("amount", amount))
	return loan, nil
}

// Approve moves a pending loan to active and disburses the principal. The
// row lock, the wallet debit and the loan update share one transaction, so
// a loan is never active without the matching debit or vice versa.
func (s *Service) Approve(ctx context.Context, loanID, lenderID int) (*domain.Loan, error) {
	var approved *domain.Loan

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrLoanNotFound
		}
		if loan.LenderID != lenderID {
			return ErrNotLoanOwner
		}
		if loan.Status != PendingLoanStatus {
			return ErrInvalidLoanState
		}

		if err := s.wallet.Debit(ctx, loan.LenderID, loan.Amount); err != nil {
			return err
		}
		if err := s.userRepo.AddLendingStats(ctx, loan.LenderID, loan.Amount); err != nil {
			return err
		}

		now := time.Now()
		dueDate := now.AddDate(0, 0, loan.RepaymentDays)
		loan.Status = ActiveLoanStatus
		loan.ApprovalDate = &now
		loan.DueDate = &dueDate

		if err := s.loanRepo.UpdateApproval(ctx, loan); err != nil {
			return err
		}
		approved = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("loan approved", zap.Int("loan_id", loanID), zap.Int("lender_id", lenderID))
	return approved, nil
}

// Decline rejects a pending loan. Terminal, no balance effects.
func (s *Service) Decline(ctx context.Context, loanID, lenderID int) (*domain.Loan, error) {
	var declined *domain.Loan

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrLoanNotFound
		}
		if loan.LenderID != lenderID {
			return ErrNotLoanOwner
		}
		if loan.Status != PendingLoanStatus {
			return ErrInvalidLoanState
		}

		loan.Status = DeclinedLoanStatus
		if err := s.loanRepo.UpdateStatus(ctx, loan.ID, DeclinedLoanStatus); err != nil {
			return err
		}
		declined = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("loan declined", zap.Int("loan_id", loanID), zap.Int("lender_id", lenderID))
	return declined, nil
}

// Pay records a repayment against an active loan. Overpayment is accepted
// in full. The payment that brings amount paid up to the contracted total
// completes the loan and credits the lender's wallet with the full total
// repayment; the active-status guard under the row lock makes that credit
// fire exactly once.
func (s *Service) Pay(ctx context.Context, loanID int, amount float64) (*domain.Loan, *domain.Payment, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var (
		paid    *domain.Loan
		payment *domain.Payment
	)

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrLoanNotFound
		}
		if loan.Status != ActiveLoanStatus {
			return ErrInvalidLoanState
		}

		payment, err = s.paymentRepo.CreatePayment(ctx, &domain.Payment{
			LoanID: loan.ID,
			Amount: amount,
			PaidAt: time.Now(),
		})
		if err != nil {
			return err
		}

		loan.AmountPaid += amount
		if loan.AmountPaid >= loan.TotalRepayment {
			loan.Status = CompletedLoanStatus
			if err := s.wallet.Credit(ctx, loan.LenderID, loan.TotalRepayment); err != nil {
				return err
			}
		}

		if err := s.loanRepo.UpdateRepayment(ctx, loan.ID, loan.AmountPaid, loan.Status); err != nil {
			return err
		}
		paid = loan
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	zap.L().Info("payment recorded",
		zap.Int("loan_id", loanID),
		zap.Float64("amount", amount),
		zap.String("status", paid.Status))
	return paid, payment, nil
}

// GetLoans lists the user's loans, as lender or borrower, newest first.
func (s *Service) GetLoans(ctx context.Context, userID int) ([]domain.LoanDetails, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var loans []domain.Loan
	if user.Role == domain.RoleLender {
		loans, err = s.loanRepo.FindByLender(ctx, user.ID)
	} else {
		loans, err = s.loanRepo.FindByBorrower(ctx, user.ID)
	}
	if err != nil {
		zap.L().Error("failed to get loans", zap.Error(err))
		return nil, err
	}
	if len(loans) == 0 {
		return nil, nil
	}

	details := make([]domain.LoanDetails, len(loans))
	g, gctx := errgroup.WithContext(ctx)
	for i, loan := range loans {
		i, loan := i, loan
		g.Go(func() error {
			d, err := s.enrich(gctx, &loan)
			if err != nil {
				return err
			}
			details[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("failed to enrich loans", zap.Error(err))
		return nil, err
	}
	return details, nil
}

func (s *Service) GetLoan(ctx context.Context, loanID int) (*domain.LoanDetails, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		zap.L().Error("failed to get loan", zap.Error(err))
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return s.enrich(ctx, loan)
}

// enrich fetches the party names and the payment history in parallel.
func (s *Service) enrich(ctx context.Context, loan *domain.Loan) (*domain.LoanDetails, error) {
	details := &domain.LoanDetails{Loan: *loan}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lender, err := s.userRepo.FindByID(gctx, loan.LenderID)
		if err != nil {
			return err
		}
		details.LenderName = partyName(lender)
		return nil
	})
	g.Go(func() error {
		borrower, err := s.userRepo.FindByID(gctx, loan.BorrowerID)
		if err != nil {
			return err
		}
		details.BorrowerName = partyName(borrower)
		return nil
	})
	g.Go(func() error {
		payments, err := s.paymentRepo.GetPaymentsByLoanID(gctx, loan.ID)
		if err != nil {
			return err
		}
		details.Payments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func partyName(user *domain.User) string {
	if user == nil {
		return "Unknown"
	}
	return user.Name
}
