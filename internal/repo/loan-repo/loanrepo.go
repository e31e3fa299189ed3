package loanrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/pg"
)

const loanColumns = `id, lender_id, borrower_id, amount, interest_rate, total_repayment,
		repayment_days, status, purpose, amount_paid, request_date, approval_date, due_date`

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID, &loan.LenderID, &loan.BorrowerID, &loan.Amount,
		&loan.InterestRate, &loan.TotalRepayment, &loan.RepaymentDays,
		&loan.Status, &loan.Purpose, &loan.AmountPaid, &loan.RequestDate,
		&loan.ApprovalDate, &loan.DueDate,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *Repository) Save(ctx context.Context, loan *domain.Loan) error {
	query := `
        INSERT INTO loans (lender_id, borrower_id, amount, interest_rate, total_repayment,
			repayment_days, status, purpose, amount_paid, request_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query,
			loan.LenderID, loan.BorrowerID, loan.Amount, loan.InterestRate,
			loan.TotalRepayment, loan.RepaymentDays, loan.Status, loan.Purpose,
			loan.AmountPaid, loan.RequestDate,
		).Scan(&loan.ID)
		if err != nil {
			zap.L().Error("can't save loan", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE id = $1
    `
	loan, err := scanLoan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

// FindByIDForUpdate locks the loan row for the rest of the surrounding
// transaction. State transitions against the same loan serialize here.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE id = $1
        FOR UPDATE
    `
	loan, err := scanLoan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func (r *Repository) FindByLender(ctx context.Context, lenderID int) ([]domain.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE lender_id = $1
        ORDER BY request_date DESC
    `
	return r.findAll(ctx, query, lenderID)
}

func (r *Repository) FindByBorrower(ctx context.Context, borrowerID int) ([]domain.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE borrower_id = $1
        ORDER BY request_date DESC
    `
	return r.findAll(ctx, query, borrowerID)
}

func (r *Repository) findAll(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			zap.L().Error("can't scan loan row", zap.Error(err))
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, nil
}

func (r *Repository) UpdateApproval(ctx context.Context, loan *domain.Loan) error {
	query := `
        UPDATE loans
        SET status = $1, approval_date = $2, due_date = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(ctx, query, loan.Status, loan.ApprovalDate, loan.DueDate, loan.ID)
	if err != nil {
		zap.L().Error("failed to update loan approval", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, loanID int, status string) error {
	query := `
        UPDATE loans
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, loanID)
	if err != nil {
		zap.L().Error("failed to update loan status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateRepayment(ctx context.Context, loanID int, amountPaid float64, status string) error {
	query := `
        UPDATE loans
        SET amount_paid = $1, status = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, amountPaid, status, loanID)
	if err != nil {
		zap.L().Error("failed to update loan repayment", zap.Error(err))
		return err
	}
	return nil
}
