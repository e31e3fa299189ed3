package paymentrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// CreatePayment appends a payment record. Payments are never updated or
// deleted once written.
func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
		INSERT INTO payments (loan_id, amount, paid_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, payment.LoanID, payment.Amount, payment.PaidAt).Scan(&payment.ID)
	if err != nil {
		zap.L().Error("can't save payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) GetPaymentsByLoanID(ctx context.Context, loanID int) ([]domain.Payment, error) {
	query := `
        SELECT id, loan_id, amount, paid_at
        FROM payments
        WHERE loan_id = $1
        ORDER BY paid_at DESC
    `
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		zap.L().Error("failed to fetch payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.PaidAt)
		if err != nil {
			zap.L().Error("failed to scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, nil
}
