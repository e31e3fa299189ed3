package paymentrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/lendlink/lendlink/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_CreatePayment(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	query := regexp.QuoteMeta(`
		INSERT INTO payments (loan_id, amount, paid_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`)

	tests := []struct {
		name      string
		payment   *domain.Payment
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates payment",
			payment: &domain.Payment{
				LoanID: 1,
				Amount: 350.0,
				PaidAt: now,
			},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, 350.0, now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			payment: &domain.Payment{
				LoanID: 1,
				Amount: 350.0,
				PaidAt: now,
			},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, 350.0, now).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.CreatePayment(context.Background(), tt.payment)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, 1, result.ID)
			}
		})
	}
}

func TestRepository_GetPaymentsByLoanID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	query := regexp.QuoteMeta(`
        SELECT id, loan_id, amount, paid_at
        FROM payments
        WHERE loan_id = $1
        ORDER BY paid_at DESC
    `)

	tests := []struct {
		name      string
		loanID    int
		mockSetup func()
		expectErr bool
		result    []domain.Payment
	}{
		{
			name:   "Returns payments",
			loanID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(pgxmock.NewRows([]string{"id", "loan_id", "amount", "paid_at"}).
						AddRow(2, 1, 550.0, now).
						AddRow(1, 1, 500.0, now.Add(-time.Hour)))
			},
			expectErr: false,
			result: []domain.Payment{
				{ID: 2, LoanID: 1, Amount: 550.0, PaidAt: now},
				{ID: 1, LoanID: 1, Amount: 500.0, PaidAt: now.Add(-time.Hour)},
			},
		},
		{
			name:   "No payments",
			loanID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnRows(pgxmock.NewRows([]string{"id", "loan_id", "amount", "paid_at"}))
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Database error",
			loanID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetPaymentsByLoanID(context.Background(), tt.loanID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}
