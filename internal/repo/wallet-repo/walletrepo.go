package walletrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

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

func (r *Repository) GetBalance(ctx context.Context, userID int) (float64, error) {
	query := `
        SELECT wallet_balance
        FROM users
        WHERE id = $1
    `
	var balance float64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, pgx.ErrNoRows
		}
		zap.L().Error("can't get wallet balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// Debit subtracts amount from the wallet in a single guarded statement.
// It reports false when the balance does not cover the amount, leaving the
// row untouched. The guard keeps the balance non-negative under concurrent
// debits without a prior read.
func (r *Repository) Debit(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance - $1
		WHERE id = $2 AND wallet_balance >= $1
	`
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't debit wallet", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Credit(ctx context.Context, userID int, amount float64) error {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $1
		WHERE id = $2
	`
	if _, err := r.db.Exec(ctx, query, amount, userID); err != nil {
		zap.L().Error("can't credit wallet", zap.Error(err))
		return err
	}
	return nil
}
