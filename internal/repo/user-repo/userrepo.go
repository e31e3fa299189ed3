package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/pg"
)

const userColumns = `id, username, password_hash, name, email, phone, role, avatar_color,
		wallet_balance, interest_rate, min_loan, max_loan, repayment_days, description,
		verified, response_time, total_loans_given, total_amount_lent, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Email,
		&user.Phone, &user.Role, &user.AvatarColor, &user.WalletBalance,
		&user.InterestRate, &user.MinLoan, &user.MaxLoan, &user.RepaymentDays,
		&user.Description, &user.Verified, &user.ResponseTime,
		&user.TotalLoansGiven, &user.TotalAmountLent, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = $1
    `
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by username", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password_hash, name, email, phone, role, avatar_color,
			wallet_balance, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, interest_rate, min_loan, max_loan, repayment_days, verified,
			response_time, total_loans_given, total_amount_lent, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Name, user.Email, user.Phone,
		user.Role, user.AvatarColor, user.WalletBalance, user.Description,
	).Scan(
		&user.ID, &user.InterestRate, &user.MinLoan, &user.MaxLoan,
		&user.RepaymentDays, &user.Verified, &user.ResponseTime,
		&user.TotalLoansGiven, &user.TotalAmountLent, &user.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindLenders(ctx context.Context) ([]domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE role = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, domain.RoleLender)
	if err != nil {
		zap.L().Error("can't get lenders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lenders []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan lender row", zap.Error(err))
			return nil, err
		}
		lenders = append(lenders, *user)
	}
	return lenders, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, interest_rate = $4, min_loan = $5,
			max_loan = $6, repayment_days = $7, description = $8
		WHERE id = $9
		RETURNING ` + userColumns + `
	`
	updated, err := scanUser(r.db.QueryRow(ctx, query,
		user.Name, user.Email, user.Phone, user.InterestRate, user.MinLoan,
		user.MaxLoan, user.RepaymentDays, user.Description, user.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't update user profile", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (r *Repository) AddLendingStats(ctx context.Context, userID int, amount float64) error {
	query := `
		UPDATE users
		SET total_loans_given = total_loans_given + 1, total_amount_lent = total_amount_lent + $1
		WHERE id = $2
	`
	if _, err := r.db.Exec(ctx, query, amount, userID); err != nil {
		zap.L().Error("can't update lending stats", zap.Error(err))
		return err
	}
	return nil
}
