package lenderservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lendlink/lendlink/internal/domain"
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindLenders(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error)
}

var (
	ErrLenderNotFound = errors.New("lender not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidProfile = errors.New("invalid profile value")
)

type UpdateProfileParams struct {
	Name          *string
	Email         *string
	Phone         *string
	InterestRate  *float64
	MinLoan       *float64
	MaxLoan       *float64
	RepaymentDays *int
	Description   *string
}

type Service struct {
	userRepo UserRepo
}

func New(userRepo UserRepo) *Service {
	return &Service{
		userRepo: userRepo,
	}
}

func (s *Service) GetLenders(ctx context.Context) ([]domain.User, error) {
	lenders, err := s.userRepo.FindLenders(ctx)
	if err != nil {
		zap.L().Error("failed to get lenders", zap.Error(err))
		return nil, err
	}
	return lenders, nil
}

func (s *Service) GetLender(ctx context.Context, lenderID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, lenderID)
	if err != nil {
		zap.L().Error("failed to get lender", zap.Error(err))
		return nil, err
	}
	if user == nil || user.Role != domain.RoleLender {
		return nil, ErrLenderNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields onto the stored profile. Lender
// terms changed here affect future loan requests only: every existing loan
// keeps the rate and period snapshotted at its creation. The wallet balance
// is not reachable from this path.
func (s *Service) UpdateProfile(ctx context.Context, userID int, params UpdateProfileParams) (*domain.User, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get user for update", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.InterestRate != nil {
		user.InterestRate = *params.InterestRate
	}
	if params.MinLoan != nil {
		user.MinLoan = *params.MinLoan
	}
	if params.MaxLoan != nil {
		user.MaxLoan = *params.MaxLoan
	}
	if params.RepaymentDays != nil {
		user.RepaymentDays = *params.RepaymentDays
	}
	if params.Description != nil {
		user.Description = *params.Description
	}

	updated, err := s.userRepo.UpdateProfile(ctx, user)
	if err != nil {
		zap.L().Error("failed to update profile", zap.Error(err))
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	zap.L().Info("profile updated", zap.Int("user_id", userID))
	return updated, nil
}

func validateParams(params UpdateProfileParams) error {
	if params.Name != nil && *params.Name == "" {
		return ErrInvalidProfile
	}
	if params.InterestRate != nil && (*params.InterestRate < 0.1 || *params.InterestRate > 50) {
		return ErrInvalidProfile
	}
	if params.MinLoan != nil && *params.MinLoan <= 0 {
		return ErrInvalidProfile
	}
	if params.MaxLoan != nil && *params.MaxLoan <= 0 {
		return ErrInvalidProfile
	}
	if params.RepaymentDays != nil && *params.RepaymentDays <= 0 {
		return ErrInvalidProfile
	}
	return nil
}
