package lenderservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/lendlink/lendlink/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockUserRepo(ctrl)
	service := New(userRepo)
	defer ctrl.Finish()
	return service, userRepo
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func TestGetLenders(t *testing.T) {
	service, userRepo := NewMock(t)

	lenders := []domain.User{
		{ID: 1, Username: "alice", Role: domain.RoleLender},
		{ID: 3, Username: "carol", Role: domain.RoleLender},
	}

	tests := []struct {
		name          string
		prepareMock   func()
		expected      []domain.User
		expectedError error
	}{
		{
			name: "Returns lenders",
			prepareMock: func() {
				userRepo.EXPECT().FindLenders(gomock.Any()).Return(lenders, nil)
			},
			expected:      lenders,
			expectedError: nil,
		},
		{
			name: "Error retrieving lenders",
			prepareMock: func() {
				userRepo.EXPECT().FindLenders(gomock.Any()).Return(nil, errors.New("db error"))
			},
			expected:      nil,
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.GetLenders(context.Background())
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetLender(t *testing.T) {
	service, userRepo := NewMock(t)

	tests := []struct {
		name          string
		lenderID      int
		prepareMock   func()
		expected      *domain.User
		expectedError error
	}{
		{
			name:     "Returns lender",
			lenderID: 1,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.User{ID: 1, Role: domain.RoleLender}, nil)
			},
			expected:      &domain.User{ID: 1, Role: domain.RoleLender},
			expectedError: nil,
		},
		{
			name:     "Unknown id",
			lenderID: 99,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 99).Return(nil, nil)
			},
			expected:      nil,
			expectedError: ErrLenderNotFound,
		},
		{
			name:     "Borrower id is not a lender",
			lenderID: 2,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 2).Return(&domain.User{ID: 2, Role: domain.RoleBorrower}, nil)
			},
			expected:      nil,
			expectedError: ErrLenderNotFound,
		},
		{
			name:     "Error retrieving lender",
			lenderID: 1,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expected:      nil,
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.GetLender(context.Background(), tt.lenderID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	service, userRepo := NewMock(t)

	stored := func() *domain.User {
		return &domain.User{
			ID:            1,
			Username:      "alice",
			Name:          "Alice Carter",
			Email:         "alice@example.com",
			Role:          domain.RoleLender,
			WalletBalance: 10000.0,
			InterestRate:  5.0,
			MinLoan:       100.0,
			MaxLoan:       5000.0,
			RepaymentDays: 30,
		}
	}

	tests := []struct {
		name          string
		userID        int
		params        UpdateProfileParams
		prepareMock   func()
		check         func(t *testing.T, user *domain.User)
		expectedError error
	}{
		{
			name:   "Applies non-nil fields only",
			userID: 1,
			params: UpdateProfileParams{
				InterestRate:  floatPtr(7.5),
				RepaymentDays: intPtr(60),
			},
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(stored(), nil)
				userRepo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
					return user, nil
				})
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, 7.5, user.InterestRate)
				assert.Equal(t, 60, user.RepaymentDays)
				assert.Equal(t, "Alice Carter", user.Name)
				assert.Equal(t, 100.0, user.MinLoan)
				assert.Equal(t, 10000.0, user.WalletBalance)
			},
			expectedError: nil,
		},
		{
			name:   "Empty name rejected",
			userID: 1,
			params: UpdateProfileParams{
				Name: strPtr(""),
			},
			expectedError: ErrInvalidProfile,
		},
		{
			name:   "Interest rate above cap rejected",
			userID: 1,
			params: UpdateProfileParams{
				InterestRate: floatPtr(51.0),
			},
			expectedError: ErrInvalidProfile,
		},
		{
			name:   "Interest rate below floor rejected",
			userID: 1,
			params: UpdateProfileParams{
				InterestRate: floatPtr(0.05),
			},
			expectedError: ErrInvalidProfile,
		},
		{
			name:   "Non-positive min loan rejected",
			userID: 1,
			params: UpdateProfileParams{
				MinLoan: floatPtr(0),
			},
			expectedError: ErrInvalidProfile,
		},
		{
			name:   "Non-positive repayment days rejected",
			userID: 1,
			params: UpdateProfileParams{
				RepaymentDays: intPtr(0),
			},
			expectedError: ErrInvalidProfile,
		},
		{
			name:   "Unknown user",
			userID: 99,
			params: UpdateProfileParams{
				Name: strPtr("New Name"),
			},
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 99).Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:   "Error finding user",
			userID: 1,
			params: UpdateProfileParams{
				Name: strPtr("New Name"),
			},
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:   "Error updating profile",
			userID: 1,
			params: UpdateProfileParams{
				Name: strPtr("New Name"),
			},
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(stored(), nil)
				userRepo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:   "User vanished during update",
			userID: 1,
			params: UpdateProfileParams{
				Name: strPtr("New Name"),
			},
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(stored(), nil)
				userRepo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.UpdateProfile(context.Background(), tt.userID, tt.params)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				tt.check(t, result)
			}
		})
	}
}
