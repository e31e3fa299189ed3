package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo, *auth.MockHashServiceInterface, *auth.MockJWTServiceInterface) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockUserRepo(ctrl)
	hashService := auth.NewMockHashServiceInterface(ctrl)
	jwtService := auth.NewMockJWTServiceInterface(ctrl)

	service := New(userRepo, hashService, jwtService)
	defer ctrl.Finish()
	return service, userRepo, hashService, jwtService
}

func TestRegister(t *testing.T) {
	service, userRepo, passwordHasher, _ := NewMock(t)

	lenderParams := RegisterParams{
		Username: "alice",
		Password: "secret",
		Name:     "Alice Carter",
		Email:    "alice@example.com",
		Role:     domain.RoleLender,
	}
	borrowerParams := RegisterParams{
		Username: "bob",
		Password: "secret",
		Name:     "Bob Reyes",
		Email:    "bob@example.com",
		Role:     domain.RoleBorrower,
	}

	tests := []struct {
		name          string
		params        RegisterParams
		prepareMock   func()
		check         func(t *testing.T, user *domain.User)
		expectedError error
	}{
		{
			name:   "Lender registration funds the wallet",
			params: lenderParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(nil, nil)
				passwordHasher.EXPECT().HashPassword("secret").Return("hashedpassword", nil)
				userRepo.EXPECT().Create(context.Background(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
					user.ID = 1
					return user, nil
				})
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, 1, user.ID)
				assert.Equal(t, "hashedpassword", user.PasswordHash)
				assert.Equal(t, float64(10000), user.WalletBalance)
				assert.Equal(t, "New lender on LendLink.", user.Description)
				assert.Contains(t, avatarColors, user.AvatarColor)
			},
			expectedError: nil,
		},
		{
			name:   "Borrower registration holds no balance",
			params: borrowerParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "bob").Return(nil, nil)
				passwordHasher.EXPECT().HashPassword("secret").Return("hashedpassword", nil)
				userRepo.EXPECT().Create(context.Background(), gomock.Any()).DoAndReturn(func(ctx context.Context, user *domain.User) (*domain.User, error) {
					user.ID = 2
					return user, nil
				})
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, 2, user.ID)
				assert.Equal(t, float64(0), user.WalletBalance)
				assert.Empty(t, user.Description)
			},
			expectedError: nil,
		},
		{
			name:   "User already exists",
			params: lenderParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(&domain.User{Username: "alice"}, nil)
			},
			expectedError: ErrUsernameTaken,
		},
		{
			name:   "Error finding user",
			params: lenderParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
		{
			name:   "Error hashing password",
			params: lenderParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(nil, nil)
				passwordHasher.EXPECT().HashPassword("secret").Return("", errors.New("hashing error"))
			},
			expectedError: errors.New("hashing error"),
		},
		{
			name:   "Error creating user",
			params: lenderParams,
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(nil, nil)
				passwordHasher.EXPECT().HashPassword("secret").Return("hashedpassword", nil)
				userRepo.EXPECT().Create(context.Background(), gomock.Any()).Return(nil, errors.New("creation failed"))
			},
			expectedError: errors.New("creation failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			user, err := service.Register(context.Background(), tt.params)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				tt.check(t, user)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service, userRepo, passwordHasher, _ := NewMock(t)

	tests := []struct {
		name          string
		username      string
		password      string
		prepareMock   func()
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:     "Successful authentication",
			username: "alice",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(&domain.User{
					ID:           1,
					Username:     "alice",
					PasswordHash: "hashedpassword",
				}, nil)
				passwordHasher.EXPECT().ComparePassword("hashedpassword", "secret").Return(true)
			},
			expectedUser: &domain.User{
				ID:           1,
				Username:     "alice",
				PasswordHash: "hashedpassword",
			},
			expectedError: nil,
		},
		{
			name:     "Unknown user",
			username: "ghost",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "ghost").Return(nil, nil)
			},
			expectedUser:  nil,
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Wrong password",
			username: "alice",
			password: "wrong",
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(&domain.User{
					ID:           1,
					Username:     "alice",
					PasswordHash: "hashedpassword",
				}, nil)
				passwordHasher.EXPECT().ComparePassword("hashedpassword", "wrong").Return(false)
			},
			expectedUser:  nil,
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Error finding user",
			username: "alice",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByUsername(context.Background(), "alice").Return(nil, errors.New("database error"))
			},
			expectedUser:  nil,
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			user, err := service.Authenticate(context.Background(), tt.username, tt.password)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedUser, user)
		})
	}
}

func TestGetUser(t *testing.T) {
	service, userRepo, _, _ := NewMock(t)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:   "Returns user",
			userID: 1,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(context.Background(), 1).Return(&domain.User{ID: 1, Username: "alice"}, nil)
			},
			expectedUser:  &domain.User{ID: 1, Username: "alice"},
			expectedError: nil,
		},
		{
			name:   "Unknown user",
			userID: 99,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(context.Background(), 99).Return(nil, nil)
			},
			expectedUser:  nil,
			expectedError: ErrUserNotFound,
		},
		{
			name:   "Error finding user",
			userID: 1,
			prepareMock: func() {
				userRepo.EXPECT().FindByID(context.Background(), 1).Return(nil, errors.New("database error"))
			},
			expectedUser:  nil,
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			user, err := service.GetUser(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedUser, user)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _, _, jwtService := NewMock(t)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expectedToken string
		expectedError error
	}{
		{
			name:   "Generates token",
			userID: 1,
			prepareMock: func() {
				jwtService.EXPECT().GenerateJWT(1, gomock.Any()).Return("token", nil)
			},
			expectedToken: "token",
			expectedError: nil,
		},
		{
			name:   "Error generating token",
			userID: 1,
			prepareMock: func() {
				jwtService.EXPECT().GenerateJWT(1, gomock.Any()).Return("", errors.New("signing error"))
			},
			expectedToken: "",
			expectedError: errors.New("signing error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			token, err := service.GenerateToken(tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedToken, token)
		})
	}
}
