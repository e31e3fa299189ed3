package authservice

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/pkg/auth"
)

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Lenders open with a funded wallet so they can disburse right away;
// borrowers hold no balance.
const lenderStartingBalance = 10000

var avatarColors = []string{"#0D7C66", "#F5A623", "#3B82F6", "#8B5CF6", "#EF4444", "#EC4899"}

type RegisterParams struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    string
	Role     string
}

type Service struct {
	userRepo    UserRepo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
}

func New(userRepo UserRepo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:    userRepo,
		hashService: hashService,
		jwtService:  jwtService,
	}
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByUsername(ctx, params.Username)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists, username: ", zap.String("username", params.Username))
		return nil, ErrUsernameTaken
	}
	hashedPassword, err := s.hashService.HashPassword(params.Password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		Username:     params.Username,
		PasswordHash: hashedPassword,
		Name:         params.Name,
		Email:        params.Email,
		Phone:        params.Phone,
		Role:         params.Role,
		AvatarColor:  avatarColors[rand.Intn(len(avatarColors))],
	}
	if params.Role == domain.RoleLender {
		user.WalletBalance = lenderStartingBalance
		user.Description = "New lender on LendLink."
	}

	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("username", params.Username))
	return newUser, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("username", username))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't get user: ", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
