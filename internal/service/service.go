package service

import (
	"github.com/lendlink/lendlink/internal/handlers/auth"
	"github.com/lendlink/lendlink/internal/handlers/lenders"
	"github.com/lendlink/lendlink/internal/handlers/loans"

	pkgauth "github.com/lendlink/lendlink/pkg/auth"

	"github.com/lendlink/lendlink/internal/repo"
	authservice "github.com/lendlink/lendlink/internal/service/authservice"
	lenderservice "github.com/lendlink/lendlink/internal/service/lenderservice"
	loanservice "github.com/lendlink/lendlink/internal/service/loanservice"
	walletservice "github.com/lendlink/lendlink/internal/service/walletservice"
)

type Services struct {
	AuthService   auth.Service
	LenderService lenders.Service
	LoanService   loans.Service
}

func New(repo *repo.Repositories) *Services {
	walletService := walletservice.New(repo.WalletRepo)
	loanService := loanservice.New(repo.LoanRepo, repo.PaymentRepo, repo.UserRepo, walletService, repo.TxManager)
	lenderService := lenderservice.New(repo.UserRepo)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:   authService,
		LenderService: lenderService,
		LoanService:   loanService,
	}
}
