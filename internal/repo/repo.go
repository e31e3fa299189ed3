package repo

import (
	"github.com/lendlink/lendlink/internal/pg"
	loanrepo "github.com/lendlink/lendlink/internal/repo/loan-repo"
	paymentrepo "github.com/lendlink/lendlink/internal/repo/payment-repo"
	userrepo "github.com/lendlink/lendlink/internal/repo/user-repo"
	walletrepo "github.com/lendlink/lendlink/internal/repo/wallet-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	LoanRepo    *loanrepo.Repository
	PaymentRepo *paymentrepo.Repository
	WalletRepo  *walletrepo.Repository
	TxManager   pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	loanRepo := loanrepo.New(conn, txManager)
	paymentRepo := paymentrepo.New(conn)
	walletRepo := walletrepo.New(conn)

	return &Repositories{
		UserRepo:    userRepo,
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		WalletRepo:  walletRepo,
		TxManager:   txManager,
	}
}
