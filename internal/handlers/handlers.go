package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/lendlink/lendlink/docs"
	authhandlers "github.com/lendlink/lendlink/internal/handlers/auth"
	lenderhandlers "github.com/lendlink/lendlink/internal/handlers/lenders"
	loanhandlers "github.com/lendlink/lendlink/internal/handlers/loans"
	"github.com/lendlink/lendlink/internal/service"
	"github.com/lendlink/lendlink/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type LenderHandler interface {
	GetLenders(w http.ResponseWriter, r *http.Request)
	GetLender(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type LoanHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	GetLoans(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Decline(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler   AuthHandler
	LenderHandler LenderHandler
	LoanHandler   LoanHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:   authhandlers.New(s.AuthService),
		LenderHandler: lenderhandlers.New(s.LenderService),
		LoanHandler:   loanhandlers.New(s.LoanService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.AuthMiddleware)
				r.Get("/me", h.AuthHandler.Me)
				r.Patch("/profile", h.LenderHandler.UpdateProfile)
			})
		})

		r.Route("/lenders", func(r chi.Router) {
			r.Get("/", h.LenderHandler.GetLenders)
			r.Get("/{id}", h.LenderHandler.GetLender)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/", h.LoanHandler.CreateLoan)
			r.Get("/", h.LoanHandler.GetLoans)
			r.Get("/{id}", h.LoanHandler.GetLoan)
			r.Post("/{id}/approve", h.LoanHandler.Approve)
			r.Post("/{id}/decline", h.LoanHandler.Decline)
			r.Post("/{id}/pay", h.LoanHandler.Pay)
		})
	})

	return r
}
