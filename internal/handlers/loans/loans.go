package loans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/dto"
	loanservice "github.com/lendlink/lendlink/internal/service/loanservice"
	walletservice "github.com/lendlink/lendlink/internal/service/walletservice"
	"github.com/lendlink/lendlink/pkg/auth"
	"github.com/lendlink/lendlink/pkg/utils"
)

type Service interface {
	CreateLoan(ctx context.Context, lenderID, borrowerID int, amount float64, purpose string) (*domain.Loan, error)
	Approve(ctx context.Context, loanID, lenderID int) (*domain.Loan, error)
	Decline(ctx context.Context, loanID, lenderID int) (*domain.Loan, error)
	Pay(ctx context.Context, loanID int, amount float64) (*domain.Loan, *domain.Payment, error)
	GetLoans(ctx context.Context, userID int) ([]domain.LoanDetails, error)
	GetLoan(ctx context.Context, loanID int) (*domain.LoanDetails, error)
}

type LoanHandler struct {
	loanService Service
}

func New(loanService Service) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// CreateLoan godoc
//
//	@Summary		Request a loan
//	@Description	Open a pending loan request against a lender. The lender's current rate and repayment period are frozen onto the loan.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoanRequestDTO	true	"Loan request payload"
//	@Success		201		{object}	dto.LoanResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Lender not found"
//	@Failure		422		{object}	utils.Response	"Amount outside the lender's range"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/loans [post]
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.LoanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), req.LenderID, borrowerID, req.Amount, req.Purpose)
	if err != nil {
		switch {
		case errors.Is(err, loanservice.ErrEmptyPurpose), errors.Is(err, loanservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, loanservice.ErrAmountOutOfRange):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, loanservice.ErrLenderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

// GetLoans godoc
//
//	@Summary		List the caller's loans
//	@Description	Loans where the caller is the lender or the borrower, newest first, with party names and payment history.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.LoanDetailsResponseDTO
//	@Success		204	{object}	utils.Response	"No loans found"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans [get]
func (h *LoanHandler) GetLoans(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	loans, err := h.loanService.GetLoans(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(loans) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No loans found")
		return
	}

	response := make([]dto.LoanDetailsResponseDTO, len(loans))
	for i, details := range loans {
		response[i] = dto.NewLoanDetailsResponse(&details)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetLoan godoc
//
//	@Summary		Get one loan
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	dto.LoanDetailsResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid loan id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Loan not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id} [get]
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	details, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, loanservice.ErrLoanNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanDetailsResponse(details))
}

// Approve godoc
//
//	@Summary		Approve a pending loan
//	@Description	Disburse the principal from the lender's wallet and activate the loan. Only the loan's lender may approve.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	dto.LoanResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid loan id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		402	{object}	utils.Response	"Insufficient balance"
//	@Failure		403	{object}	utils.Response	"Loan belongs to another lender"
//	@Failure		404	{object}	utils.Response	"Loan not found"
//	@Failure		409	{object}	utils.Response	"Loan is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id}/approve [post]
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	lenderID := r.Context().Value(auth.UserIDKey).(int)

	loanID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	loan, err := h.loanService.Approve(r.Context(), loanID, lenderID)
	if err != nil {
		h.respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// Decline godoc
//
//	@Summary		Decline a pending loan
//	@Description	Reject the request. Terminal, no balance effects. Only the loan's lender may decline.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	dto.LoanResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid loan id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Loan belongs to another lender"
//	@Failure		404	{object}	utils.Response	"Loan not found"
//	@Failure		409	{object}	utils.Response	"Loan is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id}/decline [post]
func (h *LoanHandler) Decline(w http.ResponseWriter, r *http.Request) {
	lenderID := r.Context().Value(auth.UserIDKey).(int)

	loanID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	loan, err := h.loanService.Decline(r.Context(), loanID, lenderID)
	if err != nil {
		h.respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// Pay godoc
//
//	@Summary		Record a repayment
//	@Description	Record a payment against an active loan. The payment reaching the contracted total completes the loan and settles the lender's wallet.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Loan ID"
//	@Param			request	body		dto.PaymentRequestDTO	true	"Payment payload"
//	@Success		200		{object}	dto.PaymentResultDTO
//	@Failure		400		{object}	utils.Response	"Invalid payment amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Loan not found"
//	@Failure		409		{object}	utils.Response	"Loan is not active"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/loans/{id}/pay [post]
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid loan id")
		return
	}

	var req dto.PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, payment, err := h.loanService.Pay(r.Context(), loanID, req.Amount)
	if err != nil {
		h.respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentResultDTO{
		Loan: dto.NewLoanResponse(loan),
		Payment: dto.PaymentResponseDTO{
			ID:     payment.ID,
			Amount: payment.Amount,
			Date:   payment.PaidAt.Format(time.DateOnly),
		},
	})
}

func (h *LoanHandler) respondTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loanservice.ErrLoanNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, loanservice.ErrNotLoanOwner):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, loanservice.ErrInvalidLoanState):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, loanservice.ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, walletservice.ErrInsufficientBalance):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
