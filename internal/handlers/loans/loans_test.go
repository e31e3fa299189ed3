package loans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/dto"
	loanservice "github.com/lendlink/lendlink/internal/service/loanservice"
	walletservice "github.com/lendlink/lendlink/internal/service/walletservice"
	"github.com/lendlink/lendlink/pkg/auth"
)

func NewMock(t *testing.T) (*LoanHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, target string, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	return r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateLoanHandler(t *testing.T) {
	handler, service := NewMock(t)

	created := &domain.Loan{
		ID:             1,
		LenderID:       2,
		BorrowerID:     1,
		Amount:         1000.0,
		InterestRate:   5.0,
		TotalRepayment: 1050.0,
		RepaymentDays:  30,
		Status:         loanservice.PendingLoanStatus,
		Purpose:        "Laptop repair",
		RequestDate:    time.Now(),
	}

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful request",
			body: `{"lenderId":2,"amount":1000,"purpose":"Laptop repair"}`,
			prepareMock: func() {
				service.EXPECT().CreateLoan(gomock.Any(), 2, 1, 1000.0, "Laptop repair").Return(created, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Invalid request body",
			body:         `{"lenderId":invalid}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Empty purpose",
			body: `{"lenderId":2,"amount":1000,"purpose":""}`,
			prepareMock: func() {
				service.EXPECT().CreateLoan(gomock.Any(), 2, 1, 1000.0, "").Return(nil, loanservice.ErrEmptyPurpose)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Amount outside the lender's range",
			body: `{"lenderId":2,"amount":50,"purpose":"Laptop repair"}`,
			prepareMock: func() {
				service.EXPECT().CreateLoan(gomock.Any(), 2, 1, 50.0, "Laptop repair").Return(nil, loanservice.ErrAmountOutOfRange)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Lender not found",
			body: `{"lenderId":99,"amount":1000,"purpose":"Laptop repair"}`,
			prepareMock: func() {
				service.EXPECT().CreateLoan(gomock.Any(), 99, 1, 1000.0, "Laptop repair").Return(nil, loanservice.ErrLenderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			body: `{"lenderId":2,"amount":1000,"purpose":"Laptop repair"}`,
			prepareMock: func() {
				service.EXPECT().CreateLoan(gomock.Any(), 2, 1, 1000.0, "Laptop repair").Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodPost, "/api/loans", tt.body)
			w := httptest.NewRecorder()
			handler.CreateLoan(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusCreated {
				var body dto.LoanResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 1050.0, body.TotalRepayment)
				assert.Equal(t, loanservice.PendingLoanStatus, body.Status)
			}
		})
	}
}

func TestGetLoansHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Returns loans",
			prepareMock: func() {
				service.EXPECT().GetLoans(gomock.Any(), 1).Return([]domain.LoanDetails{
					{
						Loan:         domain.Loan{ID: 1, LenderID: 1, BorrowerID: 2, Status: loanservice.ActiveLoanStatus},
						LenderName:   "Alice Carter",
						BorrowerName: "Bob Reyes",
					},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "No loans found",
			prepareMock: func() {
				service.EXPECT().GetLoans(gomock.Any(), 1).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().GetLoans(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodGet, "/api/loans", "")
			w := httptest.NewRecorder()
			handler.GetLoans(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.LoanDetailsResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 1)
				assert.Equal(t, "Alice Carter", body[0].LenderName)
			}
		})
	}
}

func TestGetLoanHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Returns loan",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().GetLoan(gomock.Any(), 1).Return(&domain.LoanDetails{
					Loan:         domain.Loan{ID: 1, Status: loanservice.ActiveLoanStatus},
					LenderName:   "Alice Carter",
					BorrowerName: "Bob Reyes",
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid loan id",
			id:           "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Loan not found",
			id:   "99",
			prepareMock: func() {
				service.EXPECT().GetLoan(gomock.Any(), 99).Return(nil, loanservice.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().GetLoan(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodGet, "/api/loans/"+tt.id, "")
			r = withURLParam(r, "id", tt.id)
			w := httptest.NewRecorder()
			handler.GetLoan(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestApproveHandler(t *testing.T) {
	handler, service := NewMock(t)

	now := time.Now()
	due := now.AddDate(0, 0, 30)
	approved := &domain.Loan{
		ID:           1,
		LenderID:     1,
		BorrowerID:   2,
		Amount:       1000.0,
		Status:       loanservice.ActiveLoanStatus,
		ApprovalDate: &now,
		DueDate:      &due,
	}

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful approval",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 1).Return(approved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid loan id",
			id:           "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Loan not found",
			id:   "99",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 99, 1).Return(nil, loanservice.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Loan belongs to another lender",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 1).Return(nil, loanservice.ErrNotLoanOwner)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Loan is not pending",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 1).Return(nil, loanservice.ErrInvalidLoanState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Insufficient balance",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 1).Return(nil, walletservice.ErrInsufficientBalance)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name: "Internal server error",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodPost, "/api/loans/"+tt.id+"/approve", "")
			r = withURLParam(r, "id", tt.id)
			w := httptest.NewRecorder()
			handler.Approve(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.LoanResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, loanservice.ActiveLoanStatus, body.Status)
				assert.NotNil(t, body.DueDate)
			}
		})
	}
}

func TestDeclineHandler(t *testing.T) {
	handler, service := NewMock(t)

	declined := &domain.Loan{
		ID:       1,
		LenderID: 1,
		Status:   loanservice.DeclinedLoanStatus,
	}

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful decline",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Decline(gomock.Any(), 1, 1).Return(declined, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid loan id",
			id:           "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Loan belongs to another lender",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Decline(gomock.Any(), 1, 1).Return(nil, loanservice.ErrNotLoanOwner)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Loan is not pending",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Decline(gomock.Any(), 1, 1).Return(nil, loanservice.ErrInvalidLoanState)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodPost, "/api/loans/"+tt.id+"/decline", "")
			r = withURLParam(r, "id", tt.id)
			w := httptest.NewRecorder()
			handler.Decline(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestPayHandler(t *testing.T) {
	handler, service := NewMock(t)

	now := time.Now()
	paid := &domain.Loan{
		ID:             1,
		LenderID:       1,
		BorrowerID:     2,
		Amount:         1000.0,
		TotalRepayment: 1050.0,
		AmountPaid:     500.0,
		Status:         loanservice.ActiveLoanStatus,
	}
	payment := &domain.Payment{ID: 1, LoanID: 1, Amount: 500.0, PaidAt: now}

	tests := []struct {
		name         string
		id           string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful payment",
			id:   "1",
			body: `{"amount":500}`,
			prepareMock: func() {
				service.EXPECT().Pay(gomock.Any(), 1, 500.0).Return(paid, payment, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid loan id",
			id:           "abc",
			body:         `{"amount":500}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid request body",
			id:           "1",
			body:         `{"amount":invalid}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Invalid payment amount",
			id:   "1",
			body: `{"amount":0}`,
			prepareMock: func() {
				service.EXPECT().Pay(gomock.Any(), 1, 0.0).Return(nil, nil, loanservice.ErrInvalidAmount)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Loan not found",
			id:   "99",
			body: `{"amount":500}`,
			prepareMock: func() {
				service.EXPECT().Pay(gomock.Any(), 99, 500.0).Return(nil, nil, loanservice.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Loan is not active",
			id:   "1",
			body: `{"amount":500}`,
			prepareMock: func() {
				service.EXPECT().Pay(gomock.Any(), 1, 500.0).Return(nil, nil, loanservice.ErrInvalidLoanState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Internal server error",
			id:   "1",
			body: `{"amount":500}`,
			prepareMock: func() {
				service.EXPECT().Pay(gomock.Any(), 1, 500.0).Return(nil, nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := authedRequest(http.MethodPost, "/api/loans/"+tt.id+"/pay", tt.body)
			r = withURLParam(r, "id", tt.id)
			w := httptest.NewRecorder()
			handler.Pay(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.PaymentResultDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 500.0, body.Payment.Amount)
				assert.Equal(t, now.Format(time.DateOnly), body.Payment.Date)
				assert.Equal(t, loanservice.ActiveLoanStatus, body.Loan.Status)
			}
		})
	}
}
