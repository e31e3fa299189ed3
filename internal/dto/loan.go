package dto

import (
	"time"

	"github.com/lendlink/lendlink/internal/domain"
)

type LoanRequestDTO struct {
	LenderID int     `json:"lenderId" example:"1"`
	Amount   float64 `json:"amount" example:"1000"`
	Purpose  string  `json:"purpose" example:"Laptop repair"`
}

type PaymentRequestDTO struct {
	Amount float64 `json:"amount" example:"350"`
}

type PaymentResponseDTO struct {
	ID     int     `json:"id" example:"1"`
	Amount float64 `json:"amount" example:"350"`
	Date   string  `json:"date" example:"2025-06-01"`
}

type LoanResponseDTO struct {
	ID             int        `json:"id" example:"1"`
	LenderID       int        `json:"lenderId" example:"1"`
	BorrowerID     int        `json:"borrowerId" example:"2"`
	Amount         float64    `json:"amount" example:"1000"`
	InterestRate   float64    `json:"interestRate" example:"5"`
	TotalRepayment float64    `json:"totalRepayment" example:"1050"`
	RepaymentDays  int        `json:"repaymentDays" example:"30"`
	Status         string     `json:"status" example:"active"`
	Purpose        string     `json:"purpose" example:"Laptop repair"`
	AmountPaid     float64    `json:"amountPaid" example:"350"`
	RequestDate    time.Time  `json:"requestDate"`
	ApprovalDate   *time.Time `json:"approvalDate,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
}

type LoanDetailsResponseDTO struct {
	LoanResponseDTO
	LenderName   string               `json:"lenderName" example:"Alice Carter"`
	BorrowerName string               `json:"borrowerName" example:"Bob Reyes"`
	Payments     []PaymentResponseDTO `json:"payments"`
}

// PaymentResultDTO is returned by the pay endpoint: the recorded payment
// plus the loan state it produced.
type PaymentResultDTO struct {
	Loan    LoanResponseDTO    `json:"loan"`
	Payment PaymentResponseDTO `json:"payment"`
}

func NewLoanResponse(loan *domain.Loan) LoanResponseDTO {
	return LoanResponseDTO{
		ID:             loan.ID,
		LenderID:       loan.LenderID,
		BorrowerID:     loan.BorrowerID,
		Amount:         loan.Amount,
		InterestRate:   loan.InterestRate,
		TotalRepayment: loan.TotalRepayment,
		RepaymentDays:  loan.RepaymentDays,
		Status:         loan.Status,
		Purpose:        loan.Purpose,
		AmountPaid:     loan.AmountPaid,
		RequestDate:    loan.RequestDate,
		ApprovalDate:   loan.ApprovalDate,
		DueDate:        loan.DueDate,
	}
}

func NewLoanDetailsResponse(details *domain.LoanDetails) LoanDetailsResponseDTO {
	payments := make([]PaymentResponseDTO, len(details.Payments))
	for i, p := range details.Payments {
		payments[i] = PaymentResponseDTO{
			ID:     p.ID,
			Amount: p.Amount,
			Date:   p.PaidAt.Format(time.DateOnly),
		}
	}
	return LoanDetailsResponseDTO{
		LoanResponseDTO: NewLoanResponse(&details.Loan),
		LenderName:      details.LenderName,
		BorrowerName:    details.BorrowerName,
		Payments:        payments,
	}
}
