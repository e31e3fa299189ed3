package domain

import "time"

const (
	RoleLender   = "lender"
	RoleBorrower = "borrower"
)

type User struct {
	ID              int       `db:"id"`
	Username        string    `db:"username"`
	PasswordHash    string    `db:"password_hash"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	Role            string    `db:"role"`
	AvatarColor     string    `db:"avatar_color"`
	WalletBalance   float64   `db:"wallet_balance"`
	InterestRate    float64   `db:"interest_rate"`
	MinLoan         float64   `db:"min_loan"`
	MaxLoan         float64   `db:"max_loan"`
	RepaymentDays   int       `db:"repayment_days"`
	Description     string    `db:"description"`
	Verified        bool      `db:"verified"`
	ResponseTime    string    `db:"response_time"`
	TotalLoansGiven int       `db:"total_loans_given"`
	TotalAmountLent float64   `db:"total_amount_lent"`
	CreatedAt       time.Time `db:"created_at"`
}

type Loan struct {
	ID             int        `db:"id"`
	LenderID       int        `db:"lender_id"`
	BorrowerID     int        `db:"borrower_id"`
	Amount         float64    `db:"amount"`
	InterestRate   float64    `db:"interest_rate"`
	TotalRepayment float64    `db:"total_repayment"`
	RepaymentDays  int        `db:"repayment_days"`
	Status         string     `db:"status"`
	Purpose        string     `db:"purpose"`
	AmountPaid     float64    `db:"amount_paid"`
	RequestDate    time.Time  `db:"request_date"`
	ApprovalDate   *time.Time `db:"approval_date"`
	DueDate        *time.Time `db:"due_date"`
}

// LoanDetails is a loan joined with the party names and its payment history.
type LoanDetails struct {
	Loan
	LenderName   string
	BorrowerName string
	Payments     []Payment
}

type Payment struct {
	ID     int       `db:"id"`
	LoanID int       `db:"loan_id"`
	Amount float64   `db:"amount"`
	PaidAt time.Time `db:"paid_at"`
}
