package dto

import (
	"time"

	"github.com/lendlink/lendlink/internal/domain"
)

// UserResponseDTO is the public view of a user, password hash stripped.
type UserResponseDTO struct {
	ID              int       `json:"id" example:"1"`
	Username        string    `json:"username" example:"alice"`
	Name            string    `json:"name" example:"Alice Carter"`
	Email           string    `json:"email" example:"alice@example.com"`
	Phone           string    `json:"phone" example:"+15550100"`
	Role            string    `json:"role" example:"lender"`
	AvatarColor     string    `json:"avatarColor" example:"#0D7C66"`
	WalletBalance   float64   `json:"walletBalance" example:"10000"`
	InterestRate    float64   `json:"interestRate" example:"5"`
	MinLoan         float64   `json:"minLoan" example:"100"`
	MaxLoan         float64   `json:"maxLoan" example:"5000"`
	RepaymentDays   int       `json:"repaymentDays" example:"30"`
	Description     string    `json:"description" example:"New lender on LendLink."`
	Verified        bool      `json:"verified" example:"false"`
	ResponseTime    string    `json:"responseTime" example:"< 1 hour"`
	TotalLoansGiven int       `json:"totalLoansGiven" example:"0"`
	TotalAmountLent float64   `json:"totalAmountLent" example:"0"`
	CreatedAt       time.Time `json:"createdAt"`
}

type UpdateProfileRequestDTO struct {
	Name          *string  `json:"name,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	InterestRate  *float64 `json:"interestRate,omitempty" example:"7.5"`
	MinLoan       *float64 `json:"minLoan,omitempty" example:"200"`
	MaxLoan       *float64 `json:"maxLoan,omitempty" example:"4000"`
	RepaymentDays *int     `json:"repaymentDays,omitempty" example:"60"`
	Description   *string  `json:"description,omitempty"`
}

func NewUserResponse(user *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:              user.ID,
		Username:        user.Username,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            user.Role,
		AvatarColor:     user.AvatarColor,
		WalletBalance:   user.WalletBalance,
		InterestRate:    user.InterestRate,
		MinLoan:         user.MinLoan,
		MaxLoan:         user.MaxLoan,
		RepaymentDays:   user.RepaymentDays,
		Description:     user.Description,
		Verified:        user.Verified,
		ResponseTime:    user.ResponseTime,
		TotalLoansGiven: user.TotalLoansGiven,
		TotalAmountLent: user.TotalAmountLent,
		CreatedAt:       user.CreatedAt,
	}
}
