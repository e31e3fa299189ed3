package lenders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/dto"
	lenderservice "github.com/lendlink/lendlink/internal/service/lenderservice"
	"github.com/lendlink/lendlink/pkg/auth"
	"github.com/lendlink/lendlink/pkg/utils"
)

type Service interface {
	GetLenders(ctx context.Context) ([]domain.User, error)
	GetLender(ctx context.Context, lenderID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int, params lenderservice.UpdateProfileParams) (*domain.User, error)
}

type LenderHandler struct {
	lenderService Service
}

func New(lenderService Service) *LenderHandler {
	return &LenderHandler{
		lenderService: lenderService,
	}
}

// GetLenders godoc
//
//	@Summary		List lenders
//	@Description	Retrieve the lender directory, newest first.
//	@Tags			Lenders
//	@Produce		json
//	@Success		200	{array}		dto.UserResponseDTO
//	@Success		204	{object}	utils.Response	"No lenders registered"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/lenders [get]
func (h *LenderHandler) GetLenders(w http.ResponseWriter, r *http.Request) {
	lenders, err := h.lenderService.GetLenders(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(lenders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No lenders registered")
		return
	}

	response := make([]dto.UserResponseDTO, len(lenders))
	for i, lender := range lenders {
		response[i] = dto.NewUserResponse(&lender)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetLender godoc
//
//	@Summary		Get one lender profile
//	@Tags			Lenders
//	@Produce		json
//	@Param			id	path		int	true	"Lender ID"
//	@Success		200	{object}	dto.UserResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid lender id"
//	@Failure		404	{object}	utils.Response	"Lender not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/lenders/{id} [get]
func (h *LenderHandler) GetLender(w http.ResponseWriter, r *http.Request) {
	lenderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid lender id")
		return
	}

	lender, err := h.lenderService.GetLender(r.Context(), lenderID)
	if err != nil {
		switch {
		case errors.Is(err, lenderservice.ErrLenderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponse(lender))
}

// UpdateProfile godoc
//
//	@Summary		Update the caller's profile
//	@Description	Partial update of contact fields and lender terms. Term changes apply to future loan requests only.
//	@Tags			Lenders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.UpdateProfileRequestDTO	true	"Fields to update"
//	@Success		200		{object}	dto.UserResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		422		{object}	utils.Response	"Invalid profile value"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/profile [patch]
func (h *LenderHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.lenderService.UpdateProfile(r.Context(), userID, lenderservice.UpdateProfileParams{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		InterestRate:  req.InterestRate,
		MinLoan:       req.MinLoan,
		MaxLoan:       req.MaxLoan,
		RepaymentDays: req.RepaymentDays,
		Description:   req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, lenderservice.ErrInvalidProfile):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, lenderservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponse(user))
}
