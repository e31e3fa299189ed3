package lenders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/lendlink/lendlink/internal/domain"
	"github.com/lendlink/lendlink/internal/dto"
	lenderservice "github.com/lendlink/lendlink/internal/service/lenderservice"
	"github.com/lendlink/lendlink/pkg/auth"
)

func NewMock(t *testing.T) (*LenderHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetLendersHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Returns lenders",
			prepareMock: func() {
				service.EXPECT().GetLenders(gomock.Any()).Return([]domain.User{
					{ID: 1, Username: "alice", Role: domain.RoleLender},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "No lenders registered",
			prepareMock: func() {
				service.EXPECT().GetLenders(gomock.Any()).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().GetLenders(gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/api/lenders", nil)
			w := httptest.NewRecorder()
			handler.GetLenders(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.UserResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 1)
				assert.Equal(t, "alice", body[0].Username)
			}
		})
	}
}

func TestGetLenderHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Returns lender",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().GetLender(gomock.Any(), 1).Return(&domain.User{ID: 1, Username: "alice", Role: domain.RoleLender}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid lender id",
			id:           "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Lender not found",
			id:   "99",
			prepareMock: func() {
				service.EXPECT().GetLender(gomock.Any(), 99).Return(nil, lenderservice.ErrLenderNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			id:   "1",
			prepareMock: func() {
				service.EXPECT().GetLender(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/api/lenders/"+tt.id, nil)
			r = withURLParam(r, "id", tt.id)
			w := httptest.NewRecorder()
			handler.GetLender(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful update",
			body: `{"interestRate":7.5,"repaymentDays":60}`,
			prepareMock: func() {
				service.EXPECT().UpdateProfile(gomock.Any(), 1, gomock.Any()).Return(&domain.User{
					ID:            1,
					Username:      "alice",
					InterestRate:  7.5,
					RepaymentDays: 60,
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid request body",
			body:         `{"interestRate":invalid}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Invalid profile value",
			body: `{"interestRate":99}`,
			prepareMock: func() {
				service.EXPECT().UpdateProfile(gomock.Any(), 1, gomock.Any()).Return(nil, lenderservice.ErrInvalidProfile)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "User not found",
			body: `{"name":"New Name"}`,
			prepareMock: func() {
				service.EXPECT().UpdateProfile(gomock.Any(), 1, gomock.Any()).Return(nil, lenderservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			body: `{"name":"New Name"}`,
			prepareMock: func() {
				service.EXPECT().UpdateProfile(gomock.Any(), 1, gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPatch, "/api/user/profile", bytes.NewBufferString(tt.body))
			r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 1))
			w := httptest.NewRecorder()
			handler.UpdateProfile(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.UserResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 7.5, body.InterestRate)
				assert.Equal(t, 60, body.RepaymentDays)
			}
		})
	}
}
