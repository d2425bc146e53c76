package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kabb-server/internal/domain"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, ApiResponse{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, ApiResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), ApiResponse{Success: false, Message: err.Error()})
}

// statusOf distinguishes "your request was invalid" from "we could not reach
// the settlement gateway". Unknown errors stay opaque 500s.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrLicenseNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
