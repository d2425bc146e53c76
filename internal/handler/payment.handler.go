package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"kabb-server/internal/auth"
	"kabb-server/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type paymentConfirmRequest struct {
	OrderID    string          `json:"orderId" binding:"required"`
	PaymentKey string          `json:"paymentKey" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req paymentConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	outcome, err := h.payments.Confirm(c.Request.Context(), service.ConfirmPaymentInput{
		OrderNumber: req.OrderID,
		PaymentKey:  req.PaymentKey,
		Amount:      req.Amount,
	}, auth.UserIDFrom(c), metaFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "payment processed", gin.H{
		"paymentNumber": outcome.PaymentNumber,
		"status":        outcome.Status,
		"paymentMethod": outcome.PaymentMethod,
		"orderNumber":   outcome.OrderNumber,
	})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.FindByPaymentNumber(c.Request.Context(), c.Param("paymentNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{
		"paymentNumber": payment.PaymentNumber,
		"status":        payment.Status,
		"paymentMethod": payment.PaymentMethod,
		"amount":        payment.Amount,
		"createdAt":     payment.CreatedAt,
	})
}
