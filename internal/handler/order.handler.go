package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"kabb-server/internal/auth"
	"kabb-server/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	OrderNumber string          `json:"orderNumber" binding:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), service.CreateOrderInput{
		OrderNumber: req.OrderNumber,
		TotalAmount: req.TotalAmount,
	}, auth.UserIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "order created", gin.H{
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
		"status":      order.Status,
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.FindByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
		"status":      order.Status,
		"createdAt":   order.CreatedAt,
	})
}
