package public

import (
	"strings"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	PackageID uint `json:"package_id" binding:"required"`
}

// CreateOrder 购买套餐
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), userID, req.PackageID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Created(c, "Order created successfully.", order)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListUserOrders(userID, repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.SuccessWithPage(c, "Orders retrieved successfully.", orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单状态
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetUserOrder(userID, c.Param("code"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, "Order retrieved successfully.", order)
}

// CancelOrder 取消待支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(userID, c.Param("code"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, "Order canceled successfully.", order)
}

// RefreshOrderPayment 为待支付订单重新申请支付会话
func (h *Handler) RefreshOrderPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.RefreshPayment(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, "Payment session is ready.", order)
}
