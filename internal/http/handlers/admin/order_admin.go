package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 管理端订单列表，支持 payment_status / user_id / order_id 过滤
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderCode:     strings.ToUpper(strings.TrimSpace(c.Query("order_id"))),
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListAdminOrders(filter)
	if err != nil {
		handlershared.RespondMappedError(c, err, nil, "Failed to load orders.")
		return
	}
	response.SuccessWithPage(c, "Orders retrieved successfully.", orders, response.NewPagination(page, pageSize, total))
}
