package public

import (
	"net/http"

	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/payment/midtrans"

	"github.com/gin-gonic/gin"
)

const (
	notificationKindRecurring = "recurring"
	notificationKindAccount   = "pay_account"
)

// PaymentNotification Midtrans 支付状态通知
func (h *Handler) PaymentNotification(c *gin.Context) {
	log := requestLog(c)
	var payload midtrans.Notification
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warnw("payment_notification_body_invalid", "client_ip", c.ClientIP(), "error", err)
		respondError(c, http.StatusBadRequest, "Invalid notification payload.", nil)
		return
	}
	log.Infow("payment_notification_received",
		"order_code", payload.OrderID,
		"transaction_status", payload.TransactionStatus,
		"fraud_status", payload.FraudStatus,
		"client_ip", c.ClientIP(),
	)

	order, err := h.OrderService.HandleNotification(c.Request.Context(), &payload)
	if err != nil {
		log.Warnw("payment_notification_handle_failed", "order_code", payload.OrderID, "error", err)
		respondWithMappedError(c, err, webhookErrorRules, "Failed to process notification.")
		return
	}
	response.Success(c, "Notification processed.", gin.H{
		"order_id":       order.OrderCode,
		"payment_status": order.PaymentStatus,
	})
}

// RecurringNotification 订阅扣款通知，仅校验签名并确认
func (h *Handler) RecurringNotification(c *gin.Context) {
	h.acknowledgeNotification(c, notificationKindRecurring)
}

// AccountNotification 支付账户绑定通知，仅校验签名并确认
func (h *Handler) AccountNotification(c *gin.Context) {
	h.acknowledgeNotification(c, notificationKindAccount)
}

func (h *Handler) acknowledgeNotification(c *gin.Context, kind string) {
	var payload midtrans.Notification
	if err := c.ShouldBindJSON(&payload); err != nil {
		requestLog(c).Warnw("payment_notification_body_invalid", "kind", kind, "error", err)
		respondError(c, http.StatusBadRequest, "Invalid notification payload.", nil)
		return
	}
	if err := h.OrderService.AcknowledgeNotification(kind, &payload); err != nil {
		respondWithMappedError(c, err, webhookErrorRules, "Failed to process notification.")
		return
	}
	response.Success(c, "Notification acknowledged.", nil)
}
