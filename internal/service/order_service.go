package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/metrics"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/payment/midtrans"
	"github.com/undangan-next/internal/queue"
	"github.com/undangan-next/internal/repository"
)

const (
	orderCodePrefix      = "ORDER-"
	orderCodeLength      = 6
	orderCodeCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxOrderCodeAttempts = 20
)

// PaymentGateway 支付网关
type PaymentGateway interface {
	Configured() bool
	CreateTransaction(ctx context.Context, input midtrans.CreateInput) (*midtrans.CreateResult, error)
	VerifyNotification(n *midtrans.Notification) error
}

// OrderService 套餐订单与支付对账服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	packageRepo repository.PackageRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	queueClient *queue.Client
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, packageRepo repository.PackageRepository, userRepo repository.UserRepository, gateway PaymentGateway, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		packageRepo: packageRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// CreateOrder 下单并申请支付会话；网关失败时订单回滚为 canceled
func (s *OrderService) CreateOrder(ctx context.Context, userID, packageID uint) (*models.Order, error) {
	if packageID == 0 {
		return nil, NewValidationError("package_id", "is required")
	}
	pkg, err := s.packageRepo.GetByID(packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil || !s.gateway.Configured() {
		return nil, ErrPaymentNotConfigured
	}

	code, err := s.allocateOrderCode()
	if err != nil {
		return nil, err
	}
	order := &models.Order{
		OrderCode:     code,
		UserID:        user.ID,
		PackageID:     pkg.ID,
		Amount:        pkg.ComputeFinalPrice(),
		PaymentStatus: constants.PaymentStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	order.Package = pkg

	session, err := s.gateway.CreateTransaction(ctx, buildCreateInput(order, pkg, user))
	if err != nil {
		s.compensateOrder(order, err)
		metrics.RecordOrderCreated(pkg.Tier, "gateway_failed")
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"snap_token":   session.Token,
		"redirect_url": session.RedirectURL,
	}); err != nil {
		// 网关会话已创建，订单保持 pending，可通过 RefreshPayment 恢复
		logger.Errorw("order_session_persist_failed",
			"order_code", order.OrderCode,
			"order_id", order.ID,
			"snap_token", session.Token,
			"error", err,
		)
		return nil, err
	}
	order.SnapToken = &session.Token
	order.RedirectURL = &session.RedirectURL
	metrics.RecordOrderCreated(pkg.Tier, "ok")
	logger.Infow("order_created",
		"order_code", order.OrderCode,
		"user_id", order.UserID,
		"package_id", pkg.ID,
		"amount", order.Amount.String(),
	)
	return order, nil
}

// compensateOrder 网关会话申请失败后将订单置为取消
func (s *OrderService) compensateOrder(order *models.Order, cause error) {
	now := s.now()
	moved, err := s.orderRepo.TransitionStatus(order.ID,
		[]string{constants.PaymentStatusPending},
		constants.PaymentStatusCanceled,
		map[string]interface{}{"canceled_at": now},
	)
	if err != nil {
		logger.Errorw("order_compensation_failed", "order_code", order.OrderCode, "error", err, "cause", cause)
		return
	}
	if moved {
		order.PaymentStatus = constants.PaymentStatusCanceled
		order.CanceledAt = &now
	}
	logger.Warnw("order_gateway_failed", "order_code", order.OrderCode, "error", cause)
}

// RefreshPayment 待支付订单缺少会话时重新申请，已有会话则原样返回
func (s *OrderService) RefreshPayment(ctx context.Context, userID uint, code string) (*models.Order, error) {
	order, err := s.GetUserOrder(userID, code)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrInvalidOrderState
	}
	if order.SnapToken != nil && *order.SnapToken != "" && order.RedirectURL != nil && *order.RedirectURL != "" {
		return order, nil
	}
	if s.gateway == nil || !s.gateway.Configured() {
		return nil, ErrPaymentNotConfigured
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	session, err := s.gateway.CreateTransaction(ctx, buildCreateInput(order, order.Package, user))
	if err != nil {
		logger.Warnw("order_refresh_payment_failed", "order_code", order.OrderCode, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"snap_token":   session.Token,
		"redirect_url": session.RedirectURL,
	}); err != nil {
		logger.Errorw("order_session_persist_failed",
			"order_code", order.OrderCode,
			"order_id", order.ID,
			"snap_token", session.Token,
			"error", err,
		)
		return nil, err
	}
	order.SnapToken = &session.Token
	order.RedirectURL = &session.RedirectURL
	return order, nil
}

// HandleNotification 处理支付网关异步通知
func (s *OrderService) HandleNotification(ctx context.Context, n *midtrans.Notification) (*models.Order, error) {
	if err := s.verifyNotification(n); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByCode(n.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target, ok := midtrans.MapTransactionStatus(n.TransactionStatus, n.FraudStatus)
	if !ok {
		logger.Infow("payment_notification_unmapped",
			"order_code", order.OrderCode,
			"transaction_status", n.TransactionStatus,
			"fraud_status", n.FraudStatus,
		)
		return order, nil
	}

	now := s.now()
	updates := map[string]interface{}{}
	if v := strings.TrimSpace(n.PaymentType); v != "" {
		updates["payment_method"] = v
	}
	if v := strings.TrimSpace(n.TransactionID); v != "" {
		updates["transaction_id"] = v
	}
	switch target {
	case constants.PaymentStatusPaid:
		updates["paid_at"] = now
	case constants.PaymentStatusCanceled:
		updates["canceled_at"] = now
	}

	// 终态不可回退，仅 pending 可迁移
	moved, err := s.orderRepo.TransitionStatus(order.ID, []string{constants.PaymentStatusPending}, target, updates)
	if err != nil {
		return nil, err
	}
	transitioned := moved && order.PaymentStatus != target
	metrics.RecordPaymentNotification(target, transitioned)
	logger.Infow("payment_notification_processed",
		"order_code", order.OrderCode,
		"transaction_status", n.TransactionStatus,
		"from", order.PaymentStatus,
		"to", target,
		"transitioned", transitioned,
	)

	if transitioned && target == constants.PaymentStatusPaid {
		if err := s.queueClient.EnqueueOrderPaid(queue.OrderPaidPayload{OrderID: order.ID, OrderCode: order.OrderCode}); err != nil {
			logger.Warnw("order_paid_enqueue_failed", "order_code", order.OrderCode, "error", err)
		}
	}

	fresh, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, ErrOrderNotFound
	}
	return fresh, nil
}

// AcknowledgeNotification 仅校验签名的通知（recurring / pay account）
func (s *OrderService) AcknowledgeNotification(kind string, n *midtrans.Notification) error {
	if err := s.verifyNotification(n); err != nil {
		return err
	}
	logger.Infow("payment_notification_acknowledged",
		"kind", kind,
		"order_code", n.OrderID,
		"transaction_status", n.TransactionStatus,
	)
	return nil
}

func (s *OrderService) verifyNotification(n *midtrans.Notification) error {
	if n == nil || strings.TrimSpace(n.OrderID) == "" {
		return NewValidationError("order_id", "is required")
	}
	if s.gateway == nil || !s.gateway.Configured() {
		return ErrPaymentNotConfigured
	}
	if err := s.gateway.VerifyNotification(n); err != nil {
		if errors.Is(err, midtrans.ErrSignatureInvalid) {
			logger.Warnw("payment_notification_signature_invalid", "order_code", n.OrderID)
			return ErrInvalidSignature
		}
		if errors.Is(err, midtrans.ErrConfigInvalid) {
			return ErrPaymentNotConfigured
		}
		return err
	}
	return nil
}

// ConfirmPaid 异步处理支付完成后的订单确认
func (s *OrderService) ConfirmPaid(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		logger.Warnw("order_paid_task_status_mismatch", "order_code", order.OrderCode, "status", order.PaymentStatus)
		return nil
	}
	if order.PaidAt == nil {
		now := s.now()
		if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{"paid_at": now}); err != nil {
			return err
		}
	}
	tier := ""
	if order.Package != nil {
		tier = order.Package.Tier
	}
	logger.Infow("order_paid_confirmed",
		"order_code", order.OrderCode,
		"user_id", order.UserID,
		"tier", tier,
		"amount", order.Amount.String(),
	)
	return nil
}

// CancelOrder 用户取消待支付订单
func (s *OrderService) CancelOrder(userID uint, code string) (*models.Order, error) {
	order, err := s.GetUserOrder(userID, code)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrInvalidOrderState
	}
	now := s.now()
	moved, err := s.orderRepo.TransitionStatus(order.ID,
		[]string{constants.PaymentStatusPending},
		constants.PaymentStatusCanceled,
		map[string]interface{}{"canceled_at": now},
	)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidOrderState
	}
	order.PaymentStatus = constants.PaymentStatusCanceled
	order.CanceledAt = &now
	logger.Infow("order_canceled", "order_code", order.OrderCode, "user_id", userID)
	return order, nil
}

// GetUserOrder 获取用户自己的订单
func (s *OrderService) GetUserOrder(userID uint, code string) (*models.Order, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListUserOrders 用户订单列表
func (s *OrderService) ListUserOrders(userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	return s.orderRepo.ListByUser(filter)
}

// ListAdminOrders 后台订单列表
func (s *OrderService) ListAdminOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

func (s *OrderService) allocateOrderCode() (string, error) {
	for i := 0; i < maxOrderCodeAttempts; i++ {
		code, err := generateOrderCode()
		if err != nil {
			return "", err
		}
		exists, err := s.orderRepo.ExistsCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrOrderCodeExhausted
}

// generateOrderCode 生成 ORDER- 加 6 位大写字母数字
func generateOrderCode() (string, error) {
	var b strings.Builder
	b.WriteString(orderCodePrefix)
	limit := big.NewInt(int64(len(orderCodeCharset)))
	for i := 0; i < orderCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(orderCodeCharset[n.Int64()])
	}
	return b.String(), nil
}

func buildCreateInput(order *models.Order, pkg *models.Package, user *models.User) midtrans.CreateInput {
	gross := order.Amount.GatewayAmount()
	itemName := "Package"
	itemID := strconv.FormatUint(uint64(order.PackageID), 10)
	if pkg != nil {
		itemName = pkg.Name
	}
	return midtrans.CreateInput{
		OrderID:     order.OrderCode,
		GrossAmount: gross,
		Customer: midtrans.Customer{
			FirstName: user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
		},
		Items: []midtrans.Item{{
			ID:       itemID,
			Price:    gross,
			Quantity: 1,
			Name:     itemName,
		}},
	}
}
