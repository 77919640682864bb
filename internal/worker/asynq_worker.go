package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/provider"
	"github.com/undangan-next/internal/queue"
	"github.com/undangan-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaid, c.handleOrderPaid)
	mux.HandleFunc(queue.TaskFilesCleanup, c.handleFilesCleanup)
}

func (c *Consumer) handleOrderPaid(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.OrderService == nil || task == nil {
		logger.Debugw("worker_order_paid_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderPaidPayload(task)
	if err != nil {
		logger.Warnw("worker_order_paid_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.OrderID == 0 {
		logger.Warnw("worker_order_paid_invalid_payload", "order_code", payload.OrderCode)
		return nil
	}
	if err := c.OrderService.ConfirmPaid(ctx, payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Warnw("worker_order_paid_order_missing", "order_id", payload.OrderID, "order_code", payload.OrderCode)
			return nil
		}
		logger.Warnw("worker_order_paid_failed", "order_id", payload.OrderID, "order_code", payload.OrderCode, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleFilesCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.UploadService == nil || task == nil {
		logger.Debugw("worker_files_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseFilesCleanupPayload(task)
	if err != nil {
		logger.Warnw("worker_files_cleanup_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	c.UploadService.Delete(ctx, payload.Paths...)
	logger.Infow("worker_files_cleanup_done", "invitation_id", payload.InvitationID, "count", len(payload.Paths))
	return nil
}
