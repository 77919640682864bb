package queue

import (
	"encoding/json"

	"github.com/undangan-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaid 订单支付完成后的后续处理
	TaskOrderPaid = constants.TaskOrderPaid
	// TaskFilesCleanup 请柬删除后的文件清理
	TaskFilesCleanup = constants.TaskFilesCleanup
)

// OrderPaidPayload 订单支付完成任务载荷
type OrderPaidPayload struct {
	OrderID   uint   `json:"order_id"`
	OrderCode string `json:"order_code"`
}

// FilesCleanupPayload 文件清理任务载荷
type FilesCleanupPayload struct {
	InvitationID uint     `json:"invitation_id"`
	Paths        []string `json:"paths"`
}

// NewOrderPaidTask 创建订单支付完成任务
func NewOrderPaidTask(payload OrderPaidPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaid, body), nil
}

// NewFilesCleanupTask 创建文件清理任务
func NewFilesCleanupTask(payload FilesCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFilesCleanup, body), nil
}

// ParseOrderPaidPayload 解析订单支付完成载荷
func ParseOrderPaidPayload(task *asynq.Task) (OrderPaidPayload, error) {
	var payload OrderPaidPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseFilesCleanupPayload 解析文件清理载荷
func ParseFilesCleanupPayload(task *asynq.Task) (FilesCleanupPayload, error) {
	var payload FilesCleanupPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
