package queue

import (
	"encoding/json"
	"time"

	"github.com/volumescan/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSessionClosed 扫码会话清空后的对账任务
	TaskSessionClosed = constants.TaskSessionClosed
)

// BranchSnapshot 清空时刻的分支对账快照
type BranchSnapshot struct {
	BranchID       string `json:"branch_id"`
	ScannedVolumes int64  `json:"scanned_volumes"`
	TotalVolumes   *int   `json:"total_volumes,omitempty"`
}

// SessionClosedPayload 会话清空任务载荷
type SessionClosedPayload struct {
	ClosedAt time.Time        `json:"closed_at"`
	Branches []BranchSnapshot `json:"branches"`
}

// NewSessionClosedTask 创建会话清空任务
func NewSessionClosedTask(payload SessionClosedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionClosed, body), nil
}

// ParseSessionClosedPayload 解析会话清空任务载荷
func ParseSessionClosedPayload(task *asynq.Task) (SessionClosedPayload, error) {
	var payload SessionClosedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
