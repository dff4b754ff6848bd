package worker

import (
	"context"
	"fmt"

	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/metrics"
	"github.com/volumescan/internal/queue"

	"github.com/hibiken/asynq"
)

// 对账结果
const (
	ReconcileComplete   = "complete"
	ReconcileIncomplete = "incomplete"
	ReconcileExceeded   = "exceeded"
	ReconcileUndeclared = "undeclared"
)

// BranchReconciliation 单个分支的对账结果
type BranchReconciliation struct {
	BranchID        string
	ScannedVolumes  int64
	TotalVolumes    *int
	MissingVolumes  int64
	ExceededVolumes int64
	Status          string
}

// Consumer 异步任务消费者
type Consumer struct{}

// NewConsumer 创建消费者
func NewConsumer() *Consumer {
	return &Consumer{}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSessionClosed, c.handleSessionClosed)
}

func (c *Consumer) handleSessionClosed(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_session_closed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseSessionClosedPayload(task)
	if err != nil {
		logger.Warnw("worker_session_closed_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if len(payload.Branches) == 0 {
		logger.Debugw("worker_session_closed_skip_empty", "closed_at", payload.ClosedAt)
		return nil
	}

	results := ReconcileSession(payload)
	var incomplete int
	for _, result := range results {
		metrics.BranchesReconciled.WithLabelValues(result.Status).Inc()
		fields := []interface{}{
			"closed_at", payload.ClosedAt,
			"branch_id", result.BranchID,
			"scanned_volumes", result.ScannedVolumes,
			"status", result.Status,
		}
		if result.TotalVolumes != nil {
			fields = append(fields, "total_volumes", *result.TotalVolumes)
		}
		switch result.Status {
		case ReconcileComplete:
			logger.Infow("branch_reconciled", fields...)
		case ReconcileIncomplete:
			incomplete++
			logger.Warnw("worker_session_branch_missing_volumes", append(fields, "missing_volumes", result.MissingVolumes)...)
		case ReconcileExceeded:
			logger.Warnw("worker_session_branch_exceeded_volumes", append(fields, "exceeded_volumes", result.ExceededVolumes)...)
		default:
			logger.Infow("worker_session_branch_undeclared", fields...)
		}
	}
	logger.Infow("worker_session_closed_processed",
		"closed_at", payload.ClosedAt,
		"branches", len(results),
		"incomplete_branches", incomplete,
	)
	return nil
}

// ReconcileSession 对比清空时刻各分支的已扫件数与申报件数
func ReconcileSession(payload queue.SessionClosedPayload) []BranchReconciliation {
	results := make([]BranchReconciliation, 0, len(payload.Branches))
	for _, branch := range payload.Branches {
		result := BranchReconciliation{
			BranchID:       branch.BranchID,
			ScannedVolumes: branch.ScannedVolumes,
			TotalVolumes:   branch.TotalVolumes,
		}
		switch {
		case branch.TotalVolumes == nil:
			result.Status = ReconcileUndeclared
		case branch.ScannedVolumes < int64(*branch.TotalVolumes):
			result.Status = ReconcileIncomplete
			result.MissingVolumes = int64(*branch.TotalVolumes) - branch.ScannedVolumes
		case branch.ScannedVolumes > int64(*branch.TotalVolumes):
			result.Status = ReconcileExceeded
			result.ExceededVolumes = branch.ScannedVolumes - int64(*branch.TotalVolumes)
		default:
			result.Status = ReconcileComplete
		}
		results = append(results, result)
	}
	return results
}
