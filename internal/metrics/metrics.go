package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "volumescan"

var (
	// VolumesScanned 成功登记的扫码次数
	VolumesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "volumes_scanned_total",
		Help:      "Number of volumes successfully registered.",
	})
	// DuplicateScans 被拒绝的重复扫码次数
	DuplicateScans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "volume_duplicate_scans_total",
		Help:      "Number of scans rejected because the barcode already exists.",
	})
	// VolumesDeleted 单条删除次数
	VolumesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "volumes_deleted_total",
		Help:      "Number of volumes deleted by barcode.",
	})
	// SessionsCleared 清空会话次数
	SessionsCleared = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_cleared_total",
		Help:      "Number of clear-all operations.",
	})
	// BranchTotalsSet 分支应扫件数申报次数
	BranchTotalsSet = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "branch_totals_set_total",
		Help:      "Number of branch total declarations.",
	})
	// BranchesReconciled 会话清空后按对账结果统计的分支数
	BranchesReconciled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "branches_reconciled_total",
		Help:      "Branches reconciled at session close, by outcome.",
	}, []string{"status"})
	// HTTPRequestDuration 接口耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		VolumesScanned,
		DuplicateScans,
		VolumesDeleted,
		SessionsCleared,
		BranchTotalsSet,
		BranchesReconciled,
		HTTPRequestDuration,
	)
}

// Handler Prometheus 抓取入口
func Handler() http.Handler {
	return promhttp.Handler()
}
