// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// ミドルウェア、ストア、課金サービスの各フックから呼ばれる。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	storeRecoveries *prometheus.CounterVec
	reconcileEvents *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		storeRecoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_store_recoveries_total",
			Help: "スロットの自己修復（欠損初期化・破損回復）の回数",
		}, []string{"slot", "reason"}),
		reconcileEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_reconcile_events_total",
			Help: "処理した決済Webhookイベントの数（タイプ・結果別）",
		}, []string{"type", "outcome"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_checkouts_total",
			Help: "開始したチェックアウトの数（live/demo別）",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.storeRecoveries,
		c.reconcileEvents,
		c.checkouts,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordStoreRecovery はスロットの自己修復を記録する。
func (c *Collector) RecordStoreRecovery(slot, reason string) {
	c.storeRecoveries.WithLabelValues(slot, reason).Inc()
}

// RecordReconcileEvent は決済イベントの処理結果を記録する。
func (c *Collector) RecordReconcileEvent(eventType, outcome string) {
	c.reconcileEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordCheckout はチェックアウト開始を記録する。
func (c *Collector) RecordCheckout(mode string) {
	c.checkouts.WithLabelValues(mode).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
