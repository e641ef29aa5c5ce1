package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	securityEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreadmin_security_events_total",
		Help: "Total number of security events appended to the log",
	})
	failedLoginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreadmin_failed_logins_total",
		Help: "Total number of failed login attempts recorded",
	})
	blocksIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coreadmin_blocks_issued_total",
		Help: "Total number of account blocks issued, by block type",
	}, []string{"block_type"})
	blocksExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreadmin_blocks_expired_total",
		Help: "Total number of blocks deactivated by lazy expiry",
	})
	unblocksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreadmin_unblocks_total",
		Help: "Total number of explicit unblocks",
	})
	multipleIPDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreadmin_multiple_ip_detected_total",
		Help: "Total number of multiple-IP anomaly detections",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		securityEventsTotal,
		failedLoginsTotal,
		blocksIssuedTotal,
		blocksExpiredTotal,
		unblocksTotal,
		multipleIPDetectedTotal,
	)
}

// IncSecurityEvent increments the appended events counter.
func IncSecurityEvent() { securityEventsTotal.Inc() }

// IncFailedLogin increments the failed logins counter.
func IncFailedLogin() { failedLoginsTotal.Inc() }

// IncBlockIssued increments the issued blocks counter for a block type.
func IncBlockIssued(blockType string) { blocksIssuedTotal.WithLabelValues(blockType).Inc() }

// IncBlockExpired increments the lazily expired blocks counter.
func IncBlockExpired() { blocksExpiredTotal.Inc() }

// IncUnblock increments the explicit unblocks counter.
func IncUnblock() { unblocksTotal.Inc() }

// IncMultipleIPDetected increments the multiple-IP detections counter.
func IncMultipleIPDetected() { multipleIPDetectedTotal.Inc() }
