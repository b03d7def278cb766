package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the settlement engine.
type Metrics struct {
	// --- Engine ---
	AuctionsCreated   *prometheus.CounterVec
	BidsAccepted      *prometheus.CounterVec
	BidsRejected      *prometheus.CounterVec
	BidDuration       *prometheus.HistogramVec
	AuctionsDealt     *prometheus.CounterVec
	AuctionsCancelled *prometheus.CounterVec
	EngineSequence    prometheus.Gauge

	// --- Inventory ---
	ReserveInAuction  *prometheus.GaugeVec
	TargetInAuction   prometheus.Gauge
	StandardInAuction prometheus.Gauge
	SurplusInAuction  prometheus.Gauge

	// --- Sweep ---
	SweepRuns        *prometheus.CounterVec
	SweepSubmissions prometheus.Counter
	SweepScanned     prometheus.Counter
	SweepDuration    prometheus.Histogram

	// --- Persistence ---
	PersistEventsWritten prometheus.Counter
	PersistBatchDur      prometheus.Histogram
	PersistErrors        *prometheus.CounterVec

	// --- Publishing ---
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	latencyBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01,
	}

	return &Metrics{
		AuctionsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_created_total",
			Help: "Auctions created, by kind",
		}, []string{"kind"}),

		BidsAccepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_bids_accepted_total",
			Help: "Bids accepted by the engine, by kind",
		}, []string{"kind"}),

		BidsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_bids_rejected_total",
			Help: "Bids rejected (zero price, increment rule, unknown id)",
		}, []string{"kind", "reason"}),

		BidDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auction_bid_duration_seconds",
			Help:    "Time to process a single bid",
			Buckets: latencyBuckets,
		}, []string{"kind"}),

		AuctionsDealt: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_dealt_total",
			Help: "Auctions settled with a winner, by kind and route",
		}, []string{"kind", "route"}),

		AuctionsCancelled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_cancelled_total",
			Help: "Auctions cancelled or expired without bids, by kind",
		}, []string{"kind"}),

		EngineSequence: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "auction_engine_sequence",
			Help: "Current engine event sequence",
		}),

		ReserveInAuction: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auction_reserve_in_auction",
			Help: "Collateral currently locked in reserve auctions, per currency",
		}, []string{"currency"}),

		TargetInAuction: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "auction_target_in_auction",
			Help: "Sum of outstanding reserve auction targets",
		}),

		StandardInAuction: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "auction_standard_in_auction",
			Help: "Sum of outstanding mint auction fixes",
		}),

		SurplusInAuction: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "auction_surplus_in_auction",
			Help: "Surplus currently offered in surplus auctions",
		}),

		SweepRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_sweep_runs_total",
			Help: "Sweep invocations, by outcome (completed, resumed, lease_held)",
		}, []string{"outcome"}),

		SweepSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auction_sweep_submissions_total",
			Help: "Cancellation requests submitted by the sweep",
		}),

		SweepScanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auction_sweep_scanned_total",
			Help: "Auction items examined by the sweep",
		}),

		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auction_sweep_duration_seconds",
			Help:    "Duration of one sweep invocation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		PersistEventsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auction_persist_events_written_total",
			Help: "Events written to the event log",
		}),

		PersistBatchDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auction_persist_batch_duration_seconds",
			Help:    "Duration of one event log flush",
			Buckets: latencyBuckets,
		}),

		PersistErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_persist_errors_total",
			Help: "Event log write failures, by stage",
		}, []string{"stage"}),

		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auction_publish_errors_total",
			Help: "Outbound NATS publish failures",
		}),
	}
}
