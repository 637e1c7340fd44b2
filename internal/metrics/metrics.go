package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadGrantsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remix_upload_grants_issued_total",
		Help: "Presigned upload grants issued, by purpose",
	}, []string{"purpose"})
	UploadsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remix_uploads_completed_total",
		Help: "Video records created, by kind (root or remix)",
	}, []string{"kind"})
	LineageHops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "remix_lineage_hops",
		Help:    "Number of ancestors visited per lineage walk",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})
	LineageInconsistent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "remix_lineage_inconsistent_total",
		Help: "Lineage walks aborted because of corrupted parentage",
	})
	StorageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remix_presign_failures_total",
		Help: "Presigning calls that failed, by operation",
	}, []string{"op"})
)
