package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameSplits          = "splits_total"
	NameSplitDuration   = "split_duration_seconds"
	NameArtifacts       = "artifacts_total"
	NameArtifactBytes   = "artifact_bytes_total"
	NameDeliveries      = "deliveries_total"
	NameHandoffs        = "handoffs_total"
	NameThumbnails      = "thumbnails_total"
	NameLoadedDocuments = "loaded_documents_total"

	LabelMode = "mode"
	LabelKind = "kind"
)

var Splits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameSplits,
		Help:      "Total split executions",
		Namespace: Namespace,
	},
	[]string{LabelMode, LabelStatus},
)

var SplitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameSplitDuration,
		Help:      "Duration of split executions",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelMode},
)

var Artifacts = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameArtifacts,
		Help:      "Total materialized artifacts",
		Namespace: Namespace,
	},
)

var ArtifactBytes = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameArtifactBytes,
		Help:      "Total size of materialized artifacts",
		Namespace: Namespace,
	},
)

var Deliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameDeliveries,
		Help:      "Total packaged deliveries",
		Namespace: Namespace,
	},
	[]string{LabelKind},
)

var Handoffs = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHandoffs,
		Help:      "Total chain payloads handed to another tool",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var Thumbnails = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameThumbnails,
		Help:      "Total rendered thumbnails",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var LoadedDocuments = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameLoadedDocuments,
		Help:      "Total document loads",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
	StatusCached    = "cached"
)
