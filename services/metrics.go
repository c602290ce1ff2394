package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linesMerged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_order_lines_merged_total",
		Help: "Order lines written by the aggregator, by line kind and operation (insert, increment).",
	}, []string{"kind", "op"})

	catalogMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atelier_catalog_lookup_misses_total",
		Help: "Submitted catalog ids that did not resolve to a live entry.",
	})

	sequenceNumbersIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_sequence_numbers_issued_total",
		Help: "Document numbers issued, by path (persisted, fallback).",
	}, []string{"path"})
)
