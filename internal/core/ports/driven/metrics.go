package driven

import (
	"time"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// MetricsRecorder receives pipeline measurements.
// This is an optional service - when nil, nothing is recorded.
type MetricsRecorder interface {
	// ObserveAnalysis records one completed analysis.
	ObserveAnalysis(lang domain.Language, stage string, counts domain.TierCounts, elapsed time.Duration)

	// ObserveFallback records a scorer failure that fell back to the next scorer.
	ObserveFallback(scorer string)

	// ObserveExtraction records an extraction attempt by format.
	ObserveExtraction(format string, err error)

	// ObserveCache records a cache lookup.
	ObserveCache(hit bool)
}
