package domain

import "time"

// MetricType identifies what a recorded sheet metric sample measures.
type MetricType string

// Possible values for MetricType.
const (
	MetricQueryDurationMS   MetricType = "QUERY_DURATION_MS"
	MetricRefreshDurationMS MetricType = "REFRESH_DURATION_MS"
)

// SheetMetric is one recorded measurement for a sheet.
type SheetMetric struct {
	ID         int64
	SheetID    string
	Type       MetricType
	Value      float64
	RecordedAt time.Time
}

// MetricStats summarizes recorded samples using nearest-rank percentiles.
type MetricStats struct {
	Count int
	P50   float64
	P95   float64
	Max   float64
}

// PreviewSample is what the preview engine reports after a successful run.
type PreviewSample struct {
	SheetIDs   []string
	DurationMS float64
	RowCount   int
	RecordedAt time.Time
}
