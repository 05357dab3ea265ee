package core

// StatsSummary holds queue statistics. A nil field was not computed by the
// backend and must not be rendered as zero.
type StatsSummary struct {
	HighQueueSize   *int64 `json:"highQueueSize,omitempty"`
	NormalQueueSize *int64 `json:"normalQueueSize,omitempty"`
	LowQueueSize    *int64 `json:"lowQueueSize,omitempty"`
	TotalQueued     *int64 `json:"totalQueued,omitempty"`
	TotalRunning    *int64 `json:"totalRunning,omitempty"`
	TotalSuccess    *int64 `json:"totalSuccess,omitempty"`
	TotalFailed     *int64 `json:"totalFailed,omitempty"`
	TotalDlq        *int64 `json:"totalDlq,omitempty"`
	TotalProcessed  *int64 `json:"totalProcessed,omitempty"`

	SuccessRate         *float64 `json:"successRate,omitempty"`
	RetryRate           *float64 `json:"retryRate,omitempty"`
	ThroughputPerMinute *float64 `json:"throughputPerMinute,omitempty"`
	AvgLatencyMs        *float64 `json:"avgLatencyMs,omitempty"`
}

// Merge overlays the fields present in next onto s and returns the result.
// Fields absent from next keep the value from s.
func (s StatsSummary) Merge(next StatsSummary) StatsSummary {
	out := s
	mergeInt(&out.HighQueueSize, next.HighQueueSize)
	mergeInt(&out.NormalQueueSize, next.NormalQueueSize)
	mergeInt(&out.LowQueueSize, next.LowQueueSize)
	mergeInt(&out.TotalQueued, next.TotalQueued)
	mergeInt(&out.TotalRunning, next.TotalRunning)
	mergeInt(&out.TotalSuccess, next.TotalSuccess)
	mergeInt(&out.TotalFailed, next.TotalFailed)
	mergeInt(&out.TotalDlq, next.TotalDlq)
	mergeInt(&out.TotalProcessed, next.TotalProcessed)
	mergeFloat(&out.SuccessRate, next.SuccessRate)
	mergeFloat(&out.RetryRate, next.RetryRate)
	mergeFloat(&out.ThroughputPerMinute, next.ThroughputPerMinute)
	mergeFloat(&out.AvgLatencyMs, next.AvgLatencyMs)
	return out
}

// Clone returns a deep copy so callers cannot mutate stored values.
func (s StatsSummary) Clone() StatsSummary {
	return StatsSummary{}.Merge(s)
}

func mergeInt(dst **int64, src *int64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
