package view

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jdziat/livejobs/pkg/core"
)

// Placeholder is rendered for values the backend did not report.
const Placeholder = "—"

// Tone classifies a value for coloring.
type Tone int

const (
	ToneNone Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

func (t Tone) String() string {
	switch t {
	case ToneGood:
		return "good"
	case ToneWarn:
		return "warn"
	case ToneBad:
		return "bad"
	default:
		return "none"
	}
}

// Cell is one rendered statistic.
type Cell struct {
	Key   string
	Label string
	Value string
	Tone  Tone
}

// Stat keys in display order.
const (
	KeyHigh        = "high"
	KeyNormal      = "normal"
	KeyLow         = "low"
	KeyQueued      = "queued"
	KeyRunning     = "running"
	KeySuccess     = "success"
	KeyFailed      = "failed"
	KeyDLQ         = "dlq"
	KeySuccessRate = "success-rate"
	KeyRetryRate   = "retry-rate"
	KeyThroughput  = "throughput"
	KeyLatency     = "latency"
)

// FormatStats renders s as an ordered list of cells. Absent fields render
// as Placeholder with no tone.
func FormatStats(s core.StatsSummary) []Cell {
	cells := []Cell{
		countCell(KeyHigh, "High", s.HighQueueSize),
		countCell(KeyNormal, "Normal", s.NormalQueueSize),
		countCell(KeyLow, "Low", s.LowQueueSize),
		countCell(KeyQueued, "Queued", s.TotalQueued),
		countCell(KeyRunning, "Running", s.TotalRunning),
		countCell(KeySuccess, "Success", s.TotalSuccess),
		countCell(KeyFailed, "Failed", s.TotalFailed),
		countCell(KeyDLQ, "DLQ", s.TotalDlq),
		{Key: KeySuccessRate, Label: "Success rate", Value: Placeholder},
		{Key: KeyRetryRate, Label: "Retry rate", Value: Placeholder},
		{Key: KeyThroughput, Label: "Throughput", Value: Placeholder},
		{Key: KeyLatency, Label: "Avg latency", Value: Placeholder},
	}

	if v := s.SuccessRate; v != nil {
		cells[8].Value = fmt.Sprintf("%.1f%%", *v)
		cells[8].Tone = successTone(*v)
	}
	if v := s.RetryRate; v != nil {
		cells[9].Value = fmt.Sprintf("%.1f%%", *v)
		cells[9].Tone = retryTone(*v)
	}
	if v := s.ThroughputPerMinute; v != nil {
		cells[10].Value = fmt.Sprintf("%.1f/min", *v)
	}
	if v := s.AvgLatencyMs; v != nil {
		ms := int64(math.Round(*v))
		if ms > 0 {
			cells[11].Value = strconv.FormatInt(ms, 10) + "ms"
		}
		cells[11].Tone = latencyTone(ms)
	}
	return cells
}

// Lookup returns the cell with key, or false.
func Lookup(cells []Cell, key string) (Cell, bool) {
	for _, c := range cells {
		if c.Key == key {
			return c, true
		}
	}
	return Cell{}, false
}

func countCell(key, label string, v *int64) Cell {
	c := Cell{Key: key, Label: label, Value: Placeholder}
	if v != nil {
		c.Value = strconv.FormatInt(*v, 10)
	}
	return c
}

func successTone(v float64) Tone {
	switch {
	case v >= 90:
		return ToneGood
	case v >= 70:
		return ToneWarn
	default:
		return ToneBad
	}
}

func retryTone(v float64) Tone {
	switch {
	case v <= 10:
		return ToneGood
	case v <= 30:
		return ToneWarn
	default:
		return ToneBad
	}
}

func latencyTone(ms int64) Tone {
	switch {
	case ms <= 1000:
		return ToneGood
	case ms <= 5000:
		return ToneWarn
	default:
		return ToneBad
	}
}
