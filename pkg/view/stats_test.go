package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/livejobs/pkg/core"
)

func cell(t *testing.T, cells []Cell, key string) Cell {
	t.Helper()
	c, ok := Lookup(cells, key)
	require.True(t, ok, "missing cell %s", key)
	return c
}

func TestFormatStats_Counts(t *testing.T) {
	cells := FormatStats(core.StatsSummary{
		HighQueueSize: core.Int64(2),
		TotalDlq:      core.Int64(0),
	})

	assert.Len(t, cells, 12)
	assert.Equal(t, "2", cell(t, cells, KeyHigh).Value)
	assert.Equal(t, "0", cell(t, cells, KeyDLQ).Value)
	assert.Equal(t, Placeholder, cell(t, cells, KeyLow).Value)
}

func TestFormatStats_Absent(t *testing.T) {
	cells := FormatStats(core.StatsSummary{})
	for _, c := range cells {
		assert.Equal(t, Placeholder, c.Value, c.Key)
		assert.Equal(t, ToneNone, c.Tone, c.Key)
	}
}

func TestFormatStats_SuccessRate(t *testing.T) {
	tests := []struct {
		rate  float64
		value string
		tone  Tone
	}{
		{95.25, "95.2%", ToneGood},
		{90, "90.0%", ToneGood},
		{89.9, "89.9%", ToneWarn},
		{70, "70.0%", ToneWarn},
		{12.34, "12.3%", ToneBad},
	}
	for _, tt := range tests {
		c := cell(t, FormatStats(core.StatsSummary{SuccessRate: core.Float64(tt.rate)}), KeySuccessRate)
		assert.Equal(t, tt.value, c.Value)
		assert.Equal(t, tt.tone, c.Tone, tt.value)
	}
}

func TestFormatStats_RetryRate(t *testing.T) {
	tests := []struct {
		rate float64
		tone Tone
	}{
		{0, ToneGood},
		{10, ToneGood},
		{10.1, ToneWarn},
		{30, ToneWarn},
		{30.5, ToneBad},
	}
	for _, tt := range tests {
		c := cell(t, FormatStats(core.StatsSummary{RetryRate: core.Float64(tt.rate)}), KeyRetryRate)
		assert.Equal(t, tt.tone, c.Tone, tt.rate)
	}
}

func TestFormatStats_Throughput(t *testing.T) {
	c := cell(t, FormatStats(core.StatsSummary{ThroughputPerMinute: core.Float64(12.345)}), KeyThroughput)
	assert.Equal(t, "12.3/min", c.Value)
	assert.Equal(t, ToneNone, c.Tone)
}

func TestFormatStats_Latency(t *testing.T) {
	tests := []struct {
		ms    float64
		value string
		tone  Tone
	}{
		{0, Placeholder, ToneGood},
		{0.4, Placeholder, ToneGood},
		{250.6, "251ms", ToneGood},
		{1000, "1000ms", ToneGood},
		{1001, "1001ms", ToneWarn},
		{5000, "5000ms", ToneWarn},
		{7200, "7200ms", ToneBad},
	}
	for _, tt := range tests {
		c := cell(t, FormatStats(core.StatsSummary{AvgLatencyMs: core.Float64(tt.ms)}), KeyLatency)
		assert.Equal(t, tt.value, c.Value)
		assert.Equal(t, tt.tone, c.Tone, tt.value)
	}
}

func TestLookup_Missing(t *testing.T) {
	_, ok := Lookup(FormatStats(core.StatsSummary{}), "nope")
	assert.False(t, ok)
}
