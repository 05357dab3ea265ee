package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSummary_AbsentFieldsStayNil(t *testing.T) {
	var s StatsSummary
	require.NoError(t, json.Unmarshal([]byte(`{"totalQueued": 0, "successRate": 95.5}`), &s))

	require.NotNil(t, s.TotalQueued)
	assert.Equal(t, int64(0), *s.TotalQueued)
	require.NotNil(t, s.SuccessRate)
	assert.Equal(t, 95.5, *s.SuccessRate)
	assert.Nil(t, s.AvgLatencyMs)
	assert.Nil(t, s.TotalRunning)
}

func TestStatsSummary_MergeKeepsAbsentFields(t *testing.T) {
	prev := StatsSummary{AvgLatencyMs: Float64(250), TotalQueued: Int64(4)}
	next := StatsSummary{TotalQueued: Int64(7), RetryRate: Float64(12)}

	merged := prev.Merge(next)

	assert.Equal(t, 250.0, *merged.AvgLatencyMs)
	assert.Equal(t, int64(7), *merged.TotalQueued)
	assert.Equal(t, 12.0, *merged.RetryRate)
	assert.Nil(t, merged.SuccessRate)

	// prev is untouched
	assert.Equal(t, int64(4), *prev.TotalQueued)
}

func TestStatsSummary_CloneIsDeep(t *testing.T) {
	orig := StatsSummary{TotalDlq: Int64(1)}
	c := orig.Clone()
	*c.TotalDlq = 99
	assert.Equal(t, int64(1), *orig.TotalDlq)
}
