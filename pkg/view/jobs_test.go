package view

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/livejobs/pkg/core"
)

func TestFormatJob(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)
	result := strings.Repeat("x", 80)
	r := FormatJob(core.Job{
		ID:           "0123456789abcdef",
		JobType:      "email",
		Status:       core.StatusRetryScheduled,
		Priority:     core.PriorityHigh,
		AttemptCount: 2,
		MaxRetries:   5,
		UserID:       "u-1",
		Payload:      json.RawMessage(`{"to":"a@b"}`),
		Result:       &result,
		CreatedAt:    created,
	})

	assert.Equal(t, "01234567…", r.ShortID)
	assert.Equal(t, "0123456789abcdef", r.ID)
	assert.Equal(t, "email", r.Type)
	assert.Equal(t, "RETRY_SCHEDULED", r.Status)
	assert.Equal(t, ToneWarn, r.Tone)
	assert.Equal(t, "HIGH", r.Priority)
	assert.Equal(t, "2 / 5", r.Retries)
	assert.Equal(t, created.Local().Format(time.TimeOnly), r.Created)
	assert.Equal(t, strings.Repeat("x", 60), r.Result)
	assert.Equal(t, "u-1", r.UserID)
	assert.Equal(t, `{"to":"a@b"}`, r.Payload)
}

func TestFormatJob_Placeholders(t *testing.T) {
	empty := ""
	r := FormatJob(core.Job{ID: "abc", Result: &empty})

	assert.Equal(t, "abc…", r.ShortID)
	assert.Equal(t, Placeholder, r.Retries)
	assert.Equal(t, Placeholder, r.Created)
	assert.Equal(t, Placeholder, r.Result)
	assert.Equal(t, Placeholder, r.UserID)
	assert.Equal(t, "{}", r.Payload)
	assert.Equal(t, ToneNone, r.Tone)
}

func TestFormatJob_SanitizesServerStrings(t *testing.T) {
	result := "done\x1b[31m red\nnext"
	r := FormatJob(core.Job{ID: "id\x07", JobType: "a\tb", Result: &result})

	assert.Equal(t, "id", r.ID)
	assert.Equal(t, "a b", r.Type)
	assert.Equal(t, "done red next", r.Result)
}

func TestStatusTone(t *testing.T) {
	assert.Equal(t, ToneGood, StatusTone(core.StatusSuccess))
	assert.Equal(t, ToneGood, StatusTone(core.StatusSucceeded))
	assert.Equal(t, ToneWarn, StatusTone(core.StatusRunning))
	assert.Equal(t, ToneBad, StatusTone(core.StatusDLQ))
	assert.Equal(t, ToneBad, StatusTone(core.StatusFailed))
	assert.Equal(t, ToneNone, StatusTone(core.StatusCreated))
	assert.Equal(t, ToneNone, StatusTone("WHATEVER"))
}

func TestFormatJobs_KeepsOrder(t *testing.T) {
	rows := FormatJobs(core.JobSnapshot{{ID: "b"}, {ID: "a"}})
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, "a", rows[1].ID)
}

func TestWriteCSV(t *testing.T) {
	result := `said "hi", left`
	jobs := core.JobSnapshot{
		{ID: "j1", JobType: "email", Status: core.StatusSucceeded, Priority: core.PriorityLow,
			AttemptCount: 1, MaxRetries: 3, UserID: "u", Result: &result,
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "j2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, jobs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVColumns, records[0])
	assert.Equal(t, []string{"j1", "email", "SUCCEEDED", "LOW", "1", "3", "u", "2026-03-01T09:00:00Z", result}, records[1])
	assert.Equal(t, []string{"j2", "", "", "", "0", "0", "", "", ""}, records[2])
}
