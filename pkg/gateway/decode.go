package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jdziat/livejobs/pkg/core"
)

// wireJob shadows the timestamp fields of core.Job so that each one is
// parsed leniently instead of failing the whole page.
type wireJob struct {
	core.Job
	CreatedAt   json.RawMessage `json:"createdAt"`
	ScheduledAt json.RawMessage `json:"scheduledAt"`
	StartedAt   json.RawMessage `json:"startedAt"`
	CompletedAt json.RawMessage `json:"completedAt"`
	UpdatedAt   json.RawMessage `json:"updatedAt"`
}

// Local layouts without a zone offset are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// decodeJobs decodes a job array element by element. Elements that are not
// job objects are skipped; unreadable timestamps are left unset.
func (g *Gateway) decodeJobs(v gjson.Result) (core.JobSnapshot, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return core.JobSnapshot{}, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: expected a job array", core.ErrDecode)
	}

	jobs := core.JobSnapshot{}
	for i, elem := range v.Array() {
		var w wireJob
		if !elem.IsObject() {
			g.logger.Debug("skipping job entry", "index", i, "error", "not an object")
			continue
		}
		if err := json.Unmarshal([]byte(elem.Raw), &w); err != nil {
			g.logger.Debug("skipping job entry", "index", i, "error", err)
			continue
		}
		job := w.Job
		if t, ok := parseTime(w.CreatedAt); ok {
			job.CreatedAt = t
		}
		job.ScheduledAt = optionalTime(w.ScheduledAt)
		job.StartedAt = optionalTime(w.StartedAt)
		job.CompletedAt = optionalTime(w.CompletedAt)
		job.UpdatedAt = optionalTime(w.UpdatedAt)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// parseTime accepts ISO-8601 strings with or without an offset and numeric
// epoch values in seconds or milliseconds.
func parseTime(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.String:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v.Str); err == nil {
				return t, true
			}
		}
	case gjson.Number:
		secs := v.Float()
		if secs > 1e11 {
			secs /= 1000
		}
		whole := int64(secs)
		nanos := int64((secs - float64(whole)) * 1e9)
		return time.Unix(whole, nanos).UTC(), true
	}
	return time.Time{}, false
}

func optionalTime(raw json.RawMessage) *time.Time {
	t, ok := parseTime(raw)
	if !ok {
		return nil
	}
	return &t
}
