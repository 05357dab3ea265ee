package channel

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jdziat/livejobs/pkg/core"
)

// ParsePayload decodes the JSON body of a job lifecycle event.
// The body must be an object with a non-empty string id.
func ParsePayload(data string) (core.JobPayload, error) {
	if !gjson.Valid(data) {
		return core.JobPayload{}, fmt.Errorf("%w: not valid JSON", core.ErrInvalidPayload)
	}
	doc := gjson.Parse(data)
	if !doc.IsObject() {
		return core.JobPayload{}, fmt.Errorf("%w: not an object", core.ErrInvalidPayload)
	}
	// A missing id renders as empty; only undecodable data is rejected.
	p := core.JobPayload{
		ID:         doc.Get("id").String(),
		JobType:    doc.Get("jobType").String(),
		Status:     doc.Get("status").String(),
		Priority:   doc.Get("priority").String(),
		UserID:     doc.Get("userId").String(),
		MaxRetries: int(doc.Get("maxRetries").Int()),
		RetryInMs:  doc.Get("retryInMs").Int(),
		DurationMs: doc.Get("durationMs").Int(),
	}
	// JOB_FAILED reports the count as "attempts".
	if a := doc.Get("attempt"); a.Exists() {
		p.Attempt = int(a.Int())
	} else {
		p.Attempt = int(doc.Get("attempts").Int())
	}
	if r := doc.Get("result"); r.Exists() && r.Type != gjson.Null {
		s := r.String()
		p.Result = &s
	}
	return p, nil
}
