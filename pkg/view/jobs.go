package view

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/security"
)

// EmptyMessage is shown instead of an empty jobs table.
const EmptyMessage = "No jobs found"

// Row is one rendered job.
type Row struct {
	ID       string
	ShortID  string
	Type     string
	Status   string
	Tone     Tone
	Priority string
	Retries  string
	Created  string
	Result   string
	UserID   string
	Payload  string
}

// FormatJob renders j. Times use the local zone.
func FormatJob(j core.Job) Row {
	r := Row{
		ID:       security.SanitizeText(j.ID),
		ShortID:  security.SanitizeText(security.ShortID(j.ID)) + "…",
		Type:     security.SanitizeText(j.JobType),
		Status:   security.SanitizeText(string(j.Status)),
		Tone:     StatusTone(j.Status),
		Priority: security.SanitizeText(string(j.Priority)),
		Retries:  Placeholder,
		Created:  Placeholder,
		Result:   Placeholder,
		UserID:   Placeholder,
		Payload:  "{}",
	}
	if j.AttemptCount > 0 {
		r.Retries = strconv.Itoa(j.AttemptCount) + " / " + strconv.Itoa(j.MaxRetries)
	}
	if !j.CreatedAt.IsZero() {
		r.Created = j.CreatedAt.Local().Format(time.TimeOnly)
	}
	if res := j.ResultText(); res != "" {
		r.Result = security.Truncate(security.SanitizeText(res), security.MaxResultLength)
	}
	if j.UserID != "" {
		r.UserID = security.SanitizeText(j.UserID)
	}
	if len(j.Payload) > 0 && string(j.Payload) != "null" {
		r.Payload = security.SanitizeText(string(j.Payload))
	}
	return r
}

// FormatJobs renders every job in order.
func FormatJobs(jobs core.JobSnapshot) []Row {
	rows := make([]Row, len(jobs))
	for i := range jobs {
		rows[i] = FormatJob(jobs[i])
	}
	return rows
}

// StatusTone colors a status badge.
func StatusTone(s core.JobStatus) Tone {
	switch s.Canonical() {
	case core.StatusSucceeded:
		return ToneGood
	case core.StatusRunning, core.StatusRetryScheduled:
		return ToneWarn
	case core.StatusFailed, core.StatusDeadLettered:
		return ToneBad
	default:
		return ToneNone
	}
}

// CSVColumns is the header written by WriteCSV.
var CSVColumns = []string{"id", "jobType", "status", "priority", "attemptCount", "maxRetries", "userId", "createdAt", "result"}

// WriteCSV writes jobs with a CSVColumns header. Values are written raw.
func WriteCSV(w io.Writer, jobs core.JobSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, j := range jobs {
		created := ""
		if !j.CreatedAt.IsZero() {
			created = j.CreatedAt.Format(time.RFC3339Nano)
		}
		record := []string{
			j.ID,
			j.JobType,
			string(j.Status),
			string(j.Priority),
			strconv.Itoa(j.AttemptCount),
			strconv.Itoa(j.MaxRetries),
			j.UserID,
			created,
			j.ResultText(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
