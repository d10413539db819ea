package core

import (
	"encoding/json"
	"fmt"
)

// Record pairs a package name with its check outcome.
type Record struct {
	Name string `json:"name"`
	Outcome
}

// Report aggregates the records of one batch run, in input order.
type Report struct {
	Records []Record `json:"packages"`
}

// NewerOnly returns a copy of the report containing only packages with a
// newer upstream version.
func (r Report) NewerOnly() Report {
	var out Report
	for _, rec := range r.Records {
		if rec.Outdated {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// Lines renders the human-readable report, one line per package:
//
//	jq : 1.7.1 ==> 1.8.0
//	old-tool : skipped - no longer maintained
//	flaky : error
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		lines = append(lines, rec.Line())
	}
	return lines
}

// Line renders one record in the human-readable format.
func (rec Record) Line() string {
	switch rec.Status {
	case StatusSuccess:
		return fmt.Sprintf("%s : %s ==> %s", rec.Name, rec.Current, rec.Latest)
	case StatusSkipped, StatusDeprecated, StatusVersioned:
		if len(rec.Messages) > 0 {
			return fmt.Sprintf("%s : skipped - %s", rec.Name, rec.Messages[0])
		}
		return fmt.Sprintf("%s : skipped", rec.Name)
	default:
		return fmt.Sprintf("%s : error", rec.Name)
	}
}

// JSON renders the report as a single indented JSON document.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
