package nomad

import "encoding/json"

// TokenHeader carries the ACL token on every request when one is configured
const TokenHeader = "X-Nomad-Token"

// JobSummary is one entry of GET /v1/jobs
type JobSummary struct {
	ID       string `json:"ID"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Status   string `json:"Status"`
	ParentID string `json:"ParentID"` // Set for instances spawned by periodic or parameterized jobs
}

// IsChild reports whether the job was spawned by a parent job
func (j JobSummary) IsChild() bool {
	return j.ParentID != ""
}

// registerRequest is the body of POST /v1/jobs. The definition is passed through untouched.
type registerRequest struct {
	Job json.RawMessage `json:"Job"`
}
