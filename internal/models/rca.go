package models

// RootCause is one hypothesized cause grounded in cited evidence ids.
type RootCause struct {
	Cause       string   `json:"cause"`
	Evidence    []string `json:"evidence"`
	Probability int      `json:"probability"`
}

// SuggestedAction is one remediation step. Type is one of
// mitigate|fix|monitor|rollback, Risk one of low|medium|high.
type SuggestedAction struct {
	Action       string   `json:"action"`
	Type         string   `json:"type"`
	Risk         string   `json:"risk"`
	ETAMinutes   *int     `json:"eta_minutes,omitempty"`
	Evidence     []string `json:"evidence"`
	RollbackPlan string   `json:"rollback_plan,omitempty"`
}

// RCADocument is the structured root-cause-analysis returned to the caller.
// Every evidence id cited in RootCauses or SuggestedActions must be a key of
// EvidenceMap and a member of the evidence set offered to the model; that is
// enforced by the validator, never trusted to the model.
type RCADocument struct {
	Hypothesis          string            `json:"hypothesis"`
	Confidence          int               `json:"confidence"`
	Impact              string            `json:"impact"`
	RootCauses          []RootCause       `json:"root_causes"`
	ContributingFactors []string          `json:"contributing_factors"`
	SuggestedActions    []SuggestedAction `json:"suggested_actions"`
	EvidenceMap         map[string]string `json:"evidence_map"`
	Audit               *AuditRecord      `json:"audit,omitempty"`
}

// AuditRecord ties a response back to the request that produced it.
type AuditRecord struct {
	Request      TriageRequest `json:"request"`
	EvidenceUsed []string      `json:"evidence_used"`
	LatencyMS    int64         `json:"latency_ms"`
}

// TriageRequest is the service-boundary request.
type TriageRequest struct {
	Query             string `json:"query" binding:"required"`
	TimeWindowMinutes int    `json:"time_window_minutes"`
	MaxEvidence       int    `json:"max_evidence"`
}

// ApplyDefaults fills the documented defaults for omitted fields.
func (r *TriageRequest) ApplyDefaults() {
	if r.TimeWindowMinutes <= 0 {
		r.TimeWindowMinutes = 30
	}
	if r.MaxEvidence <= 0 {
		r.MaxEvidence = 6
	}
}
