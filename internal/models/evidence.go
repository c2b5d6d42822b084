package models

// SourceType tags where an evidence item came from.
type SourceType string

const (
	SourceLog       SourceType = "log"
	SourceDeploy    SourceType = "deploy"
	SourceMetric    SourceType = "metric"
	SourceSearchLog SourceType = "search_log"
)

// EvidenceItem is a single normalized observation considered for an incident.
// The ID is only unique within one triage request, format "{type}#{n}" with n
// 1-based inside its source batch.
type EvidenceItem struct {
	ID        string     `json:"id"`
	Type      SourceType `json:"type"`
	Text      string     `json:"text"`
	Host      string     `json:"host,omitempty"`
	Timestamp string     `json:"timestamp,omitempty"`
}

// ScoredEvidenceItem is an EvidenceItem after correlation scoring.
type ScoredEvidenceItem struct {
	EvidenceItem
	Score int `json:"score"`
}

// TopEvidence is one of the highest-ranked tuples in a CorrelationSummary.
type TopEvidence struct {
	ID    string     `json:"id"`
	Type  SourceType `json:"type"`
	Score int        `json:"score"`
}

// CorrelationSummary is an observability digest of a scoring pass. It is
// logged, never sent to the model.
type CorrelationSummary struct {
	Total        int                `json:"total"`
	CountsByType map[SourceType]int `json:"counts_by_type"`
	CountsByHost map[string]int     `json:"counts_by_host"`
	SeverityHits int                `json:"severity_hits"`
	Top          []TopEvidence      `json:"top"`
}

// Raw source records, as returned by the collectors.

type LogRecord struct {
	Timestamp string `bson:"timestamp" json:"timestamp"`
	Host      string `bson:"host" json:"host"`
	Level     string `bson:"level" json:"level"`
	Message   string `bson:"message" json:"message"`
}

type DeployRecord struct {
	Timestamp   string `bson:"timestamp" json:"timestamp"`
	Commit      string `bson:"commit" json:"commit"`
	Message     string `bson:"message" json:"message"`
	Author      string `bson:"author,omitempty" json:"author,omitempty"`
	DiffSummary string `bson:"diff_summary,omitempty" json:"diff_summary,omitempty"`
}

type MetricRecord struct {
	Timestamp string  `bson:"timestamp" json:"timestamp"`
	Host      string  `bson:"host" json:"host"`
	Metric    string  `bson:"metric" json:"metric"`
	Value     float64 `bson:"value" json:"value"`
}

// IndexRecord is one hit from the external search index (Splunk-shaped).
type IndexRecord struct {
	Raw   string `json:"raw"`
	Time  string `json:"time"`
	Host  string `json:"host"`
	Level string `json:"level"`
	Index string `json:"index"`
}
