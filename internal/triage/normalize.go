package triage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// Evidence text is capped at ingestion; the prompt applies a tighter cap later.
const maxEvidenceText = 2000

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	hexKeyPattern = regexp.MustCompile(`\b[A-Fa-f0-9]{32,}\b`)
)

// redactText scrubs the obvious PII classes before evidence text can reach a
// prompt or a response: emails and long hex secrets.
func redactText(text string) string {
	text = emailPattern.ReplaceAllString(text, "[REDACTED_EMAIL]")
	text = hexKeyPattern.ReplaceAllString(text, "[REDACTED_KEY]")
	return text
}

// newItem builds one normalized evidence item. Returns false when the record
// cannot produce non-empty text; such records are dropped, not erred.
func newItem(typ models.SourceType, n int, text, host, timestamp string) (models.EvidenceItem, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.EvidenceItem{}, false
	}
	if len(text) > maxEvidenceText {
		text = text[:maxEvidenceText]
	}
	return models.EvidenceItem{
		ID:        fmt.Sprintf("%s#%d", typ, n),
		Type:      typ,
		Text:      redactText(text),
		Host:      host,
		Timestamp: timestamp,
	}, true
}

// NormalizeLogs converts raw log records; ids are 1-based within the batch.
func NormalizeLogs(logs []models.LogRecord) []models.EvidenceItem {
	items := make([]models.EvidenceItem, 0, len(logs))
	for _, l := range logs {
		if item, ok := newItem(models.SourceLog, len(items)+1, l.Message, l.Host, l.Timestamp); ok {
			items = append(items, item)
		}
	}
	return items
}

func NormalizeDeploys(deploys []models.DeployRecord) []models.EvidenceItem {
	items := make([]models.EvidenceItem, 0, len(deploys))
	for _, d := range deploys {
		text := d.Message
		if strings.TrimSpace(text) == "" {
			text = d.DiffSummary
		}
		if item, ok := newItem(models.SourceDeploy, len(items)+1, text, "", d.Timestamp); ok {
			items = append(items, item)
		}
	}
	return items
}

// NormalizeMetrics renders each sample as "host metric value" so the scorer's
// numeric heuristics see the reading.
func NormalizeMetrics(metrics []models.MetricRecord) []models.EvidenceItem {
	items := make([]models.EvidenceItem, 0, len(metrics))
	for _, m := range metrics {
		text := strings.TrimSpace(fmt.Sprintf("%s %s %g", m.Host, m.Metric, m.Value))
		if m.Metric == "" {
			text = ""
		}
		if item, ok := newItem(models.SourceMetric, len(items)+1, text, m.Host, m.Timestamp); ok {
			items = append(items, item)
		}
	}
	return items
}

func NormalizeIndex(records []models.IndexRecord) []models.EvidenceItem {
	items := make([]models.EvidenceItem, 0, len(records))
	for _, r := range records {
		if item, ok := newItem(models.SourceSearchLog, len(items)+1, r.Raw, r.Host, r.Time); ok {
			items = append(items, item)
		}
	}
	return items
}
