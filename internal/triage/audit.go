package triage

import (
	"time"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// AttachAudit stamps the final document with the request, the evidence ids
// actually offered to the model and the elapsed wall-clock time.
func AttachAudit(doc models.RCADocument, req models.TriageRequest, evidenceUsed []string, start time.Time) models.RCADocument {
	if evidenceUsed == nil {
		evidenceUsed = []string{}
	}
	doc.Audit = &models.AuditRecord{
		Request:      req,
		EvidenceUsed: evidenceUsed,
		LatencyMS:    time.Since(start).Milliseconds(),
	}
	return doc
}
