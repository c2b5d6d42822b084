package triage

import (
	"fmt"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// ValidateDocument checks a candidate document structurally and for evidence
// grounding: every cited id must belong to the allowed set. A single
// violation fails the whole document. Slices and the evidence map are nil
// when the corresponding JSON field was absent, which is how field presence
// is detected on the typed document.
func ValidateDocument(doc models.RCADocument, allowedIDs []string) (bool, string) {
	if doc.Hypothesis == "" {
		return false, "missing hypothesis"
	}
	if doc.Impact == "" {
		return false, "missing impact"
	}
	if doc.RootCauses == nil {
		return false, "missing root_causes"
	}
	if doc.ContributingFactors == nil {
		return false, "missing contributing_factors"
	}
	if doc.SuggestedActions == nil {
		return false, "missing suggested_actions"
	}
	if doc.EvidenceMap == nil {
		return false, "evidence_map missing or not a mapping"
	}

	allowed := make(map[string]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}

	for _, rc := range doc.RootCauses {
		for _, id := range rc.Evidence {
			if !allowed[id] {
				return false, fmt.Sprintf("root_causes references unknown id %s", id)
			}
		}
	}
	for _, action := range doc.SuggestedActions {
		for _, id := range action.Evidence {
			if !allowed[id] {
				return false, fmt.Sprintf("suggested_actions references unknown id %s", id)
			}
		}
	}
	return true, "ok"
}

// EvidenceIDs extracts the ids of a ranked evidence slice, in order.
func EvidenceIDs(items []models.ScoredEvidenceItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
