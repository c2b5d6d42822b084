package triage

import (
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/llm"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

const (
	fallbackConfidence   = 40
	noEvidenceConfidence = 20
	fallbackCauseExcerpt = 200
)

// FallbackDocument is the deterministic RCA produced when the model path is
// unavailable or its output fails validation. It cites exactly the top-ranked
// evidence item, so the caller always receives a schema-valid, grounded
// response.
func FallbackDocument(topK []models.ScoredEvidenceItem) models.RCADocument {
	top := topK[0]
	cause := top.Text
	if len(cause) > fallbackCauseExcerpt {
		cause = cause[:fallbackCauseExcerpt]
	}

	return models.RCADocument{
		Hypothesis: "Deterministic fallback: automated model analysis was unavailable, " +
			"the top-ranked evidence is the most likely lead.",
		Confidence: fallbackConfidence,
		Impact:     "Unknown - manual review of the cited evidence is required.",
		RootCauses: []models.RootCause{
			{Cause: cause, Evidence: []string{top.ID}, Probability: fallbackConfidence},
		},
		ContributingFactors: []string{},
		SuggestedActions: []models.SuggestedAction{
			{
				Action:   "Investigate the top-ranked evidence and recent deploys manually",
				Type:     "mitigate",
				Risk:     "low",
				Evidence: []string{top.ID},
			},
		},
		EvidenceMap: llm.EvidenceMap(topK),
	}
}

// NoEvidenceDocument is returned when collection yields nothing; the model is
// never invoked in that case.
func NoEvidenceDocument() models.RCADocument {
	return models.RCADocument{
		Hypothesis:          "No relevant evidence found for the query.",
		Confidence:          noEvidenceConfidence,
		Impact:              "No impact assessment possible without evidence.",
		RootCauses:          []models.RootCause{},
		ContributingFactors: []string{},
		SuggestedActions: []models.SuggestedAction{
			{
				Action:   "Inspect logs and increase log density for the service",
				Type:     "monitor",
				Risk:     "low",
				Evidence: []string{},
			},
		},
		EvidenceMap: map[string]string{},
	}
}
