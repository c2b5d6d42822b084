package triage

import (
	"fmt"
	"strings"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/llm"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// Each evidence line is re-truncated in the prompt to bound token usage.
const maxPromptEvidenceText = 1000

const systemPrompt = "You are Sherlock, an SRE/Incident Triage assistant. Produce a single valid JSON object ONLY. " +
	"This JSON must follow the enterprise RCA schema exactly and be grounded to the provided evidence. " +
	"Do NOT fabricate evidence IDs; only reference the IDs provided in the evidence list.\n\n" +
	"Required JSON schema (keys):\n" +
	" - hypothesis: short summary string (1-2 sentences)\n" +
	" - confidence: integer 0-100\n" +
	" - impact: short bullet-style string describing affected services/customers\n" +
	" - root_causes: array of objects {cause: string, evidence: [id,...], probability: 0-100}\n" +
	" - contributing_factors: array of short strings\n" +
	" - suggested_actions: array of objects {action: string, type: 'mitigate'|'fix'|'monitor'|'rollback', risk: 'low'|'medium'|'high', eta_minutes: integer or null, evidence: [id,...], rollback_plan: optional string}\n" +
	" - evidence_map: object mapping evidence id -> text summary\n\n" +
	"IMPORTANT: Return ONLY the JSON object. No surrounding text, code fences, or explanation."

// BuildPrompt renders the top-K evidence and the incident query into the
// message pair sent to the model. Pure function of its inputs.
func BuildPrompt(query string, topK []models.ScoredEvidenceItem) []llm.ChatMessage {
	var evidence strings.Builder
	for _, ev := range topK {
		text := ev.Text
		if len(text) > maxPromptEvidenceText {
			text = text[:maxPromptEvidenceText]
		}
		fmt.Fprintf(&evidence, "%s: %s — %s\n", ev.ID, ev.Type, text)
	}

	userPrompt := fmt.Sprintf("Incident query: %s\n\nEvidence:\n%s\nProduce RCA JSON per schema above.",
		query, evidence.String())

	return []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
}
