package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

func TestBuildPromptListsEvidence(t *testing.T) {
	topK := []models.ScoredEvidenceItem{
		{EvidenceItem: models.EvidenceItem{ID: "log#1", Type: models.SourceLog, Text: "ERROR pool exhausted"}, Score: 75},
		{EvidenceItem: models.EvidenceItem{ID: "deploy#1", Type: models.SourceDeploy, Text: "Commit abc123: raised pool"}, Score: 35},
	}

	messages := BuildPrompt("pool", topK)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)

	user := messages[1].Content
	assert.Contains(t, user, "log#1: log — ERROR pool exhausted")
	assert.Contains(t, user, "deploy#1: deploy — Commit abc123: raised pool")
	assert.Contains(t, user, "Incident query: pool")
}

func TestBuildPromptSystemInstruction(t *testing.T) {
	messages := BuildPrompt("pool", nil)
	system := messages[0].Content

	assert.Contains(t, system, "Do NOT fabricate evidence IDs")
	assert.Contains(t, system, "Return ONLY the JSON object")
	for _, field := range []string{"hypothesis", "confidence", "impact", "root_causes",
		"contributing_factors", "suggested_actions", "evidence_map"} {
		assert.Contains(t, system, field)
	}
}

func TestBuildPromptTruncatesLongEvidence(t *testing.T) {
	topK := []models.ScoredEvidenceItem{
		{EvidenceItem: models.EvidenceItem{ID: "log#1", Type: models.SourceLog, Text: strings.Repeat("x", 1800)}},
	}
	messages := BuildPrompt("q", topK)
	assert.Contains(t, messages[1].Content, strings.Repeat("x", maxPromptEvidenceText))
	assert.NotContains(t, messages[1].Content, strings.Repeat("x", maxPromptEvidenceText+1))
}

func TestBuildPromptIsPure(t *testing.T) {
	topK := []models.ScoredEvidenceItem{
		{EvidenceItem: models.EvidenceItem{ID: "log#1", Type: models.SourceLog, Text: "ERROR pool exhausted"}},
	}
	a := BuildPrompt("pool", topK)
	b := BuildPrompt("pool", topK)
	assert.Equal(t, a, b)
}
