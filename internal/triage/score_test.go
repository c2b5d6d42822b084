package triage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

func fixedScorer(now time.Time) *Scorer {
	return &Scorer{Now: func() time.Time { return now }}
}

func TestScorePoolScenario(t *testing.T) {
	scorer := fixedScorer(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	items := []models.EvidenceItem{
		{ID: "log#1", Type: models.SourceLog, Text: "ERROR connection pool exhausted: max_size=50 used=50"},
		{ID: "deploy#1", Type: models.SourceDeploy, Text: "Commit abc123: increased connection pool default to 50"},
	}

	ranked, _ := scorer.Score(items, "pool")
	require.Len(t, ranked, 2)

	assert.Equal(t, "log#1", ranked[0].ID)
	assert.Equal(t, "deploy#1", ranked[1].ID)
	// log: base 20 + severity 30 + query overlap 25
	assert.Equal(t, 75, ranked[0].Score)
	// deploy: base 10 + query overlap 25 + short numeric token "50"
	assert.Equal(t, 40, ranked[1].Score)
}

func TestScoreClampedTo100(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)
	// Metric with every bump: base 40 + severity 30 + overlap 25 + numeric 5
	// + recency 20 + metric reading 10 would be 130 unclamped.
	items := []models.EvidenceItem{
		{
			ID:        "metric#1",
			Type:      models.SourceMetric,
			Text:      "error timeout fatal panic cpu 95 % exhausted",
			Timestamp: now.Add(-5 * time.Minute).Format(time.RFC3339),
		},
	}

	ranked, _ := scorer.Score(items, "cpu error")
	require.Len(t, ranked, 1)
	assert.Equal(t, 100, ranked[0].Score)
}

func TestScoreNeverNegativeOrAbove100(t *testing.T) {
	scorer := NewScorer()
	adversarial := strings.Repeat("error exception timeout oom fatal panic 42 99 ", 40)
	items := []models.EvidenceItem{
		{ID: "log#1", Type: models.SourceLog, Text: adversarial},
		{ID: "search_log#1", Type: models.SourceSearchLog, Text: adversarial},
		{ID: "x#1", Type: models.SourceType("bogus"), Text: "quiet line"},
	}

	ranked, _ := scorer.Score(items, "error")
	for _, item := range ranked {
		assert.GreaterOrEqual(t, item.Score, 0)
		assert.LessOrEqual(t, item.Score, 100)
	}
}

func TestScoreUnknownTypeGetsSmallBase(t *testing.T) {
	scorer := fixedScorer(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	items := []models.EvidenceItem{
		{ID: "x#1", Type: models.SourceType("mystery"), Text: "nothing interesting here"},
	}
	ranked, _ := scorer.Score(items, "unrelated")
	assert.Equal(t, 5, ranked[0].Score)
}

func TestScoreRecencyTieBreak(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)

	// All three score identically (base 20, no bumps: timestamps outside the
	// recency window or unparsable); ordering must fall back to recency with
	// the unparsable timestamp last.
	items := []models.EvidenceItem{
		{ID: "log#1", Type: models.SourceLog, Text: "alpha line", Timestamp: "not-a-timestamp"},
		{ID: "log#2", Type: models.SourceLog, Text: "beta line", Timestamp: now.Add(-3 * time.Hour).Format(time.RFC3339)},
		{ID: "log#3", Type: models.SourceLog, Text: "gamma line", Timestamp: now.Add(-2 * time.Hour).Format(time.RFC3339)},
	}

	ranked, _ := scorer.Score(items, "unrelated-query")
	require.Len(t, ranked, 3)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, ranked[1].Score, ranked[2].Score)

	assert.Equal(t, "log#3", ranked[0].ID)
	assert.Equal(t, "log#2", ranked[1].ID)
	assert.Equal(t, "log#1", ranked[2].ID)
}

func TestScoreSortedDescending(t *testing.T) {
	scorer := NewScorer()
	items := []models.EvidenceItem{
		{ID: "deploy#1", Type: models.SourceDeploy, Text: "routine config touch"},
		{ID: "log#1", Type: models.SourceLog, Text: "ERROR payment service panic"},
		{ID: "metric#1", Type: models.SourceMetric, Text: "db-prod-01 cpu 95"},
	}
	ranked, _ := scorer.Score(items, "payment")
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestCorrelationSummary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scorer := fixedScorer(now)
	items := []models.EvidenceItem{
		{ID: "log#1", Type: models.SourceLog, Text: "ERROR pool exhausted", Host: "api-prod-01"},
		{ID: "log#2", Type: models.SourceLog, Text: "clean request", Host: "api-prod-01"},
		{ID: "metric#1", Type: models.SourceMetric, Text: "db-prod-01 pool.in_use 50", Host: "db-prod-01"},
	}

	ranked, summary := scorer.Score(items, "pool")
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.CountsByType[models.SourceLog])
	assert.Equal(t, 1, summary.CountsByType[models.SourceMetric])
	assert.Equal(t, 2, summary.CountsByHost["api-prod-01"])
	assert.Equal(t, 1, summary.SeverityHits)
	require.NotEmpty(t, summary.Top)
	assert.Equal(t, ranked[0].ID, summary.Top[0].ID)
	assert.LessOrEqual(t, len(summary.Top), 6)
}

func TestParseTimestampFallbacks(t *testing.T) {
	assert.False(t, parseTimestamp("2025-06-01T11:55:00Z").IsZero())
	assert.False(t, parseTimestamp("2025-06-01T11:55:00").IsZero())
	assert.True(t, parseTimestamp("garbage").IsZero())
	assert.True(t, parseTimestamp("").IsZero())
}
