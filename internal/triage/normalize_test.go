package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

func TestNormalizeLogsAssignsBatchIDs(t *testing.T) {
	logs := []models.LogRecord{
		{Message: "first", Host: "api-prod-01", Timestamp: "2025-06-01T12:00:00Z"},
		{Message: "second", Host: "api-prod-02"},
	}

	items := NormalizeLogs(logs)
	require.Len(t, items, 2)
	assert.Equal(t, "log#1", items[0].ID)
	assert.Equal(t, models.SourceLog, items[0].Type)
	assert.Equal(t, "api-prod-01", items[0].Host)
	assert.Equal(t, "2025-06-01T12:00:00Z", items[0].Timestamp)
	assert.Equal(t, "log#2", items[1].ID)
}

func TestNormalizeDropsEmptyText(t *testing.T) {
	logs := []models.LogRecord{
		{Message: "   "},
		{Message: "kept"},
	}

	items := NormalizeLogs(logs)
	require.Len(t, items, 1)
	assert.Equal(t, "log#1", items[0].ID)
	assert.Equal(t, "kept", items[0].Text)
}

func TestNormalizeTruncatesLongText(t *testing.T) {
	logs := []models.LogRecord{{Message: strings.Repeat("z", 5000)}}
	items := NormalizeLogs(logs)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Text, maxEvidenceText)
}

func TestNormalizeRedactsPII(t *testing.T) {
	logs := []models.LogRecord{
		{Message: "auth failed for ops@example.com token deadbeefdeadbeefdeadbeefdeadbeef01"},
	}
	items := NormalizeLogs(logs)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Text, "[REDACTED_EMAIL]")
	assert.Contains(t, items[0].Text, "[REDACTED_KEY]")
	assert.NotContains(t, items[0].Text, "ops@example.com")
}

func TestNormalizeDeploysFallsBackToDiffSummary(t *testing.T) {
	deploys := []models.DeployRecord{
		{Commit: "abc123", Message: "", DiffSummary: "bumped pool size"},
		{Commit: "def456", Message: "Commit def456: raised heap"},
	}
	items := NormalizeDeploys(deploys)
	require.Len(t, items, 2)
	assert.Equal(t, "deploy#1", items[0].ID)
	assert.Equal(t, "bumped pool size", items[0].Text)
	assert.Equal(t, models.SourceDeploy, items[0].Type)
}

func TestNormalizeMetricsRendersReading(t *testing.T) {
	metrics := []models.MetricRecord{
		{Host: "db-prod-01", Metric: "cpu.percent", Value: 95, Timestamp: "2025-06-01T12:00:00Z"},
		{Host: "db-prod-01"}, // no metric name, dropped
	}
	items := NormalizeMetrics(metrics)
	require.Len(t, items, 1)
	assert.Equal(t, "metric#1", items[0].ID)
	assert.Equal(t, "db-prod-01 cpu.percent 95", items[0].Text)
}

func TestNormalizeIndexRecords(t *testing.T) {
	records := []models.IndexRecord{
		{Raw: "ERROR upstream timeout", Host: "web-prod-01", Time: "2025-06-01T12:00:00Z", Index: "main"},
		{Raw: ""},
	}
	items := NormalizeIndex(records)
	require.Len(t, items, 1)
	assert.Equal(t, "search_log#1", items[0].ID)
	assert.Equal(t, models.SourceSearchLog, items[0].Type)
}
