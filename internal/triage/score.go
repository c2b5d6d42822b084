package triage

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// Heuristic constants, tunable but not re-derived: they came out of manual
// calibration against the demo scenarios.
var (
	typeBaseWeight = map[models.SourceType]int{
		models.SourceMetric:    40,
		models.SourceSearchLog: 30,
		models.SourceLog:       20,
		models.SourceDeploy:    10,
	}
	unknownTypeWeight = 5

	severityKeywords = []string{
		"error", "exception", "timeout", "oom", "outofmemory",
		"exhausted", "critical", "fatal", "panic",
	}

	severityBump      = 30
	queryOverlapBump  = 25
	numericTokenBump  = 5
	recencyBump       = 20
	metricReadingBump = 10
	longSearchHitBump = 8

	recencyWindow        = 3600 * time.Second
	shortNumericMaxLen   = 4   // HTTP status codes, small counts
	highMetricThreshold  = 80  // saturation-style readings
	longSearchHitMinText = 200 // verbose index hits carry more context
)

// Scorer ranks evidence by relevance and severity. Now is injectable so the
// recency bump is deterministic in tests.
type Scorer struct {
	Now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{Now: time.Now}
}

// Score assigns each item an additive score clamped to [0,100] and returns
// the list sorted descending by (score, recency), plus an observability
// summary. Items with unparsable timestamps sort as oldest among score ties.
func (s *Scorer) Score(items []models.EvidenceItem, query string) ([]models.ScoredEvidenceItem, models.CorrelationSummary) {
	now := s.Now()
	queryTokens := tokenSet(query)

	scored := make([]models.ScoredEvidenceItem, 0, len(items))
	parsedTimes := make(map[string]time.Time, len(items))
	severityHits := 0

	for _, item := range items {
		score, severe := s.scoreItem(item, queryTokens, now)
		if severe {
			severityHits++
		}
		scored = append(scored, models.ScoredEvidenceItem{EvidenceItem: item, Score: score})
		parsedTimes[item.ID] = parseTimestamp(item.Timestamp)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return parsedTimes[scored[i].ID].After(parsedTimes[scored[j].ID])
	})

	return scored, buildSummary(scored, severityHits)
}

func (s *Scorer) scoreItem(item models.EvidenceItem, queryTokens map[string]bool, now time.Time) (int, bool) {
	text := strings.ToLower(item.Text)
	textTokens := tokenSet(text)

	score, ok := typeBaseWeight[item.Type]
	if !ok {
		score = unknownTypeWeight
	}

	severe := false
	for _, kw := range severityKeywords {
		if strings.Contains(text, kw) {
			severe = true
			break
		}
	}
	if severe {
		score += severityBump
	}

	if intersects(queryTokens, textTokens) {
		score += queryOverlapBump
	}

	hasShortNumeric := false
	hasHighNumeric := false
	for tok := range textTokens {
		if n, err := strconv.Atoi(tok); err == nil {
			if len(tok) <= shortNumericMaxLen {
				hasShortNumeric = true
			}
			if n >= highMetricThreshold {
				hasHighNumeric = true
			}
		}
	}
	if hasShortNumeric {
		score += numericTokenBump
	}

	if ts := parseTimestamp(item.Timestamp); !ts.IsZero() {
		delta := now.Sub(ts)
		if delta < 0 {
			delta = -delta
		}
		if delta <= recencyWindow {
			score += recencyBump
		}
	}

	switch item.Type {
	case models.SourceMetric:
		if strings.Contains(text, "%") || hasHighNumeric {
			score += metricReadingBump
		}
	case models.SourceSearchLog:
		if len(item.Text) > longSearchHitMinText {
			score += longSearchHitBump
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, severe
}

func buildSummary(scored []models.ScoredEvidenceItem, severityHits int) models.CorrelationSummary {
	summary := models.CorrelationSummary{
		Total:        len(scored),
		CountsByType: make(map[models.SourceType]int),
		CountsByHost: make(map[string]int),
		SeverityHits: severityHits,
	}
	hostCounts := make(map[string]int)
	for _, item := range scored {
		summary.CountsByType[item.Type]++
		if item.Host != "" {
			hostCounts[item.Host]++
		}
	}
	summary.CountsByHost = topHosts(hostCounts, 10)

	top := len(scored)
	if top > 6 {
		top = 6
	}
	for _, item := range scored[:top] {
		summary.Top = append(summary.Top, models.TopEvidence{ID: item.ID, Type: item.Type, Score: item.Score})
	}
	return summary
}

func topHosts(counts map[string]int, limit int) map[string]int {
	if len(counts) <= limit {
		return counts
	}
	type hc struct {
		host  string
		count int
	}
	all := make([]hc, 0, len(counts))
	for h, c := range counts {
		all = append(all, hc{h, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].host < all[j].host
	})
	out := make(map[string]int, limit)
	for _, e := range all[:limit] {
		out[e.host] = e.count
	}
	return out
}

// tokenSet lower-cases and whitespace-splits, trimming edge punctuation so
// tokens like "(429)" still count as numeric.
func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, "()[]{}<>.,:;!?\"'")
		if tok != "" {
			tokens[tok] = true
		}
	}
	return tokens
}

func intersects(a, b map[string]bool) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for tok := range a {
		if b[tok] {
			return true
		}
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for absent or unparsable values, which
// makes such items sort as oldest.
func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}
