package triage

import "github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"

// dedupKeyLen is how much leading text participates in the duplicate key.
// Synthetic log bursts differ only in trailing ids/timestamps.
const dedupKeyLen = 120

type dedupKey struct {
	typ    models.SourceType
	prefix string
}

// Deduplicate drops near-duplicate items, first occurrence wins. The input
// must already be in source-priority order (logs, deploys, metrics, search
// index) so priority decides which copy survives. maxItems caps the output.
func Deduplicate(items []models.EvidenceItem, maxItems int) []models.EvidenceItem {
	seen := make(map[dedupKey]bool, len(items))
	out := make([]models.EvidenceItem, 0, len(items))
	for _, item := range items {
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
		prefix := item.Text
		if len(prefix) > dedupKeyLen {
			prefix = prefix[:dedupKeyLen]
		}
		key := dedupKey{typ: item.Type, prefix: prefix}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
