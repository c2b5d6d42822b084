package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// SearchIndex queries the Splunk oneshot export endpoint. When Splunk is not
// configured, or the call fails, it falls back to a local simulation over the
// logs collection so triage still gets search_log evidence in demos.
func (s *MongoSources) SearchIndex(ctx context.Context, query string, minutes, limit int) ([]models.IndexRecord, error) {
	if s.Splunk.BaseURL == "" || s.Splunk.Token == "" {
		log.Println("Splunk not configured, using local log simulation")
		return s.simulateIndex(ctx, query, minutes, limit)
	}

	records, err := s.splunkExport(ctx, query, minutes, limit)
	if err != nil {
		log.Printf("Splunk search failed, falling back to simulation: %v", err)
		return s.simulateIndex(ctx, query, minutes, limit)
	}
	return records, nil
}

func (s *MongoSources) splunkExport(ctx context.Context, query string, minutes, limit int) ([]models.IndexRecord, error) {
	search := "search"
	if s.Splunk.DefaultIndex != "" {
		search += " index=" + s.Splunk.DefaultIndex
	}
	if terms := strings.TrimSpace(query); terms != "" {
		search += " " + terms
	} else {
		search += fmt.Sprintf(" | head %d", limit)
	}

	form := url.Values{}
	form.Set("search", search)
	form.Set("output_mode", "json")
	form.Set("count", strconv.Itoa(limit))
	form.Set("earliest_time", fmt.Sprintf("-%dm", minutes))

	endpoint := strings.TrimRight(s.Splunk.BaseURL, "/") + "/services/search/jobs/export"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.Splunk.Token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 8 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("splunk returned status %d", resp.StatusCode)
	}

	// The export endpoint streams newline-delimited JSON events.
	var records []models.IndexRecord
	decoder := json.NewDecoder(resp.Body)
	for decoder.More() {
		var line map[string]interface{}
		if err := decoder.Decode(&line); err != nil {
			break
		}
		records = append(records, parseSplunkEvent(line))
		if len(records) >= limit {
			break
		}
	}
	return records, nil
}

// parseSplunkEvent normalizes the several shapes Splunk exports use; the
// event may sit under "result", "event" or "data".
func parseSplunkEvent(line map[string]interface{}) models.IndexRecord {
	evt := line
	for _, key := range []string{"result", "event", "data"} {
		if nested, ok := line[key].(map[string]interface{}); ok {
			evt = nested
			break
		}
	}

	raw := stringField(evt, "_raw", "raw", "message")
	if raw == "" {
		b, _ := json.Marshal(evt)
		raw = string(b)
	}
	return models.IndexRecord{
		Raw:   raw,
		Time:  stringField(evt, "_time", "time"),
		Host:  stringField(evt, "host", "source", "hostname"),
		Level: strings.ToUpper(stringField(evt, "level")),
		Index: stringField(evt, "index"),
	}
}

func stringField(evt map[string]interface{}, names ...string) string {
	for _, n := range names {
		if v, ok := evt[n].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// simulateIndex reuses the logs collection to fabricate Splunk-shaped hits.
func (s *MongoSources) simulateIndex(ctx context.Context, query string, minutes, limit int) ([]models.IndexRecord, error) {
	logs, err := s.SearchLogs(ctx, query, minutes, limit)
	if err != nil {
		return nil, err
	}
	records := make([]models.IndexRecord, 0, len(logs))
	for _, l := range logs {
		records = append(records, models.IndexRecord{
			Raw:   l.Message,
			Time:  l.Timestamp,
			Host:  l.Host,
			Level: l.Level,
			Index: "simulated",
		})
	}
	return records, nil
}
