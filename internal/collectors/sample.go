package collectors

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/db"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

var sampleHosts = []string{"api-prod-01", "api-prod-02", "db-prod-01", "web-prod-01"}

var scenarioLogs = map[string]string{
	"pool":     "ERROR [%s] Connection pool exhausted: max_size=50 used=50",
	"oom":      "ERROR [%s] OutOfMemoryError: Java heap space; process killed",
	"external": "WARN [%s] third-party-api timeout: upstream latency 1200ms",
	"network":  "ERROR [%s] Connection refused: No route to host xxx.xxx.xxx.xxx",
	"cpu":      "WARN [%s] High CPU usage: 95%% sustained, potential deadlock",
	"memory":   "ERROR [%s] Memory leak detected: Resident set size exceeded 8GB limit",
	"api":      "ERROR [%s] API rate limit exceeded: Too many requests (429)",
}

var scenarioCommits = map[string]string{
	"pool":     "Commit abc123: increased connection pool default to 50 in db client config",
	"oom":      "Commit def456: adjusted JVM heap memory settings to 1024MB",
	"external": "Commit ghi789: updated third-party API client timeout to 60s",
	"network":  "Commit jkl012: modified network config for increased bandwidth limits",
	"cpu":      "Commit mno345: optimized CPU-intensive threads with concurrency limits",
	"memory":   "Commit pqr678: implemented garbage collection optimizations",
	"api":      "Commit stu901: added API rate limiting middleware",
}

var scenarioMetrics = map[string]models.MetricRecord{
	"pool":     {Metric: "db.pool.in_use", Value: 50},
	"oom":      {Metric: "jvm.heap.used_percent", Value: 98},
	"external": {Metric: "upstream.latency_ms", Value: 1200},
	"network":  {Metric: "net.tcp.retransmits", Value: 340},
	"cpu":      {Metric: "system.cpu.percent", Value: 95},
	"memory":   {Metric: "process.rss_gb", Value: 8},
	"api":      {Metric: "http.429.count", Value: 412},
}

// GenerateSampleIncident fabricates demo evidence for one scenario: count log
// lines, a deploy stub and a metric sample, all inserted into mongo. Returns
// the number of log records created.
func GenerateSampleIncident(ctx context.Context, scenario string, count int) (int, error) {
	if count <= 0 {
		count = 10
	}
	template, ok := scenarioLogs[scenario]
	if !ok {
		scenario = "pool"
		template = scenarioLogs[scenario]
	}

	logs := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		ts := nowISO(rand.Intn(1800))
		host := sampleHosts[rand.Intn(len(sampleHosts))]
		msg := ts + " " + fmt.Sprintf(template, host)
		logs = append(logs, models.LogRecord{
			Timestamp: ts,
			Host:      host,
			Level:     levelOf(msg),
			Message:   msg,
		})
	}
	if _, err := db.GetCollection("logs").InsertMany(ctx, logs); err != nil {
		return 0, err
	}

	deploy := models.DeployRecord{
		Timestamp: nowISO(900),
		Commit:    "dummycommit",
		Message:   scenarioCommits[scenario],
		Author:    "deploy-bot",
	}
	if _, err := db.GetCollection("deploys").InsertOne(ctx, deploy); err != nil {
		return len(logs), err
	}

	metric := scenarioMetrics[scenario]
	metric.Timestamp = nowISO(rand.Intn(600))
	metric.Host = sampleHosts[rand.Intn(len(sampleHosts))]
	if _, err := db.GetCollection("metrics").InsertOne(ctx, metric); err != nil {
		return len(logs), err
	}

	return len(logs), nil
}

func nowISO(offsetSeconds int) string {
	return time.Now().UTC().Add(-time.Duration(offsetSeconds) * time.Second).Format(time.RFC3339)
}

func levelOf(msg string) string {
	switch {
	case strings.Contains(msg, "ERROR"):
		return "ERROR"
	case strings.Contains(msg, "WARN"):
		return "WARN"
	default:
		return "INFO"
	}
}
