package collectors

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/config"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/db"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

// Sources is the collector boundary consumed by the triage pipeline. The
// production implementation queries mongo and the external search index;
// tests substitute fakes.
type Sources interface {
	SearchLogs(ctx context.Context, query string, minutes, limit int) ([]models.LogRecord, error)
	FetchDeploys(ctx context.Context, query string, minutes, limit int) ([]models.DeployRecord, error)
	SearchMetrics(ctx context.Context, query string, minutes, limit int) ([]models.MetricRecord, error)
	SearchIndex(ctx context.Context, query string, minutes, limit int) ([]models.IndexRecord, error)
}

// MongoSources serves log/deploy/metric evidence from the mongo collections
// the sample generator writes to. Search-index evidence comes from Splunk, or
// from a local simulation when Splunk is unconfigured.
type MongoSources struct {
	Splunk config.SplunkConfig
}

func NewMongoSources(splunk config.SplunkConfig) *MongoSources {
	return &MongoSources{Splunk: splunk}
}

// queryFilter builds the shared mongo filter: any query token (or the whole
// query) matching the given fields, case-insensitive, inside the time window.
func queryFilter(query string, minutes int, fields ...string) bson.M {
	filter := bson.M{}
	if minutes > 0 {
		cutoff := time.Now().UTC().Add(-time.Duration(minutes) * time.Minute).Format(time.RFC3339)
		filter["timestamp"] = bson.M{"$gte": cutoff}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return filter
	}

	patterns := []string{query}
	for _, tok := range strings.Fields(query) {
		if tok != query {
			patterns = append(patterns, tok)
		}
	}

	var or []bson.M
	for _, field := range fields {
		for _, p := range patterns {
			or = append(or, bson.M{field: bson.M{"$regex": p, "$options": "i"}})
		}
	}
	filter["$or"] = or
	return filter
}

func (s *MongoSources) SearchLogs(ctx context.Context, query string, minutes, limit int) ([]models.LogRecord, error) {
	collection := db.GetCollection("logs")
	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, queryFilter(query, minutes, "message", "host"), findOptions)
	if err != nil {
		return nil, err
	}
	var logs []models.LogRecord
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *MongoSources) FetchDeploys(ctx context.Context, query string, minutes, limit int) ([]models.DeployRecord, error) {
	collection := db.GetCollection("deploys")
	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	// Deploys use a wider window: a bad rollout often predates the incident
	// query window.
	cursor, err := collection.Find(ctx, queryFilter(query, minutes*4, "message", "commit"), findOptions)
	if err != nil {
		return nil, err
	}
	var deploys []models.DeployRecord
	if err := cursor.All(ctx, &deploys); err != nil {
		return nil, err
	}
	return deploys, nil
}

func (s *MongoSources) SearchMetrics(ctx context.Context, query string, minutes, limit int) ([]models.MetricRecord, error) {
	collection := db.GetCollection("metrics")
	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, queryFilter(query, minutes, "metric", "host"), findOptions)
	if err != nil {
		return nil, err
	}
	var metrics []models.MetricRecord
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}
