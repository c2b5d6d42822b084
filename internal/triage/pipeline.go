package triage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/collectors"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/llm"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

const collectorLimit = 50

// Generator is the model side of the pipeline; the llm.Gateway implements it.
type Generator interface {
	Generate(ctx context.Context, base []llm.ChatMessage, evidence []models.ScoredEvidenceItem) (models.RCADocument, error)
}

// Pipeline wires the triage stages together. Each Run owns its own evidence
// set, prompt and document; nothing is shared across concurrent requests.
type Pipeline struct {
	Sources  collectors.Sources
	Model    Generator
	Scorer   *Scorer
	MaxItems int
}

func NewPipeline(sources collectors.Sources, model Generator, maxItems int) *Pipeline {
	return &Pipeline{
		Sources:  sources,
		Model:    model,
		Scorer:   NewScorer(),
		MaxItems: maxItems,
	}
}

// Run executes one triage request: collect, normalize, dedup, score, prompt,
// invoke, validate, fall back if needed, audit. The returned error is
// non-nil only for configuration problems or request cancellation; every
// other failure mode still yields a schema-valid document.
func (p *Pipeline) Run(ctx context.Context, req models.TriageRequest) (models.RCADocument, error) {
	start := time.Now()
	req.ApplyDefaults()

	items := p.collect(ctx, req)
	if err := ctx.Err(); err != nil {
		return models.RCADocument{}, err
	}

	items = Deduplicate(items, p.MaxItems)
	if len(items) == 0 {
		log.Printf("triage %q: no evidence found", req.Query)
		return AttachAudit(NoEvidenceDocument(), req, nil, start), nil
	}

	ranked, summary := p.Scorer.Score(items, req.Query)
	if digest, err := json.Marshal(summary); err == nil {
		log.Printf("triage %q: correlation summary %s", req.Query, digest)
	}

	topK := ranked
	if len(topK) > req.MaxEvidence {
		topK = topK[:req.MaxEvidence]
	}

	messages := BuildPrompt(req.Query, topK)
	doc, err := p.Model.Generate(ctx, messages, topK)
	switch {
	case errors.Is(err, llm.ErrNoCredentials):
		return models.RCADocument{}, err
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return models.RCADocument{}, err
	case err != nil:
		log.Printf("triage %q: model path failed, using fallback: %v", req.Query, err)
		doc = FallbackDocument(topK)
	default:
		if ok, reason := ValidateDocument(doc, EvidenceIDs(topK)); !ok {
			log.Printf("triage %q: model output rejected (%s), using fallback", req.Query, reason)
			doc = FallbackDocument(topK)
		}
	}

	return AttachAudit(doc, req, EvidenceIDs(topK), start), nil
}

// collect fans out over the four sources concurrently, then merges in fixed
// source-priority order (logs, deploys, metrics, search index) so dedup and
// ranking stay stable no matter which collector returns first. A failing
// source contributes nothing; the pipeline proceeds with what remains.
func (p *Pipeline) collect(ctx context.Context, req models.TriageRequest) []models.EvidenceItem {
	var (
		logs    []models.LogRecord
		deploys []models.DeployRecord
		metrics []models.MetricRecord
		index   []models.IndexRecord
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if logs, err = p.Sources.SearchLogs(ctx, req.Query, req.TimeWindowMinutes, collectorLimit); err != nil {
			log.Printf("log collector failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if deploys, err = p.Sources.FetchDeploys(ctx, req.Query, req.TimeWindowMinutes, collectorLimit); err != nil {
			log.Printf("deploy collector failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if metrics, err = p.Sources.SearchMetrics(ctx, req.Query, req.TimeWindowMinutes, collectorLimit); err != nil {
			log.Printf("metric collector failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if index, err = p.Sources.SearchIndex(ctx, req.Query, req.TimeWindowMinutes, collectorLimit); err != nil {
			log.Printf("search-index collector failed: %v", err)
		}
		return nil
	})
	_ = g.Wait()

	items := NormalizeLogs(logs)
	items = append(items, NormalizeDeploys(deploys)...)
	items = append(items, NormalizeMetrics(metrics)...)
	items = append(items, NormalizeIndex(index)...)
	return items
}
