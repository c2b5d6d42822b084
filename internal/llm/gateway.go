package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/config"
	"github.com/maniltns/Sherlock-The-AI-Incident-Detective/internal/models"
)

const maxAttempts = 2

const correctiveInstruction = "IMPORTANT: Return ONLY a single valid JSON object matching the schema and nothing else."

// Gateway selects a provider and drives the invoke/retry/fallback state
// machine. The base message list is never mutated; corrective addenda are
// appended per attempt so each attempt's transcript is reproducible.
type Gateway struct {
	primary   *AzureOpenAI
	secondary *OpenAI

	// resolve is the DNS pre-check for the managed endpoint, injectable in tests.
	resolve func(ctx context.Context, host string) error
}

func NewGateway(cfg config.ModelConfig) *Gateway {
	g := &Gateway{resolve: lookupHost}
	if cfg.HasAzure() {
		g.primary = NewAzureOpenAI(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureDeployment,
			cfg.AzureAPIVersion, cfg.MaxTokens, cfg.TimeoutSeconds)
	}
	if cfg.HasOpenAI() {
		g.secondary = NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.MaxTokens, cfg.TimeoutSeconds)
	}
	return g
}

func lookupHost(ctx context.Context, host string) error {
	_, err := net.DefaultResolver.LookupHost(ctx, host)
	return err
}

// Generate invokes the selected provider with bounded retries and returns the
// parsed RCA document. The evidence_map of the result is always rebuilt from
// the supplied evidence set; the model's own map is never trusted.
func (g *Gateway) Generate(ctx context.Context, base []ChatMessage, evidence []models.ScoredEvidenceItem) (models.RCADocument, error) {
	provider, authFallback, err := g.selectProvider(ctx)
	if err != nil {
		return models.RCADocument{}, err
	}

	var addenda []ChatMessage
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		messages := append(append([]ChatMessage{}, base...), addenda...)
		log.Printf("LLM call attempt %d/%d via %s", attempt, maxAttempts, provider.Name())

		text, err := provider.Chat(ctx, messages)
		if err != nil && isAuthErr(err) && authFallback != nil {
			// Auth failure on the managed endpoint: try the SaaS key within
			// the same attempt slot.
			log.Printf("%s auth failed, falling back to %s: %v", provider.Name(), authFallback.Name(), err)
			text, err = authFallback.Chat(ctx, messages)
		}
		if err == nil {
			doc, perr := parseDocument(text, evidence)
			if perr == nil {
				return doc, nil
			}
			err = perr
		}

		lastErr = err
		log.Printf("LLM attempt %d failed: %v", attempt, err)
		if attempt < maxAttempts {
			addenda = append(addenda, ChatMessage{Role: "user", Content: correctiveInstruction})
		}
	}
	return models.RCADocument{}, lastErr
}

// selectProvider resolves the provider precedence once per request. The
// choice is not revisited between retry attempts.
func (g *Gateway) selectProvider(ctx context.Context) (Provider, *OpenAI, error) {
	if g.primary != nil {
		if err := g.resolve(ctx, g.primary.Hostname()); err != nil {
			log.Printf("Azure endpoint %s not resolvable: %v", g.primary.Hostname(), err)
			if g.secondary != nil {
				return g.secondary, nil, nil
			}
			return nil, nil, fmt.Errorf("%w: %s", ErrUnresolvable, g.primary.Hostname())
		}
		return g.primary, g.secondary, nil
	}
	if g.secondary != nil {
		return g.secondary, nil, nil
	}
	return nil, nil, ErrNoCredentials
}

func isAuthErr(err error) bool {
	// Sentinel match plus a string check for provider error bodies that
	// mention invalid keys without a 401.
	return errors.Is(err, ErrAuth) ||
		(err != nil && strings.Contains(strings.ToLower(err.Error()), "invalid api key"))
}

// Wire shapes tolerate the loose typing models produce (float confidences,
// fractional probabilities). The model's evidence_map is decoded as raw bytes
// and discarded.
type wireDocument struct {
	Hypothesis          string          `json:"hypothesis"`
	Confidence          float64         `json:"confidence"`
	Impact              string          `json:"impact"`
	RootCauses          []wireRootCause `json:"root_causes"`
	ContributingFactors []string        `json:"contributing_factors"`
	SuggestedActions    []wireAction    `json:"suggested_actions"`
	EvidenceMap         json.RawMessage `json:"evidence_map"`
}

type wireRootCause struct {
	Cause       string   `json:"cause"`
	Evidence    []string `json:"evidence"`
	Probability float64  `json:"probability"`
}

type wireAction struct {
	Action       string   `json:"action"`
	Type         string   `json:"type"`
	Risk         string   `json:"risk"`
	ETAMinutes   *float64 `json:"eta_minutes"`
	Evidence     []string `json:"evidence"`
	RollbackPlan string   `json:"rollback_plan"`
}

func parseDocument(text string, evidence []models.ScoredEvidenceItem) (models.RCADocument, error) {
	raw := []byte(text)
	var wire wireDocument
	if err := json.Unmarshal(raw, &wire); err != nil {
		span, serr := ExtractJSONObject(text)
		if serr != nil {
			return models.RCADocument{}, fmt.Errorf("model output is not JSON: %w", serr)
		}
		if err := json.Unmarshal([]byte(span), &wire); err != nil {
			return models.RCADocument{}, fmt.Errorf("model output JSON malformed: %w", err)
		}
	}

	doc := models.RCADocument{
		Hypothesis:          wire.Hypothesis,
		Confidence:          clampInt(int(wire.Confidence), 0, 100),
		Impact:              wire.Impact,
		ContributingFactors: wire.ContributingFactors,
		EvidenceMap:         EvidenceMap(evidence),
	}
	if wire.RootCauses != nil {
		doc.RootCauses = make([]models.RootCause, 0, len(wire.RootCauses))
		for _, rc := range wire.RootCauses {
			doc.RootCauses = append(doc.RootCauses, models.RootCause{
				Cause:       rc.Cause,
				Evidence:    rc.Evidence,
				Probability: clampInt(int(rc.Probability), 0, 100),
			})
		}
	}
	if wire.SuggestedActions != nil {
		doc.SuggestedActions = make([]models.SuggestedAction, 0, len(wire.SuggestedActions))
		for _, sa := range wire.SuggestedActions {
			action := models.SuggestedAction{
				Action:       sa.Action,
				Type:         sa.Type,
				Risk:         sa.Risk,
				Evidence:     sa.Evidence,
				RollbackPlan: sa.RollbackPlan,
			}
			if sa.ETAMinutes != nil {
				eta := int(*sa.ETAMinutes)
				action.ETAMinutes = &eta
			}
			doc.SuggestedActions = append(doc.SuggestedActions, action)
		}
	}
	return doc, nil
}

// EvidenceMap builds the server-side id→text mapping for a prompt evidence
// set, with the same 800-char excerpt bound used in the rendered map.
func EvidenceMap(evidence []models.ScoredEvidenceItem) map[string]string {
	m := make(map[string]string, len(evidence))
	for _, ev := range evidence {
		m[ev.ID] = truncate(ev.Text, 800)
	}
	return m
}

// ExtractJSONObject returns the first balanced {...} span in text. Models
// occasionally wrap the object in prose or code fences despite instructions.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object in output")
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in output")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
