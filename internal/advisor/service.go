package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/policymitra/backend/internal/cache"
	"github.com/policymitra/backend/internal/catalog"
	"github.com/policymitra/backend/internal/charts"
	"github.com/policymitra/backend/internal/llm"
	"github.com/policymitra/backend/internal/money"
)

// adequacyMultiplier is the conventional "annual income times N" target for
// total life/health coverage.
const adequacyMultiplier = 10

// Service runs the advisory pipeline end to end: one model call (or the
// deterministic fallback), defensive parsing, catalog matching, chart
// rendering, and the report append.
type Service struct {
	llm      *llm.Client
	catalog  *catalog.Catalog
	renderer *charts.Renderer
	report   *ReportWriter
	results  cache.Store
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService wires the pipeline dependencies together.
func NewService(llmClient *llm.Client, cat *catalog.Catalog, renderer *charts.Renderer, report *ReportWriter, results cache.Store, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		llm:      llmClient,
		catalog:  cat,
		renderer: renderer,
		report:   report,
		results:  results,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "advisor_service"),
	}
}

// Advise processes one flattened profile text blob into a full advisory
// result. Transport and parse failures both surface as a single error; the
// caller cannot and should not distinguish them.
func (s *Service) Advise(ctx context.Context, profileText string) (*Result, error) {
	cacheKey := resultCacheKey(profileText)
	if cached, ok := s.cachedResult(ctx, cacheKey); ok {
		s.logger.InfoContext(ctx, "Serving advisory result from cache")
		return cached, nil
	}

	rec, err := s.recommend(ctx, profileText)
	if err != nil {
		return nil, err
	}

	products := make(map[string][]MatchResult)
	if matches := MatchProducts(s.catalog, "term", Requirements{"coverage": rec.TermInsurance.Coverage}); len(matches) > 0 {
		products["Term Insurance"] = matches
	}
	if matches := MatchProducts(s.catalog, "health", Requirements{"coverage": rec.HealthInsurance.Coverage}); len(matches) > 0 {
		products["Health Insurance"] = matches
	}

	reportPath, err := s.report.Append(rec, products)
	if err != nil {
		return nil, err
	}

	fields := parseProfileLines(profileText)
	monthlyIncome := money.Parse(fields["Monthly Income"])

	// Premium and coverage come from untrusted recommendation strings; the
	// strict parser zeroes anything without an attached unit letter and the
	// charts degrade gracefully instead of aborting.
	termPremium := money.ExtractAmount(rec.TermInsurance.EstimatedPremium)
	healthPremium := money.ExtractAmount(rec.HealthInsurance.EstimatedPremium)
	termCoverage := money.ExtractAmount(rec.TermInsurance.Coverage)
	healthCoverage := money.ExtractAmount(rec.HealthInsurance.Coverage)

	affordabilityChart, err := s.renderer.AffordabilityPie(termPremium, healthPremium, monthlyIncome)
	if err != nil {
		return nil, err
	}
	coverageChart, err := s.renderer.CoverageVsIncome(termCoverage, healthCoverage, monthlyIncome)
	if err != nil {
		return nil, err
	}
	annualIncome := monthlyIncome * 12
	adequacyChart, err := s.renderer.AdequacyGauge(termCoverage+healthCoverage, annualIncome, adequacyMultiplier)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Recommendation:   rec,
		Products:         products,
		Explanation:      GenerateExplanation(rec.TermInsurance, "Term Insurance"),
		ChartPath:        affordabilityChart,
		CoverageChart:    coverageChart,
		AdequacyChart:    adequacyChart,
		AffordabilityTip: ExplainAffordability(termPremium, healthPremium, monthlyIncome),
		CoverageTip:      ExplainCoverageVsIncome(termCoverage, healthCoverage, annualIncome),
		AdequacyTip:      ExplainCoverageAdequacy(termCoverage+healthCoverage, annualIncome, adequacyMultiplier),
		ReportPath:       reportPath,
	}

	s.storeResult(ctx, cacheKey, result)
	return result, nil
}

// recommend asks the model for a recommendation, or derives one from fixed
// rules when no model endpoint is configured. One call, no retries.
func (s *Service) recommend(ctx context.Context, profileText string) (*Recommendation, error) {
	if !s.llm.Enabled() {
		s.logger.InfoContext(ctx, "Model endpoint not configured, using deterministic fallback")
		return FallbackRecommendation(profileText), nil
	}

	raw, err := s.llm.Complete(ctx, BuildRecommendationPrompt(profileText), true)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	rec, err := ParseRecommendation(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Model output failed validation", "error", err)
		return nil, err
	}
	return rec, nil
}

func resultCacheKey(profileText string) string {
	sum := sha256.Sum256([]byte(profileText))
	return "advice:" + hex.EncodeToString(sum[:])
}

func (s *Service) cachedResult(ctx context.Context, key string) (*Result, bool) {
	if s.results == nil {
		return nil, false
	}
	raw, ok := s.results.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.WarnContext(ctx, "Discarding undecodable cached result", "error", err)
		return nil, false
	}
	return &result, true
}

func (s *Service) storeResult(ctx context.Context, key string, result *Result) {
	if s.results == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.results.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache advisory result", "error", err)
	}
}
