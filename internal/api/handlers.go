package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/pkg/httputil"
	"github.com/ignite/content-strategist/internal/repository/postgres"
	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/storage"
	"github.com/ignite/content-strategist/internal/strategy"
	"github.com/ignite/content-strategist/internal/trending"
	"github.com/ignite/content-strategist/internal/viral"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	engine          *viral.Engine
	safetyAnalyzers map[domain.BrandProfile]*safety.Analyzer
	optimizer       *strategy.Optimizer

	store    *storage.Store
	archive  *postgres.RecommendationRepo
	trending *trending.Provider
}

// NewHandlers creates a Handlers instance around the scoring core.
func NewHandlers(engine *viral.Engine, analyzers map[domain.BrandProfile]*safety.Analyzer, optimizer *strategy.Optimizer) *Handlers {
	return &Handlers{
		engine:          engine,
		safetyAnalyzers: analyzers,
		optimizer:       optimizer,
	}
}

// SetStore wires the Redis cache.
func (h *Handlers) SetStore(store *storage.Store) { h.store = store }

// SetArchive wires the Postgres recommendation archive.
func (h *Handlers) SetArchive(repo *postgres.RecommendationRepo) { h.archive = repo }

// SetTrendingProvider wires the trending snapshot for health reporting.
func (h *Handlers) SetTrendingProvider(p *trending.Provider) { h.trending = p }

// HealthCheck reports service liveness and collaborator status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			health["redis"] = "unreachable"
		} else {
			health["redis"] = "ok"
		}
	}
	if h.trending != nil {
		health["trending"] = h.trending.Stats()
	}
	httputil.OK(w, health)
}

type predictRequest struct {
	Text      string            `json:"text"`
	Platform  string            `json:"platform,omitempty"`
	ContentID string            `json:"content_id,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

// PredictViral scores a piece of content for viral potential.
func (h *Handlers) PredictViral(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		httputil.BadRequest(w, "text is required")
		return
	}

	prediction := h.engine.Predict(r.Context(), req.Text, domain.ParsePlatform(req.Platform), req.ContentID, req.Context)

	if h.store != nil {
		if err := h.store.SavePrediction(r.Context(), prediction); err != nil {
			log.Printf("[API] Failed to cache prediction %s: %v", prediction.ContentID, err)
		}
	}
	httputil.OK(w, prediction)
}

type assessRequest struct {
	Text         string            `json:"text"`
	Platform     string            `json:"platform,omitempty"`
	BrandProfile string            `json:"brand_profile,omitempty"`
	ContentID    string            `json:"content_id,omitempty"`
	Context      map[string]string `json:"context,omitempty"`
}

// AssessSafety runs a brand-safety assessment.
func (h *Handlers) AssessSafety(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		httputil.BadRequest(w, "text is required")
		return
	}

	profile := domain.ParseBrandProfile(req.BrandProfile)
	analyzer, ok := h.safetyAnalyzers[profile]
	if !ok {
		analyzer = h.safetyAnalyzers[domain.ProfileModerate]
	}

	assessment := analyzer.Assess(r.Context(), req.Text, domain.ParsePlatform(req.Platform), req.ContentID, nil, req.Context)

	if h.store != nil {
		if err := h.store.SaveAssessment(r.Context(), assessment); err != nil {
			log.Printf("[API] Failed to cache assessment %s: %v", assessment.ContentID, err)
		}
	}
	httputil.OK(w, assessment)
}

type generateStrategyRequest struct {
	BusinessContext     strategy.BusinessContext        `json:"business_context"`
	ContentSamples      []domain.ContentItem            `json:"content_samples,omitempty"`
	CompetitiveAnalysis *domain.CompetitiveAnalysis     `json:"competitive_analysis,omitempty"`
	Historical          *strategy.HistoricalPerformance `json:"historical_performance,omitempty"`
}

// GenerateStrategy runs the full strategy pipeline and persists the result.
func (h *Handlers) GenerateStrategy(w http.ResponseWriter, r *http.Request) {
	var req generateStrategyRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	rec := h.optimizer.GenerateStrategy(r.Context(), req.BusinessContext, req.ContentSamples, req.CompetitiveAnalysis, req.Historical)
	h.persistRecommendation(r, rec)
	httputil.OK(w, rec)
}

// GetStrategy loads a stored recommendation, preferring the cache.
func (h *Handlers) GetStrategy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httputil.BadRequest(w, "invalid recommendation id")
		return
	}

	rec, err := h.loadRecommendation(r, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, postgres.ErrNotFound) {
			httputil.NotFound(w, "recommendation not found")
			return
		}
		log.Printf("[API] Failed to load recommendation %s: %v", id, err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}
	httputil.OK(w, rec)
}

// ListStrategies lists archived recommendations.
func (h *Handlers) ListStrategies(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		httputil.Unavailable(w, "recommendation archive not configured")
		return
	}
	summaries, total, err := h.archive.List(r.Context(), postgres.ListFilter{
		Objective: r.URL.Query().Get("objective"),
	})
	if err != nil {
		log.Printf("[API] Failed to list recommendations: %v", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list recommendations")
		return
	}
	httputil.OK(w, map[string]interface{}{
		"recommendations": summaries,
		"total":           total,
	})
}

type optimizeStrategyRequest struct {
	ActualMetrics map[string]float64 `json:"actual_metrics"`
	MarketChanges map[string]float64 `json:"market_changes,omitempty"`
}

// OptimizeStrategy re-optimizes a stored recommendation against actuals.
func (h *Handlers) OptimizeStrategy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httputil.BadRequest(w, "invalid recommendation id")
		return
	}
	var req optimizeStrategyRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if len(req.ActualMetrics) == 0 {
		httputil.BadRequest(w, "actual_metrics is required")
		return
	}

	rec, err := h.loadRecommendation(r, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, postgres.ErrNotFound) {
			httputil.NotFound(w, "recommendation not found")
			return
		}
		log.Printf("[API] Failed to load recommendation %s: %v", id, err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}

	updated, standings := h.optimizer.OptimizeExisting(rec, strategy.PerformanceData{ActualMetrics: req.ActualMetrics}, req.MarketChanges)
	h.persistRecommendation(r, updated)

	httputil.OK(w, map[string]interface{}{
		"recommendation":   updated,
		"metric_standings": standings,
	})
}

// loadRecommendation checks the cache first, then the archive.
func (h *Handlers) loadRecommendation(r *http.Request, id string) (strategy.StrategicRecommendation, error) {
	if h.store != nil {
		rec, err := h.store.GetRecommendation(r.Context(), id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return strategy.StrategicRecommendation{}, err
		}
	}
	if h.archive != nil {
		return h.archive.Get(r.Context(), id)
	}
	return strategy.StrategicRecommendation{}, storage.ErrNotFound
}

// persistRecommendation writes to both backends; failures are logged, never
// surfaced, so a storage outage does not break scoring.
func (h *Handlers) persistRecommendation(r *http.Request, rec strategy.StrategicRecommendation) {
	if h.store != nil {
		if err := h.store.SaveRecommendation(r.Context(), rec); err != nil {
			log.Printf("[API] Failed to cache recommendation %s: %v", rec.ID, err)
		}
	}
	if h.archive != nil {
		if err := h.archive.Save(r.Context(), rec); err != nil {
			log.Printf("[API] Failed to archive recommendation %s: %v", rec.ID, err)
		}
	}
}
