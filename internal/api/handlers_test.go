package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/features"
	"github.com/ignite/content-strategist/internal/gaps"
	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/storage"
	"github.com/ignite/content-strategist/internal/strategy"
	"github.com/ignite/content-strategist/internal/viral"
)

func setupRouter(t *testing.T) (*httptest.Server, *Handlers) {
	t.Helper()

	conceptEx := concepts.NewPatternExtractor()
	engine := viral.NewEngine(features.NewExtractor(), viral.DefaultEngineConfig(),
		viral.WithConceptExtractor(conceptEx))

	analyzers := map[domain.BrandProfile]*safety.Analyzer{}
	for _, profile := range []domain.BrandProfile{domain.ProfileConservative, domain.ProfileModerate, domain.ProfileAggressive} {
		analyzers[profile] = safety.NewAnalyzer(profile, engine, safety.WithConceptExtractor(conceptEx))
	}

	gapAnalyzer := gaps.NewAnalyzer(gaps.DefaultConfig(), engine)
	optimizer := strategy.NewOptimizer(strategy.DefaultOptimizerConfig(), engine, gapAnalyzer, conceptEx)

	h := NewHandlers(engine, analyzers, optimizer)
	srv := httptest.NewServer(SetupRoutes(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func withTestStore(t *testing.T, h *Handlers) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	h.SetStore(storage.NewStore(client, time.Hour))
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func sampleBusinessContext() strategy.BusinessContext {
	return strategy.BusinessContext{
		CompanyName:   "Northwind Analytics",
		CompanyStage:  "growth",
		Industry:      "b2b saas",
		MonthlyBudget: 12000,
		TargetAudiences: []domain.AudienceSegment{
			{
				ID:                 "seg-1",
				Name:               "Engineering Leaders",
				Size:               40000,
				PreferredPlatforms: []domain.Platform{domain.PlatformLinkedIn},
				Interests:          []string{"ai", "hiring"},
			},
		},
	}
}

// ============================================================
// health
// ============================================================

func TestHealthCheck(t *testing.T) {
	srv, h := setupRouter(t)
	withTestStore(t, h)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["redis"] != "ok" {
		t.Errorf("redis field = %v, want ok", body["redis"])
	}
}

// ============================================================
// POST /api/viral/predict
// ============================================================

func TestPredictViral(t *testing.T) {
	srv, _ := setupRouter(t)

	resp := postJSON(t, srv.URL+"/api/viral/predict", map[string]string{
		"text":     "Hot take: most content calendars die in week two. What would you change?",
		"platform": "linkedin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var prediction viral.ViralPrediction
	decodeBody(t, resp, &prediction)
	if prediction.ContentID == "" {
		t.Error("prediction should carry a generated content id")
	}
	if prediction.OverallViralScore <= 0 || prediction.OverallViralScore > 1 {
		t.Errorf("OverallViralScore = %v, want (0, 1]", prediction.OverallViralScore)
	}
	if prediction.Degraded {
		t.Error("prediction should not be degraded")
	}
}

func TestPredictViralRejectsMissingText(t *testing.T) {
	srv, _ := setupRouter(t)

	resp := postJSON(t, srv.URL+"/api/viral/predict", map[string]string{"platform": "twitter"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPredictViralRejectsBadJSON(t *testing.T) {
	srv, _ := setupRouter(t)

	resp, err := http.Post(srv.URL+"/api/viral/predict", "application/json", bytes.NewReader([]byte("{broken")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

// ============================================================
// POST /api/safety/assess
// ============================================================

func TestAssessSafety(t *testing.T) {
	srv, _ := setupRouter(t)

	resp := postJSON(t, srv.URL+"/api/safety/assess", map[string]string{
		"text":          "We are excited to share our growth playbook with the community.",
		"platform":      "linkedin",
		"brand_profile": "conservative",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var assessment safety.BrandSafetyAssessment
	decodeBody(t, resp, &assessment)
	if assessment.SafetyLevel == "" {
		t.Error("assessment should carry a safety level")
	}
	if assessment.BrandProfile != domain.ProfileConservative {
		t.Errorf("BrandProfile = %s, want conservative", assessment.BrandProfile)
	}
	if assessment.ViralPrediction == nil {
		t.Fatal("assessment should embed the viral prediction")
	}
	if assessment.RiskAdjustedViralScore > assessment.ViralPrediction.OverallViralScore {
		t.Error("risk-adjusted score must not exceed the raw viral score")
	}
}

func TestAssessSafetyUnknownProfileUsesModerate(t *testing.T) {
	srv, _ := setupRouter(t)

	resp := postJSON(t, srv.URL+"/api/safety/assess", map[string]string{
		"text":          "Quarterly roundup of product updates.",
		"brand_profile": "daredevil",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var assessment safety.BrandSafetyAssessment
	decodeBody(t, resp, &assessment)
	if assessment.BrandProfile != domain.ProfileModerate {
		t.Errorf("BrandProfile = %s, want moderate fallback", assessment.BrandProfile)
	}
}

// ============================================================
// strategy endpoints
// ============================================================

func TestGenerateStrategyAndFetchFromCache(t *testing.T) {
	srv, h := setupRouter(t)
	withTestStore(t, h)

	resp := postJSON(t, srv.URL+"/api/strategy/generate", map[string]interface{}{
		"business_context": sampleBusinessContext(),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d, want 200", resp.StatusCode)
	}

	var rec strategy.StrategicRecommendation
	decodeBody(t, resp, &rec)
	if rec.ID == "" {
		t.Fatal("recommendation should carry an id")
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Fatalf("recommendation id %q is not a uuid: %v", rec.ID, err)
	}
	if rec.Degraded {
		t.Error("recommendation should not be degraded")
	}

	getResp, err := http.Get(srv.URL + "/api/strategy/" + rec.ID)
	if err != nil {
		t.Fatalf("GET strategy: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", getResp.StatusCode)
	}

	var fetched strategy.StrategicRecommendation
	decodeBody(t, getResp, &fetched)
	if fetched.ID != rec.ID {
		t.Errorf("fetched id = %s, want %s", fetched.ID, rec.ID)
	}
	if fetched.Objective != rec.Objective {
		t.Errorf("fetched objective = %s, want %s", fetched.Objective, rec.Objective)
	}
}

func TestGetStrategyRejectsMalformedID(t *testing.T) {
	srv, _ := setupRouter(t)

	resp, err := http.Get(srv.URL + "/api/strategy/not-a-uuid")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetStrategyMissingReturns404(t *testing.T) {
	srv, h := setupRouter(t)
	withTestStore(t, h)

	resp, err := http.Get(srv.URL + "/api/strategy/" + uuid.NewString())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListStrategiesWithoutArchive(t *testing.T) {
	srv, _ := setupRouter(t)

	resp, err := http.Get(srv.URL + "/api/strategy/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without an archive", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestOptimizeStrategy(t *testing.T) {
	srv, h := setupRouter(t)
	withTestStore(t, h)

	resp := postJSON(t, srv.URL+"/api/strategy/generate", map[string]interface{}{
		"business_context": sampleBusinessContext(),
	})
	var rec strategy.StrategicRecommendation
	decodeBody(t, resp, &rec)

	optResp := postJSON(t, srv.URL+"/api/strategy/"+rec.ID+"/optimize", map[string]interface{}{
		"actual_metrics": map[string]float64{"engagement_rate": 0.05},
	})
	if optResp.StatusCode != http.StatusOK {
		t.Fatalf("optimize status = %d, want 200", optResp.StatusCode)
	}

	var body struct {
		Recommendation  strategy.StrategicRecommendation   `json:"recommendation"`
		MetricStandings map[string]strategy.MetricStanding `json:"metric_standings"`
	}
	decodeBody(t, optResp, &body)
	if body.Recommendation.ID != rec.ID {
		t.Errorf("optimized id = %s, want %s", body.Recommendation.ID, rec.ID)
	}
	if !body.Recommendation.UpdatedAt.After(body.Recommendation.CreatedAt) &&
		!body.Recommendation.UpdatedAt.Equal(body.Recommendation.CreatedAt) {
		t.Error("UpdatedAt should move forward on optimization")
	}
}

func TestOptimizeStrategyRejectsMalformedID(t *testing.T) {
	srv, _ := setupRouter(t)

	resp := postJSON(t, srv.URL+"/api/strategy/not-a-uuid/optimize", map[string]interface{}{
		"actual_metrics": map[string]float64{"reach": 1000},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestOptimizeStrategyRequiresMetrics(t *testing.T) {
	srv, h := setupRouter(t)
	withTestStore(t, h)

	resp := postJSON(t, srv.URL+"/api/strategy/"+uuid.NewString()+"/optimize", map[string]interface{}{
		"actual_metrics": map[string]float64{},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}
