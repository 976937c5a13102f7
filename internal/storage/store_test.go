package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/strategy"
	"github.com/ignite/content-strategist/internal/viral"
)

func setupTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
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
	return NewStore(client, ttl), mr
}

func TestPredictionRoundtrip(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	p := viral.ViralPrediction{
		ContentID:         "c1",
		Platform:          domain.PlatformTwitter,
		OverallViralScore: 0.64,
		RiskAdjustedScore: 0.58,
		RiskLevel:         domain.RiskMedium,
	}
	if err := store.SavePrediction(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetPrediction(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContentID != p.ContentID || got.OverallViralScore != p.OverallViralScore || got.RiskLevel != p.RiskLevel {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	if _, err := store.GetPrediction(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("prediction err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetAssessment(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("assessment err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetRecommendation(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("recommendation err = %v, want ErrNotFound", err)
	}
}

func TestAssessmentRoundtrip(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	a := safety.BrandSafetyAssessment{
		ContentID:    "c2",
		Platform:     domain.PlatformLinkedIn,
		BrandProfile: domain.ProfileConservative,
		SafetyLevel:  domain.SafetyCaution,
	}
	if err := store.SaveAssessment(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.GetAssessment(ctx, "c2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SafetyLevel != a.SafetyLevel || got.BrandProfile != a.BrandProfile {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestRecommendationIndex(t *testing.T) {
	store, mr := setupTestStore(t, time.Hour)
	ctx := context.Background()

	for _, id := range []string{"r1", "r2"} {
		rec := strategy.StrategicRecommendation{ID: id, Objective: strategy.ObjectiveEngagement}
		if err := store.SaveRecommendation(ctx, rec); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	ids, err := store.ListRecommendationIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want 2 entries", ids)
	}

	// Expire one record; the stale id is pruned from the index.
	mr.Del(recommendationKeyPrefix + "r1")
	ids, err = store.ListRecommendationIDs(ctx)
	if err != nil {
		t.Fatalf("list after expiry: %v", err)
	}
	if len(ids) != 1 || ids[0] != "r2" {
		t.Errorf("ids = %v, want [r2]", ids)
	}
	stale, err := store.client.SIsMember(ctx, recommendationIndexKey, "r1").Result()
	if err != nil {
		t.Fatalf("sismember: %v", err)
	}
	if stale {
		t.Error("stale id should be removed from the index")
	}
}

func TestSaveAppliesTTL(t *testing.T) {
	store, mr := setupTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.SavePrediction(ctx, viral.ViralPrediction{ContentID: "c3"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(predictionKeyPrefix + "c3"); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.GetPrediction(ctx, "c3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after expiry = %v, want ErrNotFound", err)
	}
}
