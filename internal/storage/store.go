// Package storage caches assessments and recommendations in Redis so the
// API layer can retrieve and re-optimize them by id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/strategy"
	"github.com/ignite/content-strategist/internal/viral"
)

// ErrNotFound is returned when no record exists for the given id.
var ErrNotFound = errors.New("storage: not found")

const (
	predictionKeyPrefix     = "cs:prediction:"
	assessmentKeyPrefix     = "cs:assessment:"
	recommendationKeyPrefix = "cs:recommendation:"
	recommendationIndexKey  = "cs:recommendations"
)

// Store persists scoring results as JSON values with a TTL. Safe for
// concurrent use.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a store. A zero ttl means records never expire.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SavePrediction stores a viral prediction under its content id.
func (s *Store) SavePrediction(ctx context.Context, p viral.ViralPrediction) error {
	return s.setJSON(ctx, predictionKeyPrefix+p.ContentID, p)
}

// GetPrediction loads a viral prediction by content id.
func (s *Store) GetPrediction(ctx context.Context, contentID string) (viral.ViralPrediction, error) {
	var p viral.ViralPrediction
	err := s.getJSON(ctx, predictionKeyPrefix+contentID, &p)
	return p, err
}

// SaveAssessment stores a brand-safety assessment under its content id.
func (s *Store) SaveAssessment(ctx context.Context, a safety.BrandSafetyAssessment) error {
	return s.setJSON(ctx, assessmentKeyPrefix+a.ContentID, a)
}

// GetAssessment loads a brand-safety assessment by content id.
func (s *Store) GetAssessment(ctx context.Context, contentID string) (safety.BrandSafetyAssessment, error) {
	var a safety.BrandSafetyAssessment
	err := s.getJSON(ctx, assessmentKeyPrefix+contentID, &a)
	return a, err
}

// SaveRecommendation stores a recommendation and indexes its id so
// ListRecommendationIDs can enumerate it.
func (s *Store) SaveRecommendation(ctx context.Context, rec strategy.StrategicRecommendation) error {
	if err := s.setJSON(ctx, recommendationKeyPrefix+rec.ID, rec); err != nil {
		return err
	}
	return s.client.SAdd(ctx, recommendationIndexKey, rec.ID).Err()
}

// GetRecommendation loads a recommendation by id.
func (s *Store) GetRecommendation(ctx context.Context, id string) (strategy.StrategicRecommendation, error) {
	var rec strategy.StrategicRecommendation
	err := s.getJSON(ctx, recommendationKeyPrefix+id, &rec)
	return rec, err
}

// ListRecommendationIDs returns every indexed recommendation id. Ids whose
// record has expired are pruned from the index as a side effect.
func (s *Store) ListRecommendationIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, recommendationIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: list recommendations: %w", err)
	}
	live := ids[:0]
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, recommendationKeyPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("storage: check recommendation %s: %w", id, err)
		}
		if exists == 0 {
			s.client.SRem(ctx, recommendationIndexKey, id)
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: unmarshal %s: %w", key, err)
	}
	return nil
}
