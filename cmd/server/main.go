package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/content-strategist/internal/api"
	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/config"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/features"
	"github.com/ignite/content-strategist/internal/gaps"
	"github.com/ignite/content-strategist/internal/repository/postgres"
	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/storage"
	"github.com/ignite/content-strategist/internal/strategy"
	"github.com/ignite/content-strategist/internal/trending"
	"github.com/ignite/content-strategist/internal/viral"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Concept extractor: Bedrock when configured, else the deterministic
	// pattern matcher.
	var conceptEx concepts.Extractor = concepts.NewPatternExtractor()
	if cfg.Bedrock.Enabled {
		bedrockEx, err := concepts.NewBedrockExtractor(cfg.Bedrock.ModelID)
		if err != nil {
			log.Printf("Bedrock extractor unavailable (%v); using pattern extractor", err)
		} else {
			conceptEx = bedrockEx
		}
	}

	// Trending snapshot feeds the temporal features.
	var trendProvider *trending.Provider
	featureOpts := []features.Option{}
	if cfg.Trending.Enabled {
		trendProvider = trending.NewProvider(trending.Config{
			FeedURLs:     cfg.Trending.FeedURLs,
			PollInterval: time.Duration(cfg.Trending.PollIntervalMinutes) * time.Minute,
			MaxTopics:    cfg.Trending.MaxTopics,
		})
		trendProvider.Start()
		defer trendProvider.Stop()
		featureOpts = append(featureOpts, features.WithTrendProvider(trendProvider))
	}

	extractor := features.NewExtractor(featureOpts...)

	engineCfg := viral.DefaultEngineConfig()
	if cfg.Scoring.MaxEngagementRate > 0 {
		engineCfg.MaxEngagementRate = cfg.Scoring.MaxEngagementRate
	}
	if len(cfg.Scoring.OptimalPostingHours) > 0 {
		engineCfg.OptimalPostingHours = cfg.Scoring.OptimalPostingHours
	}
	engine := viral.NewEngine(extractor, engineCfg, viral.WithConceptExtractor(conceptEx))

	thresholds := safety.DefaultProfileThresholds()
	for name, t := range cfg.Strategy.SafetyThresholds {
		thresholds[domain.ParseBrandProfile(name)] = safety.ProfileThresholds{
			Safe: t.Safe, Caution: t.Caution, Risk: t.Risk,
		}
	}
	analyzers := map[domain.BrandProfile]*safety.Analyzer{}
	for _, profile := range []domain.BrandProfile{domain.ProfileConservative, domain.ProfileModerate, domain.ProfileAggressive} {
		analyzers[profile] = safety.NewAnalyzer(profile, engine,
			safety.WithThresholds(thresholds),
			safety.WithConceptExtractor(conceptEx))
	}

	gapAnalyzer := gaps.NewAnalyzer(gaps.DefaultConfig(), engine)

	optimizerCfg := strategy.DefaultOptimizerConfig()
	optimizerCfg.HorizonMonths = cfg.Strategy.HorizonMonths
	optimizerCfg.MaxThemes = cfg.Strategy.MaxThemes
	optimizerCfg.AwarenessBudgetFloor = cfg.Strategy.AwarenessBudgetFloor
	optimizerCfg.LeadGenBudgetFloor = cfg.Strategy.LeadGenBudgetFloor
	optimizerCfg.Predictor.AverageDealValue = cfg.Strategy.AverageDealValue
	optimizer := strategy.NewOptimizer(optimizerCfg, engine, gapAnalyzer, conceptEx,
		strategy.WithSafetyAnalyzers(analyzers))

	handlers := api.NewHandlers(engine, analyzers, optimizer)
	if trendProvider != nil {
		handlers.SetTrendingProvider(trendProvider)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := storage.NewStore(client, time.Duration(cfg.Redis.TTLHours)*time.Hour)
		if err := store.Ping(context.Background()); err != nil {
			log.Printf("Redis unreachable at %s (%v); running without cache", cfg.Redis.Addr, err)
		} else {
			handlers.SetStore(store)
			log.Printf("Redis cache enabled at %s", cfg.Redis.Addr)
		}
	}

	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Printf("Failed to open database (%v); running without archive", err)
		} else if err := db.Ping(); err != nil {
			log.Printf("Database unreachable (%v); running without archive", err)
		} else {
			handlers.SetArchive(postgres.NewRecommendationRepo(db))
			defer db.Close()
			log.Println("Recommendation archive enabled")
		}
	}

	router := api.SetupRoutes(handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Content strategist listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
