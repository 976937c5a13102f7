// Package trending keeps a refreshed snapshot of trending topics from RSS
// feeds. The snapshot feeds the trending-overlap features of the scoring
// engine.
package trending

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ignite/content-strategist/internal/pkg/httpretry"
)

// seedTopics is the fallback snapshot used before the first successful poll
// or when every configured feed fails.
var seedTopics = []string{
	"artificial intelligence", "remote work", "sustainability",
	"personal branding", "creator economy",
}

// Config holds the provider settings.
type Config struct {
	FeedURLs     []string      // RSS/Atom feeds to poll
	PollInterval time.Duration // how often to refresh the snapshot
	MaxTopics    int           // snapshot size cap
	FetchTimeout time.Duration // per-feed fetch deadline
	FetchRetries int           // transient-failure retries per fetch
}

// DefaultConfig returns the default polling configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 15 * time.Minute,
		MaxTopics:    25,
		FetchTimeout: 10 * time.Second,
		FetchRetries: 2,
	}
}

// Provider polls the configured feeds in the background and serves the
// latest topic snapshot. Topics() is lock-cheap and safe for concurrent use.
type Provider struct {
	parser *gofeed.Parser
	cfg    Config

	mu     sync.RWMutex
	topics []string

	totalPolls  int64
	totalErrors int64

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runMu   sync.Mutex
	running bool
}

// NewProvider creates a provider seeded with the fallback topics.
func NewProvider(cfg Config) *Provider {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 15 * time.Minute
	}
	if cfg.MaxTopics == 0 {
		cfg.MaxTopics = 25
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.FetchRetries == 0 {
		cfg.FetchRetries = 2
	}
	parser := gofeed.NewParser()
	parser.Client = httpretry.NewClient(cfg.FetchRetries, cfg.FetchTimeout)
	return &Provider{
		parser: parser,
		cfg:    cfg,
		topics: append([]string{}, seedTopics...),
	}
}

// Topics returns the current snapshot.
func (p *Provider) Topics() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string{}, p.topics...)
}

// Start begins the background polling loop. No-op if no feeds are
// configured or the loop is already running.
func (p *Provider) Start() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.running || len(p.cfg.FeedURLs) == 0 {
		return
	}
	p.running = true
	p.ctx, p.cancel = context.WithCancel(context.Background())

	log.Printf("[Trending] Starting with %d feeds, poll_interval=%s",
		len(p.cfg.FeedURLs), p.cfg.PollInterval)

	p.wg.Add(1)
	go p.pollLoop()
}

// Stop gracefully stops the polling loop.
func (p *Provider) Stop() {
	p.runMu.Lock()
	if !p.running {
		p.runMu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	p.runMu.Unlock()

	p.wg.Wait()
	log.Printf("[Trending] Stopped. Stats: polls=%d, errors=%d",
		atomic.LoadInt64(&p.totalPolls), atomic.LoadInt64(&p.totalErrors))
}

// Stats returns polling counters.
func (p *Provider) Stats() map[string]int64 {
	return map[string]int64{
		"total_polls":  atomic.LoadInt64(&p.totalPolls),
		"total_errors": atomic.LoadInt64(&p.totalErrors),
	}
}

func (p *Provider) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	// Refresh immediately on start.
	p.Refresh(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(p.ctx)
		}
	}
}

// Refresh polls every feed once and swaps in a new snapshot. Feeds that
// fail are logged and skipped; if nothing succeeds the old snapshot stays.
func (p *Provider) Refresh(ctx context.Context) {
	atomic.AddInt64(&p.totalPolls, 1)

	counts := map[string]int{}
	succeeded := 0
	for _, feedURL := range p.cfg.FeedURLs {
		fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		feed, err := p.parser.ParseURLWithContext(feedURL, fetchCtx)
		cancel()
		if err != nil {
			atomic.AddInt64(&p.totalErrors, 1)
			log.Printf("[Trending] Failed to fetch %s: %v", feedURL, err)
			continue
		}
		succeeded++
		for _, item := range feed.Items {
			for _, topic := range itemTopics(item) {
				counts[topic]++
			}
		}
	}
	if succeeded == 0 || len(counts) == 0 {
		return
	}

	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	// Most frequent first; alphabetical tie-break keeps snapshots stable.
	sort.SliceStable(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > p.cfg.MaxTopics {
		topics = topics[:p.cfg.MaxTopics]
	}

	p.mu.Lock()
	p.topics = topics
	p.mu.Unlock()

	log.Printf("[Trending] Snapshot refreshed: %d topics from %d feeds", len(topics), succeeded)
}

// itemTopics pulls topic strings from a feed item: categories when present,
// else the lowercased title.
func itemTopics(item *gofeed.Item) []string {
	var out []string
	for _, c := range item.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		title := strings.ToLower(strings.TrimSpace(item.Title))
		if title != "" {
			out = append(out, title)
		}
	}
	return out
}
