package status

import (
	"context"
	"sync"
	"time"
)

// DefaultConcurrency caps simultaneous probes during a bulk refresh.
// Sized independently of device count: refresh wall-clock for N devices is
// bounded by ceil(N / concurrency) probe timeouts, not N of them.
const DefaultConcurrency = 10

// Sink receives each probe result after it lands in the cache.
//
// Sinks run on probe goroutines and should return quickly; slow delivery
// should be buffered inside the sink, not here. Errors must be handled
// internally - the cache treats delivery as best-effort.
type Sink interface {
	RecordStatus(name string, rec Record)
}

// Cache is the in-memory name -> last probe result map with concurrent
// refresh fan-out.
//
// Thread Safety:
//   - All public methods are safe for concurrent use.
//   - The mutex guards only map access; probes run outside it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Record

	prober      Prober
	concurrency int
	logger      Logger

	// sinks are registered during wiring, before any refresh runs.
	sinks []Sink
}

// NewCache creates a Cache that uses prober for liveness checks.
func NewCache(prober Prober) *Cache {
	return &Cache{
		entries:     make(map[string]Record),
		prober:      prober,
		concurrency: DefaultConcurrency,
		logger:      noopLogger{},
	}
}

// SetConcurrency overrides the bulk refresh worker cap.
// Values below 1 are ignored.
func (c *Cache) SetConcurrency(n int) {
	if n >= 1 {
		c.concurrency = n
	}
}

// SetLogger sets the logger for the cache.
func (c *Cache) SetLogger(logger Logger) {
	c.logger = logger
}

// AddSink registers a probe result sink. Not safe to call once refreshes
// are running; register everything during startup wiring.
func (c *Cache) AddSink(s Sink) {
	c.sinks = append(c.sinks, s)
}

// RefreshAll probes every device in targets (name -> IP) concurrently and
// returns a snapshot of the cache afterwards.
//
// Probes are isolated per device: one failure cannot abort siblings or
// drop their results. The worker cap bounds total wall-clock to a constant
// multiple of the probe timeout regardless of device count.
func (c *Cache) RefreshAll(ctx context.Context, targets map[string]string) map[string]Record {
	start := time.Now()
	sem := make(chan struct{}, c.concurrency)

	var wg sync.WaitGroup
	for name, ip := range targets {
		wg.Add(1)
		go func(name, ip string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			c.probeAndStore(ctx, name, ip)
		}(name, ip)
	}
	wg.Wait()

	c.logger.Info("status refresh complete",
		"devices", len(targets),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return c.Snapshot()
}

// RefreshOne probes a single device synchronously, updates its cache
// entry, and returns the fresh record.
//
// Registry membership is the caller's concern; the cache probes whatever
// name and IP it is given.
func (c *Cache) RefreshOne(ctx context.Context, name, ip string) Record {
	return c.probeAndStore(ctx, name, ip)
}

// probeAndStore runs one probe and writes the result under the lock.
// The probe itself runs outside the lock so a hung probe cannot block
// writes from faster siblings.
func (c *Cache) probeAndStore(ctx context.Context, name, ip string) Record {
	res := c.prober.Probe(ctx, ip)

	now := time.Now().UTC()
	online := res.Online
	rec := Record{
		Online:    &online,
		CheckedAt: &now,
		IP:        ip,
	}
	if res.Online && res.RTTKnown {
		rtt := res.RTTMillis
		rec.RTTMillis = &rtt
	}

	c.mu.Lock()
	c.entries[name] = rec
	c.mu.Unlock()

	for _, s := range c.sinks {
		s.RecordStatus(name, rec)
	}

	return rec
}

// Get returns the cached record for name, if any.
func (c *Cache) Get(name string) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[name]
	return rec, ok
}

// Snapshot returns a copy of the whole cache.
func (c *Cache) Snapshot() map[string]Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]Record, len(c.entries))
	for name, rec := range c.entries {
		out[name] = rec
	}
	return out
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Rename moves the entry for old to new under a single lock acquisition.
// No-op when old has no entry.
func (c *Cache) Rename(old, new string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[old]
	if !ok {
		return
	}
	delete(c.entries, old)
	c.entries[new] = rec
}

// Prune removes the entry for name, if any. Called when the owning device
// is deleted or renamed so the cache cannot accumulate orphans.
func (c *Cache) Prune(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}
