package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

// Attempt records one tier tried during an upload.
type Attempt struct {
	Tier constants.StorageTier `json:"tier"`
	Err  string                `json:"error,omitempty"`
}

// Result is a successful upload and the tiers tried to get there.
type Result struct {
	Descriptor
	// Name is the generated object name; File is the uploaded file's own name.
	Name     string    `json:"name"`
	File     string    `json:"file"`
	Attempts []Attempt `json:"attempts"`
}

// TierStatus is the readiness of one tier as of the last probe.
type TierStatus struct {
	Tier  constants.StorageTier `json:"tier"`
	Ready bool                  `json:"ready"`
	Error string                `json:"error,omitempty"`
}

// Selector routes uploads through backends in priority order.
type Selector struct {
	backends []Backend
	now      func() time.Time

	mu     sync.RWMutex
	ready  map[constants.StorageTier]bool
	errs   map[constants.StorageTier]string
	lastMs int64
}

type Option func(*Selector)

func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// NewSelector takes backends in priority order. Nil entries are skipped so
// callers can pass unconfigured tiers directly.
func NewSelector(backends []Backend, opts ...Option) *Selector {
	s := &Selector{
		now:   time.Now,
		ready: make(map[constants.StorageTier]bool),
		errs:  make(map[constants.StorageTier]string),
	}
	for _, b := range backends {
		if b != nil {
			s.backends = append(s.backends, b)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Probe health-checks every tier concurrently and records readiness.
func (s *Selector) Probe(ctx context.Context) []TierStatus {
	results := make([]error, len(s.backends))
	var g errgroup.Group
	for i, b := range s.backends {
		g.Go(func() error {
			results[i] = b.HealthCheck(ctx)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	for i, b := range s.backends {
		s.ready[b.Tier()] = results[i] == nil
		if results[i] != nil {
			s.errs[b.Tier()] = results[i].Error()
			logger.Debug("Storage tier not ready", "tier", b.Tier(), "error", results[i])
		} else {
			delete(s.errs, b.Tier())
		}
	}
	s.mu.Unlock()
	return s.Status()
}

// Ready reports whether tier passed the last probe.
func (s *Selector) Ready(tier constants.StorageTier) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready[tier]
}

// Status lists every configured tier in priority order.
func (s *Selector) Status() []TierStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TierStatus, 0, len(s.backends))
	for _, b := range s.backends {
		out = append(out, TierStatus{Tier: b.Tier(), Ready: s.ready[b.Tier()], Error: s.errs[b.Tier()]})
	}
	return out
}

// Current is the tier the next upload will try first.
func (s *Selector) Current() (constants.StorageTier, bool) {
	for _, st := range s.Status() {
		if st.Ready {
			return st.Tier, true
		}
	}
	return "", false
}

func (s *Selector) backend(tier constants.StorageTier) Backend {
	for _, b := range s.backends {
		if b.Tier() == tier {
			return b
		}
	}
	return nil
}

// hostedTier returns the secondary backend when it is the first ready tier.
// Uploads land in a higher-priority tier whenever one is ready, so the
// hosted bucket listing would miss them.
func (s *Selector) hostedTier() Backend {
	current, ok := s.Current()
	if !ok || current != constants.TierSecondary {
		return nil
	}
	return s.backend(constants.TierSecondary)
}

// Counter returns the secondary tier's media counter when that tier is the
// first ready one.
func (s *Selector) Counter() Counter {
	if c, ok := s.hostedTier().(Counter); ok {
		return c
	}
	return nil
}

// nextMillis returns a strictly increasing timestamp so names generated in
// the same millisecond stay unique.
func (s *Selector) nextMillis() int64 {
	ms := s.now().UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ms <= s.lastMs {
		ms = s.lastMs + 1
	}
	s.lastMs = ms
	return ms
}

// Upload stores f in the first ready tier that accepts it. The caller owns
// persisting the returned descriptor.
func (s *Selector) Upload(ctx context.Context, f File, dir string) (Result, error) {
	if f.Size() > constants.MaxUploadFileSize {
		return Result{}, fmt.Errorf("%s: %w", f.Name, ErrFileTooLarge)
	}

	name := ObjectName(s.nextMillis(), f.Name)
	var attempts []Attempt
	var lastErr error

	for _, b := range s.backends {
		if !s.Ready(b.Tier()) {
			continue
		}
		start := s.now()
		desc, err := b.Upload(ctx, f, dir, name)
		if err == nil {
			attempts = append(attempts, Attempt{Tier: b.Tier()})
			logger.Info("Uploaded media", "name", f.Name, "tier", b.Tier(), "size", f.Size(), "took", s.now().Sub(start))
			return Result{Descriptor: desc, Name: name, File: f.Name, Attempts: attempts}, nil
		}

		attempts = append(attempts, Attempt{Tier: b.Tier(), Err: err.Error()})
		lastErr = err
		if errors.Is(err, ErrSizeLimit) {
			return Result{Name: name, File: f.Name, Attempts: attempts}, err
		}
		logger.Warn("Upload failed, trying next tier", "name", f.Name, "tier", b.Tier(), "error", err)
	}

	if lastErr == nil {
		return Result{Name: name, File: f.Name, Attempts: attempts}, ErrNoTierAvailable
	}
	return Result{Name: name, File: f.Name, Attempts: attempts}, fmt.Errorf("%w: %w", ErrNoTierAvailable, lastErr)
}

// Remove deletes the stored object behind item from the tier that holds it.
// Tiers without delete support keep the object; only the reference goes.
func (s *Selector) Remove(ctx context.Context, item models.MediaItem) error {
	b := s.backend(item.StorageTier)
	if b == nil {
		logger.Debug("No backend for media tier", "tier", item.StorageTier, "id", item.ID)
		return nil
	}
	r, ok := b.(Remover)
	if !ok {
		logger.Debug("Tier does not support removal", "tier", item.StorageTier, "id", item.ID)
		return nil
	}
	if err := r.Remove(ctx, item.Path); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", item.Path, item.StorageTier, err)
	}
	return nil
}
