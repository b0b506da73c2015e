package cleanup

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/internal/metrics"
	pkglog "github.com/simonai-git/restaurant-recommendations/pkg/log"
)

// ExpiredStore removes expired cache rows. Place details are never swept.
type ExpiredStore interface {
	DeleteExpiredSearches(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredPhotos(ctx context.Context, now time.Time) (int64, error)
}

// Cleaner periodically deletes expired search and photo rows from the
// persistent store.
type Cleaner struct {
	store  ExpiredStore
	cfg    config.CleanupConfig
	now    func() time.Time
	quit   chan struct{}
	doneCh chan struct{}
}

// New creates a new Cleaner.
func New(store ExpiredStore, cfg config.CleanupConfig) *Cleaner {
	return &Cleaner{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		quit:   make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the cleaner in a background goroutine.
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// Stop signals the cleaner to stop and returns immediately.
// Call Done() to wait for it to exit.
func (c *Cleaner) Stop() {
	close(c.quit)
}

// Done returns a channel that is closed when the cleaner has fully stopped.
func (c *Cleaner) Done() <-chan struct{} {
	return c.doneCh
}

func (c *Cleaner) run(ctx context.Context) {
	defer close(c.doneCh)

	interval := c.cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Run(ctx); err != nil {
				l := pkglog.L()
				l.Error().Err(err).Msg("cleanup: sweep failed")
			}
		}
	}
}

// Run performs a single sweep, deleting expired search and photo rows
// concurrently.
func (c *Cleaner) Run(ctx context.Context) error {
	l := pkglog.L()
	now := c.now()

	var searches, photos int64
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := c.store.DeleteExpiredSearches(gCtx, now)
		if err != nil {
			return err
		}
		searches = n
		metrics.CleanupDeleted("search_cache", n)
		return nil
	})

	g.Go(func() error {
		n, err := c.store.DeleteExpiredPhotos(gCtx, now)
		if err != nil {
			return err
		}
		photos = n
		metrics.CleanupDeleted("photo_cache", n)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	l.Info().Int64("searches", searches).Int64("photos", photos).Msg("cleanup: expired cache rows removed")
	return nil
}
