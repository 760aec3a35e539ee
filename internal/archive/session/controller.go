// Package session implements the archive session controller: the stateful
// orchestrator between screen-level triggers (focus, paging, filter changes,
// entitlement updates) and the sync engine and local store.
//
// The controller's mutex guards only the SessionContext. Syncs and store
// queries run outside the lock; the epoch and the in-flight counter decide
// what happens when operations overlap.
package session

import (
	"context"
	"fmt"
	"sync"

	"puzzlearchive/internal/archive/access"
	"puzzlearchive/internal/archive/config"
	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/archive/repositories/attempts"
	"puzzlearchive/internal/archive/repositories/catalog"
	"puzzlearchive/internal/datex"
	"puzzlearchive/internal/logging"
)

// Syncer is the sync engine surface the controller needs.
type Syncer interface {
	Sync(ctx context.Context, mode models.SyncMode) models.SyncResult
}

// Controller runs one archive session.
type Controller struct {
	syncer   Syncer
	catalog  catalog.Repository
	attempts attempts.Repository
	clock    Clock
	logger   logging.Logger
	cfg      *config.Config

	mu    sync.Mutex
	state SessionContext
}

func NewController(syncer Syncer, cat catalog.Repository, att attempts.Repository, clock Clock, logger logging.Logger, cfg *config.Config) *Controller {
	return &Controller{
		syncer:   syncer,
		catalog:  cat,
		attempts: att,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		state:    newSessionContext(),
	}
}

// Start opens a fresh session: all session state is discarded, the catalog
// is synced and page zero is loaded. Entitlement and grant updates arrive as
// separate events after Start.
//
// A failed sync is not fatal: the archive keeps serving the local replica,
// the failure lands in LastSync and the next Refocus retries.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.state = newSessionContext()
	c.mu.Unlock()

	return c.reload(ctx, true)
}

// Refocus is the screen-focus trigger. It is skipped entirely while a load
// is in flight. Otherwise it resets to page zero, syncing first only if this
// session has not successfully synced yet.
func (c *Controller) Refocus(ctx context.Context) error {
	c.mu.Lock()
	if c.state.LoadsInFlight > 0 {
		c.mu.Unlock()
		c.logger.Debug(ctx, "refocus skipped, load in flight")
		return nil
	}
	needSync := !c.state.SyncedThisSession
	c.mu.Unlock()

	return c.reload(ctx, needSync)
}

// Resync forces a sync and a page-zero reload, superseding any loads still
// in flight.
func (c *Controller) Resync(ctx context.Context) error {
	return c.reload(ctx, true)
}

// SetFilter switches the active filter and reloads page zero from the local
// store. No sync runs; the filter narrows what is already replicated.
func (c *Controller) SetFilter(ctx context.Context, f models.Filter) error {
	c.mu.Lock()
	c.state.Filter = f
	c.mu.Unlock()

	return c.reload(ctx, false)
}

// LoadNextPage appends the next page to the loaded items. The append is
// discarded when a reload superseded this load while its query ran.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Total > 0 && len(c.state.Items) >= c.state.Total {
		c.mu.Unlock()
		return nil
	}
	epoch := c.state.Epoch
	offset := len(c.state.Items)
	f := c.state.Filter
	entitled := c.state.Entitled
	grants := c.state.Grants
	c.state.LoadsInFlight++
	c.mu.Unlock()

	today := datex.DateOf(c.clock.Now())
	items, total, err := c.loadPage(ctx, offset, f, today, entitled, grants)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LoadsInFlight--
	defer c.settlePending(today)

	if err != nil {
		return err
	}
	if c.state.Epoch != epoch {
		c.logger.Debug(ctx, "page load superseded, discarding", "offset", offset)
		return nil
	}

	c.state.Items = append(c.state.Items, items...)
	c.state.Total = total
	return nil
}

// SetEntitled records the entitlement state and relocks the loaded items in
// memory. It never queries the store or the network. While a load is in
// flight the relock is deferred and coalesced to run once when it lands.
func (c *Controller) SetEntitled(entitled bool) {
	today := datex.DateOf(c.clock.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Entitled = entitled
	if c.state.LoadsInFlight > 0 {
		c.state.PendingRecompute = true
		return
	}
	c.relock(today)
}

// SetGrants records the active ad-unlock grants and relocks the loaded items
// in memory, with the same deferral as SetEntitled.
func (c *Controller) SetGrants(grants []models.AdUnlockGrant) {
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.PuzzleID)
	}
	set := access.NewGrantSet(ids...)

	today := datex.DateOf(c.clock.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Grants = set
	if c.state.LoadsInFlight > 0 {
		c.state.PendingRecompute = true
		return
	}
	c.relock(today)
}

// OnAttemptCompleted flips the cached completion flag for the puzzle and
// relocks it, so a finished puzzle unlocks on screen without a reload. Under
// the incomplete filter the item stays visible, now marked completed, until
// the next reload drops it.
func (c *Controller) OnAttemptCompleted(puzzleID string) {
	today := datex.DateOf(c.clock.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.state.Items {
		it := &c.state.Items[i]
		if it.ID != puzzleID {
			continue
		}
		it.Completed = true
		v := c.evaluate(*it, today)
		it.Locked = v.Locked
		it.Unlock = v.Rule
		return
	}
}

// Items returns a snapshot copy of the loaded, decorated items.
func (c *Controller) Items() []models.ArchiveItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ArchiveItem, len(c.state.Items))
	copy(out, c.state.Items)
	return out
}

// Total returns how many entries match the active filter across all pages.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Total
}

// LastSync reports the most recent sync run of this session.
func (c *Controller) LastSync() models.SyncResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.LastSync
}

// reload resets the result set to page zero, optionally syncing first. It
// advances the epoch, so slower loads started earlier discard themselves.
func (c *Controller) reload(ctx context.Context, withSync bool) error {
	c.mu.Lock()
	c.state.Epoch++
	epoch := c.state.Epoch
	c.state.LoadsInFlight++
	f := c.state.Filter
	entitled := c.state.Entitled
	grants := c.state.Grants
	c.mu.Unlock()

	today := datex.DateOf(c.clock.Now())

	if withSync {
		c.syncOnce(ctx)
	}

	items, total, err := c.loadPage(ctx, 0, f, today, entitled, grants)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LoadsInFlight--
	defer c.settlePending(today)

	if err != nil {
		return err
	}
	if c.state.Epoch != epoch {
		c.logger.Debug(ctx, "reload superseded, discarding")
		return nil
	}

	c.state.Items = items
	c.state.Total = total
	return nil
}

// syncOnce runs one sync bounded by the configured timeout and records the
// outcome. Failures are logged and absorbed; the local replica still serves.
func (c *Controller) syncOnce(ctx context.Context) {
	syncCtx := ctx
	if c.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		syncCtx, cancel = context.WithTimeout(ctx, c.cfg.SyncTimeout)
		defer cancel()
	}

	res := c.syncer.Sync(syncCtx, models.SyncModeFull)

	c.mu.Lock()
	c.state.LastSync = res
	if res.Success {
		c.state.SyncedThisSession = true
	}
	c.mu.Unlock()

	if !res.Success {
		c.logger.Warn(ctx, "sync failed, serving local catalog", "error", res.Err)
	}
}

// loadPage queries one page and decorates it with completion flags and lock
// verdicts. Runs without the lock; entitled and grants are the snapshot the
// caller took when it started.
func (c *Controller) loadPage(ctx context.Context, offset int, f models.Filter, today datex.Date, entitled bool, grants access.GrantSet) ([]models.ArchiveItem, int, error) {
	var (
		entries []models.CatalogEntry
		total   int
		err     error
	)

	if f.IncompleteOnly {
		entries, err = c.catalog.ListIncomplete(ctx, offset, c.cfg.PageSize, today)
		if err == nil {
			total, err = c.catalog.CountIncomplete(ctx, today)
		}
	} else {
		entries, err = c.catalog.ListPage(ctx, offset, c.cfg.PageSize, f.Category)
		if err == nil {
			total, err = c.catalog.CountMatching(ctx, f.Category)
		}
	}
	if err != nil {
		return nil, 0, fmt.Errorf("error loading archive page: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	completed, err := c.attempts.CompletedIn(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("error loading completion flags: %w", err)
	}

	items := make([]models.ArchiveItem, 0, len(entries))
	for _, e := range entries {
		item := models.ArchiveItem{CatalogEntry: e, Completed: completed[e.ID]}
		v := access.Evaluate(access.Input{
			PuzzleID:   e.ID,
			ItemDate:   e.ItemDate,
			Today:      today,
			WindowDays: c.cfg.FreeWindowDays,
			Completed:  item.Completed,
			Entitled:   entitled,
			Grants:     grants,
		})
		item.Locked = v.Locked
		item.Unlock = v.Rule
		items = append(items, item)
	}
	return items, total, nil
}

// evaluate runs the decision chain for one cached item against the current
// session entitlement state. Caller holds mu.
func (c *Controller) evaluate(it models.ArchiveItem, today datex.Date) access.Verdict {
	return access.Evaluate(access.Input{
		PuzzleID:   it.ID,
		ItemDate:   it.ItemDate,
		Today:      today,
		WindowDays: c.cfg.FreeWindowDays,
		Completed:  it.Completed,
		Entitled:   c.state.Entitled,
		Grants:     c.state.Grants,
	})
}

// relock recomputes the lock verdict of every loaded item. Caller holds mu.
func (c *Controller) relock(today datex.Date) {
	for i := range c.state.Items {
		it := &c.state.Items[i]
		v := c.evaluate(*it, today)
		it.Locked = v.Locked
		it.Unlock = v.Rule
	}
}

// settlePending runs a deferred relock once the last in-flight load has
// landed. Caller holds mu.
func (c *Controller) settlePending(today datex.Date) {
	if c.state.LoadsInFlight == 0 && c.state.PendingRecompute {
		c.relock(today)
		c.state.PendingRecompute = false
	}
}
