// FilePath: server/sweeps/internal/sweepview/sweepview.go
package sweepview

import (
	"context"
	"fmt"
	"sync"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted by a Component. Handlers receive the arguments listed.
const (
	EventLatestLoaded = "sweeps.latest.loaded" // count int
	EventAllLoaded    = "sweeps.all.loaded"    // count int
	EventFetchFailed  = "sweeps.fetch.failed"  // collection string, err error
	EventDownloaded   = "sweep.downloaded"     // id int64, filename string, size int
)

// Backend is the sweep API as seen by the view.
type Backend interface {
	FetchAllSweeps(ctx context.Context) ([]models.Sweep, error)
	FetchLatestSweep(ctx context.Context) ([]models.Sweep, error)
	DownloadSweepArtifact(ctx context.Context, id int64) ([]byte, error)
}

// Saver stores a downloaded artifact under a suggested file name.
type Saver interface {
	Save(ctx context.Context, filename string, content []byte) error
}

type activation struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Component holds the two sweep snapshots of one view and which of them is
// on display. Responses are applied under mu; they belong to the activation
// that requested them and are dropped once it is superseded or deactivated.
type Component struct {
	backend Backend
	saver   Saver
	events  *nuts.EventEmitter

	mu      sync.Mutex
	all     []models.Sweep
	latest  []models.Sweep
	visible []models.Sweep
	showAll bool
	current *activation
}

// New creates a view over backend. saver receives the artifacts of Download.
func New(backend Backend, saver Saver) *Component {
	return &Component{
		backend: backend,
		saver:   saver,
		events:  nuts.NewEventEmitter(),
		all:     []models.Sweep{},
		latest:  []models.Sweep{},
		visible: []models.Sweep{},
	}
}

// On registers handler for one of the Event* names. The handler must take
// exactly the arguments listed next to the event, e.g. func(count int) for
// EventLatestLoaded.
func (c *Component) On(event, name string, handler interface{}) error {
	if _, err := c.events.On(event, name, handler); err != nil {
		return fmt.Errorf("subscribe %s to %s: %w", name, event, err)
	}
	return nil
}

func (c *Component) emit(event string, args ...interface{}) {
	if err := c.events.Emit(event, args...); err != nil {
		nuts.L.Errorf("[SweepView] Failed to emit %s: %v", event, err)
	}
}

// Activate requests the latest and the full sweep collections concurrently
// and returns immediately. A previous activation is cancelled.
func (c *Component) Activate(ctx context.Context) {
	actx, cancel := context.WithCancel(ctx)
	act := &activation{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	prev := c.current
	c.current = act
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loadLatest(actx, act)
	}()
	go func() {
		defer wg.Done()
		c.loadAll(actx, act)
	}()
	go func() {
		wg.Wait()
		cancel()
		close(act.done)
	}()
}

// Deactivate cancels in-flight requests; their late responses are discarded.
func (c *Component) Deactivate() {
	c.mu.Lock()
	act := c.current
	c.current = nil
	c.mu.Unlock()

	if act != nil {
		act.cancel()
	}
}

// Wait blocks until both requests of the current activation have settled,
// successfully or not.
func (c *Component) Wait(ctx context.Context) error {
	c.mu.Lock()
	act := c.current
	c.mu.Unlock()

	if act == nil {
		return nil
	}
	select {
	case <-act.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Component) loadLatest(ctx context.Context, act *activation) {
	sweeps, err := c.backend.FetchLatestSweep(ctx)
	if err != nil {
		c.fetchFailed(ctx, "latest", err)
		return
	}

	c.mu.Lock()
	if c.current != act {
		c.mu.Unlock()
		return
	}
	for i := range sweeps {
		sweeps[i].NormalizeTimestamps()
	}
	c.latest = sweeps
	// An empty subset keeps whatever list is on display.
	if len(sweeps) > 0 {
		c.visible = c.latest
	}
	c.mu.Unlock()

	c.emit(EventLatestLoaded, len(sweeps))
}

func (c *Component) loadAll(ctx context.Context, act *activation) {
	sweeps, err := c.backend.FetchAllSweeps(ctx)
	if err != nil {
		c.fetchFailed(ctx, "all", err)
		return
	}

	c.mu.Lock()
	if c.current != act {
		c.mu.Unlock()
		return
	}
	c.all = sweeps
	// The normalization here targets the latest buffer, not the records just
	// received; records of the full listing keep their wire timestamps.
	for i := range c.latest {
		c.latest[i].NormalizeTimestamps()
	}
	c.mu.Unlock()

	c.emit(EventAllLoaded, len(sweeps))
}

func (c *Component) fetchFailed(ctx context.Context, collection string, err error) {
	if ctx.Err() != nil {
		return
	}
	nuts.L.Warnf("[SweepView] Failed to fetch %s sweeps: %v", collection, err)
	c.emit(EventFetchFailed, collection, err)
}

// SetShowAll records which collection the next display change selects.
func (c *Component) SetShowAll(showAll bool) {
	c.mu.Lock()
	c.showAll = showAll
	c.mu.Unlock()
}

// OnDisplayChange puts the full listing on display when show-all is set and
// the latest subset otherwise.
func (c *Component) OnDisplayChange() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.showAll {
		c.visible = c.all
	} else {
		c.visible = c.latest
	}
}

// ShowAll reports the show-all flag.
func (c *Component) ShowAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showAll
}

// Visible returns a copy of the records on display.
func (c *Component) Visible() []models.Sweep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.visible)
}

// All returns a copy of the full listing.
func (c *Component) All() []models.Sweep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.all)
}

// Latest returns a copy of the latest subset.
func (c *Component) Latest() []models.Sweep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.latest)
}

// Find returns the displayed record with the given id.
func (c *Component) Find(id int64) (models.Sweep, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.visible {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sweep{}, false
}

// Download fetches the artifact of record and hands it to the view's saver.
func (c *Component) Download(ctx context.Context, record models.Sweep) error {
	return c.DownloadTo(ctx, record, c.saver)
}

// DownloadTo fetches the artifact of record and passes the bytes unmodified to
// saver under record.Filename.
func (c *Component) DownloadTo(ctx context.Context, record models.Sweep, saver Saver) error {
	if saver == nil {
		return errors.NewInternalError("no saver configured", nil)
	}
	if record.Filename == "" {
		return errors.NewValidationError("sweep has no file name", nil).
			WithDetails(map[string]int64{"id": record.ID})
	}

	content, err := c.backend.DownloadSweepArtifact(ctx, record.ID)
	if err != nil {
		return err
	}

	if err := saver.Save(ctx, record.Filename, content); err != nil {
		return err
	}

	c.emit(EventDownloaded, record.ID, record.Filename, len(content))
	return nil
}

func clone(sweeps []models.Sweep) []models.Sweep {
	out := make([]models.Sweep, len(sweeps))
	copy(out, sweeps)
	return out
}
