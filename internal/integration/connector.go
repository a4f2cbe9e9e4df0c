package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/pkg/random"
	"go.uber.org/zap"
)

// Default latencies of the simulated calendar provider
const (
	DefaultConnectDelay = 2 * time.Second
	DefaultSyncDelay    = 1500 * time.Millisecond
	DefaultSchedule     = "@every 15m"
)

var (
	ErrNotConnected     = errors.New("calendar is not connected")
	ErrBusy             = errors.New("another calendar operation is in progress")
	ErrAlreadyConnected = errors.New("calendar is already connected")
	ErrDisconnected     = errors.New("calendar was disconnected during the operation")
)

// AppointmentLister provides the appointments exported on sync
type AppointmentLister interface {
	All() []appointment.Appointment
}

// Options configures a Connector
type Options struct {
	ConnectDelay     time.Duration
	SyncDelay        time.Duration
	DelayJitter      float64 // ±percent applied to both delays
	AutoSync         bool
	AutoSyncSchedule string
	ExportFile       string
	Location         *time.Location
}

// Status is a snapshot of the connector state
type Status struct {
	Connected  bool       `json:"connected"`
	Busy       bool       `json:"busy"`
	AutoSync   bool       `json:"auto_sync"`
	LastSync   *time.Time `json:"last_sync,omitempty"`
	ExportFile string     `json:"export_file,omitempty"`
}

// Connector simulates an external calendar account.
// Connect and Sync take a simulated latency; Sync exports the appointment book
// as an iCalendar file.
type Connector struct {
	mu        sync.RWMutex
	opts      Options
	book      AppointmentLister
	logger    *zap.Logger
	connected bool
	busy      bool
	autoSync  bool
	lastSync  time.Time
	scheduler *cron.Cron
	cancel    context.CancelFunc
	// opCancel aborts the in-flight Connect or Sync
	opCancel   context.CancelFunc
	generation uint64
}

// NewConnector creates a disconnected connector
func NewConnector(opts Options, book AppointmentLister, logger *zap.Logger) *Connector {
	if opts.ConnectDelay < 0 {
		opts.ConnectDelay = 0
	}
	if opts.SyncDelay < 0 {
		opts.SyncDelay = 0
	}
	if opts.AutoSyncSchedule == "" {
		opts.AutoSyncSchedule = DefaultSchedule
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Connector{
		opts:     opts,
		book:     book,
		logger:   logger,
		autoSync: opts.AutoSync,
	}
}

// Status returns the current connector state
func (c *Connector) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Status{
		Connected:  c.connected,
		Busy:       c.busy,
		AutoSync:   c.autoSync,
		ExportFile: c.opts.ExportFile,
	}
	if !c.lastSync.IsZero() {
		last := c.lastSync
		st.LastSync = &last
	}
	return st
}

// begin marks the connector busy; it fails if another operation runs.
// The returned context is cancelled by Disconnect, and gen identifies the
// connection the operation started under.
func (c *Connector) begin(ctx context.Context, needConnected bool) (context.Context, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return nil, 0, ErrBusy
	}
	if needConnected && !c.connected {
		return nil, 0, ErrNotConnected
	}
	if !needConnected && c.connected {
		return nil, 0, ErrAlreadyConnected
	}

	opCtx, cancel := context.WithCancel(ctx)
	c.busy = true
	c.opCancel = cancel
	return opCtx, c.generation, nil
}

func (c *Connector) end() {
	c.mu.Lock()
	cancel := c.opCancel
	c.busy = false
	c.opCancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// current reports whether no Disconnect happened since gen was issued.
// Callers hold c.mu.
func (c *Connector) current(gen uint64) bool {
	return c.generation == gen
}

// wait sleeps for d unless ctx is cancelled first
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Connect links the calendar account. A successful connect counts as a sync.
func (c *Connector) Connect(ctx context.Context) error {
	opCtx, gen, err := c.begin(ctx, false)
	if err != nil {
		return err
	}
	defer c.end()

	delay := random.Jitter(c.opts.ConnectDelay, c.opts.DelayJitter)
	c.logger.Info("Connecting calendar", zap.Duration("delay", delay))

	if err := wait(opCtx, delay); err != nil {
		if c.disconnectedSince(gen) {
			return fmt.Errorf("connect aborted: %w", ErrDisconnected)
		}
		return fmt.Errorf("connect cancelled: %w", err)
	}

	now := time.Now()
	c.mu.Lock()
	if !c.current(gen) {
		c.mu.Unlock()
		return fmt.Errorf("connect aborted: %w", ErrDisconnected)
	}
	c.connected = true
	c.lastSync = now
	autoSync := c.autoSync
	c.mu.Unlock()

	c.logger.Info("Calendar connected", zap.Time("last_sync", now))

	if autoSync {
		if err := c.startScheduler(); err != nil {
			c.logger.Warn("Auto-sync not started", zap.Error(err))
		}
	}

	return nil
}

func (c *Connector) disconnectedSince(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.current(gen)
}

// Sync exports the appointment book and records the sync time
func (c *Connector) Sync(ctx context.Context) error {
	opCtx, gen, err := c.begin(ctx, true)
	if err != nil {
		return err
	}
	defer c.end()

	start := time.Now()
	delay := random.Jitter(c.opts.SyncDelay, c.opts.DelayJitter)
	c.logger.Info("Syncing calendar", zap.Duration("delay", delay))

	if err := wait(opCtx, delay); err != nil {
		if c.disconnectedSince(gen) {
			return fmt.Errorf("sync aborted: %w", ErrDisconnected)
		}
		return fmt.Errorf("sync cancelled: %w", err)
	}
	if c.disconnectedSince(gen) {
		return fmt.Errorf("sync aborted: %w", ErrDisconnected)
	}

	exported := 0
	if c.opts.ExportFile != "" && c.book != nil {
		items := c.book.All()
		if err := WriteICSFile(c.opts.ExportFile, items, c.opts.Location); err != nil {
			return fmt.Errorf("failed to export appointments: %w", err)
		}
		exported = len(items)
	}

	now := time.Now()
	c.mu.Lock()
	if !c.current(gen) {
		c.mu.Unlock()
		return fmt.Errorf("sync aborted: %w", ErrDisconnected)
	}
	c.lastSync = now
	c.mu.Unlock()

	c.logger.Info("Calendar synced",
		zap.Int("appointments", exported),
		zap.String("file", c.opts.ExportFile),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// Disconnect unlinks the account and restores the default auto-sync setting.
// An operation still in flight is cancelled and will not commit.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	c.generation++
	c.connected = false
	c.autoSync = c.opts.AutoSync
	c.lastSync = time.Time{}
	opCancel := c.opCancel
	scheduler, cancel := c.detachScheduler()
	c.mu.Unlock()

	if opCancel != nil {
		opCancel()
	}
	c.haltScheduler(scheduler, cancel)

	c.logger.Info("Calendar disconnected")
}

// SetAutoSync toggles periodic syncing while connected
func (c *Connector) SetAutoSync(enabled bool) error {
	c.mu.Lock()
	c.autoSync = enabled
	c.mu.Unlock()

	if enabled {
		return c.startScheduler()
	}
	c.stopScheduler()
	return nil
}

// startScheduler starts auto-sync; it does nothing while disconnected
func (c *Connector) startScheduler() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scheduler != nil || !c.connected {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	scheduler := cron.New(cron.WithLocation(c.opts.Location))
	_, err := scheduler.AddFunc(c.opts.AutoSyncSchedule, func() {
		err := c.Sync(runCtx)
		if err != nil && !errors.Is(err, ErrBusy) && !errors.Is(err, ErrDisconnected) && !errors.Is(err, ErrNotConnected) {
			c.logger.Error("Auto-sync failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid auto-sync schedule %q: %w", c.opts.AutoSyncSchedule, err)
	}

	scheduler.Start()
	c.scheduler = scheduler
	c.cancel = cancel

	c.logger.Info("Auto-sync started", zap.String("schedule", c.opts.AutoSyncSchedule))
	return nil
}

// detachScheduler takes the running scheduler out of c. Callers hold c.mu.
func (c *Connector) detachScheduler() (*cron.Cron, context.CancelFunc) {
	scheduler, cancel := c.scheduler, c.cancel
	c.scheduler = nil
	c.cancel = nil
	return scheduler, cancel
}

// haltScheduler stops a detached scheduler and waits for a running job to finish
func (c *Connector) haltScheduler(scheduler *cron.Cron, cancel context.CancelFunc) {
	if scheduler == nil {
		return
	}
	cancel()
	<-scheduler.Stop().Done()

	c.logger.Info("Auto-sync stopped")
}

func (c *Connector) stopScheduler() {
	c.mu.Lock()
	scheduler, cancel := c.detachScheduler()
	c.mu.Unlock()

	c.haltScheduler(scheduler, cancel)
}

// Scheduled reports whether auto-sync is currently scheduled
func (c *Connector) Scheduled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scheduler != nil
}
